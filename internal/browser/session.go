// Package browser owns the headless Chrome session and the per-game driving
// steps needed before solution traffic appears.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"linkedgames/internal/wait"
)

// Driver-stage failures. Each terminal prepare state maps to exactly one of
// these so callers can classify without string matching.
var (
	ErrNavigation    = errors.New("browser: navigation failed")
	ErrFrameNotFound = errors.New("browser: game frame not found")
	ErrStartControl  = errors.New("browser: start control missing")
)

// Config holds browser configuration.
type Config struct {
	// Bin is the Chrome binary to launch. Empty means let the launcher
	// resolve one.
	Bin string `yaml:"bin"`
	// DebuggerURL attaches to an already-running Chrome instead of
	// launching one.
	DebuggerURL         string `yaml:"debugger_url"`
	Headless            bool   `yaml:"headless"`
	UserDataDir         string `yaml:"user_data_dir"`
	NavigationTimeoutMs int    `yaml:"navigation_timeout_ms"`
	ElementTimeoutMs    int    `yaml:"element_timeout_ms"`
	PollIntervalMs      int    `yaml:"poll_interval_ms"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:            true,
		NavigationTimeoutMs: 30000,
		ElementTimeoutMs:    10000,
		PollIntervalMs:      250,
	}
}

// NavigationTimeout returns the page-load budget.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// ElementTimeout returns the budget for locating a single element.
func (c Config) ElementTimeout() time.Duration {
	if c.ElementTimeoutMs == 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ElementTimeoutMs) * time.Millisecond
}

// PollInterval returns the DOM polling interval.
func (c Config) PollInterval() time.Duration {
	if c.PollIntervalMs == 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Session is one exclusive browser context: a launched (or attached) Chrome
// with a single page. A session belongs to exactly one solve call; it is
// acquired at call entry and must be closed on every exit path.
type Session struct {
	id       string
	cfg      Config
	logger   *zap.Logger
	launcher *launcher.Launcher // nil when attached to an external browser
	browser  *rod.Browser
	page     *rod.Page
}

// NewSession launches Chrome (or attaches to cfg.DebuggerURL) and opens a
// blank page ready for navigation.
func NewSession(ctx context.Context, cfg Config, logger *zap.Logger) (*Session, error) {
	s := &Session{
		id:     uuid.NewString(),
		cfg:    cfg,
		logger: logger,
	}

	controlURL := cfg.DebuggerURL
	if controlURL == "" {
		l := launcher.New().Headless(cfg.Headless)
		if cfg.Bin != "" {
			l = l.Bin(cfg.Bin)
		}
		if cfg.UserDataDir != "" {
			l = l.Set(flags.UserDataDir, cfg.UserDataDir)
		}
		// Same flags the game site tolerates in CI containers.
		l = l.Set(flags.NoSandbox).Set("disable-dev-shm-usage")

		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		s.launcher = l
		controlURL = url
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		s.cleanupLauncher()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	s.browser = b

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = b.Close()
		s.cleanupLauncher()
		return nil, fmt.Errorf("create page: %w", err)
	}
	s.page = page

	s.logger.Debug("browser session ready",
		zap.String("id", s.id), zap.Bool("headless", cfg.Headless))
	return s, nil
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Page returns the session's page, e.g. for attaching a traffic recorder.
func (s *Session) Page() *rod.Page { return s.page }

// Navigate loads url and waits for the document to finish loading, polling
// readyState with bounded retries rather than blocking once.
func (s *Session) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx)
	if err := page.Timeout(s.cfg.NavigationTimeout()).Navigate(url); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}

	err := wait.Until(ctx, s.cfg.PollInterval(), s.cfg.NavigationTimeout(), func() (bool, error) {
		res, err := page.Eval(`() => document.readyState`)
		if err != nil {
			// The page may be mid-swap between documents; keep polling.
			return false, nil
		}
		return res.Value.Str() == "complete", nil
	})
	if err != nil {
		return fmt.Errorf("%w: %s never reached readyState=complete: %v", ErrNavigation, url, err)
	}
	s.logger.Debug("page loaded", zap.String("url", url))
	return nil
}

// GameFrame locates the iframe hosting the game client and returns it as a
// page scope for further element lookups.
func (s *Session) GameFrame(ctx context.Context, selector string) (*rod.Page, error) {
	page := s.page.Context(ctx)
	var frame *rod.Page

	err := wait.Until(ctx, s.cfg.PollInterval(), s.cfg.ElementTimeout(), func() (bool, error) {
		has, el, err := page.Has(selector)
		if err != nil || !has {
			return false, nil
		}
		f, err := el.Frame()
		if err != nil {
			return false, nil
		}
		frame = f
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFrameNotFound, selector, err)
	}
	return frame, nil
}

// Click finds selector inside scope with a bounded wait and clicks it.
func (s *Session) Click(ctx context.Context, scope *rod.Page, selector string) error {
	scope = scope.Context(ctx)
	var target *rod.Element

	err := wait.Until(ctx, s.cfg.PollInterval(), s.cfg.ElementTimeout(), func() (bool, error) {
		has, el, err := scope.Has(selector)
		if err != nil || !has {
			return false, nil
		}
		target = el
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("element %s not found: %w", selector, err)
	}
	if err := target.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// Close releases the page, the browser connection, and the launched Chrome
// process. Safe to call on a partially failed session.
func (s *Session) Close() error {
	var err error
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	s.cleanupLauncher()
	s.logger.Debug("browser session closed", zap.String("id", s.id))
	return err
}

func (s *Session) cleanupLauncher() {
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
}
