package solve

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"linkedgames/internal/browser"
	"linkedgames/internal/capture"
	"linkedgames/internal/games"
	"linkedgames/internal/wait"
)

// Config holds solver configuration.
type Config struct {
	// TimeoutMs is the per-game wall-clock budget covering both driver
	// preparation and the traffic wait.
	TimeoutMs int `yaml:"timeout_ms"`
	// TrafficPollMs is how often accumulated traffic is re-scanned.
	TrafficPollMs int `yaml:"traffic_poll_ms"`
	// ResultsDir receives one bundle file per run.
	ResultsDir string `yaml:"results_dir"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TimeoutMs:     30000,
		TrafficPollMs: 500,
		ResultsDir:    "results",
	}
}

// Timeout returns the per-game budget.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// TrafficPoll returns the traffic scan interval.
func (c Config) TrafficPoll() time.Duration {
	if c.TrafficPollMs == 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.TrafficPollMs) * time.Millisecond
}

// Solver runs the extraction pipeline for one game at a time. Each solve
// call owns a fresh browser session for its whole duration; nothing is
// shared between calls.
type Solver struct {
	browserCfg browser.Config
	cfg        Config
	logger     *zap.Logger

	// solveGame is swappable in tests; production wiring points at
	// (*Solver).solve.
	solveGame func(ctx context.Context, game games.Game, timeout time.Duration) (games.Solution, error)
}

// New creates a solver.
func New(browserCfg browser.Config, cfg Config, logger *zap.Logger) *Solver {
	s := &Solver{browserCfg: browserCfg, cfg: cfg, logger: logger}
	s.solveGame = s.solve
	return s
}

// Solve extracts the solution for one game using the configured timeout.
// Failures come back as *SolveError; retrying is the caller's decision.
func (s *Solver) Solve(ctx context.Context, game games.Game) (games.Solution, error) {
	return s.SolveWithTimeout(ctx, game, s.cfg.Timeout())
}

// SolveWithTimeout is Solve with a per-call budget override.
func (s *Solver) SolveWithTimeout(ctx context.Context, game games.Game, timeout time.Duration) (games.Solution, error) {
	return s.solveGame(ctx, game, timeout)
}

func (s *Solver) solve(ctx context.Context, game games.Game, timeout time.Duration) (games.Solution, error) {
	profile, ok := games.ProfileFor(game)
	if !ok {
		return nil, &SolveError{Game: game, Kind: FailNavigation, Err: fmt.Errorf("no profile for game %q", game)}
	}

	log := s.logger.With(zap.String("game", game.String()))
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	session, err := browser.NewSession(ctx, s.browserCfg, s.logger)
	if err != nil {
		return nil, classify(game, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("session close failed", zap.Error(err))
		}
	}()

	recorder := capture.NewRecorder(session.Page(), s.logger)
	defer recorder.Stop()

	driver := browser.NewDriver(session, s.logger)
	if err := driver.Prepare(ctx, profile); err != nil {
		log.Warn("driver failed", zap.String("state", driver.State().String()), zap.Error(err))
		return nil, classify(game, err)
	}

	// The start click has been issued; from here on the solution payload is
	// expected to show up in the captured traffic.
	sig := profile.Signature()
	var match capture.Exchange
	err = wait.Until(ctx, s.cfg.TrafficPoll(), time.Until(started.Add(timeout)), func() (bool, error) {
		ex, ok := capture.FindMatch(recorder.Exchanges(), sig)
		if !ok {
			return false, nil
		}
		match = ex
		return true, nil
	})
	if err != nil {
		log.Warn("no matching traffic within budget",
			zap.Int("exchanges_seen", len(recorder.Exchanges())),
			zap.Duration("elapsed", time.Since(started)))
		return nil, classify(game, err)
	}
	log.Debug("solution exchange matched", zap.String("url", match.URL))

	solution, err := profile.Decode(match.ResponseBody, time.Now())
	if err != nil {
		log.Warn("decode failed", zap.Error(err))
		return nil, classify(game, err)
	}
	log.Info("game solved", zap.Duration("elapsed", time.Since(started)))
	return solution, nil
}
