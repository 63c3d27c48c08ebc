package browser

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"linkedgames/internal/games"
)

// The games site embeds every game client in the same iframe and gates it
// behind the same start control.
const (
	gameFrameSelector   = `iframe[title="games"]`
	startButtonSelector = "#launch-footer-start-button"
)

// State is the driver's position in the common pre-traffic flow.
type State int

const (
	StateNotStarted State = iota
	StatePageLoaded
	StateFrameSelected
	StateGameStarted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StatePageLoaded:
		return "page_loaded"
	case StateFrameSelected:
		return "frame_selected"
	case StateGameStarted:
		return "game_started"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Driver walks a session through the steps shared by all games: open the
// game page, switch into the game iframe, run any profile-specific clicks,
// and activate the start control. Starting the game is what triggers the
// solution-bearing traffic, so a successful Prepare is the last driver
// action; there is no further transition to observe.
type Driver struct {
	session *Session
	logger  *zap.Logger
	state   State
}

// NewDriver creates a driver bound to one session.
func NewDriver(session *Session, logger *zap.Logger) *Driver {
	return &Driver{session: session, logger: logger}
}

// State returns the last state the driver reached. After a failed Prepare it
// names the stage that was in progress.
func (d *Driver) State() State { return d.state }

// Prepare drives the browser until the game is started or a stage fails.
// Failures are terminal for this game: ErrNavigation, ErrFrameNotFound, or
// ErrStartControl, wrapped with stage detail.
func (d *Driver) Prepare(ctx context.Context, profile games.Profile) error {
	d.state = StateNotStarted
	log := d.logger.With(zap.String("game", profile.Game.String()))

	log.Debug("navigating", zap.String("url", profile.URL))
	if err := d.session.Navigate(ctx, profile.URL); err != nil {
		return err
	}
	d.state = StatePageLoaded

	frame, err := d.session.GameFrame(ctx, gameFrameSelector)
	if err != nil {
		return err
	}
	d.state = StateFrameSelected
	log.Debug("game frame selected")

	for _, sel := range profile.ExtraClicks {
		if err := d.session.Click(ctx, frame, sel); err != nil {
			return fmt.Errorf("%w: pre-start click %s: %v", ErrStartControl, sel, err)
		}
	}
	if err := d.session.Click(ctx, frame, startButtonSelector); err != nil {
		return fmt.Errorf("%w: %v", ErrStartControl, err)
	}
	d.state = StateGameStarted
	log.Debug("game started")
	return nil
}
