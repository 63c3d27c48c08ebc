// Package solve composes the session driver, traffic filter, and decoders
// into per-game solve operations and aggregates their outcomes into a
// persisted results bundle.
package solve

import (
	"context"
	"errors"
	"fmt"

	"linkedgames/internal/browser"
	"linkedgames/internal/games"
	"linkedgames/internal/wait"
)

// FailureKind classifies why a single game could not be solved.
type FailureKind string

const (
	FailNavigation   FailureKind = "navigation"
	FailFrame        FailureKind = "frame_not_found"
	FailStartControl FailureKind = "start_control_missing"
	FailTimeout      FailureKind = "timeout"
	FailDecode       FailureKind = "decode"
)

// SolveError is the typed failure returned by Solve. One game's SolveError
// never aborts a batch; SolveAll records it as that game's outcome.
type SolveError struct {
	Game games.Game
	Kind FailureKind
	Err  error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("solve %s: %s: %v", e.Game, e.Kind, e.Err)
}

func (e *SolveError) Unwrap() error { return e.Err }

// classify maps driver, wait, and decoder errors onto the failure taxonomy.
func classify(g games.Game, err error) *SolveError {
	var kind FailureKind
	var derr *games.DecodeError
	switch {
	case errors.As(err, &derr):
		kind = FailDecode
	case errors.Is(err, browser.ErrStartControl):
		kind = FailStartControl
	case errors.Is(err, browser.ErrFrameNotFound):
		kind = FailFrame
	case errors.Is(err, browser.ErrNavigation):
		kind = FailNavigation
	case errors.Is(err, wait.ErrDeadline), errors.Is(err, context.DeadlineExceeded):
		kind = FailTimeout
	default:
		// Session acquisition and other pre-navigation failures count as
		// the navigation stage.
		kind = FailNavigation
	}
	return &SolveError{Game: g, Kind: kind, Err: err}
}

// PersistError reports that the results bundle could not be written. It is
// the one failure surfaced to the CLI as a hard error; the in-memory bundle
// survives it.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist results to %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
