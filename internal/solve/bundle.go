package solve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"linkedgames/internal/games"
)

// Failure is the serialized form of a per-game error.
type Failure struct {
	Kind   FailureKind `json:"kind"`
	Detail string      `json:"detail"`
}

// Result is the outcome of one solve attempt: exactly one of Solution or
// Failure is set. Immutable once created.
type Result struct {
	Game     games.Game     `json:"game"`
	Solution games.Solution `json:"solution,omitempty"`
	Failure  *Failure       `json:"failure,omitempty"`
}

// Solved reports whether the attempt produced a solution.
func (r Result) Solved() bool { return r.Solution != nil }

// Bundle is the complete set of per-game outcomes for one run: one Result
// per requested game, in request order.
type Bundle struct {
	RunID   string    `json:"run_id"`
	RunAt   time.Time `json:"run_at"`
	Results []Result  `json:"results"`
}

// SolveAll attempts each requested game sequentially, one browser flow at a
// time. A failure is recorded as that game's outcome and iteration
// continues; the returned bundle always holds exactly one result per
// requested game.
func (s *Solver) SolveAll(ctx context.Context, requested []games.Game) Bundle {
	bundle := Bundle{
		RunID:   uuid.NewString(),
		RunAt:   time.Now(),
		Results: make([]Result, 0, len(requested)),
	}

	for _, game := range requested {
		solution, err := s.SolveWithTimeout(ctx, game, s.cfg.Timeout())
		if err != nil {
			failure := &Failure{Kind: FailTimeout, Detail: err.Error()}
			var serr *SolveError
			if errors.As(err, &serr) {
				failure.Kind = serr.Kind
				failure.Detail = serr.Err.Error()
			}
			s.logger.Warn("game failed",
				zap.String("game", game.String()),
				zap.String("kind", string(failure.Kind)))
			bundle.Results = append(bundle.Results, Result{Game: game, Failure: failure})
			continue
		}
		bundle.Results = append(bundle.Results, Result{Game: game, Solution: solution})
	}
	return bundle
}

// WriteBundle persists the bundle as one JSON artifact named after the run
// timestamp and run id. The id suffix keeps runs started within the same
// second from renaming over each other. The write is atomic: the bundle is
// staged to a temp file and renamed into place, so a failed write never
// leaves a partial artifact. Returns the written path, or a *PersistError
// without discarding the in-memory bundle.
func (s *Solver) WriteBundle(bundle Bundle) (string, error) {
	name := fmt.Sprintf("%s-%s.json", bundle.RunAt.Format("2006-01-02T15-04-05"), bundle.RunID)
	path := filepath.Join(s.cfg.ResultsDir, name)

	if err := os.MkdirAll(s.cfg.ResultsDir, 0o755); err != nil {
		return "", &PersistError{Path: path, Err: fmt.Errorf("create results dir: %w", err)}
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", &PersistError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(s.cfg.ResultsDir, ".bundle-*.json")
	if err != nil {
		return "", &PersistError{Path: path, Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", &PersistError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", &PersistError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", &PersistError{Path: path, Err: err}
	}

	s.logger.Info("results written", zap.String("path", path),
		zap.Int("games", len(bundle.Results)))
	return path, nil
}
