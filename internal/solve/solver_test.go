package solve

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linkedgames/internal/browser"
	"linkedgames/internal/games"
	"linkedgames/internal/wait"
)

func testSolver(t *testing.T) *Solver {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ResultsDir = t.TempDir()
	return New(browser.DefaultConfig(), cfg, zap.NewNop())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"navigation", fmt.Errorf("%w: boom", browser.ErrNavigation), FailNavigation},
		{"frame", fmt.Errorf("%w: iframe", browser.ErrFrameNotFound), FailFrame},
		{"start control", fmt.Errorf("%w: button", browser.ErrStartControl), FailStartControl},
		{"wait deadline", wait.ErrDeadline, FailTimeout},
		{"context deadline", context.DeadlineExceeded, FailTimeout},
		{"decode", &games.DecodeError{Game: games.Queens, Field: "gridSize", Reason: "zero"}, FailDecode},
		{"launch failure", errors.New("launch chrome: not found"), FailNavigation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serr := classify(games.Queens, tt.err)
			assert.Equal(t, tt.want, serr.Kind)
			assert.Equal(t, games.Queens, serr.Game)
			assert.ErrorIs(t, serr, tt.err)
		})
	}
}

func TestSolveAllKeepsOrderAndIsolatesFailures(t *testing.T) {
	s := testSolver(t)
	s.solveGame = func(ctx context.Context, game games.Game, timeout time.Duration) (games.Solution, error) {
		switch game {
		case games.Pinpoint:
			return &games.PinpointSolution{
				SolutionMeta: games.SolutionMeta{Game: game, ExtractedAt: time.Now()},
				Words:        []string{"ok"},
				Answer:       "ok",
			}, nil
		case games.Queens:
			return nil, classify(game, fmt.Errorf("%w: no iframe", browser.ErrFrameNotFound))
		default:
			return nil, classify(game, wait.ErrDeadline)
		}
	}

	requested := games.All()
	bundle := s.SolveAll(context.Background(), requested)

	require.Len(t, bundle.Results, len(requested))
	for i, r := range bundle.Results {
		assert.Equal(t, requested[i], r.Game, "results must stay in request order")
	}

	byGame := map[games.Game]Result{}
	for _, r := range bundle.Results {
		byGame[r.Game] = r
	}
	assert.True(t, byGame[games.Pinpoint].Solved())
	require.NotNil(t, byGame[games.Queens].Failure)
	assert.Equal(t, FailFrame, byGame[games.Queens].Failure.Kind)
	require.NotNil(t, byGame[games.Tango].Failure)
	assert.Equal(t, FailTimeout, byGame[games.Tango].Failure.Kind)
	assert.NotEmpty(t, bundle.RunID)
	assert.False(t, bundle.RunAt.IsZero())
}

func TestSolveUnknownGame(t *testing.T) {
	s := testSolver(t)
	_, err := s.Solve(context.Background(), games.Game("chess"))
	var serr *SolveError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, games.Game("chess"), serr.Game)
}
