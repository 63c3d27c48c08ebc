package solve

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linkedgames/internal/browser"
	"linkedgames/internal/games"
)

func sampleBundle(at time.Time) Bundle {
	return Bundle{
		RunID: "run-1",
		RunAt: at,
		Results: []Result{
			{
				Game: games.Pinpoint,
				Solution: &games.PinpointSolution{
					SolutionMeta: games.SolutionMeta{Game: games.Pinpoint, ExtractedAt: at},
					Words:        []string{"apple", "pear"},
					Answer:       "apple",
				},
			},
			{
				Game:    games.Queens,
				Failure: &Failure{Kind: FailTimeout, Detail: "no traffic"},
			},
		},
	}
}

func TestWriteBundle(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.ResultsDir = dir
	s := New(browser.DefaultConfig(), cfg, zap.NewNop())

	at := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	path, err := s.WriteBundle(sampleBundle(at))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2025-06-01T09-30-00-run-1.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		RunID   string `json:"run_id"`
		Results []struct {
			Game     string          `json:"game"`
			Solution json.RawMessage `json:"solution"`
			Failure  *Failure        `json:"failure"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	require.Len(t, decoded.Results, 2)
	assert.Equal(t, "pinpoint", decoded.Results[0].Game)
	assert.NotNil(t, decoded.Results[0].Solution)
	assert.Nil(t, decoded.Results[0].Failure)
	require.NotNil(t, decoded.Results[1].Failure)
	assert.Equal(t, FailTimeout, decoded.Results[1].Failure.Kind)

	// No temp staging files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2025-06-01T09-30-00-run-1.json", entries[0].Name())
}

func TestWriteBundleSameSecondRunsDoNotCollide(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.ResultsDir = dir
	s := New(browser.DefaultConfig(), cfg, zap.NewNop())

	at := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	first := sampleBundle(at)
	second := sampleBundle(at)
	second.RunID = "run-2"

	firstPath, err := s.WriteBundle(first)
	require.NoError(t, err)
	secondPath, err := s.WriteBundle(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstPath, secondPath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "each run keeps its own artifact")
}

func TestWriteBundlePersistError(t *testing.T) {
	dir := t.TempDir()

	// Occupy the results dir path with a regular file so MkdirAll fails.
	blocked := filepath.Join(dir, "results")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	cfg := DefaultConfig()
	cfg.ResultsDir = blocked
	s := New(browser.DefaultConfig(), cfg, zap.NewNop())

	_, err := s.WriteBundle(sampleBundle(time.Now()))
	var perr *PersistError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Path, blocked)
}
