package games

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var testAt = time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

// body wraps a gamePuzzle fragment in the voyager envelope.
func body(puzzle string) []byte {
	return []byte(`{"included":[{"gamePuzzle":{` + puzzle + `}}]}`)
}

func requireDecodeError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	derr, ok := err.(*DecodeError)
	require.True(t, ok, "expected *DecodeError, got %T: %v", err, err)
	require.Equal(t, field, derr.Field)
}

func TestDecodePinpoint(t *testing.T) {
	sol, err := decodePinpoint(body(`"blueprintGamePuzzle":{"solutions":["cheese","cheddar","brie"]}`), testAt)
	require.NoError(t, err)

	want := &PinpointSolution{
		SolutionMeta: SolutionMeta{Game: Pinpoint, ExtractedAt: testAt},
		Words:        []string{"cheese", "cheddar", "brie"},
		Answer:       "cheese",
	}
	if diff := cmp.Diff(want, sol); diff != "" {
		t.Errorf("solution mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePinpointMalformed(t *testing.T) {
	tests := []struct {
		name  string
		body  []byte
		field string
	}{
		{"not json", []byte("<html>"), "(body)"},
		{"no included", []byte(`{"data":{}}`), "included"},
		{"wrong variant", body(`"queensGamePuzzle":{"gridSize":2}`), "blueprintGamePuzzle"},
		{"empty solutions", body(`"blueprintGamePuzzle":{"solutions":[]}`), "blueprintGamePuzzle.solutions"},
		{"empty word", body(`"blueprintGamePuzzle":{"solutions":["a",""]}`), "blueprintGamePuzzle.solutions[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodePinpoint(tt.body, testAt)
			requireDecodeError(t, err, tt.field)
		})
	}
}

func TestDecodeCrossClimbSortsRungs(t *testing.T) {
	raw := body(`"crossClimbGamePuzzle":{"rungs":[
		{"word":"care","solutionRungIndex":2},
		{"word":"cart","solutionRungIndex":0},
		{"word":"card","solutionRungIndex":1}]}`)
	sol, err := decodeCrossClimb(raw, testAt)
	require.NoError(t, err)

	want := &CrossClimbSolution{
		SolutionMeta: SolutionMeta{Game: CrossClimb, ExtractedAt: testAt},
		Rungs: []CrossClimbRung{
			{Index: 0, Word: "cart"},
			{Index: 1, Word: "card"},
			{Index: 2, Word: "care"},
		},
	}
	if diff := cmp.Diff(want, sol); diff != "" {
		t.Errorf("solution mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCrossClimbMalformed(t *testing.T) {
	tests := []struct {
		name  string
		body  []byte
		field string
	}{
		{"no rungs", body(`"crossClimbGamePuzzle":{"rungs":[]}`), "crossClimbGamePuzzle.rungs"},
		{"empty word", body(`"crossClimbGamePuzzle":{"rungs":[{"word":"","solutionRungIndex":0}]}`), "rungs[0].word"},
		{"duplicate index", body(`"crossClimbGamePuzzle":{"rungs":[
			{"word":"cart","solutionRungIndex":0},
			{"word":"card","solutionRungIndex":0}]}`), "rungs[1].solutionRungIndex"},
		{"negative index", body(`"crossClimbGamePuzzle":{"rungs":[{"word":"cart","solutionRungIndex":-1}]}`), "rungs[0].solutionRungIndex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeCrossClimb(tt.body, testAt)
			requireDecodeError(t, err, tt.field)
		})
	}
}

func TestDecodeQueens(t *testing.T) {
	raw := body(`"queensGamePuzzle":{
		"gridSize":2,
		"solution":[{"row":0,"col":1},{"row":1,"col":0}],
		"colorGrid":[{"colors":[0,0]},{"colors":[1,0]}]}`)
	sol, err := decodeQueens(raw, testAt)
	require.NoError(t, err)

	want := &QueensSolution{
		SolutionMeta: SolutionMeta{Game: Queens, ExtractedAt: testAt},
		GridSize:     2,
		Queens:       []Cell{{Row: 0, Col: 1}, {Row: 1, Col: 0}},
		Regions:      [][]int{{0, 0}, {1, 0}},
	}
	if diff := cmp.Diff(want, sol); diff != "" {
		t.Errorf("solution mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeQueensMalformed(t *testing.T) {
	tests := []struct {
		name  string
		body  []byte
		field string
	}{
		{
			"queen count",
			body(`"queensGamePuzzle":{"gridSize":2,"solution":[{"row":0,"col":0}],"colorGrid":[{"colors":[0,0]},{"colors":[1,0]}]}`),
			"queensGamePuzzle.solution",
		},
		{
			"two queens in one row",
			body(`"queensGamePuzzle":{"gridSize":2,"solution":[{"row":0,"col":0},{"row":0,"col":1}],"colorGrid":[{"colors":[0,0]},{"colors":[1,0]}]}`),
			"queensGamePuzzle.solution[1].row",
		},
		{
			"two queens in one column",
			body(`"queensGamePuzzle":{"gridSize":2,"solution":[{"row":0,"col":0},{"row":1,"col":0}],"colorGrid":[{"colors":[0,0]},{"colors":[1,0]}]}`),
			"queensGamePuzzle.solution[1].col",
		},
		{
			"queen off board",
			body(`"queensGamePuzzle":{"gridSize":2,"solution":[{"row":0,"col":0},{"row":1,"col":5}],"colorGrid":[{"colors":[0,0]},{"colors":[1,0]}]}`),
			"queensGamePuzzle.solution[1]",
		},
		{
			"non-square color grid",
			body(`"queensGamePuzzle":{"gridSize":2,"solution":[{"row":0,"col":1},{"row":1,"col":0}],"colorGrid":[{"colors":[0,0]},{"colors":[1]}]}`),
			"queensGamePuzzle.colorGrid[1].colors",
		},
		{
			"missing grid size",
			body(`"queensGamePuzzle":{"solution":[{"row":0,"col":1}],"colorGrid":[]}`),
			"queensGamePuzzle.gridSize",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeQueens(tt.body, testAt)
			requireDecodeError(t, err, tt.field)
		})
	}
}

func TestDecodeZip(t *testing.T) {
	raw := body(`"trailGamePuzzle":{
		"gridSize":2,
		"orderedSequence":[0,3],
		"solution":[0,1,3,2]}`)
	sol, err := decodeZip(raw, testAt)
	require.NoError(t, err)

	want := &ZipSolution{
		SolutionMeta: SolutionMeta{Game: Zip, ExtractedAt: testAt},
		GridSize:     2,
		Sequence:     []int{0, 3},
		Path:         []Cell{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
	}
	if diff := cmp.Diff(want, sol); diff != "" {
		t.Errorf("solution mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeZipMalformed(t *testing.T) {
	tests := []struct {
		name  string
		body  []byte
		field string
	}{
		{"missing solution", body(`"trailGamePuzzle":{"gridSize":2,"orderedSequence":[0]}`), "trailGamePuzzle.solution"},
		{"cell out of range", body(`"trailGamePuzzle":{"gridSize":2,"solution":[0,4]}`), "trailGamePuzzle.solution[1]"},
		{"sequence out of range", body(`"trailGamePuzzle":{"gridSize":2,"solution":[0,1],"orderedSequence":[9]}`), "trailGamePuzzle.orderedSequence[0]"},
		{"bad grid size", body(`"trailGamePuzzle":{"gridSize":0,"solution":[0]}`), "trailGamePuzzle.gridSize"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeZip(tt.body, testAt)
			requireDecodeError(t, err, tt.field)
		})
	}
}

func TestDecodeTango(t *testing.T) {
	raw := body(`"lotkaGamePuzzle":{
		"solution":["ONE","ZERO","ZERO","ONE"],
		"signs":[{"first":0,"second":1,"sign":"CROSS"}]}`)
	sol, err := decodeTango(raw, testAt)
	require.NoError(t, err)

	want := &TangoSolution{
		SolutionMeta: SolutionMeta{Game: Tango, ExtractedAt: testAt},
		GridSize:     2,
		Cells:        [][]int{{1, 0}, {0, 1}},
		Constraints:  []TangoConstraint{{First: 0, Second: 1, Sign: "CROSS"}},
	}
	if diff := cmp.Diff(want, sol); diff != "" {
		t.Errorf("solution mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTangoNoSigns(t *testing.T) {
	sol, err := decodeTango(body(`"lotkaGamePuzzle":{"solution":["ZERO","ONE","ONE","ZERO"]}`), testAt)
	require.NoError(t, err)
	tango := sol.(*TangoSolution)
	require.Empty(t, tango.Constraints)
	require.Equal(t, [][]int{{0, 1}, {1, 0}}, tango.Cells)
}

func TestDecodeTangoMalformed(t *testing.T) {
	tests := []struct {
		name  string
		body  []byte
		field string
	}{
		{"empty solution", body(`"lotkaGamePuzzle":{"solution":[]}`), "lotkaGamePuzzle.solution"},
		{"not square", body(`"lotkaGamePuzzle":{"solution":["ONE","ZERO","ONE"]}`), "lotkaGamePuzzle.solution"},
		{"unknown symbol", body(`"lotkaGamePuzzle":{"solution":["ONE","TWO","ONE","ZERO"]}`), "lotkaGamePuzzle.solution[1]"},
		{"sign out of range", body(`"lotkaGamePuzzle":{"solution":["ONE","ZERO","ZERO","ONE"],"signs":[{"first":0,"second":9,"sign":"CROSS"}]}`), "lotkaGamePuzzle.signs[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeTango(tt.body, testAt)
			requireDecodeError(t, err, tt.field)
		})
	}
}

func TestDecodeMiniSudoku(t *testing.T) {
	raw := body(`"miniSudokuGamePuzzle":{
		"name":"Mini Sudoku #42",
		"gridRowSize":2,
		"solution":[1,2,2,1],
		"presetCellIdxes":[0,3]}`)
	sol, err := decodeMiniSudoku(raw, testAt)
	require.NoError(t, err)

	want := &MiniSudokuSolution{
		SolutionMeta: SolutionMeta{Game: MiniSudoku, ExtractedAt: testAt},
		Title:        "Mini Sudoku #42",
		GridSize:     2,
		Grid:         [][]int{{1, 2}, {2, 1}},
		PresetCells:  []int{0, 3},
	}
	if diff := cmp.Diff(want, sol); diff != "" {
		t.Errorf("solution mismatch (-want +got):\n%s", diff)
	}
}

// The mini sudoku payload is not always the first included item; the decoder
// has to scan for its variant.
func TestDecodeMiniSudokuScansIncluded(t *testing.T) {
	raw := []byte(`{"included":[
		{"gamePuzzle":{"blueprintGamePuzzle":{"solutions":["x"]}}},
		{"gamePuzzle":{"miniSudokuGamePuzzle":{"gridRowSize":2,"solution":[1,2,2,1]}}}]}`)
	sol, err := decodeMiniSudoku(raw, testAt)
	require.NoError(t, err)
	require.Equal(t, 2, sol.(*MiniSudokuSolution).GridSize)
}

func TestDecodeMiniSudokuMalformed(t *testing.T) {
	tests := []struct {
		name  string
		body  []byte
		field string
	}{
		{"wrong cell count", body(`"miniSudokuGamePuzzle":{"gridRowSize":2,"solution":[1,2,2]}`), "miniSudokuGamePuzzle.solution"},
		{"digit out of range", body(`"miniSudokuGamePuzzle":{"gridRowSize":2,"solution":[1,2,2,3]}`), "miniSudokuGamePuzzle.solution[3]"},
		{"preset out of range", body(`"miniSudokuGamePuzzle":{"gridRowSize":2,"solution":[1,2,2,1],"presetCellIdxes":[7]}`), "miniSudokuGamePuzzle.presetCellIdxes[0]"},
		{"missing variant", body(`"lotkaGamePuzzle":{"solution":["ONE"]}`), "miniSudokuGamePuzzle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeMiniSudoku(tt.body, testAt)
			requireDecodeError(t, err, tt.field)
		})
	}
}

// A default-sized board omits gridRowSize upstream.
func TestDecodeMiniSudokuDefaultGridSize(t *testing.T) {
	cells := make([]byte, 0, 36*2)
	for i := 0; i < 36; i++ {
		if i > 0 {
			cells = append(cells, ',')
		}
		cells = append(cells, byte('1'+i%6))
	}
	raw := body(`"miniSudokuGamePuzzle":{"solution":[` + string(cells) + `]}`)
	sol, err := decodeMiniSudoku(raw, testAt)
	require.NoError(t, err)
	require.Equal(t, 6, sol.(*MiniSudokuSolution).GridSize)
}
