package games

import "time"

// Solution is the normalized decoded answer for one game. Every variant
// carries the game it belongs to and the extraction timestamp.
type Solution interface {
	GameID() Game
	Extracted() time.Time
}

// SolutionMeta is embedded by every solution variant.
type SolutionMeta struct {
	Game        Game      `json:"game"`
	ExtractedAt time.Time `json:"extracted_at"`
}

func (m SolutionMeta) GameID() Game         { return m.Game }
func (m SolutionMeta) Extracted() time.Time { return m.ExtractedAt }

// Cell is a grid coordinate, zero-based, row-major.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PinpointSolution holds the ordered candidate words; the first candidate is
// the official answer.
type PinpointSolution struct {
	SolutionMeta
	Words  []string `json:"words"`
	Answer string   `json:"answer"`
}

// CrossClimbRung is one word of the ladder at its position in the climb.
type CrossClimbRung struct {
	Index int    `json:"index"`
	Word  string `json:"word"`
}

// CrossClimbSolution holds the rungs sorted into climb order.
type CrossClimbSolution struct {
	SolutionMeta
	Rungs []CrossClimbRung `json:"rungs"`
}

// QueensSolution holds one queen per row/column of an N×N board plus the
// color-region layout the puzzle is built on.
type QueensSolution struct {
	SolutionMeta
	GridSize int     `json:"grid_size"`
	Queens   []Cell  `json:"queens"`
	Regions  [][]int `json:"regions"`
}

// ZipSolution holds the solved path through the grid. Sequence is the
// checkpoint order as published by the upstream puzzle; Path is the full
// cell-by-cell walk.
type ZipSolution struct {
	SolutionMeta
	GridSize int    `json:"grid_size"`
	Sequence []int  `json:"sequence"`
	Path     []Cell `json:"path"`
}

// TangoConstraint is one sign between two cells (referenced by row-major
// index into the grid).
type TangoConstraint struct {
	First  int    `json:"first"`
	Second int    `json:"second"`
	Sign   string `json:"sign"`
}

// TangoSolution holds the filled N×N two-symbol grid (1 for ONE, 0 for ZERO)
// and the constraint pairs that applied.
type TangoSolution struct {
	SolutionMeta
	GridSize    int               `json:"grid_size"`
	Cells       [][]int           `json:"cells"`
	Constraints []TangoConstraint `json:"constraints"`
}

// MiniSudokuSolution holds the completed N×N digit grid.
type MiniSudokuSolution struct {
	SolutionMeta
	Title       string  `json:"title"`
	GridSize    int     `json:"grid_size"`
	Grid        [][]int `json:"grid"`
	PresetCells []int   `json:"preset_cells"`
}
