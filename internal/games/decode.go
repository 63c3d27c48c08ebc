package games

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// DecodeError reports which field or invariant of a game payload was violated.
// A malformed payload never decodes into a partial solution.
type DecodeError struct {
	Game   Game
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: field %q: %s", e.Game, e.Field, e.Reason)
}

func decodeErr(g Game, field, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Game: g, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// envelope mirrors the voyager GraphQL response wrapper. Each game's payload
// sits under included[i].gamePuzzle.<variant>GamePuzzle.
type envelope struct {
	Included []struct {
		GamePuzzle *rawPuzzle `json:"gamePuzzle"`
	} `json:"included"`
}

type rawPuzzle struct {
	Blueprint  *rawBlueprint  `json:"blueprintGamePuzzle"`
	CrossClimb *rawCrossClimb `json:"crossClimbGamePuzzle"`
	Trail      *rawTrail      `json:"trailGamePuzzle"`
	Queens     *rawQueens     `json:"queensGamePuzzle"`
	Lotka      *rawLotka      `json:"lotkaGamePuzzle"`
	MiniSudoku *rawMiniSudoku `json:"miniSudokuGamePuzzle"`
}

type rawBlueprint struct {
	Solutions []string `json:"solutions"`
}

type rawCrossClimb struct {
	Rungs []struct {
		Word              string `json:"word"`
		SolutionRungIndex int    `json:"solutionRungIndex"`
	} `json:"rungs"`
}

type rawTrail struct {
	OrderedSequence []int `json:"orderedSequence"`
	Solution        []int `json:"solution"`
	GridSize        int   `json:"gridSize"`
}

type rawQueens struct {
	Solution []struct {
		Row int `json:"row"`
		Col int `json:"col"`
	} `json:"solution"`
	ColorGrid []struct {
		Colors []int `json:"colors"`
	} `json:"colorGrid"`
	GridSize int `json:"gridSize"`
}

type rawLotka struct {
	Solution []string `json:"solution"`
	Signs    []struct {
		First  int    `json:"first"`
		Second int    `json:"second"`
		Sign   string `json:"sign"`
	} `json:"signs"`
}

type rawMiniSudoku struct {
	Name            string `json:"name"`
	Solution        []int  `json:"solution"`
	GridRowSize     int    `json:"gridRowSize"`
	PresetCellIdxes []int  `json:"presetCellIdxes"`
}

// puzzles unmarshals the envelope and returns every gamePuzzle entry. The
// decoders scan these for their own variant; the mini sudoku payload in
// particular is not always the first included item.
func puzzles(g Game, body []byte) ([]*rawPuzzle, *DecodeError) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, decodeErr(g, "(body)", "not valid JSON: %v", err)
	}
	if len(env.Included) == 0 {
		return nil, decodeErr(g, "included", "missing or empty")
	}
	out := make([]*rawPuzzle, 0, len(env.Included))
	for _, item := range env.Included {
		if item.GamePuzzle != nil {
			out = append(out, item.GamePuzzle)
		}
	}
	if len(out) == 0 {
		return nil, decodeErr(g, "included[].gamePuzzle", "missing")
	}
	return out, nil
}

func decodePinpoint(body []byte, at time.Time) (Solution, error) {
	ps, derr := puzzles(Pinpoint, body)
	if derr != nil {
		return nil, derr
	}
	for _, p := range ps {
		if p.Blueprint == nil {
			continue
		}
		if len(p.Blueprint.Solutions) == 0 {
			return nil, decodeErr(Pinpoint, "blueprintGamePuzzle.solutions", "missing or empty")
		}
		for i, w := range p.Blueprint.Solutions {
			if w == "" {
				return nil, decodeErr(Pinpoint, fmt.Sprintf("blueprintGamePuzzle.solutions[%d]", i), "empty word")
			}
		}
		words := append([]string(nil), p.Blueprint.Solutions...)
		return &PinpointSolution{
			SolutionMeta: SolutionMeta{Game: Pinpoint, ExtractedAt: at},
			Words:        words,
			Answer:       words[0],
		}, nil
	}
	return nil, decodeErr(Pinpoint, "blueprintGamePuzzle", "missing")
}

func decodeCrossClimb(body []byte, at time.Time) (Solution, error) {
	ps, derr := puzzles(CrossClimb, body)
	if derr != nil {
		return nil, derr
	}
	for _, p := range ps {
		if p.CrossClimb == nil {
			continue
		}
		raw := p.CrossClimb.Rungs
		if len(raw) == 0 {
			return nil, decodeErr(CrossClimb, "crossClimbGamePuzzle.rungs", "missing or empty")
		}
		seen := make(map[int]bool, len(raw))
		rungs := make([]CrossClimbRung, 0, len(raw))
		for i, r := range raw {
			if r.Word == "" {
				return nil, decodeErr(CrossClimb, fmt.Sprintf("rungs[%d].word", i), "empty word")
			}
			if r.SolutionRungIndex < 0 {
				return nil, decodeErr(CrossClimb, fmt.Sprintf("rungs[%d].solutionRungIndex", i), "negative index %d", r.SolutionRungIndex)
			}
			if seen[r.SolutionRungIndex] {
				return nil, decodeErr(CrossClimb, fmt.Sprintf("rungs[%d].solutionRungIndex", i), "duplicate index %d", r.SolutionRungIndex)
			}
			seen[r.SolutionRungIndex] = true
			rungs = append(rungs, CrossClimbRung{Index: r.SolutionRungIndex, Word: r.Word})
		}
		sort.Slice(rungs, func(a, b int) bool { return rungs[a].Index < rungs[b].Index })
		return &CrossClimbSolution{
			SolutionMeta: SolutionMeta{Game: CrossClimb, ExtractedAt: at},
			Rungs:        rungs,
		}, nil
	}
	return nil, decodeErr(CrossClimb, "crossClimbGamePuzzle", "missing")
}

func decodeZip(body []byte, at time.Time) (Solution, error) {
	ps, derr := puzzles(Zip, body)
	if derr != nil {
		return nil, derr
	}
	for _, p := range ps {
		if p.Trail == nil {
			continue
		}
		t := p.Trail
		if t.GridSize <= 0 {
			return nil, decodeErr(Zip, "trailGamePuzzle.gridSize", "must be positive, got %d", t.GridSize)
		}
		if len(t.Solution) == 0 {
			return nil, decodeErr(Zip, "trailGamePuzzle.solution", "missing or empty")
		}
		cellCount := t.GridSize * t.GridSize
		path := make([]Cell, 0, len(t.Solution))
		for i, idx := range t.Solution {
			if idx < 0 || idx >= cellCount {
				return nil, decodeErr(Zip, fmt.Sprintf("trailGamePuzzle.solution[%d]", i), "cell index %d out of range for %d×%d grid", idx, t.GridSize, t.GridSize)
			}
			path = append(path, Cell{Row: idx / t.GridSize, Col: idx % t.GridSize})
		}
		for i, idx := range t.OrderedSequence {
			if idx < 0 || idx >= cellCount {
				return nil, decodeErr(Zip, fmt.Sprintf("trailGamePuzzle.orderedSequence[%d]", i), "cell index %d out of range", idx)
			}
		}
		return &ZipSolution{
			SolutionMeta: SolutionMeta{Game: Zip, ExtractedAt: at},
			GridSize:     t.GridSize,
			Sequence:     append([]int(nil), t.OrderedSequence...),
			Path:         path,
		}, nil
	}
	return nil, decodeErr(Zip, "trailGamePuzzle", "missing")
}

func decodeQueens(body []byte, at time.Time) (Solution, error) {
	ps, derr := puzzles(Queens, body)
	if derr != nil {
		return nil, derr
	}
	for _, p := range ps {
		if p.Queens == nil {
			continue
		}
		q := p.Queens
		if q.GridSize <= 0 {
			return nil, decodeErr(Queens, "queensGamePuzzle.gridSize", "must be positive, got %d", q.GridSize)
		}
		if len(q.Solution) != q.GridSize {
			return nil, decodeErr(Queens, "queensGamePuzzle.solution", "expected %d queens, got %d", q.GridSize, len(q.Solution))
		}
		rowSeen := make([]bool, q.GridSize)
		colSeen := make([]bool, q.GridSize)
		queens := make([]Cell, 0, len(q.Solution))
		for i, cell := range q.Solution {
			if cell.Row < 0 || cell.Row >= q.GridSize || cell.Col < 0 || cell.Col >= q.GridSize {
				return nil, decodeErr(Queens, fmt.Sprintf("queensGamePuzzle.solution[%d]", i), "cell (%d,%d) outside %d×%d grid", cell.Row, cell.Col, q.GridSize, q.GridSize)
			}
			if rowSeen[cell.Row] {
				return nil, decodeErr(Queens, fmt.Sprintf("queensGamePuzzle.solution[%d].row", i), "second queen in row %d", cell.Row)
			}
			if colSeen[cell.Col] {
				return nil, decodeErr(Queens, fmt.Sprintf("queensGamePuzzle.solution[%d].col", i), "second queen in column %d", cell.Col)
			}
			rowSeen[cell.Row] = true
			colSeen[cell.Col] = true
			queens = append(queens, Cell{Row: cell.Row, Col: cell.Col})
		}
		if len(q.ColorGrid) != q.GridSize {
			return nil, decodeErr(Queens, "queensGamePuzzle.colorGrid", "expected %d rows, got %d", q.GridSize, len(q.ColorGrid))
		}
		regions := make([][]int, 0, q.GridSize)
		for i, row := range q.ColorGrid {
			if len(row.Colors) != q.GridSize {
				return nil, decodeErr(Queens, fmt.Sprintf("queensGamePuzzle.colorGrid[%d].colors", i), "expected %d cells, got %d", q.GridSize, len(row.Colors))
			}
			regions = append(regions, append([]int(nil), row.Colors...))
		}
		return &QueensSolution{
			SolutionMeta: SolutionMeta{Game: Queens, ExtractedAt: at},
			GridSize:     q.GridSize,
			Queens:       queens,
			Regions:      regions,
		}, nil
	}
	return nil, decodeErr(Queens, "queensGamePuzzle", "missing")
}

func decodeTango(body []byte, at time.Time) (Solution, error) {
	ps, derr := puzzles(Tango, body)
	if derr != nil {
		return nil, derr
	}
	for _, p := range ps {
		if p.Lotka == nil {
			continue
		}
		l := p.Lotka
		if len(l.Solution) == 0 {
			return nil, decodeErr(Tango, "lotkaGamePuzzle.solution", "missing or empty")
		}
		size := int(math.Sqrt(float64(len(l.Solution))))
		if size*size != len(l.Solution) {
			return nil, decodeErr(Tango, "lotkaGamePuzzle.solution", "cell count %d is not a square grid", len(l.Solution))
		}
		cells := make([][]int, size)
		for row := range cells {
			cells[row] = make([]int, size)
		}
		for i, sym := range l.Solution {
			var v int
			switch sym {
			case "ONE":
				v = 1
			case "ZERO":
				v = 0
			default:
				return nil, decodeErr(Tango, fmt.Sprintf("lotkaGamePuzzle.solution[%d]", i), "unknown symbol %q", sym)
			}
			cells[i/size][i%size] = v
		}
		constraints := make([]TangoConstraint, 0, len(l.Signs))
		for i, s := range l.Signs {
			if s.First < 0 || s.First >= len(l.Solution) || s.Second < 0 || s.Second >= len(l.Solution) {
				return nil, decodeErr(Tango, fmt.Sprintf("lotkaGamePuzzle.signs[%d]", i), "cell pair (%d,%d) out of range", s.First, s.Second)
			}
			constraints = append(constraints, TangoConstraint{First: s.First, Second: s.Second, Sign: s.Sign})
		}
		return &TangoSolution{
			SolutionMeta: SolutionMeta{Game: Tango, ExtractedAt: at},
			GridSize:     size,
			Cells:        cells,
			Constraints:  constraints,
		}, nil
	}
	return nil, decodeErr(Tango, "lotkaGamePuzzle", "missing")
}

func decodeMiniSudoku(body []byte, at time.Time) (Solution, error) {
	ps, derr := puzzles(MiniSudoku, body)
	if derr != nil {
		return nil, derr
	}
	for _, p := range ps {
		if p.MiniSudoku == nil {
			continue
		}
		m := p.MiniSudoku
		size := m.GridRowSize
		if size == 0 {
			// Upstream omits gridRowSize for the standard daily board.
			size = 6
		}
		if size < 0 {
			return nil, decodeErr(MiniSudoku, "miniSudokuGamePuzzle.gridRowSize", "must be positive, got %d", size)
		}
		if len(m.Solution) != size*size {
			return nil, decodeErr(MiniSudoku, "miniSudokuGamePuzzle.solution", "expected %d cells for a %d×%d grid, got %d", size*size, size, size, len(m.Solution))
		}
		grid := make([][]int, size)
		for row := range grid {
			grid[row] = make([]int, size)
		}
		for i, d := range m.Solution {
			if d < 1 || d > size {
				return nil, decodeErr(MiniSudoku, fmt.Sprintf("miniSudokuGamePuzzle.solution[%d]", i), "digit %d outside 1..%d", d, size)
			}
			grid[i/size][i%size] = d
		}
		for i, idx := range m.PresetCellIdxes {
			if idx < 0 || idx >= size*size {
				return nil, decodeErr(MiniSudoku, fmt.Sprintf("miniSudokuGamePuzzle.presetCellIdxes[%d]", i), "cell index %d out of range", idx)
			}
		}
		return &MiniSudokuSolution{
			SolutionMeta: SolutionMeta{Game: MiniSudoku, ExtractedAt: at},
			Title:        m.Name,
			GridSize:     size,
			Grid:         grid,
			PresetCells:  append([]int(nil), m.PresetCellIdxes...),
		}, nil
	}
	return nil, decodeErr(MiniSudoku, "miniSudokuGamePuzzle", "missing")
}
