// Package games defines the fixed set of LinkedIn puzzle games, the per-game
// profile (page URL, traffic signature, decoder) and the normalized solution
// structures decoded from the game client's GraphQL traffic.
package games

import (
	"fmt"
	"strings"
)

// Game identifies one of the six supported games. The set is closed.
type Game string

const (
	Pinpoint   Game = "pinpoint"
	CrossClimb Game = "crossclimb"
	Zip        Game = "zip"
	Queens     Game = "queens"
	Tango      Game = "tango"
	MiniSudoku Game = "mini_sudoku"
)

// All returns the supported games in their canonical solve order.
func All() []Game {
	return []Game{Pinpoint, CrossClimb, Zip, Queens, Tango, MiniSudoku}
}

// Parse maps a user-supplied name to a Game. Hyphenated spellings are
// accepted ("mini-sudoku" and "mini_sudoku" are the same game).
func Parse(name string) (Game, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "-", "_")
	switch Game(s) {
	case Pinpoint, CrossClimb, Zip, Queens, Tango, MiniSudoku:
		return Game(s), nil
	}
	return "", fmt.Errorf("unknown game %q (supported: %v)", name, All())
}

func (g Game) String() string { return string(g) }
