package games

import (
	"encoding/json"
	"fmt"
	"time"

	"linkedgames/internal/capture"
)

// Profile bundles everything game-specific: the page to open, any extra
// pre-start clicks, the traffic signature of the solution payload, and the
// decoder for it. One dispatch table instead of six parallel code paths.
type Profile struct {
	Game Game
	URL  string

	// typeID is the voyager gameTypeId embedded in the GraphQL query URL.
	typeID int

	// ExtraClicks are selectors clicked inside the game frame before the
	// start control. None of the current six need one; the slot exists for
	// upstream flow changes.
	ExtraClicks []string

	Decode func(body []byte, at time.Time) (Solution, error)
}

var profiles = map[Game]Profile{
	Pinpoint: {
		Game:   Pinpoint,
		URL:    "https://www.linkedin.com/games/pinpoint",
		typeID: 1,
		Decode: decodePinpoint,
	},
	CrossClimb: {
		Game:   CrossClimb,
		URL:    "https://www.linkedin.com/games/crossclimb",
		typeID: 2,
		Decode: decodeCrossClimb,
	},
	Zip: {
		Game:   Zip,
		URL:    "https://www.linkedin.com/games/zip",
		typeID: 6,
		Decode: decodeZip,
	},
	Queens: {
		Game:   Queens,
		URL:    "https://www.linkedin.com/games/queens",
		typeID: 3,
		Decode: decodeQueens,
	},
	Tango: {
		Game:   Tango,
		URL:    "https://www.linkedin.com/games/tango",
		typeID: 5,
		Decode: decodeTango,
	},
	MiniSudoku: {
		Game:   MiniSudoku,
		URL:    "https://www.linkedin.com/games/mini-sudoku",
		typeID: 7,
		Decode: decodeMiniSudoku,
	},
}

// ProfileFor returns the profile for a game, false for anything outside the
// fixed set.
func ProfileFor(g Game) (Profile, bool) {
	p, ok := profiles[g]
	return p, ok
}

// Signature recognizes the voyager GraphQL exchange that carries this game's
// puzzle. The games pages endpoint shares every other clause, hence the
// explicit exclude.
func (p Profile) Signature() capture.Signature {
	return capture.Signature{
		URLContains: []string{
			"voyager/api/graphql",
			fmt.Sprintf("gameTypeId:%d", p.typeID),
			"voyagerIdentityDashGames",
		},
		URLExcludes: []string{"voyagerIdentityDashGamesPages"},
		Method:      "GET",
		Body:        hasIncluded,
	}
}

// hasIncluded is the minimal shape check: a JSON object with a non-empty
// "included" array. Full validation belongs to the decoder.
func hasIncluded(body []byte) bool {
	var probe struct {
		Included []json.RawMessage `json:"included"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return false
	}
	return len(probe.Included) > 0
}
