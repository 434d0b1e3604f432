package searcher

import (
	"errors"

	"connect4/game"
	"connect4/utils"

	"golang.org/x/exp/rand"
)

// Rollout rewards from the root player's perspective
const WIN = 1.0
const LOSS = 0.0
const DRAW = 0.5

var ErrNoValidMoves = errors.New("no valid moves")

// Searcher picks a column for the player to move in state.
type Searcher interface {
	Search(state game.State) (int, SearchMetric)
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = utils.Seed()
	}
	return rand.New(rand.NewSource(seed))
}

func centerDistance(col int) int {
	if col < game.Center {
		return game.Center - col
	}
	return col - game.Center
}

// closerToCenter reports whether col wins a tie against best: nearer the center
// column first, then the lower index.
func closerToCenter(col, best int) bool {
	dc, db := centerDistance(col), centerDistance(best)
	if dc != db {
		return dc < db
	}
	return col < best
}

// mostCentral returns the column of cols closest to the center. cols must not be empty.
func mostCentral(cols []int) int {
	best := cols[0]
	for _, col := range cols[1:] {
		if closerToCenter(col, best) {
			best = col
		}
	}
	return best
}
