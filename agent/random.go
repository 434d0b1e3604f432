package agent

import (
	"context"

	"connect4/game"
	"connect4/utils"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandom returns an agent that plays a uniformly random valid column.
// A zero seed draws a fresh one.
func NewRandom(seed uint64) Agent {
	if seed == 0 {
		seed = utils.Seed()
	}
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) Mount(ctx context.Context) error {
	return ctx.Err()
}

func (a *randomAgent) Act(state game.State) int {
	moves := state.ValidMoves()
	if len(moves) == 0 {
		return 0
	}
	return moves[a.rng.Intn(len(moves))]
}
