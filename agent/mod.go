package agent

import (
	"context"
	"errors"

	"connect4/game"
	"connect4/searcher"
)

var ErrUnknownKind = errors.New("unknown agent kind")

// Agent plays Connect-4. Act must return a column for any non-final state and may be
// called for many games in a row.
type Agent interface {
	// Mount prepares the agent before its first move. Heavy initialization must respect ctx.
	Mount(ctx context.Context) error
	Act(state game.State) int
}

// Reporter is implemented by agents that collect search metrics for their last move.
type Reporter interface {
	LastMetric() searcher.SearchMetric
}
