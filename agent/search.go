package agent

import (
	"context"

	"connect4/game"
	"connect4/searcher"
)

type searchAgent struct {
	searcher searcher.Searcher
	last     searcher.SearchMetric
}

// NewMinimax returns an agent backed by an alpha-beta minimax search.
func NewMinimax(options ...searcher.MinimaxOption) Agent {
	options = append([]searcher.MinimaxOption{searcher.WithMinimaxMetrics()}, options...)
	return &searchAgent{searcher: searcher.NewMinimax(options...)}
}

// NewMCTS returns an agent backed by a UCT tree search.
func NewMCTS(options ...searcher.Option) Agent {
	options = append([]searcher.Option{searcher.WithMetrics()}, options...)
	return &searchAgent{searcher: searcher.NewMCTS(options...)}
}

func (a *searchAgent) Mount(ctx context.Context) error {
	return ctx.Err()
}

func (a *searchAgent) Act(state game.State) int {
	col, metric := a.searcher.Search(state)
	a.last = metric
	return col
}

func (a *searchAgent) LastMetric() searcher.SearchMetric {
	return a.last
}
