package searcher

import (
	"connect4/game"
	"connect4/meta"

	"github.com/rs/zerolog/log"
)

const (
	// WinScore is returned for a detected win, adjusted by the remaining depth
	// so that faster wins and slower losses score better.
	WinScore = 10000
	infinity = 1 << 30
)

type MinimaxOption func(m *Minimax)

// Minimax is a depth-limited minimax search with alpha-beta pruning.
type Minimax struct {
	depth    int
	evaluate game.Evaluate
	metrics  Collector
}

// WithDepth sets the search depth in plies. Depths below one are clamped to one.
func WithDepth(depth int) MinimaxOption {
	return func(m *Minimax) {
		m.depth = max(1, depth)
	}
}

func WithHeuristic(evaluate game.Evaluate) MinimaxOption {
	return func(m *Minimax) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMinimaxMetrics() MinimaxOption {
	return func(m *Minimax) {
		m.metrics = NewCollector()
	}
}

func NewMinimax(options ...MinimaxOption) *Minimax {
	m := &Minimax{ // Default values
		depth:    meta.DEPTH,
		evaluate: game.EvaluateWindows,
		metrics:  NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *Minimax) Depth() int {
	return m.depth
}

// Search returns the column to play for the player to move in state.
func (m *Minimax) Search(state game.State) (int, SearchMetric) {
	m.metrics.Start("minimax")

	moves := state.ValidMoves()
	if len(moves) == 0 {
		log.Warn().Err(ErrNoValidMoves).Msg("minimax called on a final position, playing column 0")
		return 0, m.metrics.Complete()
	}

	board := state.Board()
	me := state.Player()
	if col, ok := Forced(board, me); ok {
		m.metrics.SetShortcut()
		return col, m.metrics.Complete()
	}

	candidates := SafeMoves(board, me, moves)

	best := -infinity
	var bestCols []int
	for _, col := range candidates {
		child := game.MustDrop(board, col, me)
		// Keep alpha below the best score so equal scores are exact values, not bounds
		score := m.minValue(child, m.depth-1, best-1, infinity, me)
		if score > best {
			best = score
			bestCols = []int{col}
		} else if score == best {
			bestCols = append(bestCols, col)
		}
	}

	return mostCentral(bestCols), m.metrics.Complete()
}

// leaf scores wins, losses and the depth cutoff. ok is false when the search must continue.
func (m *Minimax) leaf(b game.Board, depth int, me game.Cell) (score int, ok bool) {
	if game.HasFour(b, me) {
		return WinScore + depth, true
	}
	if game.HasFour(b, me.Other()) {
		return -WinScore - depth, true
	}
	if depth <= 0 {
		return m.evaluate(b, me), true
	}
	return 0, false
}

func (m *Minimax) maxValue(b game.Board, depth, alpha, beta int, me game.Cell) int {
	m.metrics.AddNode()
	if score, ok := m.leaf(b, depth, me); ok {
		return score
	}

	moves := game.ValidMoves(b)
	if len(moves) == 0 {
		return m.evaluate(b, me)
	}
	v := -infinity
	for _, col := range moves {
		v = max(v, m.minValue(game.MustDrop(b, col, me), depth-1, alpha, beta, me))
		if v >= beta {
			return v // Beta cutoff
		}
		alpha = max(alpha, v)
	}
	return v
}

func (m *Minimax) minValue(b game.Board, depth, alpha, beta int, me game.Cell) int {
	m.metrics.AddNode()
	if score, ok := m.leaf(b, depth, me); ok {
		return score
	}

	moves := game.ValidMoves(b)
	if len(moves) == 0 {
		return m.evaluate(b, me)
	}
	v := infinity
	for _, col := range moves {
		v = min(v, m.maxValue(game.MustDrop(b, col, me.Other()), depth-1, alpha, beta, me))
		if v <= alpha {
			return v // Alpha cutoff
		}
		beta = min(beta, v)
	}
	return v
}
