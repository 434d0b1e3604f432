package searcher

import (
	"connect4/game"
	"connect4/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS is a sequential Monte-Carlo tree search with UCT selection and random rollouts.
// A fresh tree is built for every Search call.
type MCTS struct {
	iterations  int
	exploration float64
	cutoff      int
	rng         *rand.Rand
	metrics     Collector
}

func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		if iterations >= 0 {
			m.iterations = iterations
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

func WithCutoff(steps int) Option {
	return func(m *MCTS) {
		if steps > 0 {
			m.cutoff = steps
		}
	}
}

// WithRand injects the random source used for expansion, rollouts and fallbacks.
func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = newRand(seed)
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		iterations:  meta.ITERATIONS,
		exploration: meta.EXPLORATION,
		cutoff:      meta.ROLLOUT_CUTOFF,
		metrics:     NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = newRand(0)
	}
	return m
}

// Search returns the column to play for the player to move in state.
func (m *MCTS) Search(state game.State) (int, SearchMetric) {
	m.metrics.Start("mcts")

	moves := state.ValidMoves()
	if len(moves) == 0 {
		log.Warn().Err(ErrNoValidMoves).Msg("mcts called on a final position, playing column 0")
		return 0, m.metrics.Complete()
	}

	board := state.Board()
	player := state.Player()
	if col, ok := Forced(board, player); ok {
		m.metrics.SetShortcut()
		return col, m.metrics.Complete()
	}

	root := newNode(nil, board, player)
	for i := 0; i < m.iterations; i++ {
		m.simulate(root, player)
		m.metrics.AddIteration()
	}

	col, ok := root.mostVisited()
	if !ok {
		col = moves[m.rng.Intn(len(moves))]
	}
	metric := m.metrics.Complete()
	metric.Nodes = root.size()
	return col, metric
}

func (m *MCTS) simulate(root *node, rootPlayer game.Cell) {
	leaf := selectThenExpand(root, m.exploration, m.rng)
	reward, full := rollout(leaf.board, leaf.player, rootPlayer, m.cutoff, m.rng)
	if full {
		m.metrics.AddFullPlayout()
	}
	leaf.backup(rootPlayer, reward)
}

func selectThenExpand(root *node, c float64, rng *rand.Rand) *node {
	parent := root
	child, expanded := parent.selectOrExpand(c, rng)
	for !expanded && child != parent {
		parent = child
		child, expanded = parent.selectOrExpand(c, rng)
	}
	return child
}

// rollout plays random moves from board until the game ends or cutoff moves were played.
// The reward is given from rootPlayer's perspective; full reports whether a terminal
// position was reached.
func rollout(board game.Board, player, rootPlayer game.Cell, cutoff int, rng *rand.Rand) (reward float64, full bool) {
	switch {
	case game.HasFour(board, rootPlayer):
		return WIN, true
	case game.HasFour(board, rootPlayer.Other()):
		return LOSS, true
	}

	for depth := 0; ; depth++ {
		moves := game.ValidMoves(board)
		if len(moves) == 0 { // Board full without a winner
			return DRAW, true
		}
		if depth >= cutoff {
			return DRAW, false
		}

		move := moves[rng.Intn(len(moves))] // Random rollout policy
		board = game.MustDrop(board, move, player)
		if game.HasFour(board, player) {
			if player == rootPlayer {
				return WIN, true
			}
			return LOSS, true
		}
		player = player.Other()
	}
}
