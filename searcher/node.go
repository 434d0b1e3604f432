package searcher

import (
	"connect4/game"

	"golang.org/x/exp/rand"
)

// node is one simulated position of an MCTS tree. rewards are credited from the
// perspective of the player who moved into the node.
type node struct {
	parent   *node
	board    game.Board
	player   game.Cell // Player to move
	moves    []int     // Valid columns, ascending
	untried  []int
	children map[int]*node
	rewards  float64
	visits   int
}

func newNode(parent *node, board game.Board, player game.Cell) *node {
	var moves []int
	if !game.IsFinal(board) {
		moves = game.ValidMoves(board)
	}
	untried := make([]int, len(moves))
	copy(untried, moves)

	return &node{
		parent:   parent,
		board:    board,
		player:   player,
		moves:    moves,
		untried:  untried,
		children: make(map[int]*node, len(moves)),
	}
}

func (n *node) mover() game.Cell {
	return n.player.Other()
}

func (n *node) isFullyExpanded() bool {
	return len(n.untried) == 0
}

// selectOrExpand returns a newly expanded child, or the child with max UCT score when
// the node is fully expanded. Terminal nodes return themselves.
func (n *node) selectOrExpand(c float64, rng *rand.Rand) (child *node, expanded bool) {
	if !n.isFullyExpanded() {
		return n.expand(rng), true
	}
	if len(n.children) == 0 { // Terminal node
		return n, false
	}
	return n.pickChild(c), false
}

func (n *node) expand(rng *rand.Rand) *node {
	i := rng.Intn(len(n.untried))
	col := n.untried[i]
	n.untried = append(n.untried[:i], n.untried[i+1:]...)

	child := newNode(n, game.MustDrop(n.board, col, n.player), n.player.Other())
	n.children[col] = child
	return child
}

func (n *node) pickChild(c float64) *node {
	policy := newUCT(c, n.visits)

	var best *node
	maxScore := 0.0
	for _, col := range n.moves {
		child := n.children[col]
		score := policy.evaluate(child.rewards, child.visits)
		if best == nil || score > maxScore {
			best = child
			maxScore = score
		}
	}
	return best
}

// backup credits a rollout reward, given from the root player's perspective, to n and its ancestors.
func (n *node) backup(rootPlayer game.Cell, reward float64) {
	for cur := n; cur != nil; cur = cur.parent {
		cur.visits++
		if cur.mover() == rootPlayer {
			cur.rewards += reward
		} else {
			cur.rewards += WIN - reward
		}
	}
}

// mostVisited returns the column of the most visited child, ties broken towards the center.
func (n *node) mostVisited() (int, bool) {
	best, maxVisits := -1, -1
	for _, col := range n.moves {
		child, ok := n.children[col]
		if !ok {
			continue
		}
		if child.visits > maxVisits || (child.visits == maxVisits && closerToCenter(col, best)) {
			best = col
			maxVisits = child.visits
		}
	}
	return best, best >= 0
}

func (n *node) size() int {
	total := 1
	for _, child := range n.children {
		total += child.size()
	}
	return total
}
