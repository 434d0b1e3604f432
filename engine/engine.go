package engine

import (
	"context"
	"time"

	"connect4/game"
	"connect4/searcher"
)

// Engine plays one game between two agents.
type Engine interface {
	// Run plays until four in a row or a full board. It only stops early when ctx is done.
	Run(ctx context.Context) (winner game.Outcome, gameMetric GameMetric, moveMetrics []MoveMetric, err error)
}

type MoveMetric struct {
	Step     int
	Player   game.Cell
	Column   int
	Fallback bool // Column was substituted after an illegal choice or a failure inside Act
	searcher.SearchMetric
}

type GameMetric struct {
	Winner     game.Outcome
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	Fallbacks  [2]int // Per seat, seat 0 plays PlayerA
	Final      game.State
}
