package engine

import (
	"context"
	"fmt"
	"time"

	"connect4/agent"
	"connect4/game"
	"connect4/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(e *local)

// Observer is called after every move with the resulting state.
type Observer func(move MoveMetric, state game.State)

type local struct {
	state    game.State
	agents   [2]agent.Agent
	rng      *rand.Rand
	observer Observer
}

func WithSeed(seed uint64) Option {
	return func(e *local) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithState starts the game from state instead of the empty board.
func WithState(state game.State) Option {
	return func(e *local) {
		e.state = state
	}
}

func WithObserver(observer Observer) Option {
	return func(e *local) {
		e.observer = observer
	}
}

// LocalEngine returns an engine where first plays PlayerA and second plays PlayerB.
// Both agents must already be mounted.
func LocalEngine(first, second agent.Agent, options ...Option) Engine {
	if first == nil || second == nil {
		panic("need two agents")
	}
	e := &local{
		state:  game.NewState(),
		agents: [2]agent.Agent{first, second},
	}
	for _, option := range options {
		option(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(utils.Seed()))
	}
	return e
}

// Run executes the game loop until the game is decided.
func (e *local) Run(ctx context.Context) (game.Outcome, GameMetric, []MoveMetric, error) {
	gameMetric := GameMetric{StartTime: time.Now()}
	var moveMetrics []MoveMetric

	state := e.state
	for step := 1; !state.IsFinal(); step++ {
		if err := ctx.Err(); err != nil {
			gameMetric = complete(gameMetric, state, len(moveMetrics))
			return game.Ongoing, gameMetric, moveMetrics, fmt.Errorf("game stopped after %d moves: %w", step-1, err)
		}

		player := state.Player()
		seat := seatOf(player)
		a := e.agents[seat]

		moveMetric := MoveMetric{Step: step, Player: player}
		col, err := act(a, state)
		if err == nil {
			if reporter, ok := a.(agent.Reporter); ok {
				moveMetric.SearchMetric = reporter.LastMetric()
			}
			if utils.FindIndex(state.ValidMoves(), col) == -1 {
				err = fmt.Errorf("%w: column %d", game.ErrInvalidMove, col)
			}
		}
		if err != nil {
			moves := state.ValidMoves()
			fallback := moves[e.rng.Intn(len(moves))]
			log.Warn().Err(err).Msgf("player %s falls back from column %d to random column %d", player, col, fallback)
			col = fallback
			moveMetric.Fallback = true
			gameMetric.Fallbacks[seat]++
		}
		moveMetric.Column = col

		next, err := state.Play(col)
		if err != nil {
			panic(fmt.Sprintf("validated move rejected: %v", err))
		}
		state = next
		moveMetrics = append(moveMetrics, moveMetric)
		if e.observer != nil {
			e.observer(moveMetric, state)
		}
	}

	gameMetric = complete(gameMetric, state, len(moveMetrics))
	return gameMetric.Winner, gameMetric, moveMetrics, nil
}

// act asks a for a column and turns a panic inside Act into an error.
func act(a agent.Agent, state game.State) (col int, err error) {
	defer func() {
		if r := recover(); r != nil {
			col = -1
			err = fmt.Errorf("agent failed: %v", r)
		}
	}()
	return a.Act(state), nil
}

func seatOf(player game.Cell) int {
	if player == game.PlayerA {
		return 0
	}
	return 1
}

func complete(gameMetric GameMetric, state game.State, moves int) GameMetric {
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = moves
	gameMetric.Winner = state.Winner()
	gameMetric.Final = state
	return gameMetric
}
