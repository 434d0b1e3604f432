package tournament

import (
	"context"
	"fmt"
	"time"

	"connect4/agent"
	"connect4/engine"
	"connect4/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Entrant is a named agent constructor. New is called for every match so that
// matches never share agent instances.
type Entrant struct {
	Name string
	New  func(seed uint64) (agent.Agent, error)
}

// MatchFunc plays one match between two entrants. seed must determine every random choice.
type MatchFunc func(ctx context.Context, home, away Entrant, cfg Config, seed uint64) (MatchResult, error)

type GameRecord struct {
	First  string // Name of the entrant playing PlayerA
	Second string
	Winner string // Empty for a drawn game
	engine.GameMetric
	Moves []engine.MoveMetric
}

type MatchResult struct {
	Home, Away string
	HomeWins   int
	AwayWins   int
	Draws      int
	Winner     string // Empty for a drawn match
	CoinFlip   bool   // Winner was picked by a coin flip
	Games      []GameRecord
}

// AgentError reports an entrant whose agent could not be built or mounted. It matches
// both ErrAgentConstruction and the underlying error.
type AgentError struct {
	Name string
	Err  error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("%v %s: %v", ErrAgentConstruction, e.Name, e.Err)
}

func (e *AgentError) Unwrap() []error {
	return []error{ErrAgentConstruction, e.Err}
}

// PlayMatch plays up to cfg.BestOf games and stops as soon as one side has won
// more than half of them.
func PlayMatch(ctx context.Context, home, away Entrant, cfg Config, seed uint64) (MatchResult, error) {
	rng := rand.New(rand.NewSource(seed))
	result := MatchResult{Home: home.Name, Away: away.Name}

	homeAgent, err := mount(ctx, home, rng.Uint64(), cfg.MountTimeout)
	if err != nil {
		return result, &AgentError{Name: home.Name, Err: err}
	}
	awayAgent, err := mount(ctx, away, rng.Uint64(), cfg.MountTimeout)
	if err != nil {
		return result, &AgentError{Name: away.Name, Err: err}
	}

	majority := cfg.BestOf/2 + 1
	for i := 0; i < cfg.BestOf && result.HomeWins < majority && result.AwayWins < majority; i++ {
		record := GameRecord{First: home.Name, Second: away.Name}
		first, second := homeAgent, awayAgent
		if rng.Float64() >= cfg.FirstPlayerDistribution {
			record.First, record.Second = away.Name, home.Name
			first, second = awayAgent, homeAgent
		}

		e := engine.LocalEngine(first, second, engine.WithSeed(rng.Uint64()))
		winner, gameMetric, moveMetrics, err := e.Run(ctx)
		if err != nil {
			return result, fmt.Errorf("game %d of %s vs %s: %w", i+1, home.Name, away.Name, err)
		}
		record.GameMetric = gameMetric
		record.Moves = moveMetrics

		switch winner {
		case game.WinA:
			record.Winner = record.First
		case game.WinB:
			record.Winner = record.Second
		}
		switch record.Winner {
		case home.Name:
			result.HomeWins++
		case away.Name:
			result.AwayWins++
		default:
			result.Draws++
		}
		result.Games = append(result.Games, record)

		log.Debug().Msgf("%s vs %s game %d: %s starts, winner %q after %d moves",
			home.Name, away.Name, i+1, record.First, record.Winner, gameMetric.TotalMoves)
	}

	settle(&result, cfg.BestOf, cfg.TiePolicy, rng)
	return result, nil
}

// settle names the side holding a majority of bestOf games as the winner. Without a
// majority the match is tied and policy applies.
func settle(result *MatchResult, bestOf int, policy TiePolicy, rng *rand.Rand) {
	majority := bestOf/2 + 1
	switch {
	case result.HomeWins >= majority:
		result.Winner = result.Home
	case result.AwayWins >= majority:
		result.Winner = result.Away
	case policy == TieCoin:
		result.Winner = coinFlip(result.Home, result.Away, rng)
		result.CoinFlip = true
	}
}

func coinFlip(a, b string, rng *rand.Rand) string {
	if rng.Intn(2) == 0 {
		return a
	}
	return b
}

// mount builds and mounts an agent of e. Panics inside the constructor count as failures.
func mount(ctx context.Context, e Entrant, seed uint64, timeout time.Duration) (a agent.Agent, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, fmt.Errorf("constructor failed: %v", r)
		}
	}()

	a, err = e.New(seed)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("constructor returned no agent")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := a.Mount(ctx); err != nil {
		return nil, err
	}
	return a, nil
}
