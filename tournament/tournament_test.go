package tournament

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"connect4/agent"

	"github.com/stretchr/testify/require"
)

// stubMatches returns fixed results keyed by "home-away"
func stubMatches(t *testing.T, results map[string]MatchResult) MatchFunc {
	return func(ctx context.Context, home, away Entrant, cfg Config, seed uint64) (MatchResult, error) {
		m, ok := results[home.Name+"-"+away.Name]
		require.True(t, ok, "unexpected pairing %s-%s", home.Name, away.Name)
		m.Home, m.Away = home.Name, away.Name
		return m, nil
	}
}

func namedEntrants(names ...string) []Entrant {
	entrants := make([]Entrant, len(names))
	for i, name := range names {
		entrants[i] = entrant(name, lowestAgent{})
	}
	return entrants
}

func TestRunRoundRobin(t *testing.T) {
	t.Run("ranks by wins, losses, draws and name", func(t *testing.T) {
		cfg := testConfig()
		cfg.Shuffle = false
		play := stubMatches(t, map[string]MatchResult{
			"a-b": {HomeWins: 2, AwayWins: 1, Winner: "a"},
			"a-c": {HomeWins: 1, AwayWins: 1, Draws: 1},
			"b-c": {HomeWins: 2, Winner: "b"},
		})

		result, err := Run(context.Background(), namedEntrants("a", "b", "c"), cfg, WithMatchFunc(play))

		require.NoError(t, err)
		require.Equal(t, "a", result.Champion)
		require.Len(t, result.Matches, 3, "every pair should meet once")
		require.Equal(t, []Standing{
			{Name: "a", Games: 6, Wins: 3, Losses: 2, Draws: 1, MatchWins: 1, MatchDraws: 1, WinRate: 0.5},
			{Name: "b", Games: 5, Wins: 3, Losses: 2, MatchWins: 1, MatchLosses: 1, WinRate: 0.6},
			{Name: "c", Games: 5, Wins: 1, Losses: 3, Draws: 1, MatchLosses: 1, MatchDraws: 1, WinRate: 0.2},
		}, result.Standings)
	})

	t.Run("equal records fall back to names", func(t *testing.T) {
		cfg := testConfig()
		cfg.Shuffle = false
		play := stubMatches(t, map[string]MatchResult{
			"y-x": {Draws: 1},
		})

		result, err := Run(context.Background(), namedEntrants("y", "x"), cfg, WithMatchFunc(play))

		require.NoError(t, err)
		require.Equal(t, "x", result.Champion)
	})

	t.Run("excludes agents that fail to mount", func(t *testing.T) {
		registry := agent.DefaultRegistry()
		f := &File{Agents: []AgentConfig{
			{Name: "minimax", Spec: agent.Spec{Kind: "minimax", Depth: 2}},
			{Name: "random", Spec: agent.Spec{Kind: "random"}},
			{Name: "broken", Spec: agent.Spec{Kind: "qtable", Table: "does/not/exist.gob"}},
			{Name: "ghost", Spec: agent.Spec{Kind: "alphazero"}},
		}}
		cfg := testConfig()
		cfg.BestOf = 3

		result, err := Run(context.Background(), f.Entrants(registry), cfg)

		require.NoError(t, err)
		require.Len(t, result.Failures, 2)
		for _, failure := range result.Failures {
			require.ErrorIs(t, failure.Err, ErrAgentConstruction, failure.Name)
		}
		require.ErrorIs(t, result.Failures[1].Err, agent.ErrUnknownKind)
		require.Len(t, result.Standings, 2)
		require.Equal(t, "minimax", result.Champion)
		require.Equal(t, 1, result.Standings[0].MatchWins)
	})

	t.Run("not enough entrants", func(t *testing.T) {
		broken := Entrant{Name: "broken", New: func(uint64) (agent.Agent, error) { return nil, errors.New("nope") }}
		entrants := append(namedEntrants("only"), broken)

		result, err := Run(context.Background(), entrants, testConfig())

		require.ErrorIs(t, err, ErrNotEnoughEntrants)
		require.Len(t, result.Failures, 1)
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		_, err := Run(context.Background(), namedEntrants("a", "a"), testConfig())
		require.Error(t, err)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		cfg := testConfig()
		cfg.BestOf = 0
		_, err := Run(context.Background(), namedEntrants("a", "b"), cfg)
		require.Error(t, err)
	})

	t.Run("agent failing after the first mount is excluded", func(t *testing.T) {
		cfg := testConfig()
		cfg.Shuffle = false
		cfg.BestOf = 1
		cfg.FirstPlayerDistribution = 1
		var built atomic.Int32
		flaky := Entrant{Name: "flaky", New: func(uint64) (agent.Agent, error) {
			if built.Add(1) > 1 {
				return nil, errors.New("table vanished")
			}
			return lowestAgent{}, nil
		}}
		entrants := append(namedEntrants("a", "b"), flaky)

		result, err := Run(context.Background(), entrants, cfg)

		require.NoError(t, err)
		require.Len(t, result.Failures, 1)
		require.Equal(t, "flaky", result.Failures[0].Name)
		require.ErrorIs(t, result.Failures[0].Err, ErrAgentConstruction)
		require.Len(t, result.Matches, 1, "completed matches should be kept")
		require.Equal(t, "a", result.Matches[0].Home)
		require.Equal(t, "b", result.Matches[0].Away)
		require.Len(t, result.Standings, 2)
		require.Equal(t, "a", result.Champion)
	})

	t.Run("too few entrants left after exclusions", func(t *testing.T) {
		cfg := testConfig()
		cfg.Shuffle = false
		play := func(ctx context.Context, home, away Entrant, cfg Config, seed uint64) (MatchResult, error) {
			return MatchResult{}, &AgentError{Name: away.Name, Err: errors.New("gone")}
		}

		result, err := Run(context.Background(), namedEntrants("a", "b"), cfg, WithMatchFunc(play))

		require.ErrorIs(t, err, ErrNotEnoughEntrants)
		require.Len(t, result.Failures, 1)
		require.Equal(t, "b", result.Failures[0].Name)
		require.Empty(t, result.Matches)
	})

	t.Run("match errors abort the run", func(t *testing.T) {
		boom := errors.New("boom")
		play := func(context.Context, Entrant, Entrant, Config, uint64) (MatchResult, error) {
			return MatchResult{}, boom
		}

		_, err := Run(context.Background(), namedEntrants("a", "b"), testConfig(), WithMatchFunc(play))

		require.ErrorIs(t, err, boom)
	})
}

func TestRunParallel(t *testing.T) {
	entrants := make([]Entrant, 0, 4)
	for _, name := range []string{"r1", "r2", "r3", "r4"} {
		entrants = append(entrants, Entrant{Name: name, New: func(seed uint64) (agent.Agent, error) {
			return agent.NewRandom(seed), nil
		}})
	}

	cfg := testConfig()
	cfg.Seed = 99
	sequential, err := Run(context.Background(), entrants, cfg)
	require.NoError(t, err)

	cfg.Workers = 4
	parallel, err := Run(context.Background(), entrants, cfg)
	require.NoError(t, err)

	require.Equal(t, sequential.Standings, parallel.Standings, "results should not depend on scheduling")
	require.Equal(t, sequential.Champion, parallel.Champion)
	require.Len(t, parallel.Matches, 6)
}

func TestRunKnockout(t *testing.T) {
	// The alphabetically smaller name always wins
	alphabetical := func(ctx context.Context, home, away Entrant, cfg Config, seed uint64) (MatchResult, error) {
		m := MatchResult{Home: home.Name, Away: away.Name}
		if home.Name < away.Name {
			m.HomeWins, m.Winner = 3, home.Name
		} else {
			m.AwayWins, m.Winner = 3, away.Name
		}
		return m, nil
	}

	t.Run("bracket with byes", func(t *testing.T) {
		cfg := testConfig()
		cfg.Format = Knockout

		result, err := Run(context.Background(), namedEntrants("e", "d", "c", "b", "a"), cfg, WithMatchFunc(alphabetical))

		require.NoError(t, err)
		require.Equal(t, "a", result.Champion)
		require.Len(t, result.Matches, 4, "single elimination plays one match per eliminated entrant")
		require.Equal(t, "a", result.Standings[0].Name)
		require.Zero(t, result.Standings[0].MatchLosses)
		require.GreaterOrEqual(t, result.Standings[0].MatchWins, 2, "a field of five needs at least two rounds")
	})

	t.Run("excluded entrant hands a walkover", func(t *testing.T) {
		cfg := testConfig()
		cfg.Format = Knockout
		cfg.Shuffle = false
		play := func(ctx context.Context, home, away Entrant, cfg Config, seed uint64) (MatchResult, error) {
			if away.Name == "d" {
				return MatchResult{}, &AgentError{Name: "d", Err: errors.New("gone")}
			}
			return alphabetical(ctx, home, away, cfg, seed)
		}

		result, err := Run(context.Background(), namedEntrants("a", "b", "c", "d"), cfg, WithMatchFunc(play))

		require.NoError(t, err)
		require.Equal(t, "a", result.Champion)
		require.Len(t, result.Failures, 1)
		require.Equal(t, "d", result.Failures[0].Name)
		require.Len(t, result.Matches, 2)
		require.Equal(t, "c", result.Matches[1].Away, "c should reach the final without playing")
		require.Len(t, result.Standings, 3)
	})

	t.Run("ties are settled by a coin", func(t *testing.T) {
		cfg := testConfig()
		cfg.Format = Knockout
		tied := func(ctx context.Context, home, away Entrant, cfg Config, seed uint64) (MatchResult, error) {
			return MatchResult{Home: home.Name, Away: away.Name, Draws: 1}, nil
		}

		result, err := Run(context.Background(), namedEntrants("a", "b", "c", "d"), cfg, WithMatchFunc(tied))

		require.NoError(t, err)
		require.Len(t, result.Matches, 3)
		for _, m := range result.Matches {
			require.True(t, m.CoinFlip)
			require.NotEmpty(t, m.Winner)
		}
		require.Equal(t, result.Matches[2].Winner, result.Champion)
	})
}
