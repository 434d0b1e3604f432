package tournament

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"connect4/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

var (
	ErrAgentConstruction = errors.New("agent construction failed")
	ErrNotEnoughEntrants = errors.New("not enough entrants")
)

type Standing struct {
	Name        string
	Games       int
	Wins        int
	Losses      int
	Draws       int
	MatchWins   int
	MatchLosses int
	MatchDraws  int
	WinRate     float64 // Game wins per game played
}

// Failure reports an entrant excluded because its agent could not be built or mounted.
type Failure struct {
	Name string
	Err  error
}

type Result struct {
	Standings []Standing // Ranked, best first
	// Champion is the top standing in a round robin and the bracket winner in a knockout,
	// which need not be the entrant with the most game wins.
	Champion string
	Matches  []MatchResult // Only matches between entrants that were never excluded
	Failures []Failure
}

type Option func(r *runner)

// WithMatchFunc replaces PlayMatch, e.g. to stub out games.
func WithMatchFunc(play MatchFunc) Option {
	return func(r *runner) {
		if play != nil {
			r.play = play
		}
	}
}

type runner struct {
	cfg  Config
	play MatchFunc
	rng  *rand.Rand

	mu       sync.Mutex
	excluded map[string]bool
	failures []Failure
}

type pairing struct {
	home, away Entrant
	seed       uint64
}

// Run mounts every entrant once, drops those that fail, plays the configured format and
// ranks the survivors. Champion is the bracket winner for knockout and the top standing
// otherwise.
func Run(ctx context.Context, entrants []Entrant, cfg Config, options ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &runner{cfg: cfg, play: PlayMatch, excluded: make(map[string]bool)}
	for _, option := range options {
		option(r)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = utils.Seed()
	}
	r.rng = rand.New(rand.NewSource(seed))

	names := make(map[string]bool, len(entrants))
	for _, e := range entrants {
		if e.Name == "" || e.New == nil {
			return nil, fmt.Errorf("entrant %q needs a name and a constructor", e.Name)
		}
		if names[e.Name] {
			return nil, fmt.Errorf("duplicate entrant %q", e.Name)
		}
		names[e.Name] = true
	}

	result := &Result{}
	var valid []Entrant
	for _, e := range entrants {
		if _, err := mount(ctx, e, r.rng.Uint64(), cfg.MountTimeout); err != nil {
			r.exclude(&AgentError{Name: e.Name, Err: err})
			continue
		}
		valid = append(valid, e)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.Failures = r.failures
	if len(valid) < 2 {
		return result, fmt.Errorf("%w: %d of %d entrants could be mounted", ErrNotEnoughEntrants, len(valid), len(entrants))
	}

	if cfg.Shuffle {
		r.rng.Shuffle(len(valid), func(i, j int) { valid[i], valid[j] = valid[j], valid[i] })
	}

	log.Info().Msgf("starting %s tournament with %d entrants: %s", cfg.Format, len(valid), entrantNames(valid))

	var (
		matches []MatchResult
		err     error
	)
	switch cfg.Format {
	case Knockout:
		matches, result.Champion, err = r.knockout(ctx, valid)
	default:
		matches, err = r.roundRobin(ctx, valid)
	}
	if err != nil {
		return nil, err
	}

	// Matches of entrants excluded along the way do not count
	result.Failures = r.failures
	var survivors []Entrant
	for _, e := range valid {
		if !r.excluded[e.Name] {
			survivors = append(survivors, e)
		}
	}
	for _, m := range matches {
		if !r.excluded[m.Home] && !r.excluded[m.Away] {
			result.Matches = append(result.Matches, m)
		}
	}
	if len(survivors) < 2 {
		return result, fmt.Errorf("%w: %d of %d entrants completed the tournament", ErrNotEnoughEntrants, len(survivors), len(entrants))
	}

	result.Standings = standings(survivors, result.Matches)
	if result.Champion == "" {
		result.Champion = result.Standings[0].Name
	}

	log.Info().Msgf("completed tournament, champion: %s", result.Champion)
	return result, nil
}

func (r *runner) roundRobin(ctx context.Context, entrants []Entrant) ([]MatchResult, error) {
	var pairings []pairing
	for i := 0; i < len(entrants); i++ {
		for j := i + 1; j < len(entrants); j++ {
			pairings = append(pairings, pairing{home: entrants[i], away: entrants[j], seed: r.rng.Uint64()})
		}
	}
	played, ok, err := r.playAll(ctx, pairings)
	if err != nil {
		return nil, err
	}
	var matches []MatchResult
	for i := range played {
		if ok[i] {
			matches = append(matches, played[i])
		}
	}
	return matches, nil
}

// knockout plays single elimination rounds. With an odd field the last entrant gets a bye
// and opens the next round. An entrant excluded during its match hands a walkover to the
// opponent.
func (r *runner) knockout(ctx context.Context, entrants []Entrant) ([]MatchResult, string, error) {
	var matches []MatchResult
	field := entrants
	for round := 1; len(field) > 1; round++ {
		var pairings []pairing
		var next []Entrant
		for i := 0; i+1 < len(field); i += 2 {
			pairings = append(pairings, pairing{home: field[i], away: field[i+1], seed: r.rng.Uint64()})
		}
		if len(field)%2 == 1 {
			bye := field[len(field)-1]
			log.Info().Msgf("round %d: %s advances with a bye", round, bye.Name)
			next = append(next, bye)
		}

		log.Info().Msgf("starting knockout round %d with %d matches", round, len(pairings))
		played, ok, err := r.playAll(ctx, pairings)
		if err != nil {
			return nil, "", err
		}

		winners := make([]Entrant, 0, len(played)+len(next))
		for i, m := range played {
			if !ok[i] {
				winner, loser := pairings[i].home, pairings[i].away
				if r.isExcluded(winner.Name) {
					winner, loser = loser, winner
				}
				log.Info().Msgf("round %d: %s advances, %s was excluded", round, winner.Name, loser.Name)
				winners = append(winners, winner)
				continue
			}
			if m.Winner == "" {
				m.Winner = coinFlip(m.Home, m.Away, r.rng)
				m.CoinFlip = true
				log.Info().Msgf("round %d: %s vs %s tied, coin flip advances %s", round, m.Home, m.Away, m.Winner)
			}
			if m.Winner == pairings[i].home.Name {
				winners = append(winners, pairings[i].home)
			} else {
				winners = append(winners, pairings[i].away)
			}
			matches = append(matches, m)
		}
		field = append(next, winners...)
	}
	return matches, field[0].Name, nil
}

// playAll runs pairings on up to cfg.Workers goroutines. Results keep the pairing order;
// ok[i] is false when pairing i was skipped or forfeited because an entrant was excluded.
func (r *runner) playAll(ctx context.Context, pairings []pairing) ([]MatchResult, []bool, error) {
	results := make([]MatchResult, len(pairings))
	ok := make([]bool, len(pairings))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.cfg.Workers))
	for i, p := range pairings {
		g.Go(func() error {
			if r.isExcluded(p.home.Name) || r.isExcluded(p.away.Name) {
				log.Debug().Msgf("skipping match %s vs %s, an entrant was excluded", p.home.Name, p.away.Name)
				return nil
			}
			log.Info().Msgf("starting match %d of %d between %s and %s...", i+1, len(pairings), p.home.Name, p.away.Name)
			m, err := r.play(ctx, p.home, p.away, r.cfg, p.seed)
			var agentErr *AgentError
			if errors.As(err, &agentErr) && ctx.Err() == nil {
				r.exclude(agentErr)
				return nil
			}
			if err != nil {
				return fmt.Errorf("match %s vs %s: %w", p.home.Name, p.away.Name, err)
			}
			results[i], ok[i] = m, true
			log.Info().Msgf("completed match %s vs %s: %d-%d-%d, winner %q",
				p.home.Name, p.away.Name, m.HomeWins, m.AwayWins, m.Draws, m.Winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, ok, nil
}

// exclude drops the entrant named by err from the rest of the tournament.
func (r *runner) exclude(err *AgentError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.excluded[err.Name] {
		return
	}
	r.excluded[err.Name] = true
	r.failures = append(r.failures, Failure{Name: err.Name, Err: err})
	log.Warn().Err(err).Msgf("excluding %s from the tournament", err.Name)
}

func (r *runner) isExcluded(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.excluded[name]
}

func standings(entrants []Entrant, matches []MatchResult) []Standing {
	byName := make(map[string]*Standing, len(entrants))
	table := make([]Standing, len(entrants))
	for i, e := range entrants {
		table[i].Name = e.Name
		byName[e.Name] = &table[i]
	}

	for _, m := range matches {
		home, away := byName[m.Home], byName[m.Away]
		games := m.HomeWins + m.AwayWins + m.Draws

		home.Games += games
		home.Wins += m.HomeWins
		home.Losses += m.AwayWins
		home.Draws += m.Draws
		away.Games += games
		away.Wins += m.AwayWins
		away.Losses += m.HomeWins
		away.Draws += m.Draws

		switch m.Winner {
		case m.Home:
			home.MatchWins++
			away.MatchLosses++
		case m.Away:
			away.MatchWins++
			home.MatchLosses++
		default:
			home.MatchDraws++
			away.MatchDraws++
		}
	}

	for i := range table {
		if table[i].Games > 0 {
			table[i].WinRate = float64(table[i].Wins) / float64(table[i].Games)
		}
	}

	slices.SortFunc(table, compareStandings)
	return table
}

// compareStandings ranks by game wins, then fewer losses, then more draws, then name.
func compareStandings(a, b Standing) int {
	switch {
	case a.Wins != b.Wins:
		return b.Wins - a.Wins
	case a.Losses != b.Losses:
		return a.Losses - b.Losses
	case a.Draws != b.Draws:
		return b.Draws - a.Draws
	default:
		return strings.Compare(a.Name, b.Name)
	}
}

func entrantNames(entrants []Entrant) string {
	names := make([]string, len(entrants))
	for i, e := range entrants {
		names[i] = e.Name
	}
	return strings.Join(names, ", ")
}
