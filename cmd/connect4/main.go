package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"connect4/agent"
	"connect4/engine"
	"connect4/game"
	"connect4/tournament"
	"connect4/utils"

	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	mode := flag.String("mode", "tournament", "tournament or play")
	configPath := flag.String("config", env("CONNECT4_CONFIG", "tournament.yaml"), "Tournament file")
	outDir := flag.String("out", env("CONNECT4_OUT", ""), "Directory for CSV results, empty to skip")
	logLevel := flag.String("log-level", env("CONNECT4_LOG_LEVEL", "info"), "Log level")
	first := flag.String("first", "minimax", "Agent kind playing first in play mode")
	second := flag.String("second", "mcts", "Agent kind playing second in play mode")
	seed := flag.Uint64("seed", 0, "Seed for play mode, 0 for a random one")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch *mode {
	case "tournament":
		err = runTournament(ctx, *configPath, *outDir)
	case "play":
		err = play(ctx, *first, *second, *seed)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func runTournament(ctx context.Context, configPath, outDir string) error {
	f, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("failed to open tournament file: %w", err)
	}
	file, err := tournament.LoadFile(f)
	f.Close()
	if err != nil {
		return err
	}

	result, err := tournament.Run(ctx, file.Entrants(agent.DefaultRegistry()), file.Tournament)
	if err != nil {
		if errors.Is(err, tournament.ErrNotEnoughEntrants) {
			for _, failure := range result.Failures {
				log.Error().Err(failure.Err).Msgf("%s excluded", failure.Name)
			}
		}
		return err
	}

	printStandings(result)

	if outDir != "" {
		writer, err := tournament.NewWriter(outDir)
		if err != nil {
			return fmt.Errorf("failed to create result writer: %w", err)
		}
		if err := writer.WriteResult(result); err != nil {
			return err
		}
		log.Info().Msgf("stored results in %s", writer.Dir())
	}
	return nil
}

func printStandings(result *tournament.Result) {
	fmt.Printf("%-4s %-20s %6s %6s %6s %6s %8s\n", "#", "agent", "games", "wins", "losses", "draws", "win rate")
	for i, s := range result.Standings {
		fmt.Printf("%-4d %-20s %6d %6d %6d %6d %8.3f\n", i+1, s.Name, s.Games, s.Wins, s.Losses, s.Draws, s.WinRate)
	}
	for _, failure := range result.Failures {
		fmt.Printf("excluded %s: %v\n", failure.Name, failure.Err)
	}
	fmt.Printf("\nchampion: %s\n", result.Champion)
}

func play(ctx context.Context, firstKind, secondKind string, seed uint64) error {
	if seed == 0 {
		seed = utils.Seed()
	}
	registry := agent.DefaultRegistry()

	agents := make([]agent.Agent, 2)
	for i, kind := range []string{firstKind, secondKind} {
		a, err := registry.New(agent.Spec{Kind: kind}, seed+uint64(i))
		if err != nil {
			return fmt.Errorf("failed to create %s agent (known kinds: %s): %w", kind, strings.Join(registry.Kinds(), ", "), err)
		}
		if err := a.Mount(ctx); err != nil {
			return fmt.Errorf("failed to mount %s agent: %w", kind, err)
		}
		agents[i] = a
	}

	out := termenv.NewOutput(os.Stdout)
	render := func(move engine.MoveMetric, state game.State) {
		fmt.Printf("move %d: %s plays column %d\n", move.Step, move.Player, move.Column)
		fmt.Println(game.Render(state.Board(), out))
	}

	e := engine.LocalEngine(agents[0], agents[1], engine.WithSeed(seed), engine.WithObserver(render))
	winner, gameMetric, _, err := e.Run(ctx)
	if err != nil {
		return err
	}

	switch winner {
	case game.WinA:
		fmt.Printf("%s (X) wins after %d moves\n", firstKind, gameMetric.TotalMoves)
	case game.WinB:
		fmt.Printf("%s (O) wins after %d moves\n", secondKind, gameMetric.TotalMoves)
	default:
		fmt.Printf("draw after %d moves\n", gameMetric.TotalMoves)
	}
	return nil
}

func env(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
