package tournament

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Writer stores tournament results as CSV files in a timestamped directory.
type Writer struct {
	baseDir string
}

func NewWriter(root string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	baseDir := filepath.Join(root, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

// WriteResult writes standings, games and moves of result.
func (w *Writer) WriteResult(result *Result) error {
	if err := w.WriteStandings(result.Standings); err != nil {
		return err
	}
	if err := w.WriteGameRecords(result.Matches); err != nil {
		return err
	}
	return w.WriteMoveRecords(result.Matches)
}

func (w *Writer) WriteStandings(standings []Standing) error {
	header := []string{"rank", "name", "games", "wins", "losses", "draws", "match_wins", "match_losses", "match_draws", "win_rate"}
	rows := make([][]string, 0, len(standings))
	for i, s := range standings {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Name,
			strconv.Itoa(s.Games),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			strconv.Itoa(s.Draws),
			strconv.Itoa(s.MatchWins),
			strconv.Itoa(s.MatchLosses),
			strconv.Itoa(s.MatchDraws),
			strconv.FormatFloat(s.WinRate, 'f', 4, 64),
		})
	}
	return w.write("standings.csv", header, rows)
}

func (w *Writer) WriteGameRecords(matches []MatchResult) error {
	header := []string{"match", "game", "first", "second", "winner", "moves", "fallbacks_first", "fallbacks_second", "start_time", "end_time", "duration"}
	var rows [][]string
	for mi, m := range matches {
		for gi, g := range m.Games {
			rows = append(rows, []string{
				strconv.Itoa(mi + 1),
				strconv.Itoa(gi + 1),
				g.First,
				g.Second,
				g.Winner,
				strconv.Itoa(g.TotalMoves),
				strconv.Itoa(g.Fallbacks[0]),
				strconv.Itoa(g.Fallbacks[1]),
				g.StartTime.Format(time.RFC3339),
				g.EndTime.Format(time.RFC3339),
				g.Duration.String(),
			})
		}
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(matches []MatchResult) error {
	header := []string{"match", "game", "step", "player", "column", "fallback", "algorithm", "duration", "iterations", "full_playouts", "nodes", "shortcut"}
	var rows [][]string
	for mi, m := range matches {
		for gi, g := range m.Games {
			for _, move := range g.Moves {
				rows = append(rows, []string{
					strconv.Itoa(mi + 1),
					strconv.Itoa(gi + 1),
					strconv.Itoa(move.Step),
					move.Player.String(),
					strconv.Itoa(move.Column),
					strconv.FormatBool(move.Fallback),
					move.Algorithm,
					move.Duration.String(),
					strconv.Itoa(move.Iterations),
					strconv.Itoa(move.FullPlayouts),
					strconv.Itoa(move.Nodes),
					strconv.FormatBool(move.Shortcut),
				})
			}
		}
	}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	// Create a file
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
