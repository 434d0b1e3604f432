package agent

import (
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"sync"

	"connect4/game"

	"github.com/rs/zerolog/log"
)

type values [game.Cols]float64

// Table holds action values per position. It is written by a trainer through Update
// and read by agents through immutable snapshots.
type Table struct {
	mu sync.RWMutex
	q  map[game.Key]values
}

func NewTable() *Table {
	return &Table{q: make(map[game.Key]values)}
}

// Update applies one Q-learning step:
// Q(s,a) += alpha * (reward + gamma * max Q(next, a') - Q(s,a))
// The max over next is 0 when nextMoves is empty.
func (t *Table) Update(state game.Key, action int, reward float64, next game.Key, nextMoves []int, alpha, gamma float64) {
	if action < 0 || action >= game.Cols {
		panic(fmt.Sprintf("action %d out of range", action))
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	nextMax := 0.0
	if row, ok := t.q[next]; ok && len(nextMoves) > 0 {
		nextMax = row[nextMoves[0]]
		for _, col := range nextMoves[1:] {
			nextMax = max(nextMax, row[col])
		}
	}

	row := t.q[state]
	row[action] += alpha * (reward + gamma*nextMax - row[action])
	t.q[state] = row
}

func (t *Table) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.q)
}

// Snapshot copies the table for read-only use.
func (t *Table) Snapshot() *Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	q := make(map[game.Key]values, len(t.q))
	for key, row := range t.q {
		q[key] = row
	}
	return &Snapshot{q: q}
}

// Save writes the table as gob-encoded key strings to action values.
func (t *Table) Save(w io.Writer) error {
	t.mu.RLock()
	encoded := make(map[string][]float64, len(t.q))
	for key, row := range t.q {
		encoded[key.String()] = append([]float64(nil), row[:]...)
	}
	t.mu.RUnlock()

	if err := gob.NewEncoder(w).Encode(encoded); err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}
	return nil
}

// Load replaces the table contents with a table written by Save.
func (t *Table) Load(r io.Reader) error {
	var encoded map[string][]float64
	if err := gob.NewDecoder(r).Decode(&encoded); err != nil {
		return fmt.Errorf("failed to decode table: %w", err)
	}

	q := make(map[game.Key]values, len(encoded))
	for s, row := range encoded {
		key, err := game.ParseKey(s)
		if err != nil {
			return fmt.Errorf("invalid table entry: %w", err)
		}
		if len(row) != game.Cols {
			return fmt.Errorf("invalid table entry %s: %d action values", s, len(row))
		}
		var v values
		copy(v[:], row)
		q[key] = v
	}

	t.mu.Lock()
	t.q = q
	t.mu.Unlock()
	return nil
}

// Snapshot is an immutable view of a Table, safe to share between agents.
type Snapshot struct {
	q map[game.Key]values
}

// Value returns Q(key, col), 0 for unseen positions.
func (s *Snapshot) Value(key game.Key, col int) float64 {
	return s.q[key][col]
}

func (s *Snapshot) Size() int {
	return len(s.q)
}

type qTableAgent struct {
	snapshot *Snapshot
	path     string
}

// NewQTable returns an agent that greedily plays the highest valued column of snapshot.
func NewQTable(snapshot *Snapshot) Agent {
	if snapshot == nil {
		snapshot = &Snapshot{}
	}
	return &qTableAgent{snapshot: snapshot}
}

// NewQTableFile returns a Q-table agent whose table is loaded from path on Mount.
func NewQTableFile(path string) Agent {
	return &qTableAgent{snapshot: &Snapshot{}, path: path}
}

func (a *qTableAgent) Mount(ctx context.Context) error {
	if a.path == "" {
		return ctx.Err()
	}

	loaded := make(chan error, 1)
	table := NewTable()
	go func() {
		f, err := os.Open(a.path)
		if err != nil {
			loaded <- err
			return
		}
		defer f.Close()
		loaded <- table.Load(f)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("loading table %s: %w", a.path, ctx.Err())
	case err := <-loaded:
		if err != nil {
			return fmt.Errorf("loading table %s: %w", a.path, err)
		}
	}
	a.snapshot = table.Snapshot()
	log.Debug().Msgf("loaded table %s with %d positions", a.path, a.snapshot.Size())
	return nil
}

// Act picks the valid column with the highest value; ties go to the lowest column.
func (a *qTableAgent) Act(state game.State) int {
	moves := state.ValidMoves()
	if len(moves) == 0 {
		return 0
	}

	key := state.Key()
	best := moves[0]
	bestValue := a.snapshot.Value(key, best)
	for _, col := range moves[1:] {
		if v := a.snapshot.Value(key, col); v > bestValue {
			best, bestValue = col, v
		}
	}
	return best
}
