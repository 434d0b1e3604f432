package agent

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"connect4/game"

	"github.com/stretchr/testify/require"
)

func mustState(t *testing.T, s string) game.State {
	t.Helper()
	b, err := game.ParseBoard(s)
	require.NoError(t, err)
	return game.FromBoard(b)
}

func TestSearchAgents(t *testing.T) {
	win := mustState(t, `
		.......
		.......
		.......
		.......
		......B
		AAA..BB`)
	block := mustState(t, `
		.......
		.......
		.......
		.......
		....AA.
		A...BBB`)

	agents := map[string]Agent{
		"minimax": NewMinimax(),
		"mcts":    NewMCTS(),
	}
	for name, a := range agents {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, a.Mount(context.Background()))

			require.Equal(t, 3, a.Act(win), "should take the win")
			require.Equal(t, 3, a.Act(block), "should block")

			reporter, ok := a.(Reporter)
			require.True(t, ok, "search agents report metrics")
			require.True(t, reporter.LastMetric().Shortcut)
			require.Equal(t, name, reporter.LastMetric().Algorithm)
		})
	}
}

func TestMountHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, NewMinimax().Mount(ctx), context.Canceled)
	require.ErrorIs(t, NewRandom(1).Mount(ctx), context.Canceled)
}

func TestRandomAgent(t *testing.T) {
	s := mustState(t, `
		A.B.A.B
		B.A.B.A
		A.B.A.B
		B.A.B.A
		A.B.A.B
		B.A.B.A`)
	a := NewRandom(9)

	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		col := a.Act(s)
		require.Contains(t, []int{1, 3, 5}, col)
		seen[col] = true
	}
	require.Len(t, seen, 3, "every valid column should come up")
}

func TestTableUpdate(t *testing.T) {
	table := NewTable()
	s := game.NewState()
	next, err := s.Play(3)
	require.NoError(t, err)

	table.Update(s.Key(), 3, 1.0, next.Key(), next.ValidMoves(), 0.5, 0.9)

	snapshot := table.Snapshot()
	require.InDelta(t, 0.5, snapshot.Value(s.Key(), 3), 1e-9)
	require.Zero(t, snapshot.Value(s.Key(), 2))

	table.Update(next.Key(), 4, 2.0, s.Key(), []int{3}, 1.0, 0.0)
	table.Update(s.Key(), 3, 0.0, next.Key(), next.ValidMoves(), 0.5, 0.9)

	// 0.5 + 0.5 * (0 + 0.9*2 - 0.5)
	require.InDelta(t, 1.15, table.Snapshot().Value(s.Key(), 3), 1e-9)
	require.InDelta(t, 0.5, snapshot.Value(s.Key(), 3), 1e-9, "snapshots never change")
	require.Equal(t, 2, table.Size())

	require.Panics(t, func() {
		table.Update(s.Key(), game.Cols, 0, next.Key(), nil, 0.1, 0.9)
	})
}

func TestTableSaveLoad(t *testing.T) {
	table := NewTable()
	s := game.NewState()
	for _, col := range []int{3, 2, 4} {
		next, err := s.Play(col)
		require.NoError(t, err)
		table.Update(s.Key(), col, 1.0, next.Key(), next.ValidMoves(), 0.1, 0.9)
		s = next
	}

	var buf bytes.Buffer
	require.NoError(t, table.Save(&buf))

	loaded := NewTable()
	require.NoError(t, loaded.Load(&buf))

	require.Equal(t, table.Snapshot(), loaded.Snapshot())
	require.Error(t, loaded.Load(bytes.NewBufferString("not a table")))
}

func TestQTableAgent(t *testing.T) {
	t.Run("plays the highest valued column", func(t *testing.T) {
		table := NewTable()
		s := game.NewState()
		next, err := s.Play(5)
		require.NoError(t, err)
		table.Update(s.Key(), 5, 1.0, next.Key(), nil, 1.0, 0.9)
		table.Update(s.Key(), 1, -1.0, next.Key(), nil, 1.0, 0.9)

		a := NewQTable(table.Snapshot())
		require.NoError(t, a.Mount(context.Background()))

		require.Equal(t, 5, a.Act(s))
	})

	t.Run("unseen positions play the first valid column", func(t *testing.T) {
		s := mustState(t, `
			A......
			B......
			A......
			B......
			A......
			B......`)

		require.Equal(t, 1, NewQTable(nil).Act(s))
	})

	t.Run("loads its table on mount", func(t *testing.T) {
		table := NewTable()
		s := game.NewState()
		next, err := s.Play(6)
		require.NoError(t, err)
		table.Update(s.Key(), 6, 1.0, next.Key(), nil, 1.0, 0.9)

		path := filepath.Join(t.TempDir(), "q.gob")
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, table.Save(f))
		require.NoError(t, f.Close())

		a := NewQTableFile(path)
		require.NoError(t, a.Mount(context.Background()))
		require.Equal(t, 6, a.Act(s))
	})

	t.Run("missing table fails to mount", func(t *testing.T) {
		a := NewQTableFile(filepath.Join(t.TempDir(), "missing.gob"))
		require.Error(t, a.Mount(context.Background()))
	})
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	require.Equal(t, []string{"mcts", "minimax", "qtable", "random"}, r.Kinds())

	for _, kind := range r.Kinds() {
		a, err := r.New(Spec{Kind: kind}, 1)
		require.NoError(t, err, kind)
		require.NoError(t, a.Mount(context.Background()), kind)
		require.Contains(t, game.ValidMoves(game.Board{}), a.Act(game.NewState()), kind)
	}

	t.Run("unknown kind", func(t *testing.T) {
		_, err := r.New(Spec{Kind: "alphazero"}, 1)
		require.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("invalid parameters", func(t *testing.T) {
		_, err := r.New(Spec{Kind: "minimax", Depth: -1}, 1)
		require.Error(t, err)

		_, err = r.New(Spec{Kind: "mcts", Iterations: -5}, 1)
		require.Error(t, err)
	})

	t.Run("custom kinds", func(t *testing.T) {
		r.Register("first", func(Spec, uint64) (Agent, error) {
			return NewQTable(nil), nil
		})

		a, err := r.New(Spec{Kind: "first"}, 0)
		require.NoError(t, err)
		require.Equal(t, 0, a.Act(game.NewState()))
	})

	t.Run("seeded mcts agents agree", func(t *testing.T) {
		spec := Spec{Kind: "mcts", Iterations: 100}
		a1, err := r.New(spec, 77)
		require.NoError(t, err)
		a2, err := r.New(spec, 77)
		require.NoError(t, err)

		require.Equal(t, a1.Act(game.NewState()), a2.Act(game.NewState()))
	})
}
