package agent

import (
	"fmt"
	"sync"

	"connect4/searcher"

	"golang.org/x/exp/slices"
)

// Spec describes an agent in a tournament file. Zero values keep the defaults.
type Spec struct {
	Kind        string  `yaml:"kind"`
	Depth       int     `yaml:"depth,omitempty"`
	Iterations  int     `yaml:"iterations,omitempty"`
	Exploration float64 `yaml:"exploration,omitempty"`
	Cutoff      int     `yaml:"cutoff,omitempty"`
	Table       string  `yaml:"table,omitempty"`
}

// Factory builds an agent from its spec. seed drives every random choice of the agent.
type Factory func(spec Spec, seed uint64) (Agent, error)

// Registry maps agent kinds to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry knows the built-in kinds: minimax, mcts, random and qtable.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("minimax", newMinimaxFromSpec)
	r.Register("mcts", newMCTSFromSpec)
	r.Register("random", func(_ Spec, seed uint64) (Agent, error) {
		return NewRandom(seed), nil
	})
	r.Register("qtable", func(spec Spec, _ uint64) (Agent, error) {
		if spec.Table == "" {
			return NewQTable(nil), nil
		}
		return NewQTableFile(spec.Table), nil
	})
	return r
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, factory Factory) {
	if kind == "" || factory == nil {
		panic("agent kind and factory are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = factory
}

func (r *Registry) New(spec Spec, seed uint64) (Agent, error) {
	r.mu.RLock()
	factory, ok := r.factories[spec.Kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}
	return factory(spec, seed)
}

// Kinds lists the registered kinds in alphabetical order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	r.mu.RUnlock()
	slices.Sort(kinds)
	return kinds
}

func newMinimaxFromSpec(spec Spec, _ uint64) (Agent, error) {
	if spec.Depth < 0 {
		return nil, fmt.Errorf("invalid depth %d", spec.Depth)
	}
	var options []searcher.MinimaxOption
	if spec.Depth > 0 {
		options = append(options, searcher.WithDepth(spec.Depth))
	}
	return NewMinimax(options...), nil
}

func newMCTSFromSpec(spec Spec, seed uint64) (Agent, error) {
	if spec.Iterations < 0 || spec.Exploration < 0 || spec.Cutoff < 0 {
		return nil, fmt.Errorf("invalid mcts parameters: iterations %d, exploration %g, cutoff %d",
			spec.Iterations, spec.Exploration, spec.Cutoff)
	}
	options := []searcher.Option{searcher.WithSeed(seed)}
	if spec.Iterations > 0 {
		options = append(options, searcher.WithIterations(spec.Iterations))
	}
	if spec.Exploration > 0 {
		options = append(options, searcher.WithExploration(spec.Exploration))
	}
	if spec.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(spec.Cutoff))
	}
	return NewMCTS(options...), nil
}
