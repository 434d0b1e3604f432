package tournament

import (
	"fmt"
	"io"
	"time"

	"connect4/agent"
	"connect4/meta"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	RoundRobin Format = "round_robin"
	Knockout   Format = "knockout"
)

// TiePolicy settles matches where neither agent won a majority of the games.
type TiePolicy string

const (
	TieDraw TiePolicy = "draw" // The match is recorded as drawn
	TieCoin TiePolicy = "coin" // A seeded coin flip picks the winner
)

type Config struct {
	BestOf                  int           `yaml:"best_of"`
	FirstPlayerDistribution float64       `yaml:"first_player_distribution"` // Probability that the home agent starts a game
	Shuffle                 bool          `yaml:"shuffle"`
	Seed                    uint64        `yaml:"seed"` // 0 draws a random seed
	Format                  Format        `yaml:"format"`
	TiePolicy               TiePolicy     `yaml:"tie_policy"`
	Workers                 int           `yaml:"workers"`
	MountTimeout            time.Duration `yaml:"mount_timeout"`
}

func DefaultConfig() Config {
	return Config{
		BestOf:                  meta.BEST_OF,
		FirstPlayerDistribution: meta.FIRST_PLAYER_DISTRIBUTION,
		Shuffle:                 true,
		Format:                  RoundRobin,
		TiePolicy:               TieDraw,
		Workers:                 1,
		MountTimeout:            meta.MOUNT_TIMEOUT,
	}
}

func (c Config) Validate() error {
	if c.BestOf < 1 {
		return fmt.Errorf("best_of must be positive, got %d", c.BestOf)
	}
	if c.FirstPlayerDistribution < 0 || c.FirstPlayerDistribution > 1 {
		return fmt.Errorf("first_player_distribution must be within [0, 1], got %g", c.FirstPlayerDistribution)
	}
	switch c.Format {
	case RoundRobin, Knockout:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	switch c.TiePolicy {
	case TieDraw, TieCoin:
	default:
		return fmt.Errorf("unknown tie policy %q", c.TiePolicy)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", c.Workers)
	}
	if c.MountTimeout <= 0 {
		return fmt.Errorf("mount_timeout must be positive, got %s", c.MountTimeout)
	}
	return nil
}

// AgentConfig names one agent of a tournament file.
type AgentConfig struct {
	Name       string `yaml:"name"`
	agent.Spec `yaml:",inline"`
}

// File is the YAML tournament description:
//
//	tournament:
//	  best_of: 5
//	  format: round_robin
//	agents:
//	  - name: deep
//	    kind: minimax
//	    depth: 4
type File struct {
	Tournament Config        `yaml:"tournament"`
	Agents     []AgentConfig `yaml:"agents"`
}

// LoadFile decodes a tournament file. Settings it leaves out keep their defaults.
func LoadFile(r io.Reader) (*File, error) {
	f := &File{Tournament: DefaultConfig()}
	if err := yaml.NewDecoder(r).Decode(f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode tournament file: %w", err)
	}
	if err := f.Tournament.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tournament settings: %w", err)
	}
	for i, a := range f.Agents {
		if a.Name == "" {
			return nil, fmt.Errorf("agent %d has no name", i+1)
		}
	}
	return f, nil
}

// Entrants builds entrants whose agents come from registry.
func (f *File) Entrants(registry *agent.Registry) []Entrant {
	entrants := make([]Entrant, 0, len(f.Agents))
	for _, a := range f.Agents {
		spec := a.Spec
		entrants = append(entrants, Entrant{
			Name: a.Name,
			New: func(seed uint64) (agent.Agent, error) {
				return registry.New(spec, seed)
			},
		})
	}
	return entrants
}
