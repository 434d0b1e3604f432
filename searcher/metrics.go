package searcher

import (
	"time"
)

type SearchMetric struct {
	Algorithm    string
	StartTime    time.Time
	Duration     time.Duration
	Iterations   int  // MCTS iterations run
	FullPlayouts int  // Rollouts that reached a terminal position before the cutoff
	Nodes        int  // Tree nodes created (MCTS) or positions visited (minimax)
	Shortcut     bool // Decided by an immediate win or block without searching
}

type Collector interface {
	Start(algorithm string)
	AddIteration()
	AddFullPlayout()
	AddNode()
	SetShortcut()
	Complete() SearchMetric
}

// collector is owned by a single searcher and is not safe for concurrent use
type collector struct {
	metric SearchMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(algorithm string) {
	m.metric = SearchMetric{Algorithm: algorithm, StartTime: time.Now()}
}

func (m *collector) AddIteration() {
	m.metric.Iterations++
}

func (m *collector) AddFullPlayout() {
	m.metric.FullPlayouts++
}

func (m *collector) AddNode() {
	m.metric.Nodes++
}

func (m *collector) SetShortcut() {
	m.metric.Shortcut = true
}

func (m *collector) Complete() SearchMetric {
	metric := m.metric
	metric.Duration = time.Since(metric.StartTime)
	return metric
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(algorithm string)  {}
func (m *dummyCollector) AddIteration()           {}
func (m *dummyCollector) AddFullPlayout()         {}
func (m *dummyCollector) AddNode()                {}
func (m *dummyCollector) SetShortcut()            {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
