package searcher

import "math"

// uct scores children of one parent:
// UCT = q/n + c*sqrt(ln(N+1)/n)
type uct struct {
	c   float64
	lnN float64
}

func newUCT(c float64, N int) *uct {
	if N < 0 {
		panic("N cannot be negative")
	}
	return &uct{c: c, lnN: math.Log(float64(N) + 1)}
}

func (u uct) evaluate(q float64, n int) float64 {
	// Prioritize unexplored nodes
	if n == 0 {
		return math.Inf(1)
	}
	return q/float64(n) + u.c*math.Sqrt(u.lnN/float64(n))
}
