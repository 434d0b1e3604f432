package game

import "errors"

const (
	Rows   = 6
	Cols   = 7
	Cells  = Rows * Cols
	Center = Cols / 2
	Streak = 4 // Pieces in a row needed to win
)

// Cell is the content of one board square, also used to identify players
type Cell int8

const (
	Empty Cell = iota
	PlayerA
	PlayerB
)

func (c Cell) Other() Cell {
	switch c {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return Empty
}

func (c Cell) String() string {
	switch c {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	}
	return "."
}

// Outcome of a board: still running, won by one side, or drawn
type Outcome int

const (
	Ongoing Outcome = iota
	WinA
	WinB
	Draw
)

func (o Outcome) String() string {
	switch o {
	case WinA:
		return "A"
	case WinB:
		return "B"
	case Draw:
		return "draw"
	}
	return "ongoing"
}

// Winner returns the winning player, or Empty for draws and running games.
func (o Outcome) Winner() Cell {
	switch o {
	case WinA:
		return PlayerA
	case WinB:
		return PlayerB
	}
	return Empty
}

var (
	ErrInvalidMove = errors.New("invalid move")
	ErrGameOver    = errors.New("game is over")
)

// Evaluate scores a board from one player's perspective, higher is better for that player.
type Evaluate func(board Board, player Cell) int
