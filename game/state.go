package game

import "fmt"

// State is an immutable position. Play always returns a new State, so search
// can branch from any State without touching the match lineage.
type State struct {
	board Board
}

func NewState() State {
	return State{}
}

// FromBoard wraps an existing board, the player to move is inferred from piece counts.
func FromBoard(b Board) State {
	return State{board: b}
}

func (s State) Board() Board {
	return s.board
}

// Player returns the player to move.
func (s State) Player() Cell {
	return Turn(s.board)
}

func (s State) Opponent() Cell {
	return s.Player().Other()
}

func (s State) ValidMoves() []int {
	if HasFour(s.board, PlayerA) || HasFour(s.board, PlayerB) {
		return nil
	}
	return ValidMoves(s.board)
}

// Play drops a piece of the player to move in col.
func (s State) Play(col int) (State, error) {
	if s.IsFinal() {
		return s, fmt.Errorf("column %d: %w", col, ErrGameOver)
	}
	b, err := Drop(s.board, col, s.Player())
	if err != nil {
		return s, err
	}
	return State{board: b}, nil
}

func (s State) IsFinal() bool {
	return IsFinal(s.board)
}

func (s State) Winner() Outcome {
	return Result(s.board)
}

// Plies returns the number of moves played so far.
func (s State) Plies() int {
	return Count(s.board, PlayerA) + Count(s.board, PlayerB)
}

func (s State) Key() Key {
	return KeyOf(s.board)
}

func (s State) String() string {
	return s.board.String()
}
