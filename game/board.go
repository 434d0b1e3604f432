package game

import (
	"fmt"
	"strings"
)

// Board is a Rows x Cols grid, row 0 on top. Pieces fall towards row Rows-1.
// Boards are values: assigning or passing one copies it.
type Board [Rows][Cols]Cell

// directions scanned for streaks: horizontal, vertical, diagonal, anti-diagonal
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// ValidMoves returns the columns whose top cell is empty, in ascending order.
func ValidMoves(b Board) []int {
	moves := make([]int, 0, Cols)
	for c := 0; c < Cols; c++ {
		if b[0][c] == Empty {
			moves = append(moves, c)
		}
	}
	return moves
}

// IsValidMove reports whether a piece can be dropped in column col.
func IsValidMove(b Board, col int) bool {
	return col >= 0 && col < Cols && b[0][col] == Empty
}

// Drop returns a copy of b with a piece of player on the lowest empty row of col.
func Drop(b Board, col int, player Cell) (Board, error) {
	if col < 0 || col >= Cols {
		return b, fmt.Errorf("column %d out of range: %w", col, ErrInvalidMove)
	}
	for r := Rows - 1; r >= 0; r-- {
		if b[r][col] == Empty {
			b[r][col] = player
			return b, nil
		}
	}
	return b, fmt.Errorf("column %d is full: %w", col, ErrInvalidMove)
}

// MustDrop is Drop for callers that already checked the column is valid.
func MustDrop(b Board, col int, player Cell) Board {
	nb, err := Drop(b, col, player)
	if err != nil {
		panic(err)
	}
	return nb
}

// HasFour reports whether player owns Streak contiguous cells in any orientation.
func HasFour(b Board, player Cell) bool {
	if player == Empty {
		return false
	}
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if b[r][c] != player {
				continue
			}
			for _, d := range directions {
				if b.streak(r, c, d[0], d[1], player) {
					return true
				}
			}
		}
	}
	return false
}

func (b *Board) streak(r, c, dr, dc int, player Cell) bool {
	endR, endC := r+(Streak-1)*dr, c+(Streak-1)*dc
	if endR < 0 || endR >= Rows || endC < 0 || endC >= Cols {
		return false
	}
	for i := 1; i < Streak; i++ {
		if b[r+i*dr][c+i*dc] != player {
			return false
		}
	}
	return true
}

// IsWinningMove reports whether dropping in col gives player four in a row.
func IsWinningMove(b Board, col int, player Cell) bool {
	if !IsValidMove(b, col) {
		return false
	}
	return HasFour(MustDrop(b, col, player), player)
}

// IsFull reports whether no column accepts another piece.
func IsFull(b Board) bool {
	for c := 0; c < Cols; c++ {
		if b[0][c] == Empty {
			return false
		}
	}
	return true
}

// IsFinal reports whether the game on b is over.
func IsFinal(b Board) bool {
	return HasFour(b, PlayerA) || HasFour(b, PlayerB) || IsFull(b)
}

// Result classifies b as won, drawn or ongoing.
func Result(b Board) Outcome {
	switch {
	case HasFour(b, PlayerA):
		return WinA
	case HasFour(b, PlayerB):
		return WinB
	case IsFull(b):
		return Draw
	}
	return Ongoing
}

// Count returns the number of pieces player has on the board.
func Count(b Board, player Cell) int {
	n := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if b[r][c] == player {
				n++
			}
		}
	}
	return n
}

// Turn infers the player to move from piece counts. PlayerA always opens.
func Turn(b Board) Cell {
	if Count(b, PlayerA) <= Count(b, PlayerB) {
		return PlayerA
	}
	return PlayerB
}

func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			sb.WriteString(b[r][c].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard reads the format produced by Board.String. Whitespace between rows is ignored;
// '.', 'A' and 'B' are the accepted cell symbols.
func ParseBoard(s string) (Board, error) {
	var b Board
	fields := strings.Fields(s)
	if len(fields) != Rows {
		return b, fmt.Errorf("expected %d rows, got %d", Rows, len(fields))
	}
	for r, row := range fields {
		if len(row) != Cols {
			return b, fmt.Errorf("row %d: expected %d cells, got %d", r, Cols, len(row))
		}
		for c, ch := range row {
			switch ch {
			case '.':
				b[r][c] = Empty
			case 'A':
				b[r][c] = PlayerA
			case 'B':
				b[r][c] = PlayerB
			default:
				return b, fmt.Errorf("row %d col %d: unknown cell %q", r, c, ch)
			}
		}
	}
	return b, nil
}
