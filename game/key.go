package game

import (
	"fmt"
	"strings"
)

// Key is the canonical flattening of a board in row-major order.
// It is comparable and can be used directly as a map key.
type Key [Cells]Cell

func KeyOf(b Board) Key {
	var k Key
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			k[r*Cols+c] = b[r][c]
		}
	}
	return k
}

func (k Key) Board() Board {
	var b Board
	for i, cell := range k {
		b[i/Cols][i%Cols] = cell
	}
	return b
}

// String encodes the key as Cells digits: 0 empty, 1 PlayerA, 2 PlayerB.
func (k Key) String() string {
	var sb strings.Builder
	sb.Grow(Cells)
	for _, cell := range k {
		sb.WriteByte(byte('0' + cell))
	}
	return sb.String()
}

// ParseKey decodes the output of Key.String.
func ParseKey(s string) (Key, error) {
	var k Key
	if len(s) != Cells {
		return k, fmt.Errorf("key has %d cells, expected %d", len(s), Cells)
	}
	for i := 0; i < Cells; i++ {
		switch cell := Cell(s[i] - '0'); cell {
		case Empty, PlayerA, PlayerB:
			k[i] = cell
		default:
			return k, fmt.Errorf("key cell %d: unknown value %q", i, s[i])
		}
	}
	return k, nil
}
