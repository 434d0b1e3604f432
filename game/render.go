package game

import (
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

const (
	colorA = "1" // red
	colorB = "3" // yellow
)

// Render draws b for a terminal. Colors follow the output's profile, so an
// Ascii profile yields plain text.
func Render(b Board, out *termenv.Output) string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		sb.WriteByte('|')
		for c := 0; c < Cols; c++ {
			sb.WriteString(disc(b[r][c], out))
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte(' ')
	for c := 0; c < Cols; c++ {
		sb.WriteString(strconv.Itoa(c))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	return sb.String()
}

func disc(cell Cell, out *termenv.Output) string {
	switch cell {
	case PlayerA:
		return out.String("X").Foreground(out.Color(colorA)).Bold().String()
	case PlayerB:
		return out.String("O").Foreground(out.Color(colorB)).Bold().String()
	}
	return " "
}
