package searcher

import "connect4/game"

// WinningMove returns the first valid column that completes four in a row for player.
func WinningMove(b game.Board, player game.Cell) (int, bool) {
	for _, col := range game.ValidMoves(b) {
		if game.IsWinningMove(b, col, player) {
			return col, true
		}
	}
	return 0, false
}

// Forced returns a column player must take: an immediate win, otherwise a column
// where the opponent would win on the next move.
func Forced(b game.Board, player game.Cell) (int, bool) {
	if col, ok := WinningMove(b, player); ok {
		return col, true
	}
	return WinningMove(b, player.Other())
}

// SafeMoves drops the moves after which the opponent has an immediate winning reply.
// If every move is unsafe, moves is returned unchanged.
func SafeMoves(b game.Board, player game.Cell, moves []int) []int {
	safe := make([]int, 0, len(moves))
	for _, col := range moves {
		next := game.MustDrop(b, col, player)
		if _, ok := WinningMove(next, player.Other()); !ok {
			safe = append(safe, col)
		}
	}
	if len(safe) == 0 {
		return moves
	}
	return safe
}
