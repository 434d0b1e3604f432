package game

const centerWeight = 3

// EvaluateWindows scores a non-terminal board from player's perspective: a bonus for
// pieces in the center column plus a score for every window of Streak cells in all four
// orientations. Blocked windows (holding pieces of both players) are worth nothing and
// opponent threats weigh more than own ones.
func EvaluateWindows(b Board, player Cell) int {
	opponent := player.Other()
	score := 0

	for r := 0; r < Rows; r++ {
		switch b[r][Center] {
		case player:
			score += centerWeight
		case opponent:
			score -= centerWeight
		}
	}

	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			for _, d := range directions {
				endR, endC := r+(Streak-1)*d[0], c+(Streak-1)*d[1]
				if endR < 0 || endR >= Rows || endC < 0 || endC >= Cols {
					continue
				}
				own, opp, empty := 0, 0, 0
				for i := 0; i < Streak; i++ {
					switch b[r+i*d[0]][c+i*d[1]] {
					case player:
						own++
					case opponent:
						opp++
					default:
						empty++
					}
				}
				score += windowScore(own, opp, empty)
			}
		}
	}
	return score
}

func windowScore(own, opp, empty int) int {
	if own > 0 && opp > 0 {
		return 0
	}
	switch {
	case own == 3 && empty == 1:
		return 100
	case own == 2 && empty == 2:
		return 10
	case own == 1 && empty == 3:
		return 1
	case opp == 3 && empty == 1:
		return -80
	case opp == 2 && empty == 2:
		return -8
	}
	return 0
}
