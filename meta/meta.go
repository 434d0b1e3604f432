// meta/meta.go
package meta

import "time"

// DEPTH is the default minimax search depth.
const DEPTH = 3

// ITERATIONS is the default number of MCTS iterations per move.
const ITERATIONS = 400

// EXPLORATION is the default UCT exploration constant.
const EXPLORATION = 1.4

// ROLLOUT_CUTOFF caps the number of random moves in one MCTS rollout.
const ROLLOUT_CUTOFF = 100

// BEST_OF is the default number of games per match.
const BEST_OF = 5

// FIRST_PLAYER_DISTRIBUTION is the default probability that the home agent starts a game.
const FIRST_PLAYER_DISTRIBUTION = 0.5

// MOUNT_TIMEOUT bounds agent initialization when the config does not.
const MOUNT_TIMEOUT = 10 * time.Second
