// Package tictactoe is a 3x3 noughts and crosses board with an optional
// minimax opponent.
package tictactoe

import (
	"errors"
	"math"
)

// Mark is a cell value.
type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

// Draw is the result of a full board without a line.
const Draw = "Draw"

var (
	ErrCellTaken   = errors.New("cell already taken")
	ErrGameOver    = errors.New("game is over")
	ErrOutOfBounds = errors.New("cell out of range")
)

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Board is the cell grid in row-major order.
type Board [9]Mark

// Winner returns "X" or "O" for a completed line, Draw for a full board, or
// "" while the game is open.
func Winner(b Board) string {
	for _, l := range lines {
		a := b[l[0]]
		if a != Empty && a == b[l[1]] && a == b[l[2]] {
			return string(a)
		}
	}
	for _, c := range b {
		if c == Empty {
			return ""
		}
	}
	return Draw
}

// Game is one session. It is not safe for concurrent use.
type Game struct {
	board  Board
	xNext  bool
	winner string
}

// New returns an empty board with X to move.
func New() *Game {
	g := &Game{}
	g.Reset()
	return g
}

// Reset clears the board.
func (g *Game) Reset() {
	g.board = Board{}
	g.xNext = true
	g.winner = ""
}

// Board returns a copy of the board.
func (g *Game) Board() Board { return g.board }

// Turn is the mark to move next.
func (g *Game) Turn() Mark {
	if g.xNext {
		return X
	}
	return O
}

// Winner is the current result.
func (g *Game) Winner() string { return g.winner }

// Play puts the current player's mark on cell i.
func (g *Game) Play(i int) error {
	if i < 0 || i >= len(g.board) {
		return ErrOutOfBounds
	}
	if g.winner != "" {
		return ErrGameOver
	}
	if g.board[i] != Empty {
		return ErrCellTaken
	}
	g.board[i] = g.Turn()
	g.xNext = !g.xNext
	g.winner = Winner(g.board)
	return nil
}

// PlayBest lets the computer move for the current player.
func (g *Game) PlayBest() (int, error) {
	if g.winner != "" {
		return -1, ErrGameOver
	}
	i := BestMove(g.board, g.Turn())
	return i, g.Play(i)
}

// BestMove picks the minimax-optimal cell for me, preferring the quickest
// win and the slowest loss. Ties go to the lowest index. It returns -1 on a
// finished board.
func BestMove(b Board, me Mark) int {
	if Winner(b) != "" {
		return -1
	}
	best, bestScore := -1, math.MinInt
	for i := range b {
		if b[i] != Empty {
			continue
		}
		b[i] = me
		score := -negamax(b, other(me), 1)
		b[i] = Empty
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// negamax scores the board for the player to move. Wins are worth more the
// fewer plies it took to reach them.
func negamax(b Board, toMove Mark, depth int) int {
	switch w := Winner(b); w {
	case "":
	case Draw:
		return 0
	default:
		if Mark(w) == toMove {
			return 10 - depth
		}
		return depth - 10
	}
	best := math.MinInt
	for i := range b {
		if b[i] != Empty {
			continue
		}
		b[i] = toMove
		score := -negamax(b, other(toMove), depth+1)
		b[i] = Empty
		if score > best {
			best = score
		}
	}
	return best
}

func other(m Mark) Mark {
	if m == X {
		return O
	}
	return X
}

// Snapshot is the view of a game.
type Snapshot struct {
	Board  Board  `json:"board"`
	Turn   Mark   `json:"turn"`
	Winner string `json:"winner,omitempty"`
}

// Snapshot captures the current state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{Board: g.board, Turn: g.Turn(), Winner: g.winner}
}
