package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryLineWins(t *testing.T) {
	for _, m := range []Mark{X, O} {
		for _, l := range lines {
			var b Board
			for _, i := range l {
				b[i] = m
			}
			assert.Equal(t, string(m), Winner(b), "line %v", l)
		}
	}
}

func TestFullBoardIsDraw(t *testing.T) {
	b := Board{
		X, O, X,
		X, O, O,
		O, X, X,
	}
	assert.Equal(t, Draw, Winner(b))
}

func TestOpenBoard(t *testing.T) {
	assert.Equal(t, "", Winner(Board{X, O}))
}

func TestPlayAlternatesAndGuards(t *testing.T) {
	g := New()
	require.NoError(t, g.Play(4))
	assert.Equal(t, O, g.Turn())
	assert.ErrorIs(t, g.Play(4), ErrCellTaken)
	assert.ErrorIs(t, g.Play(9), ErrOutOfBounds)
	assert.ErrorIs(t, g.Play(-1), ErrOutOfBounds)

	// X: 4, 0, 8 wins the diagonal
	require.NoError(t, g.Play(1))
	require.NoError(t, g.Play(0))
	require.NoError(t, g.Play(2))
	require.NoError(t, g.Play(8))
	assert.Equal(t, "X", g.Winner())
	assert.ErrorIs(t, g.Play(3), ErrGameOver)

	g.Reset()
	assert.Equal(t, Board{}, g.Board())
	assert.Equal(t, X, g.Turn())
	assert.Empty(t, g.Winner())
}

func TestBestMoveTakesWin(t *testing.T) {
	b := Board{
		O, O, Empty,
		X, X, Empty,
		Empty, Empty, Empty,
	}
	assert.Equal(t, 5, BestMove(b, X))
	assert.Equal(t, 2, BestMove(b, O))
}

func TestBestMoveBlocks(t *testing.T) {
	b := Board{
		X, X, Empty,
		Empty, O, Empty,
		Empty, Empty, Empty,
	}
	assert.Equal(t, 2, BestMove(b, O))
}

func TestBestMoveFinishedBoard(t *testing.T) {
	assert.Equal(t, -1, BestMove(Board{X, X, X}, O))
}

func TestPerfectPlayDraws(t *testing.T) {
	g := New()
	for g.Winner() == "" {
		_, err := g.PlayBest()
		require.NoError(t, err)
	}
	assert.Equal(t, Draw, g.Winner())

	_, err := g.PlayBest()
	assert.ErrorIs(t, err, ErrGameOver)
}
