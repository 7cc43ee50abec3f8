package snake

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame() *Game {
	return New(rand.New(rand.NewPCG(5, 6)))
}

func TestMovesOnTick(t *testing.T) {
	g := newGame()
	g.Step(199 * time.Millisecond)
	assert.Equal(t, []Cell{{X: 10, Y: 10}}, g.Body())

	g.Step(time.Millisecond)
	assert.Equal(t, []Cell{{X: 11, Y: 10}}, g.Body())
}

func TestWallEndsGame(t *testing.T) {
	g := newGame()
	for range 9 {
		g.Move()
	}
	require.False(t, g.Over())
	assert.Equal(t, Cell{X: 19, Y: 10}, g.Body()[0])

	g.Move()
	assert.True(t, g.Over())
	assert.Equal(t, Cell{X: 19, Y: 10}, g.Body()[0], "body unchanged on death")

	g.Step(time.Second)
	assert.Equal(t, Cell{X: 19, Y: 10}, g.Body()[0])
}

func TestBodyCollisionEndsGame(t *testing.T) {
	g := newGame()
	// a hook: head at (5,5) heading down into its own body at (5,6)
	g.body = []Cell{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}, {X: 4, Y: 6}}
	g.moved = Left
	g.Turn(Down)
	g.Move()
	assert.True(t, g.Over())
}

func TestEatingGrowsAndScores(t *testing.T) {
	g := newGame()
	g.food = Cell{X: 11, Y: 10}

	g.Move()
	assert.Equal(t, FoodScore, g.Score())
	assert.Equal(t, []Cell{{X: 11, Y: 10}, {X: 10, Y: 10}}, g.Body())
	assert.NotContains(t, g.Body(), g.food, "food lands on a free cell")

	g.food = Cell{X: 0, Y: 0}
	g.Move()
	assert.Len(t, g.Body(), 2, "length kept when not eating")
}

func TestReverseIgnored(t *testing.T) {
	g := newGame()
	g.Turn(Left)
	assert.Equal(t, Right, g.heading)

	g.Turn(Up)
	g.Turn(Left) // still reverses the last completed move
	assert.Equal(t, Up, g.heading)

	g.Move()
	g.Turn(Left)
	assert.Equal(t, Left, g.heading)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("ArrowDown")
	require.NoError(t, err)
	assert.Equal(t, Down, d)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrUnknownDirection)
}

func TestReset(t *testing.T) {
	g := newGame()
	for range 20 {
		g.Move()
	}
	require.True(t, g.Over())

	g.Reset()
	snap := g.Snapshot()
	assert.False(t, snap.GameOver)
	assert.Zero(t, snap.Score)
	assert.Equal(t, Cell{X: 15, Y: 15}, snap.Food)
	assert.Equal(t, []Cell{{X: 10, Y: 10}}, snap.Snake)
}
