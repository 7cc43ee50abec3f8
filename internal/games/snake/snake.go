// Package snake is the classic snake game on a walled 20x20 grid.
package snake

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/reyesjorge76/jr-portfolio/internal/sim"
)

const (
	GridSize    = 20
	FoodScore   = 10
	defaultTick = 200 * time.Millisecond
)

var ErrUnknownDirection = errors.New("unknown direction")

// Cell is a grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) add(d Cell) Cell { return Cell{X: c.X + d.X, Y: c.Y + d.Y} }

func (c Cell) inside() bool {
	return c.X >= 0 && c.X < GridSize && c.Y >= 0 && c.Y < GridSize
}

var (
	Up    = Cell{X: 0, Y: -1}
	Down  = Cell{X: 0, Y: 1}
	Left  = Cell{X: -1, Y: 0}
	Right = Cell{X: 1, Y: 0}
)

// ParseDirection accepts "up", "down", "left", "right" and the browser
// arrow key names.
func ParseDirection(s string) (Cell, error) {
	switch s {
	case "up", "ArrowUp":
		return Up, nil
	case "down", "ArrowDown":
		return Down, nil
	case "left", "ArrowLeft":
		return Left, nil
	case "right", "ArrowRight":
		return Right, nil
	}
	return Cell{}, ErrUnknownDirection
}

// Game is one session. It is not safe for concurrent use.
type Game struct {
	body    []Cell // head first
	food    Cell
	heading Cell
	moved   Cell // heading of the last completed move
	over    bool
	score   int

	timer sim.Timer
	rng   *rand.Rand
}

// New starts a game.
func New(rng *rand.Rand) *Game {
	g := &Game{rng: rng, timer: sim.NewTimer(defaultTick)}
	g.Reset()
	return g
}

// Reset puts a one-cell snake at the centre heading right.
func (g *Game) Reset() {
	g.body = []Cell{{X: 10, Y: 10}}
	g.food = Cell{X: 15, Y: 15}
	g.heading = Right
	g.moved = Right
	g.over = false
	g.score = 0
	g.timer.Reset()
}

// Turn changes heading. Reversing onto the body is ignored.
func (g *Game) Turn(d Cell) {
	if d.X != 0 && g.moved.X != 0 {
		return
	}
	if d.Y != 0 && g.moved.Y != 0 {
		return
	}
	g.heading = d
}

// Step moves the snake once per tick until the game ends.
func (g *Game) Step(dt time.Duration) {
	for n := g.timer.Advance(dt); n > 0 && !g.over; n-- {
		g.Move()
	}
}

// Move advances the snake one cell.
func (g *Game) Move() {
	if g.over {
		return
	}
	head := g.body[0].add(g.heading)
	if !head.inside() || g.occupied(head) {
		g.over = true
		return
	}
	g.moved = g.heading
	g.body = append([]Cell{head}, g.body...)
	if head == g.food {
		g.score += FoodScore
		g.placeFood()
		return
	}
	g.body = g.body[:len(g.body)-1]
}

func (g *Game) occupied(c Cell) bool {
	for _, s := range g.body {
		if s == c {
			return true
		}
	}
	return false
}

func (g *Game) placeFood() {
	free := make([]Cell, 0, GridSize*GridSize-len(g.body))
	for y := range GridSize {
		for x := range GridSize {
			if c := (Cell{X: x, Y: y}); !g.occupied(c) {
				free = append(free, c)
			}
		}
	}
	if len(free) == 0 {
		g.over = true
		return
	}
	g.food = free[g.rng.IntN(len(free))]
}

// Over reports whether the game has ended.
func (g *Game) Over() bool { return g.over }

// Score is the points collected.
func (g *Game) Score() int { return g.score }

// Body returns a copy of the segments, head first.
func (g *Game) Body() []Cell { return append([]Cell(nil), g.body...) }

// Snapshot is the view of a game.
type Snapshot struct {
	Snake    []Cell `json:"snake"`
	Food     Cell   `json:"food"`
	Heading  Cell   `json:"heading"`
	Score    int    `json:"score"`
	GameOver bool   `json:"game_over"`
	Grid     int    `json:"grid"`
}

// Snapshot captures the current state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Snake:    g.Body(),
		Food:     g.food,
		Heading:  g.heading,
		Score:    g.score,
		GameOver: g.over,
		Grid:     GridSize,
	}
}
