// Package memory is the card-matching game: six symbols, each on two cards,
// shuffled face down.
package memory

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/reyesjorge76/jr-portfolio/internal/sim"
)

const (
	matchDelay    = 500 * time.Millisecond
	mismatchDelay = time.Second
)

// Symbols are the card faces.
var Symbols = []string{"🎮", "🎯", "🎨", "🎭", "🎪", "🎲"}

var (
	ErrNoSuchCard = errors.New("no such card")
	ErrNotFlip    = errors.New("card cannot be flipped now")
)

// Card is one card on the table.
type Card struct {
	ID      int    `json:"id"`
	Value   string `json:"value"`
	Flipped bool   `json:"flipped"`
	Matched bool   `json:"matched"`
}

// Game is one session. It is not safe for concurrent use.
type Game struct {
	cards   []Card
	flipped []int
	moves   int
	won     bool

	resolve sim.Countdown
	rng     *rand.Rand
}

// New deals a shuffled table.
func New(rng *rand.Rand) *Game {
	g := &Game{rng: rng}
	g.Reset()
	return g
}

// Reset reshuffles and clears the score.
func (g *Game) Reset() {
	g.cards = g.cards[:0]
	for i, v := range append(append([]string{}, Symbols...), Symbols...) {
		g.cards = append(g.cards, Card{ID: i, Value: v})
	}
	if g.rng != nil {
		g.rng.Shuffle(len(g.cards), func(i, j int) {
			g.cards[i], g.cards[j] = g.cards[j], g.cards[i]
		})
	}
	g.flipped = nil
	g.moves = 0
	g.won = false
	g.resolve.Disarm()
}

// Flip turns card id face up. A matched card, a face-up card, or a third card
// while two are pending cannot be flipped.
func (g *Game) Flip(id int) error {
	i := g.index(id)
	if i < 0 {
		return ErrNoSuchCard
	}
	c := &g.cards[i]
	if c.Matched || c.Flipped || len(g.flipped) >= 2 {
		return ErrNotFlip
	}
	c.Flipped = true
	g.flipped = append(g.flipped, id)
	g.moves++

	if len(g.flipped) == 2 {
		if g.pairMatches() {
			g.resolve.Arm(matchDelay)
		} else {
			g.resolve.Arm(mismatchDelay)
		}
	}
	return nil
}

// Step resolves a pending pair once its delay has passed.
func (g *Game) Step(dt time.Duration) {
	if !g.resolve.Advance(dt) {
		return
	}
	match := g.pairMatches()
	for _, id := range g.flipped {
		c := &g.cards[g.index(id)]
		if match {
			c.Matched = true
		} else {
			c.Flipped = false
		}
	}
	g.flipped = nil
	if match && g.allMatched() {
		g.won = true
	}
}

// Pending is the number of face-up cards awaiting resolution.
func (g *Game) Pending() int { return len(g.flipped) }

// Won reports whether every pair has been found.
func (g *Game) Won() bool { return g.won }

// Moves is the number of flips made.
func (g *Game) Moves() int { return g.moves }

// Cards returns a copy of the table.
func (g *Game) Cards() []Card {
	out := make([]Card, len(g.cards))
	copy(out, g.cards)
	return out
}

func (g *Game) pairMatches() bool {
	if len(g.flipped) != 2 {
		return false
	}
	return g.cards[g.index(g.flipped[0])].Value == g.cards[g.index(g.flipped[1])].Value
}

func (g *Game) allMatched() bool {
	for _, c := range g.cards {
		if !c.Matched {
			return false
		}
	}
	return true
}

func (g *Game) index(id int) int {
	for i, c := range g.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Snapshot is the player's view. Face-down values are hidden.
type Snapshot struct {
	Cards []Card `json:"cards"`
	Moves int    `json:"moves"`
	Won   bool   `json:"won"`
}

// Snapshot captures the table, masking cards that are face down.
func (g *Game) Snapshot() Snapshot {
	cards := g.Cards()
	for i := range cards {
		if !cards[i].Flipped && !cards[i].Matched {
			cards[i].Value = ""
		}
	}
	return Snapshot{Cards: cards, Moves: g.moves, Won: g.won}
}
