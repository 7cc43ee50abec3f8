package plc

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reyesjorge76/jr-portfolio/internal/plc/conveyor"
	"github.com/reyesjorge76/jr-portfolio/internal/plc/mixing"
	"github.com/reyesjorge76/jr-portfolio/internal/plc/robot"
)

func rng() *rand.Rand { return rand.New(rand.NewPCG(3, 4)) }

func TestLadderCycles(t *testing.T) {
	l := NewLadder()
	assert.Equal(t, -1, l.Active())

	l.Energize()
	assert.Equal(t, 0, l.Active())

	l.Step(time.Second)
	assert.Equal(t, 1, l.Active())

	l.Step(4 * time.Second)
	assert.Equal(t, 0, l.Active(), "wraps after the last rung")

	l.Deenergize()
	assert.Equal(t, -1, l.Active())
	assert.Len(t, l.Rungs(), 5)
	assert.Equal(t, "Output Enable", l.Rungs()[4].Label)
}

func TestPanelStartStop(t *testing.T) {
	p := NewPanel(Conveyor{Sorter: conveyor.New(rng()), Layout: conveyor.DefaultLayout()})

	require.NoError(t, p.Start())
	assert.True(t, p.Running())
	assert.Equal(t, 0, p.ladder.Active())

	p.Step(time.Second)
	assert.Equal(t, 1, p.ladder.Active())

	p.Stop()
	assert.False(t, p.Running())
	assert.Equal(t, -1, p.ladder.Active())
}

func TestPanelKeepsStoppedWhenProcessRefuses(t *testing.T) {
	m := mixing.New(rng())
	r := m.Recipe()
	r.Weights[0] = 99
	m.SetRecipe(r)

	p := NewPanel(Mixing{m})
	err := p.Start()
	assert.ErrorIs(t, err, mixing.ErrInsufficientMaterial)
	assert.False(t, p.Running())
	assert.Equal(t, mixing.Idle, m.Phase())
}

func TestParametersNormalized(t *testing.T) {
	p := NewPanel(Robot{robot.New(robot.DefaultLayout())})
	got := p.SetParameters(Parameters{Speed: 80, Temperature: -4, Pressure: 3, Recipe: "9", PartsPerSecond: 12})

	assert.Equal(t, float64(MaxSpeed), got.Speed)
	assert.Zero(t, got.Temperature)
	assert.Equal(t, conveyor.MaxPartsPerSecond, got.PartsPerSecond)

	snap := p.Snapshot()
	cell, ok := snap.System.(robot.Snapshot)
	require.True(t, ok)
	assert.Equal(t, 9, cell.PalletSize)
}

func TestMixingTakesTargetsFromPanel(t *testing.T) {
	m := mixing.New(rng())
	p := NewPanel(Mixing{m})
	p.SetParameters(Parameters{Speed: 10, Temperature: 60, Pressure: 4, Recipe: "6", PartsPerSecond: 1})

	assert.Equal(t, 60.0, m.Recipe().Temperature)
	assert.Equal(t, 4.0, m.Recipe().Pressure)
}

func TestResetStopsAndResets(t *testing.T) {
	s := conveyor.New(rng())
	p := NewPanel(Conveyor{Sorter: s, Layout: conveyor.DefaultLayout()})
	require.NoError(t, p.Start())
	p.Step(3 * time.Second)
	require.NotEmpty(t, s.Parts())

	p.Reset()
	assert.False(t, p.Running())
	assert.Empty(t, s.Parts())
}

func TestPanelStopsWhenBatchDone(t *testing.T) {
	m := mixing.New(rng())
	r := m.Recipe()
	r.MixTime = 1
	m.SetRecipe(r)

	p := NewPanel(Mixing{m})
	require.NoError(t, p.Start())
	for i := 0; i < 400 && m.Phase() != mixing.Done; i++ {
		p.Step(50 * time.Millisecond)
	}
	require.Equal(t, mixing.Done, m.Phase())
	assert.False(t, p.Running())
	assert.Equal(t, -1, p.ladder.Active())

	require.NoError(t, p.Start())
	assert.True(t, p.Running())
	assert.Equal(t, mixing.Loading, m.Phase())
}
