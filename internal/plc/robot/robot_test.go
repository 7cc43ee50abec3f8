package robot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reyesjorge76/jr-portfolio/internal/sim"
)

const tick = 50 * time.Millisecond

func steps(c *Cell, n int) {
	for range n {
		c.Step(tick)
	}
}

func allFalse(t *testing.T, snap Snapshot) {
	t.Helper()
	for i, s := range snap.Slots {
		assert.False(t, s.Picked, "slot %d picked", i)
		assert.False(t, s.Completed, "slot %d completed", i)
	}
}

func TestParsePalletSize(t *testing.T) {
	assert.Equal(t, 6, ParsePalletSize("6"))
	assert.Equal(t, 9, ParsePalletSize(" 9 "))
	assert.Equal(t, 4, ParsePalletSize("4.7"))
	assert.Equal(t, DefaultPalletSize, ParsePalletSize("abc"))
	assert.Equal(t, DefaultPalletSize, ParsePalletSize("0"))
	assert.Equal(t, DefaultPalletSize, ParsePalletSize(""))
	assert.Equal(t, DefaultPalletSize, ParsePalletSize("NaN"))
	assert.Equal(t, DefaultPalletSize, ParsePalletSize("Inf"))
	assert.Equal(t, DefaultPalletSize, ParsePalletSize("-Inf"))
	assert.Equal(t, MaxPalletSize, ParsePalletSize("1e9"))
	assert.Equal(t, MaxPalletSize, ParsePalletSize("3000000000"))
}

func TestGridLayout(t *testing.T) {
	l := DefaultLayout()
	assert.Equal(t, sim.Point{X: 170, Y: 260}, l.PickSlot(0))
	assert.Equal(t, sim.Point{X: 230, Y: 260}, l.PickSlot(2))
	assert.Equal(t, sim.Point{X: 560, Y: 290}, l.PlaceSlot(3))
	assert.Equal(t, 2, l.Rows(6))
	assert.Equal(t, 3, l.Rows(7))
}

func TestPoseClampsReach(t *testing.T) {
	l := DefaultLayout()
	p := l.PoseFor(sim.Point{X: 400, Y: 200})
	assert.InDelta(t, -180, p.Angle, 1e-9)
	assert.InDelta(t, 100.0/120.0, p.Reach, 1e-9)

	p = l.PoseFor(sim.Point{X: 0, Y: 300})
	assert.Equal(t, 1.0, p.Reach)
}

func TestSingleSlotCycle(t *testing.T) {
	c := New(DefaultLayout())
	require.NoError(t, c.Start())

	steps(c, 4) // progress 12.5: on the way to the pick slot
	snap := c.Snapshot()
	assert.Equal(t, "moving to pick position 1", snap.Phase)
	assert.True(t, snap.GripperOpen)

	steps(c, 3) // 21.875: gripped
	snap = c.Snapshot()
	assert.Equal(t, "picking from position 1", snap.Phase)
	assert.False(t, snap.GripperOpen)
	assert.True(t, snap.Slots[0].Picked)
	assert.Equal(t, c.layout.PickSlot(0), snap.Arm)

	steps(c, 5) // 37.5: carrying
	snap = c.Snapshot()
	assert.Equal(t, "moving to place position 1", snap.Phase)
	require.NotNil(t, snap.InTransit)
	assert.False(t, snap.Slots[0].Completed)

	steps(c, 11) // 71.875: released
	snap = c.Snapshot()
	assert.Equal(t, "placing at position 1", snap.Phase)
	assert.True(t, snap.Slots[0].Completed)
	assert.Nil(t, snap.InTransit)
	assert.Equal(t, 1, snap.ItemsPlaced)
	assert.Equal(t, 1, snap.PalletCount)

	steps(c, 9) // 100: next slot
	snap = c.Snapshot()
	assert.Equal(t, 1, snap.PickIndex)
	assert.Zero(t, snap.Progress)
	assert.Equal(t, 1, snap.PalletCount, "placement booked once per cycle")
}

func TestAutoResetAfterFullPallet(t *testing.T) {
	c := New(DefaultLayout())
	require.NoError(t, c.Start())

	steps(c, 32*DefaultPalletSize)
	snap := c.Snapshot()
	assert.True(t, snap.Resetting)
	assert.Equal(t, "resetting system", snap.Phase)
	assert.Equal(t, DefaultPalletSize, snap.PalletCount)
	for _, s := range snap.Slots {
		assert.True(t, s.Completed)
	}

	steps(c, 39)
	assert.True(t, c.Resetting(), "reset waits two seconds")

	steps(c, 1)
	snap = c.Snapshot()
	assert.False(t, snap.Resetting)
	allFalse(t, snap)
	assert.Zero(t, snap.PalletCount)
	assert.Zero(t, snap.ItemsPlaced)
	assert.Zero(t, snap.PickIndex)
	assert.Equal(t, c.layout.Home, snap.Arm)
	assert.True(t, snap.Running, "program keeps looping")
}

func TestStopPreservesSlots(t *testing.T) {
	c := New(DefaultLayout())
	require.NoError(t, c.Start())
	steps(c, 32*2+10)

	c.Stop()
	snap := c.Snapshot()
	assert.Equal(t, "idle", snap.Phase)
	assert.True(t, snap.Slots[0].Completed)
	assert.True(t, snap.Slots[1].Completed)
	assert.Equal(t, 2, snap.PickIndex)
	assert.Equal(t, c.layout.PickSlot(2), snap.Arm)

	steps(c, 100)
	assert.Equal(t, snap.Slots, c.Snapshot().Slots, "stopped cell does not move")
}

func TestManualJog(t *testing.T) {
	c := New(DefaultLayout())

	assert.True(t, c.MoveLeft())
	assert.Zero(t, c.Snapshot().PickIndex)

	for range 10 {
		c.MoveRight()
	}
	snap := c.Snapshot()
	assert.Equal(t, DefaultPalletSize-1, snap.PickIndex)
	assert.Equal(t, c.layout.PickSlot(5), snap.Arm)
	assert.Equal(t, "manual move to pick position 6", snap.Phase)

	require.NoError(t, c.Start())
	assert.False(t, c.MoveLeft(), "jogging is disabled while running")
}

func TestManualResetIsDelayed(t *testing.T) {
	c := New(DefaultLayout())
	require.NoError(t, c.Start())
	steps(c, 40)
	c.Stop()
	c.Reset()

	assert.Equal(t, c.layout.Home, c.Snapshot().Arm)
	steps(c, 40)
	snap := c.Snapshot()
	assert.False(t, snap.Resetting)
	allFalse(t, snap)
	assert.Equal(t, c.layout.PickSlot(0), snap.Arm)
}

func TestSpeedCapped(t *testing.T) {
	c := New(DefaultLayout())
	c.SetSpeed(100)
	assert.Equal(t, MaxSpeed, c.Snapshot().Speed)
	c.SetSpeed(-3)
	assert.Zero(t, c.Snapshot().Speed)
}

func TestPalletSizeResizes(t *testing.T) {
	c := New(DefaultLayout())
	c.SetPalletSize(9)
	snap := c.Snapshot()
	assert.Len(t, snap.Slots, 9)
	assert.Equal(t, 3, snap.Rows)
}

func TestPalletSizeCapped(t *testing.T) {
	c := New(DefaultLayout())
	c.SetPalletSize(20_000_000)
	assert.Equal(t, MaxPalletSize, c.PalletSize())
	assert.Len(t, c.Snapshot().Slots, MaxPalletSize)
}
