package conveyor

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reyesjorge76/jr-portfolio/internal/sim"
)

func newSorter() *Sorter {
	return New(rand.New(rand.NewPCG(7, 7)))
}

func TestBinIndexIsBijective(t *testing.T) {
	seen := make(map[int]bool)
	for c := range 3 {
		for s := range 3 {
			for z := range 3 {
				bin := BinIndex(Color(c), Shape(s), Size(z))
				require.GreaterOrEqual(t, bin, 0)
				require.Less(t, bin, Bins)
				assert.False(t, seen[bin], "bin %d assigned twice", bin)
				seen[bin] = true

				gc, gs, gz := BinAttributes(bin)
				assert.Equal(t, Color(c), gc)
				assert.Equal(t, Shape(s), gs)
				assert.Equal(t, Size(z), gz)
			}
		}
	}
	assert.Len(t, seen, Bins)
}

func TestBinLabel(t *testing.T) {
	assert.Equal(t, "Red Circle Sm", BinLabel(0))
	assert.Equal(t, "Blue Square Med", BinLabel(BinIndex(Blue, Square, Medium)))
	assert.Equal(t, "Green Triangle Lg", BinLabel(26))
}

func TestEveryBinReachable(t *testing.T) {
	s := newSorter()
	for bin := range Bins {
		s.Add(BinAttributes(bin))
	}
	// 4 phases at 16 ticks each at the default speed
	for range 64 {
		s.move()
	}
	assert.Empty(t, s.Parts())

	counts := s.Counts()
	assert.Equal(t, Bins, counts.Total)
	for bin, n := range counts.Bins {
		assert.Equal(t, 1, n, "bin %d", bin)
	}
	assert.Equal(t, [3]int{9, 9, 9}, counts.ByColor)
	assert.Equal(t, [3]int{9, 9, 9}, counts.ByShape)
	assert.Equal(t, [3]int{9, 9, 9}, counts.BySize)
}

func TestPartWalksPhasesInOrder(t *testing.T) {
	s := newSorter()
	s.Add(Green, Triangle, Large)

	for range 16 {
		s.move()
	}
	p := s.Parts()[0]
	assert.Equal(t, MainBelt, p.Phase)
	assert.Equal(t, 1.0, p.Progress)

	s.move()
	p = s.Parts()[0]
	assert.Equal(t, ColorBranch, p.Phase)

	for range 47 {
		require.Len(t, s.Parts(), 1)
		s.move()
	}
	assert.Empty(t, s.Parts())
	assert.Equal(t, 1, s.Counts().Bins[BinIndex(Green, Triangle, Large)])
}

func TestLayoutEndpoints(t *testing.T) {
	l := DefaultLayout()
	p := Part{Color: Red, Shape: Circle, Size: Small, Phase: SizeBranch, Progress: 1}
	assert.Equal(t, sim.Point{X: 1150, Y: 20}, l.Position(p))

	p = Part{Color: Blue, Shape: Square, Size: Medium, Phase: ShapeBranch, Progress: 0.5}
	assert.Equal(t, sim.Point{X: 615, Y: 540}, l.Position(p))

	p = Part{Phase: MainBelt}
	assert.Equal(t, l.Entry, l.Position(p))
}

func TestSpawnRateAndStop(t *testing.T) {
	s := newSorter()
	s.SetSpeed(0)
	s.SetPartsPerSecond(4)
	require.NoError(t, s.Start())

	s.Step(time.Second)
	assert.Len(t, s.Parts(), 4)

	s.Stop()
	s.Step(time.Second)
	assert.Len(t, s.Parts(), 4, "stopped belt spawns nothing")

	ids := make([]int, 0, 4)
	for _, p := range s.Parts() {
		ids = append(ids, p.ID)
		assert.Zero(t, p.Progress)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, ids)
}

func TestPartsPerSecondClamped(t *testing.T) {
	s := newSorter()
	s.SetPartsPerSecond(99)
	assert.Equal(t, MaxPartsPerSecond, s.Snapshot(DefaultLayout()).PartsPerSecond)
	s.SetPartsPerSecond(0)
	assert.Equal(t, 1, s.Snapshot(DefaultLayout()).PartsPerSecond)
}

func TestSpawnCapped(t *testing.T) {
	s := newSorter()
	s.SetSpeed(0)
	s.SetPartsPerSecond(MaxPartsPerSecond)
	require.NoError(t, s.Start())
	for range 100 {
		s.Step(time.Second)
	}
	assert.Len(t, s.Parts(), MaxParts)
}

func TestResetClearsEverything(t *testing.T) {
	s := newSorter()
	require.NoError(t, s.Start())
	for range 100 {
		s.Step(100 * time.Millisecond)
	}
	require.NotZero(t, s.Counts().Total)

	s.Reset()
	assert.Empty(t, s.Parts())
	assert.Equal(t, Counts{}, s.Counts())
	assert.Equal(t, 1, s.Add(Red, Circle, Small).ID)
}

func TestSnapshotPositionsParts(t *testing.T) {
	s := newSorter()
	s.Add(Red, Square, Large)
	snap := s.Snapshot(DefaultLayout())
	require.Len(t, snap.Parts, 1)
	assert.Equal(t, sim.Point{X: -140, Y: 540}, snap.Parts[0].Position)
	assert.Equal(t, 20.0, snap.Parts[0].Radius)
}
