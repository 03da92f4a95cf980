package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saloniq/salon-booking-backend/internal/schedule"
)

func open(start, end int) schedule.Window {
	return schedule.Window{Open: true, StartMinute: start, EndMinute: end}
}

func TestNewGrid(t *testing.T) {
	t.Run("covers half-open window", func(t *testing.T) {
		g := NewGrid(open(540, 660), 30) // 09:00-11:00
		assert.Equal(t, []int{540, 570, 600, 630}, g.Starts)
	})

	t.Run("partial trailing slot is dropped", func(t *testing.T) {
		g := NewGrid(open(540, 650), 30)
		assert.Equal(t, []int{540, 570, 600}, g.Starts)
	})

	t.Run("closed window yields no slots", func(t *testing.T) {
		assert.Zero(t, NewGrid(schedule.Window{}, 30).Len())
	})

	t.Run("degenerate window yields no slots", func(t *testing.T) {
		assert.Zero(t, NewGrid(open(600, 600), 15).Len())
		assert.Zero(t, NewGrid(open(600, 540), 15).Len())
	})

	t.Run("display bounds clip the grid", func(t *testing.T) {
		g := NewGridWithin(open(480, 1260), 60, 540, 720) // clip 08:00-21:00 to 09:00-12:00
		assert.Equal(t, []int{540, 600, 660}, g.Starts)
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		a := NewGrid(open(540, 1080), 15)
		b := NewGrid(open(540, 1080), 15)
		assert.Equal(t, a, b)
	})
}

func TestRequiredSlots(t *testing.T) {
	tests := []struct {
		duration, step, want int
	}{
		{30, 30, 1},
		{40, 30, 2}, // always round up
		{60, 30, 2},
		{61, 30, 3},
		{15, 30, 1},
		{90, 15, 6},
		{0, 30, 0},
		{-10, 30, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RequiredSlots(tt.duration, tt.step),
			"duration=%d step=%d", tt.duration, tt.step)
	}
}

func TestBuildOccupancy(t *testing.T) {
	g := NewGrid(open(540, 720), 30) // 09:00-12:00

	t.Run("overlap marks the slot, not just containment", func(t *testing.T) {
		// Booking 09:45-10:15 covers parts of the 09:30 and 10:00 slots.
		occ := BuildOccupancy(g, []Interval{{585, 615}})
		assert.False(t, occ[540])
		assert.True(t, occ[570])
		assert.True(t, occ[600])
		assert.False(t, occ[630])
	})

	t.Run("interval spilling in from before the window", func(t *testing.T) {
		occ := BuildOccupancy(g, []Interval{{480, 570}}) // 08:00-09:30
		assert.True(t, occ[540])
		assert.False(t, occ[570])
	})

	t.Run("no intervals leaves every slot free", func(t *testing.T) {
		occ := BuildOccupancy(g, nil)
		for _, s := range g.Starts {
			assert.False(t, occ[s])
		}
	})
}

// The canonical walk-through: working hours 09:00-18:00, step 30, one
// confirmed booking 10:00-11:00. A 60-minute request must exclude 09:30
// (overlapping run) and 10:00/10:30 (inside), and include 09:00 and 11:00.
func TestValidStartsAroundExistingBooking(t *testing.T) {
	g := NewGrid(open(540, 1080), 30)
	occ := BuildOccupancy(g, []Interval{{600, 660}})
	n := RequiredSlots(60, 30)
	require.Equal(t, 2, n)

	starts := ValidStarts(g, occ, n)

	assert.Contains(t, starts, 540)    // 09:00
	assert.NotContains(t, starts, 570) // 09:30 second slot collides
	assert.NotContains(t, starts, 600) // 10:00 inside booking
	assert.NotContains(t, starts, 630) // 10:30 inside booking
	assert.Contains(t, starts, 660)    // 11:00
}

func TestCanStart(t *testing.T) {
	g := NewGrid(open(540, 720), 30)

	t.Run("start not on the grid", func(t *testing.T) {
		assert.False(t, CanStart(g, BuildOccupancy(g, nil), 555, 1))
	})

	t.Run("run exceeding the grid tail", func(t *testing.T) {
		occ := BuildOccupancy(g, nil)
		assert.True(t, CanStart(g, occ, 660, 2))  // 11:00 + 11:30
		assert.False(t, CanStart(g, occ, 690, 2)) // would need a 12:00 slot
	})

	t.Run("run crossing a grid gap is invalid", func(t *testing.T) {
		// Morning and afternoon windows; the resolver checks contiguity by
		// index, so a run cannot bridge 12:00 to 14:00.
		g := Grid{Step: 60, Starts: []int{600, 660, 840, 900}} // 10,11,14,15
		occ := BuildOccupancy(g, nil)
		assert.True(t, CanStart(g, occ, 600, 2))
		assert.False(t, CanStart(g, occ, 660, 2))
		assert.True(t, CanStart(g, occ, 840, 2))
	})

	t.Run("zero slots is never bookable", func(t *testing.T) {
		assert.False(t, CanStart(g, BuildOccupancy(g, nil), 540, 0))
	})

	t.Run("idempotent over repeated evaluation", func(t *testing.T) {
		occ := BuildOccupancy(g, []Interval{{600, 630}})
		first := ValidStarts(g, occ, 2)
		second := ValidStarts(g, occ, 2)
		assert.Equal(t, first, second)
	})
}
