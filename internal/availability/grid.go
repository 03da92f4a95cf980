// Package availability implements the slot-level scheduling engine: the slot
// grid, the occupancy index and the contiguous-run resolver. Everything in
// grid.go, occupancy.go and resolver.go is pure; persistence-aware querying
// lives in the service.
package availability

import "github.com/saloniq/salon-booking-backend/internal/schedule"

// Grid is the canonical ordered sequence of slot start minutes for a working
// window. Slots are spaced by Step and cover [start, end); a slot whose full
// width does not fit before the window end is not generated.
type Grid struct {
	Step   int
	Starts []int
}

// NewGrid generates the grid for a resolved working window. A closed window
// yields an empty grid.
func NewGrid(w schedule.Window, step int) Grid {
	return NewGridWithin(w, step, 0, 24*60)
}

// NewGridWithin generates the grid clipped to [lo, hi) display bounds, used to
// render a fixed frame independent of the actual working hours.
func NewGridWithin(w schedule.Window, step int, lo, hi int) Grid {
	g := Grid{Step: step}
	if !w.Open || step <= 0 {
		return g
	}

	start, end := w.StartMinute, w.EndMinute
	if start < lo {
		start = lo
	}
	if end > hi {
		end = hi
	}

	for cursor := start; cursor+step <= end; cursor += step {
		g.Starts = append(g.Starts, cursor)
	}
	return g
}

// Index returns the grid position of the slot starting at min, or -1.
func (g Grid) Index(min int) int {
	for i, s := range g.Starts {
		if s == min {
			return i
		}
	}
	return -1
}

// Len returns the number of slots in the grid.
func (g Grid) Len() int {
	return len(g.Starts)
}
