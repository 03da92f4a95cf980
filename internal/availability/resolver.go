package availability

// RequiredSlots returns how many grid slots a service duration reserves.
// Durations always round up to the next full step: a 40-minute service on a
// 30-minute grid takes 2 slots (60 minutes), never 1.
func RequiredSlots(durationMinutes, step int) int {
	if durationMinutes <= 0 || step <= 0 {
		return 0
	}
	return (durationMinutes + step - 1) / step
}

// CanStart reports whether a run of n contiguous free slots begins at start.
// Contiguity is checked by grid index, not clock arithmetic, so a run can
// never straddle a gap between working windows.
func CanStart(g Grid, occ Occupancy, start, n int) bool {
	if n <= 0 {
		return false
	}

	idx := g.Index(start)
	if idx < 0 || idx+n > g.Len() {
		return false
	}

	for i := 0; i < n; i++ {
		s := g.Starts[idx+i]
		if occ[s] {
			return false
		}
		if i > 0 && s != g.Starts[idx+i-1]+g.Step {
			return false
		}
	}
	return true
}

// ValidStarts returns every grid time at which a run of n slots can start.
func ValidStarts(g Grid, occ Occupancy, n int) []int {
	var starts []int
	for _, s := range g.Starts {
		if CanStart(g, occ, s, n) {
			starts = append(starts, s)
		}
	}
	return starts
}
