package availability

// Interval is an occupied [Start, End) range in minutes from midnight.
// Intervals may begin before the grid or end past it; only the overlap counts.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals intersect.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start < o.End && o.Start < iv.End
}

// Occupancy maps slot start minute to whether the slot is occupied.
type Occupancy map[int]bool

// BuildOccupancy marks every slot that overlaps any occupying interval at
// all, not only slots that start inside one. A partially covered slot is
// occupied and can never anchor or extend a run.
func BuildOccupancy(g Grid, intervals []Interval) Occupancy {
	occ := make(Occupancy, g.Len())
	for _, s := range g.Starts {
		occ[s] = false
	}

	for _, iv := range intervals {
		for _, s := range g.Starts {
			if s < iv.End && s+g.Step > iv.Start {
				occ[s] = true
			}
		}
	}
	return occ
}
