package schedule

// Resolve merges the salon weekday window, the staff weekday window and an
// optional per-date override into the concrete working window.
//
// Precedence, highest first:
//  1. Override with IsWorking=false: closed, regardless of anything else.
//  2. Override with IsWorking=true: its times, falling back per-field to the
//     weekday default (staff weekday if defined and enabled, else salon).
//  3. Staff weekday window, when the staff member defines one.
//  4. Salon weekday window.
//
// Policy: a staff window is always clipped to the salon window for that
// weekday. Staff cannot be open while the salon is closed, and an override
// cannot extend a day past the salon's own hours.
//
// staffWeek is nil for salon-wide resolution ("any staff" grid bounds) or for
// staff without custom hours.
func Resolve(salonDay WorkingDay, staffDay *WorkingDay, ov *Override) Window {
	if !salonDay.Enabled {
		return Window{}
	}

	if ov != nil && !ov.IsWorking {
		return Window{}
	}

	// Weekday default for this staff member.
	base := salonDay
	if staffDay != nil {
		if !staffDay.Enabled && ov == nil {
			return Window{}
		}
		if staffDay.Enabled {
			base = *staffDay
		}
	}

	start, end := base.StartMinute, base.EndMinute
	if ov != nil {
		if ov.StartMinute != nil {
			start = *ov.StartMinute
		}
		if ov.EndMinute != nil {
			end = *ov.EndMinute
		}
	}

	// Clip to the salon window.
	if start < salonDay.StartMinute {
		start = salonDay.StartMinute
	}
	if end > salonDay.EndMinute {
		end = salonDay.EndMinute
	}

	if start >= end {
		return Window{}
	}
	return Window{Open: true, StartMinute: start, EndMinute: end}
}
