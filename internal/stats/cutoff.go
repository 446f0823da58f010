package stats

import "time"

// closingTimeFields are the candidate names for the closing instant of a
// day-end event.
var closingTimeFields = FieldCandidates{"closing_time", "closed_at", "dayend_time", "end_time", "created_at"}

// Cutoff is the authoritative start of the current accounting period for a
// branch. When no day-end closing exists the period is the current calendar
// day in local time.
type Cutoff struct {
	Instant   time.Time
	HasDayend bool
}

// InPeriod reports whether a record timestamped at occurredAt falls into the
// current accounting period. Records without a parseable timestamp never do.
func (c Cutoff) InPeriod(occurredAt, now time.Time) bool {
	if occurredAt.IsZero() {
		return false
	}
	if c.HasDayend {
		return occurredAt.After(c.Instant)
	}
	return sameDay(occurredAt, now)
}

// latestClosing selects the maximum closing instant from day-end rows.
func latestClosing(rows []map[string]any) (time.Time, bool) {
	var latest time.Time
	for _, row := range rows {
		v, ok := closingTimeFields.First(row)
		if !ok {
			continue
		}
		t := timeValue(v)
		if t.IsZero() {
			continue
		}
		if t.After(latest) {
			latest = t
		}
	}
	return latest, !latest.IsZero()
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
