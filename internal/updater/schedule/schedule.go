// Package schedule resolves the canonical civil date and the active slot
// label for a pipeline. All derivation happens in one fixed reference zone
// so that rollover never drifts with the host machine's locale.
package schedule

import "time"

// Slot is one named subdivision of the day, opening at a fixed wall-clock
// minute in the reference zone.
type Slot struct {
	Label string
	Hour  int
	Min   int
}

// Schedule partitions the day into contiguous half-open windows, one per
// slot, covering the full 24 hours: a slot's window runs from its start up
// to the next slot's start, the last one wrapping past midnight.
type Schedule struct {
	zone    *time.Location
	slots   []Slot
	aliases map[string]string
}

// referenceZone returns IST. The fixed-offset fallback keeps the resolver
// working on hosts shipped without tzdata.
func referenceZone() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}

// New builds a schedule from slots given in chronological order.
// aliases maps externally supplied override tokens (legacy slot names,
// manual-run shorthands) to production slot labels.
func New(slots []Slot, aliases map[string]string) *Schedule {
	return &Schedule{
		zone:    referenceZone(),
		slots:   slots,
		aliases: aliases,
	}
}

// Metals is the two-slot MCX schedule the metals pipeline runs on. The old
// 10_30/17_00 trigger names keep working as override tokens after the slot
// boundaries moved.
func Metals() *Schedule {
	return New(
		[]Slot{
			{Label: "10_01", Hour: 10, Min: 1},
			{Label: "17_01", Hour: 17, Min: 1},
		},
		map[string]string{
			"10_30": "10_01",
			"17_00": "17_01",
		},
	)
}

// WholeDay is the degenerate schedule for pipelines that keep one payload
// per day.
func WholeDay() *Schedule {
	return New([]Slot{{Label: "day"}}, nil)
}

// Today returns the civil date string (YYYY-MM-DD) for now in the
// reference zone.
func (s *Schedule) Today(now time.Time) string {
	return now.In(s.zone).Format("2006-01-02")
}

// ActiveSlot returns the label of the slot whose window contains now.
func (s *Schedule) ActiveSlot(now time.Time) string {
	t := now.In(s.zone)
	minute := t.Hour()*60 + t.Minute()

	// Before the first slot opens the wrapped window of the last slot is
	// still running.
	active := s.slots[len(s.slots)-1]
	for _, slot := range s.slots {
		if minute >= slot.Hour*60+slot.Min {
			active = slot
		}
	}
	return active.Label
}

// TranslateOverride maps an external override token to its production slot
// label. Unknown tokens pass through unchanged.
func (s *Schedule) TranslateOverride(token string) string {
	if label, ok := s.aliases[token]; ok {
		return label
	}
	return token
}

// Labels returns the slot labels in chronological order.
func (s *Schedule) Labels() []string {
	out := make([]string, len(s.slots))
	for i, slot := range s.slots {
		out[i] = slot.Label
	}
	return out
}

// Contains reports whether label names a slot of this schedule.
func (s *Schedule) Contains(label string) bool {
	for _, slot := range s.slots {
		if slot.Label == label {
			return true
		}
	}
	return false
}
