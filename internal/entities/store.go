package entities

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Payload is one normalized upstream snapshot. The rollover and fallback
// logic never looks inside it; only the fetch adapter knows its shape.
type Payload = json.RawMessage

// SlotWholeDay is the single slot label used by pipelines that keep one
// payload per day instead of one per time window.
const SlotWholeDay = "day"

// DaySnapshot holds the rates recorded for one civil date. Date is empty
// for a store that has never rolled over. Rates maps every slot label of
// the pipeline's schedule to a payload or null.
type DaySnapshot struct {
	Date  string             `json:"date,omitempty"`
	Rates map[string]Payload `json:"rates"`
}

// RateStore is the whole persisted document: the current day plus the one
// archived day the downstream client may still need.
type RateStore struct {
	Today     DaySnapshot `json:"today"`
	Yesterday DaySnapshot `json:"yesterday"`
}

// IsNull reports whether a slot value is absent, either missing entirely
// or stored as a JSON null literal.
func IsNull(p Payload) bool {
	return len(p) == 0 || bytes.Equal(bytes.TrimSpace(p), []byte("null"))
}

// Slot returns the payload for label, nil when the slot is empty.
func (d *DaySnapshot) Slot(label string) Payload {
	p, ok := d.Rates[label]
	if !ok || IsNull(p) {
		return nil
	}
	return p
}

// SetSlot stores a payload (possibly nil) under label.
func (d *DaySnapshot) SetSlot(label string, p Payload) {
	if d.Rates == nil {
		d.Rates = make(map[string]Payload)
	}
	d.Rates[label] = p
}

// Clone returns a deep copy: the archived snapshot must not alias the maps
// or payload bytes of the snapshot that keeps being mutated.
func (d DaySnapshot) Clone() DaySnapshot {
	out := DaySnapshot{Date: d.Date}
	if d.Rates == nil {
		return out
	}
	out.Rates = make(map[string]Payload, len(d.Rates))
	for label, p := range d.Rates {
		if p == nil {
			out.Rates[label] = nil
			continue
		}
		cp := make(Payload, len(p))
		copy(cp, p)
		out.Rates[label] = cp
	}
	return out
}

// Normalize checks the snapshot against the schedule's closed slot set:
// unknown labels are a corruption error, missing labels are filled with
// null so the document always carries the full set for a dated day.
func (d *DaySnapshot) Normalize(slots []string) error {
	known := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		known[s] = struct{}{}
	}
	for label := range d.Rates {
		if _, ok := known[label]; !ok {
			return errors.Wrapf(ErrUnknownSlot, "slot %q", label)
		}
	}
	if d.Date == "" && d.Rates == nil {
		return nil
	}
	for _, s := range slots {
		if _, ok := d.Rates[s]; !ok {
			d.SetSlot(s, nil)
		}
	}
	return nil
}

// Normalize validates both snapshots, see DaySnapshot.Normalize.
func (s *RateStore) Normalize(slots []string) error {
	if err := s.Today.Normalize(slots); err != nil {
		return errors.Wrap(err, "today")
	}
	if err := s.Yesterday.Normalize(slots); err != nil {
		return errors.Wrap(err, "yesterday")
	}
	return nil
}

// CurrencyStore is the single-payload-per-day variant of RateStore. In
// memory it is the same slot-keyed shape the engine works on, keyed by
// SlotWholeDay; on disk each snapshot carries one "data" field, which is
// the format the downstream client already consumes.
type CurrencyStore struct {
	RateStore
}

type currencyDoc struct {
	Today     currencyDay `json:"today"`
	Yesterday currencyDay `json:"yesterday"`
}

type currencyDay struct {
	Date string  `json:"date,omitempty"`
	Data Payload `json:"data"`
}

func (s CurrencyStore) MarshalJSON() ([]byte, error) {
	doc := currencyDoc{
		Today:     currencyDay{Date: s.Today.Date, Data: s.Today.Slot(SlotWholeDay)},
		Yesterday: currencyDay{Date: s.Yesterday.Date, Data: s.Yesterday.Slot(SlotWholeDay)},
	}
	return json.Marshal(doc)
}

func (s *CurrencyStore) UnmarshalJSON(b []byte) error {
	var doc currencyDoc
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	s.Today = snapshotFromDay(doc.Today)
	s.Yesterday = snapshotFromDay(doc.Yesterday)
	return nil
}

func snapshotFromDay(d currencyDay) DaySnapshot {
	snap := DaySnapshot{Date: d.Date}
	if d.Date == "" && IsNull(d.Data) {
		return snap
	}
	if IsNull(d.Data) {
		snap.SetSlot(SlotWholeDay, nil)
	} else {
		snap.SetSlot(SlotWholeDay, d.Data)
	}
	return snap
}
