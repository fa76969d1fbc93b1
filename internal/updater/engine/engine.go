// Package engine holds the state machine shared by every pipeline: day
// rollover, the idempotent fetch gate and the fallback precedence applied
// when the upstream call fails. It is pure; all I/O stays in the updater.
package engine

import (
	"github.com/ratestash/ratestash/internal/entities"
)

// Rollover brings the store to date. When today's recorded date already
// matches the resolved one it is a no-op; otherwise the current snapshot is
// archived as yesterday (deep copy, the archive must not alias the maps
// being mutated afterwards) and today is reset to an empty snapshot with
// every slot null. A never-initialized store has an empty date, which is
// unequal to any real date, so the first run rolls over too and archives a
// null-dated snapshot.
func Rollover(st *entities.RateStore, today string, slots []string) bool {
	if st.Today.Date == today {
		return false
	}

	st.Yesterday = st.Today.Clone()
	st.Today = entities.DaySnapshot{Date: today}
	for _, slot := range slots {
		st.Today.SetSlot(slot, nil)
	}
	return true
}

// NeedsFetch reports whether the upstream call is still required for slot.
// Must run after Rollover: only then does a non-null slot prove the value
// belongs to the current date. A populated slot is never overwritten.
func NeedsFetch(st *entities.RateStore, slot string) bool {
	return st.Today.Slot(slot) == nil
}

// Fallback picks the substitute value for a slot whose fetch failed: the
// first slot of the day borrows the last slot of the previous day, every
// later slot borrows the slot right before it on the same day. A nil
// result means the source was empty too; the slot then stays null, which
// is a terminal outcome, not an error.
func Fallback(st *entities.RateStore, slot string, slots []string) entities.Payload {
	idx := -1
	for i, s := range slots {
		if s == slot {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	if idx > 0 {
		return st.Today.Slot(slots[idx-1])
	}
	return st.Yesterday.Slot(slots[len(slots)-1])
}
