package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ist builds an instant from IST wall-clock components.
func ist(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2024, 6, 10, hour, min, 0, 0, referenceZone())
}

func TestToday_UsesReferenceZoneNotUTC(t *testing.T) {
	// 20:00 UTC is already past midnight in IST.
	now := time.Date(2024, 6, 10, 20, 0, 0, 0, time.UTC)

	got := Metals().Today(now)
	require.Equal(t, "2024-06-11", got)
}

func TestActiveSlot_Windows(t *testing.T) {
	sched := Metals()

	tests := []struct {
		hour, min int
		want      string
	}{
		{0, 30, "17_01"},  // wrapped evening window
		{10, 0, "17_01"},  // last minute before the morning slot opens
		{10, 1, "10_01"},  // inclusive lower bound
		{13, 45, "10_01"},
		{17, 0, "10_01"},  // last minute of the morning window
		{17, 1, "17_01"},  // inclusive lower bound
		{23, 59, "17_01"},
	}

	for _, tc := range tests {
		got := sched.ActiveSlot(ist(t, tc.hour, tc.min))
		require.Equalf(t, tc.want, got, "at %02d:%02d", tc.hour, tc.min)
	}
}

func TestActiveSlot_WholeDay(t *testing.T) {
	sched := WholeDay()

	require.Equal(t, "day", sched.ActiveSlot(ist(t, 0, 0)))
	require.Equal(t, "day", sched.ActiveSlot(ist(t, 23, 59)))
}

func TestTranslateOverride(t *testing.T) {
	sched := Metals()

	// Legacy trigger names map to the current labels.
	require.Equal(t, "10_01", sched.TranslateOverride("10_30"))
	require.Equal(t, "17_01", sched.TranslateOverride("17_00"))

	// Production labels and unknown tokens pass through unchanged.
	require.Equal(t, "17_01", sched.TranslateOverride("17_01"))
	require.Equal(t, "banana", sched.TranslateOverride("banana"))
}

func TestLabelsAndContains(t *testing.T) {
	sched := Metals()

	require.Equal(t, []string{"10_01", "17_01"}, sched.Labels())
	require.True(t, sched.Contains("10_01"))
	require.False(t, sched.Contains("10_30"))
}
