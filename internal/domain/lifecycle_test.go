package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestParseDate_AcceptsBothLayouts(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2025-03-11T00:00:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("10/03/2025")
	assert.Error(t, err)
}

func TestEffectiveEnd_UsesEndTime(t *testing.T) {
	e := Event{EndDate: mustDate(t, "2025-03-10"), EndTime: "17:30"}

	assert.Equal(t, time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC), e.EffectiveEnd(time.UTC))
}

func TestEffectiveEnd_FallsBackToEndOfDay(t *testing.T) {
	want := time.Date(2025, 3, 10, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	for _, endTime := range []string{"", "  ", "5pm", "25:00"} {
		e := Event{EndDate: mustDate(t, "2025-03-10"), EndTime: endTime}
		assert.Equal(t, want, e.EffectiveEnd(time.UTC), "endTime %q", endTime)
	}
}

func TestEffectiveEnd_InLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	e := Event{EndDate: mustDate(t, "2025-03-10"), EndTime: "10:00"}

	assert.Equal(t, time.Date(2025, 3, 10, 4, 30, 0, 0, time.UTC), e.EffectiveEnd(ist).UTC())
}

func TestPartition_BoundaryIsUpcoming(t *testing.T) {
	e := Event{ID: "boundary", EndDate: mustDate(t, "2025-03-10"), EndTime: "12:00"}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	upcoming, completed := Partition([]Event{e}, now, time.UTC)
	require.Len(t, upcoming, 1)
	assert.Empty(t, completed)

	upcoming, completed = Partition([]Event{e}, now.Add(time.Millisecond), time.UTC)
	assert.Empty(t, upcoming)
	require.Len(t, completed, 1)
}

func TestPartition_NoEndTimeLastsWholeDay(t *testing.T) {
	e := Event{ID: "today", EndDate: mustDate(t, "2025-03-10")}
	now := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)

	upcoming, _ := Partition([]Event{e}, now, time.UTC)
	assert.Len(t, upcoming, 1)
}

func TestPartition_PreservesOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: "a", EndDate: mustDate(t, "2025-07-01")},
		{ID: "b", EndDate: mustDate(t, "2025-01-01")},
		{ID: "c", EndDate: mustDate(t, "2025-06-30")},
		{ID: "d", EndDate: mustDate(t, "2024-12-01")},
	}

	upcoming, completed := Partition(events, now, time.UTC)

	assert.Equal(t, []string{"a", "c"}, ids(upcoming))
	assert.Equal(t, []string{"b", "d"}, ids(completed))
}

func TestPartition_EmptyInputGivesEmptySlices(t *testing.T) {
	upcoming, completed := Partition(nil, time.Now(), time.UTC)

	assert.NotNil(t, upcoming)
	assert.NotNil(t, completed)
}

func TestMostRecentCompleted(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: "old", EndDate: mustDate(t, "2025-01-01")},
		{ID: "recent", EndDate: mustDate(t, "2025-05-20"), EndTime: "09:00"},
		{ID: "future", EndDate: mustDate(t, "2025-07-01")},
	}

	got, ok := MostRecentCompleted(events, now, time.UTC)
	require.True(t, ok)
	assert.Equal(t, "recent", got.ID)

	_, ok = MostRecentCompleted(events[2:], now, time.UTC)
	assert.False(t, ok)
}

func ids(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}
