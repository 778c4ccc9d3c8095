package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 17, 12, 0, 0, 0, time.UTC)

func TestManual_RunsDueCallbacksInDeadlineOrder(t *testing.T) {
	m := NewManual(epoch)

	var order []string
	m.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	m.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	m.AfterFunc(200*time.Millisecond, func() { order = append(order, "b") })

	m.Advance(250 * time.Millisecond)
	require.Equal(t, []string{"a", "b"}, order)
	require.Equal(t, 1, m.Pending())

	m.Advance(50 * time.Millisecond)
	require.Equal(t, []string{"a", "b", "c"}, order)
	require.Zero(t, m.Pending())
}

func TestManual_EqualDeadlinesRunFIFO(t *testing.T) {
	m := NewManual(epoch)

	var order []int
	for i := range 5 {
		m.AfterFunc(time.Second, func() { order = append(order, i) })
	}

	m.Advance(time.Second)
	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestManual_NowInsideCallbackIsDeadline(t *testing.T) {
	m := NewManual(epoch)

	var seen time.Time
	m.AfterFunc(400*time.Millisecond, func() { seen = m.Now() })

	m.Advance(time.Second)
	require.Equal(t, epoch.Add(400*time.Millisecond), seen)
	require.Equal(t, epoch.Add(time.Second), m.Now())
}

func TestManual_CallbacksScheduledDuringAdvanceRun(t *testing.T) {
	m := NewManual(epoch)

	count := 0
	var tick func()
	tick = func() {
		count++
		m.AfterFunc(time.Second, tick)
	}
	m.AfterFunc(time.Second, tick)

	m.Advance(10 * time.Second)
	require.Equal(t, 10, count)
	require.Equal(t, 1, m.Pending(), "the 11th tick stays scheduled")
}

func TestManual_CancelPreventsCallback(t *testing.T) {
	m := NewManual(epoch)

	fired := false
	h := m.AfterFunc(time.Second, func() { fired = true })

	require.True(t, h.Cancel())
	require.False(t, h.Cancel(), "second cancel reports nothing to cancel")
	require.Zero(t, m.Pending())

	m.Advance(time.Minute)
	require.False(t, fired)
}

func TestManual_CancelAfterFireReturnsFalse(t *testing.T) {
	m := NewManual(epoch)

	h := m.AfterFunc(time.Second, func() {})
	m.Advance(time.Second)

	require.False(t, h.Cancel())
}

func TestManual_CallbackCanCancelLaterEntry(t *testing.T) {
	m := NewManual(epoch)

	fired := false
	later := m.AfterFunc(2*time.Second, func() { fired = true })
	m.AfterFunc(time.Second, func() { later.Cancel() })

	m.Advance(5 * time.Second)
	require.False(t, fired)
	require.Zero(t, m.Pending())
}

func TestManual_NegativeDelayRunsOnNextAdvance(t *testing.T) {
	m := NewManual(epoch)

	fired := false
	m.AfterFunc(-time.Second, func() { fired = true })

	deadline, ok := m.NextDeadline()
	require.True(t, ok)
	require.Equal(t, epoch, deadline)

	m.Advance(0)
	require.True(t, fired)
}
