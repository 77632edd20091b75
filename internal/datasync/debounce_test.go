package datasync

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCollapsesBurstIntoOneCall(t *testing.T) {
	d := NewDebouncerRaw(20 * time.Millisecond)
	var calls int32
	var last atomic.Value

	// "a" then "ab" within the window: only "ab" fires
	d.Trigger(func() { atomic.AddInt32(&calls, 1); last.Store("a") })
	d.Trigger(func() { atomic.AddInt32(&calls, 1); last.Store("ab") })

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "ab", last.Load())
}

func TestDebouncerFlushFiresImmediately(t *testing.T) {
	d := NewDebouncerRaw(time.Hour)
	var calls int32
	d.Trigger(func() { atomic.AddInt32(&calls, 1) })

	d.Flush()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// nothing pending anymore
	d.Flush()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncerRaw(20 * time.Millisecond)
	var calls int32
	d.Trigger(func() { atomic.AddInt32(&calls, 1) })
	d.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestDebouncerSuppressionHook(t *testing.T) {
	d := NewDebouncerRaw(time.Hour)
	suppressed := 0
	d.OnSuppress = func() { suppressed++ }

	d.Trigger(func() {})
	d.Trigger(func() {})
	d.Trigger(func() {})
	d.Stop()

	assert.Equal(t, 2, suppressed)
}

func TestDebouncerMinimumInterval(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	assert.Equal(t, 300*time.Millisecond, d.interval)
}
