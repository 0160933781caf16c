package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestRapidInputFiresOnceWithLastValue(t *testing.T) {
	var rec recorder
	d := New(50*time.Millisecond, rec.record)
	defer d.Stop()

	for _, v := range []string{"l", "lo", "lof", "loft"} {
		d.Trigger(v)
	}
	assert.True(t, d.Pending())

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, []string{"loft"}, rec.snapshot())
	assert.False(t, d.Pending())
}

func TestSeparatedInputsFireSeparately(t *testing.T) {
	var rec recorder
	d := New(20*time.Millisecond, rec.record)
	defer d.Stop()

	d.Trigger("lo")
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	d.Trigger("loft")
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"lo", "loft"}, rec.snapshot())
}

func TestCancelDropsPendingEvaluation(t *testing.T) {
	var rec recorder
	d := New(30*time.Millisecond, rec.record)
	defer d.Stop()

	d.Trigger("loft")
	d.Cancel()
	assert.False(t, d.Pending())
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.snapshot())

	d.Trigger("villa")
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"villa"}, rec.snapshot())
}

func TestStopMakesHandleInert(t *testing.T) {
	var rec recorder
	d := New(20*time.Millisecond, rec.record)

	d.Trigger("loft")
	d.Stop()
	d.Trigger("again")
	assert.False(t, d.Pending())
	assert.False(t, d.Flush())

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestFlushRunsPendingImmediately(t *testing.T) {
	var rec recorder
	d := New(time.Hour, rec.record)
	defer d.Stop()

	assert.False(t, d.Flush())
	d.Trigger("lof")
	d.Trigger("loft")
	assert.True(t, d.Flush())
	assert.Equal(t, []string{"loft"}, rec.snapshot())
	assert.False(t, d.Pending())
}

func TestNonPositiveDelayUsesDefault(t *testing.T) {
	d := New(0, func(string) {})
	assert.Equal(t, DefaultDelay, d.Delay())
}

func TestTickerAdvancesUntilStopped(t *testing.T) {
	var ticks atomic.Int32
	tk := NewTicker(10*time.Millisecond, func() { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, 5*time.Millisecond)
	tk.Stop()
	tk.Stop()

	after := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, ticks.Load())

	select {
	case <-tk.Done():
	default:
		t.Fatal("Done should be closed after Stop")
	}
}
