package debounce

import (
	"sync"
	"time"
)

// DefaultInterval is the carousel auto-advance period.
const DefaultInterval = 4 * time.Second

// Ticker runs a callback periodically until stopped.
type Ticker struct {
	once sync.Once
	done chan struct{}
	wg   sync.WaitGroup
}

// NewTicker starts calling fn every interval. A non-positive interval
// selects DefaultInterval.
func NewTicker(interval time.Duration, fn func()) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := &Ticker{done: make(chan struct{})}
	tk := time.NewTicker(interval)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer tk.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-tk.C:
				select {
				case <-t.done:
					return
				default:
				}
				fn()
			}
		}
	}()
	return t
}

// Stop halts the ticker. No callback runs after Stop returns. Calling Stop
// more than once is safe.
func (t *Ticker) Stop() {
	t.once.Do(func() { close(t.done) })
	t.wg.Wait()
}

// Done is closed once Stop has been called.
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}
