// Package timerwheel implements the timer/deadline service (C15): a
// monotonic min-heap of pending callbacks, fired by a background driver
// goroutine as their deadlines pass. Cancellation is O(log n).
// Callback execution happens outside any transaction; a callback
// typically enqueues an apply or tick call on the engine.
package timerwheel

import (
	"container/heap"
	"sync"
	"time"
)

// Callback is invoked when a timer fires. payload is whatever opaque
// value was passed to Schedule.
type Callback func(id uint64, payload any)

type entry struct {
	expiry  time.Time
	id      uint64
	payload any
	index   int // heap.Interface bookkeeping
}

// minHeap orders entries by expiry ascending; ties break by id so two
// simultaneous deadlines fire in registration order.
type minHeap []*entry

func (h minHeap) Len() int { return len(h) }
func (h minHeap) Less(i, j int) bool {
	if h[i].expiry.Equal(h[j].expiry) {
		return h[i].id < h[j].id
	}
	return h[i].expiry.Before(h[j].expiry)
}
func (h minHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *minHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Wheel is the timer service: schedule, cancel, and a driver goroutine
// that fires due callbacks.
type Wheel struct {
	mu       sync.Mutex
	heap     minHeap
	entries  map[uint64]*entry
	counter  uint64
	callback Callback

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// New builds a timer wheel that invokes cb for every fired deadline, and
// starts its driver goroutine. Call Stop to shut the driver down.
func New(cb Callback) *Wheel {
	w := &Wheel{
		entries:  make(map[uint64]*entry),
		callback: cb,
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.drive()
	return w
}

// Schedule registers a callback to fire at expiry, returning an id usable
// with Cancel. O(log n).
func (w *Wheel) Schedule(expiry time.Time, payload any) uint64 {
	w.mu.Lock()
	w.counter++
	id := w.counter
	e := &entry{expiry: expiry, id: id, payload: payload}
	w.entries[id] = e
	heap.Push(&w.heap, e)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return id
}

// After is a convenience wrapping Schedule with time.Now().Add(d).
func (w *Wheel) After(d time.Duration, payload any) uint64 {
	return w.Schedule(time.Now().Add(d), payload)
}

// Cancel removes a pending timer by id. A missing or already-fired id is
// a no-op. O(log n).
func (w *Wheel) Cancel(id uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[id]
	if !ok {
		return
	}
	heap.Remove(&w.heap, e.index)
	delete(w.entries, id)
}

// Len returns the number of pending timers.
func (w *Wheel) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.heap)
}

// Stop halts the driver goroutine. Pending timers never fire after Stop
// returns.
func (w *Wheel) Stop() {
	close(w.stop)
	<-w.done
}

// drive is the background loop: sleep until the next deadline (or
// indefinitely with nothing pending), fire due callbacks, repeat.
func (w *Wheel) drive() {
	defer close(w.done)

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		w.mu.Lock()
		var wait time.Duration
		if len(w.heap) == 0 {
			wait = time.Hour
		} else {
			wait = time.Until(w.heap[0].expiry)
			if wait < 0 {
				wait = 0
			}
		}
		w.mu.Unlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-w.stop:
			return
		case <-w.wake:
			continue
		case <-timer.C:
			w.fireDue()
		}
	}
}

// fireDue pops and invokes every entry whose expiry has passed.
func (w *Wheel) fireDue() {
	now := time.Now()
	for {
		w.mu.Lock()
		if len(w.heap) == 0 || w.heap[0].expiry.After(now) {
			w.mu.Unlock()
			return
		}
		e := heap.Pop(&w.heap).(*entry)
		delete(w.entries, e.id)
		w.mu.Unlock()

		w.callback(e.id, e.payload)
	}
}
