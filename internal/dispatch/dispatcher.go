// Package dispatch fans encoded protocol lines out to their
// recipients. Delivery is asynchronous so the state machine never
// blocks on a slow or unreachable peer, but the order of lines within
// one command's batch is preserved end to end.
package dispatch

import (
	"sync"

	"sherlock13/internal/logger"
	"sherlock13/internal/metrics"
)

// Sender delivers one encoded line to one destination address.
type Sender interface {
	Send(addr, line string) error
}

// Feed receives every broadcast line once, for spectators. Unicast
// lines never reach the feed.
type Feed interface {
	Publish(line string)
}

// Delivery is one encoded event with its resolved recipients, in the
// order they must be dialed.
type Delivery struct {
	Tag       string
	Line      string
	Addrs     []string
	Broadcast bool
}

// Dispatcher drains batches through a single goroutine: batches are
// sent in submission order, lines within a batch in slice order. The
// queue is unbounded so slow or unreachable peers never backpressure
// the command loop; each queued batch is a handful of short lines.
type Dispatcher struct {
	sender Sender
	feed   Feed

	mu      sync.Mutex
	cond    *sync.Cond
	pending [][]Delivery
	closed  bool

	done chan struct{}
}

// New starts a dispatcher. feed may be nil.
func New(sender Sender, feed Feed) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		feed:   feed,
		done:   make(chan struct{}),
	}
	d.cond = sync.NewCond(&d.mu)
	go d.run()
	return d
}

// Dispatch enqueues one command's outbound batch. It never blocks on
// delivery.
func (d *Dispatcher) Dispatch(batch []Delivery) {
	if len(batch) == 0 {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.pending = append(d.pending, batch)
		d.cond.Signal()
	}
	d.mu.Unlock()
}

// Close drains pending batches and stops the dispatcher. Called before
// process exit so a final VICTORY broadcast is flushed.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		d.cond.Signal()
	}
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		d.mu.Lock()
		for len(d.pending) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.pending) == 0 {
			d.mu.Unlock()
			return
		}
		batch := d.pending[0]
		d.pending = d.pending[1:]
		d.mu.Unlock()

		for _, del := range batch {
			d.deliver(del)
		}
	}
}

// deliver sends one line to each recipient. A failed recipient is
// logged and skipped; the rest still receive theirs.
func (d *Dispatcher) deliver(del Delivery) {
	metrics.EventsEmitted.WithLabelValues(del.Tag).Inc()

	if del.Broadcast && d.feed != nil {
		d.feed.Publish(del.Line)
	}
	for _, addr := range del.Addrs {
		if err := d.sender.Send(addr, del.Line); err != nil {
			metrics.SendFailures.Inc()
			logger.Warn("delivery failed", "tag", del.Tag, "addr", addr, "err", err)
		}
	}
}
