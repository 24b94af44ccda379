package measure

import (
	"context"
	"math"
	"sync"
	"time"
)

// DefaultPollInterval is used for targets without native notifications.
const DefaultPollInterval = 250 * time.Millisecond

// Target is anything that can be measured on demand.
type Target interface {
	Measure() StoryMetrics
}

// Notifier is a Target that pushes a callback on every layout change.
// OnResize returns a function that detaches the callback.
type Notifier interface {
	Target
	OnResize(fn func()) (detach func())
}

// State is the observer lifecycle state.
type State int

const (
	Idle State = iota
	Measuring
	Settled
)

func (s State) String() string {
	switch s {
	case Measuring:
		return "measuring"
	case Settled:
		return "settled"
	default:
		return "idle"
	}
}

// Reason names why a re-measurement was requested.
type Reason string

const (
	ReasonItemCount  Reason = "item-count"
	ReasonVisibility Reason = "visibility"
	ReasonResize     Reason = "resize"
	ReasonTarget     Reason = "target"
)

// Option configures an Observer.
type Option func(*Observer)

// WithPollInterval overrides the polling fallback interval.
func WithPollInterval(d time.Duration) Option {
	return func(o *Observer) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithTolerance overrides the change threshold in px.
func WithTolerance(px float64) Option {
	return func(o *Observer) {
		if px > 0 {
			o.tolerance = px
		}
	}
}

// Observer watches one target at a time and publishes metric changes.
//
// Subscribers run synchronously on the goroutine that took the measurement,
// outside the observer's lock, in subscription order.
type Observer struct {
	interval  time.Duration
	tolerance float64

	mu       sync.Mutex
	state    State
	target   Target
	last     *StoryMetrics
	reason   Reason
	teardown func()
	subs     []subscriber
	nextID   int
	closed   bool
}

type subscriber struct {
	id int
	fn func(StoryMetrics)
}

// NewObserver creates an idle observer.
func NewObserver(opts ...Option) *Observer {
	o := &Observer{interval: DefaultPollInterval, tolerance: Tolerance}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Subscribe registers fn for metric changes. The returned function removes it.
func (o *Observer) Subscribe(fn func(StoryMetrics)) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextID++
	id := o.nextID
	o.subs = append(o.subs, subscriber{id: id, fn: fn})
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		for i, s := range o.subs {
			if s.id == id {
				o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
				return
			}
		}
	}
}

// Observe attaches the observer to t and measures immediately.
//
// Observing the target already attached is a no-op. Observing a different
// target tears the previous observation down first. Polling goroutines stop
// when ctx is cancelled or on Close. Targets are compared by identity and
// must be comparable (pointer types in practice).
func (o *Observer) Observe(ctx context.Context, t Target) {
	o.mu.Lock()
	if o.closed || t == nil {
		o.mu.Unlock()
		return
	}
	if o.target == t {
		o.mu.Unlock()
		return
	}
	o.stopLocked()
	o.target = t
	o.last = nil
	o.state = Measuring
	o.reason = ReasonTarget

	if n, ok := t.(Notifier); ok {
		o.teardown = n.OnResize(func() { o.Invalidate(ReasonResize) })
	} else {
		pctx, cancel := context.WithCancel(ctx)
		o.teardown = cancel
		go o.poll(pctx, t)
	}
	o.mu.Unlock()

	o.measure(t)
}

// Invalidate marks the observation stale and re-measures now.
// It does nothing when no target is attached.
func (o *Observer) Invalidate(reason Reason) {
	o.mu.Lock()
	t := o.target
	if t == nil || o.closed {
		o.mu.Unlock()
		return
	}
	o.state = Measuring
	o.reason = reason
	o.mu.Unlock()

	o.measure(t)
}

// State returns the current lifecycle state.
func (o *Observer) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Reason returns the reason of the latest re-measurement.
func (o *Observer) Reason() Reason {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.reason
}

// Latest returns the last stored metrics.
func (o *Observer) Latest() (StoryMetrics, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.last == nil {
		return StoryMetrics{}, false
	}
	return *o.last, true
}

// Detach tears down the current observation and returns to Idle.
func (o *Observer) Detach() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()
	o.target = nil
	o.last = nil
	o.state = Idle
}

// Close tears everything down. The observer cannot be reused.
func (o *Observer) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()
	o.target = nil
	o.subs = nil
	o.closed = true
	o.state = Idle
}

func (o *Observer) stopLocked() {
	if o.teardown != nil {
		o.teardown()
		o.teardown = nil
	}
}

func (o *Observer) poll(ctx context.Context, t Target) {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.measure(t)
		}
	}
}

// measure reads t and emits when the schedule height moved past tolerance.
// Readings from a target that is no longer attached are dropped.
func (o *Observer) measure(t Target) {
	m := t.Measure()

	o.mu.Lock()
	if o.target != t || o.closed {
		o.mu.Unlock()
		return
	}
	if o.last != nil && math.Abs(m.ScheduleHeight-o.last.ScheduleHeight) < o.tolerance && m.ItemCount == o.last.ItemCount {
		o.state = Settled
		o.mu.Unlock()
		return
	}
	o.last = &m
	o.state = Measuring
	subs := make([]subscriber, len(o.subs))
	copy(subs, o.subs)
	o.mu.Unlock()

	for _, s := range subs {
		s.fn(m)
	}
}
