package editor

import (
	"context"
	"sync"

	"github.com/matzehuels/storyboard/pkg/measure"
	"github.com/matzehuels/storyboard/pkg/render"
)

// Preview is the live rendering of a session. It implements
// measure.Notifier: every session change fires the registered callbacks.
type Preview struct {
	s *Session

	mu        sync.Mutex
	callbacks map[int]func()
	next      int
	tree      *render.Tree
}

// Measure renders the current state through the fit loop and returns its
// metrics.
func (p *Preview) Measure() measure.StoryMetrics {
	tree, _, err := render.Fit(context.Background(), p.s.Input(), measure.SettleOptions{})
	if err != nil || tree == nil {
		p.s.logger.Warn("preview render failed", "error", err)
		return measure.StoryMetrics{}
	}
	p.mu.Lock()
	p.tree = tree
	p.mu.Unlock()
	return tree.Measure()
}

// Tree returns the last rendered tree, or nil before the first measurement.
func (p *Preview) Tree() *render.Tree {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tree
}

// OnResize registers fn and returns a function that removes it.
func (p *Preview) OnResize(fn func()) (detach func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	id := p.next
	p.callbacks[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.callbacks, id)
	}
}

func (p *Preview) notify() {
	p.mu.Lock()
	fns := make([]func(), 0, len(p.callbacks))
	for _, fn := range p.callbacks {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

var _ measure.Notifier = (*Preview)(nil)
