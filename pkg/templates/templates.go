package templates

import (
	"sync"

	"github.com/matzehuels/storyboard/pkg/density"
	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/render"
	"github.com/matzehuels/storyboard/pkg/style"
)

// DefaultFallback is the fallback id of registries built by NewDefault.
const DefaultFallback = "pulse"

// Flags are feature switches injected at construction.
type Flags struct {
	// Preview exposes templates that are still in preview.
	Preview bool
}

// Definition describes a template.
type Definition struct {
	ID          string
	Name        string
	Description string
	// Strategy names the render.LayoutStrategy. Empty means current.
	Strategy string
	Preview  bool

	Style           func() style.Style
	VisibleElements func() elements.Set
	ElementStyles   func() elements.Styles
	SmartSpacing    func() density.SmartSpacing
}

// Instance is a materialized template.
type Instance struct {
	ID            string
	Style         style.Style
	Visible       elements.Set
	ElementStyles elements.Styles
	Smart         density.SmartSpacing
	Strategy      render.LayoutStrategy
}

// Instantiate runs the factories. The style carries the template id.
func (d Definition) Instantiate() Instance {
	st := d.Style()
	st.TemplateID = d.ID
	strategy, _ := render.StrategyFor(d.Strategy)
	return Instance{
		ID:            d.ID,
		Style:         st,
		Visible:       d.VisibleElements(),
		ElementStyles: d.ElementStyles(),
		Smart:         d.SmartSpacing().Normalize(),
		Strategy:      strategy,
	}
}

// Validate checks that d is complete.
func (d Definition) Validate() error {
	if err := errors.ValidateTemplateID(d.ID); err != nil {
		return err
	}
	var missing []string
	if d.Style == nil {
		missing = append(missing, "Style")
	}
	if d.VisibleElements == nil {
		missing = append(missing, "VisibleElements")
	}
	if d.ElementStyles == nil {
		missing = append(missing, "ElementStyles")
	}
	if d.SmartSpacing == nil {
		missing = append(missing, "SmartSpacing")
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %q is missing factories %v", d.ID, missing)
	}
	if _, ok := render.StrategyFor(d.Strategy); !ok {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %q uses unknown strategy %q", d.ID, d.Strategy)
	}
	return nil
}

// Registry holds template definitions. It is safe for concurrent use.
type Registry struct {
	flags Flags

	mu       sync.RWMutex
	defs     map[string]Definition
	order    []string
	fallback string
}

// New returns an empty registry with no fallback.
func New(flags Flags) *Registry {
	return &Registry{flags: flags, defs: make(map[string]Definition)}
}

// NewDefault returns a registry holding the built-in templates with pulse as
// fallback.
func NewDefault(flags Flags) *Registry {
	r := New(flags)
	for _, d := range Builtins() {
		r.MustRegister(d, false)
	}
	if err := r.SetFallback(DefaultFallback); err != nil {
		panic(err)
	}
	return r
}

// Flags returns the flags the registry was built with.
func (r *Registry) Flags() Flags { return r.flags }

// Register adds d. An existing id is an error unless replace is set.
func (r *Registry) Register(d Definition, replace bool) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[d.ID]; exists {
		if !replace {
			return errors.New(errors.ErrCodeConfig, "template %q already registered", d.ID)
		}
	} else {
		r.order = append(r.order, d.ID)
	}
	r.defs[d.ID] = d
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(d Definition, replace bool) {
	if err := r.Register(d, replace); err != nil {
		panic(err)
	}
}

// SetFallback sets the id Get answers with for unknown ids. The id must be
// registered and visible.
func (r *Registry) SetFallback(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lookup(id); !ok {
		return errors.New(errors.ErrCodeConfig, "fallback template %q is not registered", id)
	}
	r.fallback = id
	return nil
}

// Fallback returns the fallback id.
func (r *Registry) Fallback() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// Get returns the definition for id, or the fallback when id is unknown or
// hidden. It fails only when neither exists.
func (r *Registry) Get(id string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.lookup(id); ok {
		return d, nil
	}
	if d, ok := r.lookup(r.fallback); ok {
		return d, nil
	}
	return Definition{}, errors.New(errors.ErrCodeTemplateNotFound, "template %q not registered and no fallback set", id)
}

// Has reports whether id is registered and visible, without falling back.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.lookup(id)
	return ok
}

// IDs returns visible template ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if _, ok := r.lookup(id); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// List returns visible definitions in registration order.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		if d, ok := r.lookup(id); ok {
			out = append(out, d)
		}
	}
	return out
}

func (r *Registry) lookup(id string) (Definition, bool) {
	d, ok := r.defs[id]
	if !ok || (d.Preview && !r.flags.Preview) {
		return Definition{}, false
	}
	return d, true
}
