package pipeline

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/storyboard/pkg/cache"
	"github.com/matzehuels/storyboard/pkg/density"
	"github.com/matzehuels/storyboard/pkg/editor"
	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/render"
	"github.com/matzehuels/storyboard/pkg/schedule"
	"github.com/matzehuels/storyboard/pkg/style"
)

// Prepared is a render input with its content hashes.
type Prepared struct {
	TemplateID string
	Input      render.Input

	// Hash covers everything that reaches an artifact.
	Hash string

	// LayoutHash is Hash with item ids blanked; ids never move a pixel.
	LayoutHash string
}

// canonicalInput is the hashed form of a render input. Field order is
// fixed and maps marshal with sorted keys, so equal inputs hash equally.
type canonicalInput struct {
	TemplateID    string               `json:"template"`
	Style         style.Style          `json:"style"`
	Schedule      schedule.Schedule    `json:"schedule"`
	ElementStyles elements.Styles      `json:"element_styles"`
	Visible       []elements.ID        `json:"visible"`
	Smart         density.SmartSpacing `json:"smart"`
	Strategy      string               `json:"strategy"`
}

// Prepare builds the render input: the template is instantiated in an
// editor session and the options are applied as edits, so a pipeline run
// and an interactive session with the same edits render identically.
//
// With an owner, the owner's saved document is loaded first and the edits
// apply on top of it. With Save, the edited state is written back.
func (r *Runner) Prepare(ctx context.Context, opts Options) (*Prepared, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if (opts.Owner != "" || opts.Save) && r.Store == nil {
		return nil, errors.New(errors.ErrCodeConfig, "no document store configured")
	}
	sess, err := editor.New(r.Registry, opts.Template,
		editor.WithLogger(opts.Logger),
		editor.WithMeasurer(r.fonts()),
		editor.WithStore(r.Store),
		editor.WithOwner(opts.Owner))
	if err != nil {
		return nil, err
	}
	var loaded bool
	if opts.Owner != "" {
		if loaded, err = sess.Load(ctx); err != nil {
			return nil, err
		}
		opts.Logger.Debug("loaded document", "key", sess.Key(), "found", loaded)
	}
	if opts.Style != nil {
		sess.ApplyStyle(*opts.Style)
	}
	// An empty schedule keeps the loaded one.
	if !loaded || opts.Schedule.Len() > 0 || opts.Schedule.Date != "" {
		sess.SetSchedule(opts.Schedule)
	}
	for id, es := range opts.ElementStyles {
		if err := sess.SetElementStyle(id, es); err != nil {
			return nil, err
		}
	}
	for _, id := range opts.Show {
		if err := sess.SetElementVisible(id, true); err != nil {
			return nil, err
		}
	}
	for _, id := range opts.Hide {
		if err := sess.SetElementVisible(id, false); err != nil {
			return nil, err
		}
	}

	if opts.Save {
		if err := sess.Save(ctx); err != nil {
			return nil, err
		}
		opts.Logger.Info("saved document", "key", sess.Key())
	}

	in := sess.Input()
	if opts.Strategy != "" {
		in.Strategy, _ = render.StrategyFor(opts.Strategy)
	}
	if in.Strategy == nil {
		in.Strategy = render.Current{}
	}
	if in.Strategy.Deprecated() {
		opts.Logger.Warn("rendering with deprecated layout strategy", "strategy", in.Strategy.Name())
	}

	st := sess.State()
	c := canonicalInput{
		TemplateID:    st.TemplateID,
		Style:         in.Style,
		Schedule:      in.Schedule,
		ElementStyles: in.ElementStyles,
		Visible:       in.Visible.Sorted(),
		Smart:         in.Smart,
		Strategy:      in.Strategy.Name(),
	}
	hash, err := hashInput(c)
	if err != nil {
		return nil, err
	}
	c.Schedule = c.Schedule.Clone()
	for i := range c.Schedule.Items {
		c.Schedule.Items[i].ID = ""
	}
	layoutHash, err := hashInput(c)
	if err != nil {
		return nil, err
	}
	return &Prepared{TemplateID: st.TemplateID, Input: in, Hash: hash, LayoutHash: layoutHash}, nil
}

func hashInput(c canonicalInput) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
