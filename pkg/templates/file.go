package templates

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/storyboard/pkg/density"
	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/style"
)

// File is the TOML form of a template. Every part is optional and layered
// over the base template.
type File struct {
	ID          string                         `toml:"id"`
	Name        string                         `toml:"name"`
	Description string                         `toml:"description"`
	Base        string                         `toml:"base"`
	Strategy    string                         `toml:"strategy"`
	Preview     bool                           `toml:"preview"`
	Visible     []elements.ID                  `toml:"visible"`
	Style       style.Style                    `toml:"style"`
	Elements    map[elements.ID]elements.Style `toml:"elements"`
	Smart       density.SmartSpacing           `toml:"smart_spacing"`
}

// LoadFile reads a TOML template from path and registers it in r. The base
// template is resolved through r, so it falls back like Get does.
func LoadFile(r *Registry, path string, replace bool) (Definition, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return Definition{}, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "parse template file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Definition{}, errors.New(errors.ErrCodeInvalidTemplate, "unknown keys in %s: %v", path, undecoded)
	}
	d, err := f.Definition(r)
	if err != nil {
		return Definition{}, err
	}
	if err := r.Register(d, replace); err != nil {
		return Definition{}, err
	}
	return d, nil
}

// Definition builds a definition from f on top of its base in r.
func (f File) Definition(r *Registry) (Definition, error) {
	base, err := r.Get(f.Base)
	if err != nil {
		return Definition{}, err
	}
	for id := range f.Elements {
		if _, ok := elements.Lookup(id); !ok {
			return Definition{}, errors.New(errors.ErrCodeInvalidTemplate, "template %q styles unknown element %q", f.ID, id)
		}
	}
	for _, id := range f.Visible {
		if _, ok := elements.Lookup(id); !ok {
			return Definition{}, errors.New(errors.ErrCodeInvalidTemplate, "template %q shows unknown element %q", f.ID, id)
		}
	}

	d := Definition{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Strategy:    f.Strategy,
		Preview:     f.Preview,
		Style: func() style.Style {
			return style.Merge(base.Style(), f.Style)
		},
		VisibleElements: base.VisibleElements,
		ElementStyles: func() elements.Styles {
			out := base.ElementStyles()
			for id, st := range f.Elements {
				out = out.With(id, st)
			}
			return out
		},
		SmartSpacing: func() density.SmartSpacing {
			return overlaySmart(base.SmartSpacing(), f.Smart)
		},
	}
	if d.Name == "" {
		d.Name = f.ID
	}
	if d.Strategy == "" {
		d.Strategy = base.Strategy
	}
	if f.Visible != nil {
		d.VisibleElements = visible(f.Visible...)
	}
	return d, nil
}

// overlaySmart takes each positive multiplier of top and keeps base otherwise.
func overlaySmart(base, top density.SmartSpacing) density.SmartSpacing {
	pick := func(b, t float64) float64 {
		if t > 0 {
			return t
		}
		return b
	}
	return density.SmartSpacing{
		HeroGap:       pick(base.HeroGap, top.HeroGap),
		ScheduleGap:   pick(base.ScheduleGap, top.ScheduleGap),
		CardPadding:   pick(base.CardPadding, top.CardPadding),
		FooterPadding: pick(base.FooterPadding, top.FooterPadding),
		TimePadding:   pick(base.TimePadding, top.TimePadding),
		LogoPadding:   pick(base.LogoPadding, top.LogoPadding),
	}
}
