package render

import (
	"sort"

	"github.com/matzehuels/storyboard/pkg/density"
	"github.com/matzehuels/storyboard/pkg/style"
)

// Strategy names.
const (
	StrategyCurrent = "current"
	StrategyLegacy  = "legacy"
)

// LayoutStrategy captures what differs between renderer generations.
type LayoutStrategy interface {
	// Name identifies the strategy in template metadata.
	Name() string
	// MaxItems is the item count at which density reaches 1.
	MaxItems() int
	// ScheduleShare is the fraction of canvas height targeted for the
	// schedule region at density d.
	ScheduleShare(d float64) float64
	// LogoAnchor maps a requested logo position to one this strategy
	// supports. The result drives both layout offset and visual anchor.
	LogoAnchor(p style.LogoPosition) style.LogoPosition
	// Deprecated reports whether new templates should avoid the strategy.
	Deprecated() bool
}

// Current is the canonical, measurement-driven strategy.
type Current struct{}

func (Current) Name() string                    { return StrategyCurrent }
func (Current) MaxItems() int                   { return density.MaxItemsCurrent }
func (Current) ScheduleShare(d float64) float64 { return density.Share(d) }
func (Current) Deprecated() bool                { return false }

// LogoAnchor collapses the seven positions onto top-center, center and
// bottom-center.
func (Current) LogoAnchor(p style.LogoPosition) style.LogoPosition {
	switch {
	case p.IsBottom():
		return style.LogoBottomCenter
	case p == style.LogoCenter:
		return style.LogoCenter
	default:
		return style.LogoTopCenter
	}
}

// Legacy is the older fixed-share strategy with seven logo anchors.
//
// Deprecated: use Current. Legacy stays selectable for templates that were
// designed against it.
type Legacy struct{}

func (Legacy) Name() string                  { return StrategyLegacy }
func (Legacy) MaxItems() int                 { return density.MaxItemsLegacy }
func (Legacy) ScheduleShare(float64) float64 { return density.LegacyShare }
func (Legacy) Deprecated() bool              { return true }

// LogoAnchor keeps any of the seven positions and maps unknown values to
// top-center.
func (Legacy) LogoAnchor(p style.LogoPosition) style.LogoPosition {
	for _, known := range style.LogoPositions {
		if p == known {
			return p
		}
	}
	return style.LogoTopCenter
}

var strategies = map[string]LayoutStrategy{
	StrategyCurrent: Current{},
	StrategyLegacy:  Legacy{},
}

// StrategyFor returns the strategy registered under name. An empty name
// selects Current.
func StrategyFor(name string) (LayoutStrategy, bool) {
	if name == "" {
		return Current{}, true
	}
	s, ok := strategies[name]
	return s, ok
}

// StrategyNames lists the registered strategies.
func StrategyNames() []string {
	out := make([]string, 0, len(strategies))
	for name := range strategies {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
