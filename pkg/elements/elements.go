// Package elements is the registry of content elements a story can show.
//
// Each element (class name, instructor, heading, footer, ...) has a [Meta]
// record holding its label, its default typography and the schedule field it
// binds to. The registry is built once at package init and never changes; it
// is the single source of truth for typography defaults.
//
// User customizations are [Style] overrides keyed by element [ID]. Missing
// override fields fall back to the registry defaults via [DefaultStyle].
package elements

import (
	"fmt"

	"github.com/matzehuels/storyboard/pkg/schedule"
	"github.com/matzehuels/storyboard/pkg/style"
)

// ID identifies a content element. The set of IDs is closed.
type ID string

const (
	Heading      ID = "heading"
	Subtitle     ID = "subtitle"
	ScheduleDate ID = "scheduleDate"
	Time         ID = "time"
	ClassName    ID = "className"
	Instructor   ID = "instructor"
	Location     ID = "location"
	Duration     ID = "duration"
	Description  ID = "description"
	Footer       ID = "footer"
)

// Category groups elements by story region.
type Category string

const (
	CategoryHero     Category = "hero"
	CategorySchedule Category = "schedule"
	CategoryFooter   Category = "footer"
)

// Role selects which density font scale applies to an element.
type Role string

const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
	RoleTime      Role = "time"
)

// Fallbacks used by DefaultStyle when the registry leaves a field unset.
const (
	FallbackFontSize      = 16.0
	FallbackFontWeight    = 500
	FallbackLetterSpacing = 0.0
	FallbackLineHeight    = 1.3
	FallbackColor         = "#F5F5F5"
)

// Meta is the static description of one content element.
type Meta struct {
	ID          ID
	Label       string
	Description string
	Icon        string

	// Typography defaults. Nil means "use the package fallback".
	FontSize      *float64
	FontWeight    *int
	LetterSpacing *float64
	LineHeight    *float64
	Color         *string

	// MinFontSize is the legibility floor in px.
	MinFontSize float64
	Role        Role
	Category    Category

	// Field is the schedule item field a schedule-row element reads.
	Field schedule.Field
	// Toggle is the style section that hides this element, if any.
	Toggle style.Section
}

// Bound reports whether the element reads a schedule item field.
func (m Meta) Bound() bool { return m.Field != schedule.FieldNone }

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int            { return &v }

var order = []ID{
	Heading, Subtitle, ScheduleDate,
	Time, ClassName, Instructor, Location, Duration, Description,
	Footer,
}

var registry = map[ID]Meta{
	Heading: {
		ID: Heading, Label: "Heading", Description: "Story title", Icon: "type",
		FontSize: floatPtr(96), FontWeight: intPtr(800), LetterSpacing: floatPtr(-1), LineHeight: floatPtr(1.05),
		MinFontSize: 56, Role: RolePrimary, Category: CategoryHero, Toggle: style.SectionHeading,
	},
	Subtitle: {
		ID: Subtitle, Label: "Subtitle", Description: "Line under the heading", Icon: "text",
		FontSize: floatPtr(40), FontWeight: intPtr(500), LetterSpacing: floatPtr(0), LineHeight: floatPtr(1.2),
		MinFontSize: 24, Role: RoleSecondary, Category: CategoryHero, Toggle: style.SectionSubtitle,
	},
	ScheduleDate: {
		ID: ScheduleDate, Label: "Date", Description: "Schedule date label", Icon: "calendar",
		FontSize: floatPtr(34), FontWeight: intPtr(600), LetterSpacing: floatPtr(1), LineHeight: floatPtr(1.2),
		MinFontSize: 22, Role: RoleSecondary, Category: CategoryHero, Toggle: style.SectionDate,
	},
	Time: {
		ID: Time, Label: "Time", Description: "Class start time", Icon: "clock",
		FontSize: floatPtr(34), FontWeight: intPtr(700), LetterSpacing: floatPtr(0), LineHeight: floatPtr(1.2),
		MinFontSize: 18, Role: RoleTime, Category: CategorySchedule, Field: schedule.FieldTime,
	},
	ClassName: {
		ID: ClassName, Label: "Class name", Description: "Name of the class", Icon: "dumbbell",
		FontSize: floatPtr(44), FontWeight: intPtr(700), LetterSpacing: floatPtr(0), LineHeight: floatPtr(1.15),
		MinFontSize: 20, Role: RolePrimary, Category: CategorySchedule, Field: schedule.FieldClassName,
	},
	Instructor: {
		ID: Instructor, Label: "Instructor", Description: "Coach leading the class", Icon: "user",
		FontSize: floatPtr(30), FontWeight: intPtr(500), LetterSpacing: floatPtr(0), LineHeight: floatPtr(1.25),
		MinFontSize: 16, Role: RoleSecondary, Category: CategorySchedule, Field: schedule.FieldInstructor,
	},
	Location: {
		ID: Location, Label: "Location", Description: "Room or studio", Icon: "map-pin",
		FontSize: floatPtr(26), LetterSpacing: floatPtr(0),
		MinFontSize: 14, Role: RoleSecondary, Category: CategorySchedule, Field: schedule.FieldLocation,
	},
	Duration: {
		ID: Duration, Label: "Duration", Description: "Class length", Icon: "timer",
		FontSize: floatPtr(26), FontWeight: intPtr(500),
		MinFontSize: 14, Role: RoleSecondary, Category: CategorySchedule, Field: schedule.FieldDuration,
	},
	Description: {
		ID: Description, Label: "Description", Description: "Short class description", Icon: "align-left",
		FontWeight: intPtr(400), LineHeight: floatPtr(1.35),
		MinFontSize: 14, Role: RoleSecondary, Category: CategorySchedule, Field: schedule.FieldDescription,
	},
	Footer: {
		ID: Footer, Label: "Footer", Description: "Closing line or call to action", Icon: "info",
		FontSize: floatPtr(28), FontWeight: intPtr(500), LetterSpacing: floatPtr(0.5), LineHeight: floatPtr(1.2),
		MinFontSize: 16, Role: RoleSecondary, Category: CategoryFooter, Toggle: style.SectionFooter,
	},
}

// Lookup returns the metadata for id.
func Lookup(id ID) (Meta, bool) {
	m, ok := registry[id]
	return m, ok
}

// MustLookup returns the metadata for id and panics on an unknown id.
// Element ids form a closed set, so a miss is a programming error.
func MustLookup(id ID) Meta {
	m, ok := registry[id]
	if !ok {
		panic(fmt.Sprintf("elements: unknown element id %q", id))
	}
	return m
}

// All returns every element in display order.
func All() []Meta {
	out := make([]Meta, 0, len(order))
	for _, id := range order {
		out = append(out, registry[id])
	}
	return out
}

// IDs returns every element id in display order.
func IDs() []ID {
	out := make([]ID, len(order))
	copy(out, order)
	return out
}

// ByCategory returns the elements of one category in display order.
func ByCategory(c Category) []Meta {
	var out []Meta
	for _, id := range order {
		if m := registry[id]; m.Category == c {
			out = append(out, m)
		}
	}
	return out
}

// Field reads the schedule field bound to id from it.
// Unbound elements return "".
func Field(id ID, it schedule.Item) string {
	m, ok := registry[id]
	if !ok {
		return ""
	}
	return it.Get(m.Field)
}
