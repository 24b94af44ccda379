// Package schedule holds the class schedule rendered into a story.
//
// A [Schedule] is a date label plus an ordered list of [Item] values. Input
// order is presentation order: nothing in the renderer sorts items by time.
// A Schedule is treated as immutable for the duration of a render pass and is
// replaced wholesale when a new one is loaded.
package schedule

import "github.com/google/uuid"

// Field names a bindable field of an Item.
type Field string

const (
	FieldNone        Field = ""
	FieldTime        Field = "time"
	FieldClassName   Field = "className"
	FieldInstructor  Field = "instructor"
	FieldLocation    Field = "location"
	FieldDuration    Field = "duration"
	FieldDescription Field = "description"
)

// Item is one class entry.
type Item struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty" bson:"id,omitempty"`
	Time        string `json:"time" yaml:"time" bson:"time" validate:"required,max=32"`
	ClassName   string `json:"className" yaml:"className" bson:"className" validate:"required,max=80"`
	Instructor  string `json:"instructor,omitempty" yaml:"instructor,omitempty" bson:"instructor,omitempty" validate:"max=80"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty" bson:"location,omitempty" validate:"max=80"`
	Duration    string `json:"duration,omitempty" yaml:"duration,omitempty" bson:"duration,omitempty" validate:"max=32"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty" validate:"max=280"`
}

// Get returns the value bound to f, or "" for FieldNone and unknown fields.
func (it Item) Get(f Field) string {
	switch f {
	case FieldTime:
		return it.Time
	case FieldClassName:
		return it.ClassName
	case FieldInstructor:
		return it.Instructor
	case FieldLocation:
		return it.Location
	case FieldDuration:
		return it.Duration
	case FieldDescription:
		return it.Description
	}
	return ""
}

// Schedule is a dated, ordered list of classes.
type Schedule struct {
	Date  string `json:"date" yaml:"date" bson:"date" validate:"max=64"`
	Items []Item `json:"items" yaml:"items" bson:"items" validate:"max=64,dive"`
}

// Len returns the number of items.
func (s Schedule) Len() int { return len(s.Items) }

// Empty reports whether the schedule has no items.
func (s Schedule) Empty() bool { return len(s.Items) == 0 }

// Clone returns a deep copy of s.
func (s Schedule) Clone() Schedule {
	out := Schedule{Date: s.Date}
	if s.Items != nil {
		out.Items = make([]Item, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}

// WithIDs returns a copy of s where every item without an ID gets a fresh uuid.
func (s Schedule) WithIDs() Schedule {
	out := s.Clone()
	for i := range out.Items {
		if out.Items[i].ID == "" {
			out.Items[i].ID = uuid.NewString()
		}
	}
	return out
}
