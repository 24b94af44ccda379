package elements

import "sort"

// Set is a set of element ids, used for the schedule-row elements a template
// shows.
type Set map[ID]bool

// DefaultVisible is used when a template does not say otherwise.
var DefaultVisible = []ID{Time, ClassName, Instructor, Location}

// NewSet returns a Set holding ids.
func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Has reports whether id is in the set. A nil set holds DefaultVisible.
func (s Set) Has(id ID) bool {
	if s == nil {
		for _, d := range DefaultVisible {
			if d == id {
				return true
			}
		}
		return false
	}
	return s[id]
}

// With returns a copy of s with id toggled.
func (s Set) With(id ID, on bool) Set {
	out := make(Set, len(s)+1)
	if s == nil {
		for _, d := range DefaultVisible {
			out[d] = true
		}
	}
	for k, v := range s {
		out[k] = v
	}
	if on {
		out[id] = true
	} else {
		delete(out, id)
	}
	return out
}

// Sorted returns the ids in display order.
func (s Set) Sorted() []ID {
	var out []ID
	for _, id := range order {
		if s.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Strings returns the ids as sorted strings, for hashing and display.
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for _, id := range s.Sorted() {
		out = append(out, string(id))
	}
	sort.Strings(out)
	return out
}
