package ingest

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/schedule"
	"github.com/matzehuels/storyboard/pkg/style"
)

// StyleResult is a decoded style patch.
type StyleResult struct {
	Style    style.Style
	Problems Problems
}

// Style decodes a style patch. Only a document that is not an object at all
// is an error.
func Style(data []byte, format Format) (StyleResult, error) {
	m, err := decodeMap(data, format)
	if err != nil {
		return StyleResult{}, err
	}
	var res StyleResult
	res.Problems = assign(&res.Style, m, "")
	p, _ := check(&res.Style, "")
	res.Problems = append(res.Problems, p...)
	return res, nil
}

// ScheduleResult is a decoded schedule.
type ScheduleResult struct {
	Schedule schedule.Schedule
	Problems Problems
	// Dropped counts items removed for missing required fields.
	Dropped int
}

// Schedule decodes a schedule. The payload is either an object with date and
// items or a bare list of items. Items without an id get a fresh uuid.
func Schedule(data []byte, format Format) (ScheduleResult, error) {
	var raw any
	if err := unmarshal(data, format, &raw); err != nil {
		return ScheduleResult{}, err
	}

	var res ScheduleResult
	var items []any
	switch v := raw.(type) {
	case nil:
	case []any:
		items = v
	case map[string]any:
		for _, key := range sortedKeys(v) {
			switch key {
			case "date":
				date, ok := v[key].(string)
				if !ok || len(date) > 64 {
					res.Problems = append(res.Problems, FieldError{Path: "date", Tag: "type", Value: v[key], Message: "must be a string of at most 64 characters"})
					continue
				}
				res.Schedule.Date = date
			case "items":
				list, ok := v[key].([]any)
				if !ok {
					res.Problems = append(res.Problems, FieldError{Path: "items", Tag: "type", Message: "must be a list"})
					continue
				}
				items = list
			default:
				res.Problems = append(res.Problems, FieldError{Path: key, Tag: "unknown", Value: v[key], Message: "unknown field"})
			}
		}
	default:
		return ScheduleResult{}, errors.New(errors.ErrCodeInvalidPayload, "schedule must be an object or a list, got %T", raw)
	}

	for i, rawItem := range items {
		prefix := fmt.Sprintf("items[%d]", i)
		m, ok := rawItem.(map[string]any)
		if !ok {
			res.Problems = append(res.Problems, FieldError{Path: prefix, Tag: "type", Message: "must be an object"})
			res.Dropped++
			continue
		}
		var it schedule.Item
		res.Problems = append(res.Problems, assign(&it, m, prefix)...)
		p, required := check(&it, prefix)
		res.Problems = append(res.Problems, p...)
		if required {
			res.Dropped++
			continue
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		res.Schedule.Items = append(res.Schedule.Items, it)
	}
	return res, nil
}

// ElementStylesResult is a decoded set of per-element overrides.
type ElementStylesResult struct {
	Styles   elements.Styles
	Problems Problems
}

// ElementStyles decodes overrides keyed by element id. Unknown ids are
// dropped.
func ElementStyles(data []byte, format Format) (ElementStylesResult, error) {
	m, err := decodeMap(data, format)
	if err != nil {
		return ElementStylesResult{}, err
	}
	res := ElementStylesResult{Styles: make(elements.Styles)}
	for _, key := range sortedKeys(m) {
		id := elements.ID(key)
		if _, ok := elements.Lookup(id); !ok {
			res.Problems = append(res.Problems, FieldError{Path: key, Tag: "element", Message: "unknown element"})
			continue
		}
		fields, ok := m[key].(map[string]any)
		if !ok {
			res.Problems = append(res.Problems, FieldError{Path: key, Tag: "type", Message: "must be an object"})
			continue
		}
		var st elements.Style
		res.Problems = append(res.Problems, assign(&st, fields, key)...)
		p, _ := check(&st, key)
		res.Problems = append(res.Problems, p...)
		if !st.IsZero() {
			res.Styles[id] = st
		}
	}
	return res, nil
}
