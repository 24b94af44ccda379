// Package ingest decodes user payloads (style edits, schedules, element
// styles) from JSON or YAML and validates them field by field.
//
// Ingestion is lenient: a field that fails to decode or validate is dropped
// and reported as a [FieldError], and every valid field still applies. The
// caller gets a usable value plus the list of [Problems]:
//
//	res, err := ingest.Schedule(data, ingest.FormatYAML)
//	if err != nil {
//	    return err // the document itself is unreadable
//	}
//	for _, p := range res.Problems {
//	    logger.Warn("dropped field", "path", p.Path, "reason", p.Message)
//	}
//
// A schedule item missing a required field (time, class name) is dropped as a
// whole.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/storyboard/pkg/errors"
)

// Format is a payload encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Unknown extensions
// are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FieldError describes one dropped field.
type FieldError struct {
	Path    string `json:"path"`
	Tag     string `json:"tag"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Path + ": " + e.Message }

// Problems is the list of dropped fields of one payload.
type Problems []FieldError

// Err returns the problems as an INVALID_PAYLOAD error, or nil when empty.
func (p Problems) Err() error {
	if len(p) == 0 {
		return nil
	}
	msgs := make([]string, len(p))
	for i, fe := range p {
		msgs[i] = fe.Error()
	}
	return errors.New(errors.ErrCodeInvalidPayload, "%d invalid field(s): %s", len(p), strings.Join(msgs, "; "))
}

var (
	validateOnce sync.Once
	validateInst *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validateInst = v
	})
	return validateInst
}

// decodeMap reads a top-level object in the given format.
func decodeMap(data []byte, format Format) (map[string]any, error) {
	var m map[string]any
	if err := unmarshal(data, format, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func unmarshal(data []byte, format Format, v any) error {
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	case FormatJSON, "":
		err = json.Unmarshal(data, v)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s payload", format)
	}
	return nil
}

// assign decodes each key of m into dst independently. Keys that are unknown
// or carry the wrong type are reported and skipped.
func assign(dst any, m map[string]any, prefix string) Problems {
	var problems Problems
	for _, key := range sortedKeys(m) {
		raw, err := json.Marshal(map[string]any{key: m[key]})
		if err != nil {
			problems = append(problems, FieldError{Path: join(prefix, key), Tag: "type", Message: err.Error()})
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil {
			tag, msg := "type", fmt.Sprintf("cannot use %v", m[key])
			if strings.Contains(err.Error(), "unknown field") {
				tag, msg = "unknown", "unknown field"
			}
			problems = append(problems, FieldError{Path: join(prefix, key), Tag: tag, Value: m[key], Message: msg})
		}
	}
	return problems
}

// check validates dst and zeroes every failing field. It reports whether a
// required field failed.
func check(dst any, prefix string) (Problems, bool) {
	err := validatorInstance().Struct(dst)
	if err == nil {
		return nil, false
	}
	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		return Problems{{Path: prefix, Tag: "invalid", Message: err.Error()}}, false
	}
	var problems Problems
	required := false
	v := reflect.ValueOf(dst).Elem()
	for _, fe := range ves {
		if fe.Tag() == "required" {
			required = true
		}
		problems = append(problems, FieldError{
			Path:    join(prefix, fe.Field()),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: message(fe),
		})
		if f := v.FieldByName(fe.StructField()); f.IsValid() && f.CanSet() {
			f.SetZero()
		}
	}
	return problems, required
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "hexcolor":
		return fmt.Sprintf("%v is not a hex color", fe.Value())
	case "oneof":
		return fmt.Sprintf("%v is not one of [%s]", fe.Value(), fe.Param())
	case "url":
		return fmt.Sprintf("%v is not a URL", fe.Value())
	case "gte":
		return fmt.Sprintf("%v is below the minimum %s", deref(fe.Value()), fe.Param())
	case "lte":
		return fmt.Sprintf("%v is above the maximum %s", deref(fe.Value()), fe.Param())
	case "max":
		return fmt.Sprintf("is longer than %s", fe.Param())
	}
	return fmt.Sprintf("failed validation for tag '%s'", fe.Tag())
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return v
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
