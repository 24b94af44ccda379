package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// hexColorRegex matches #rgb and #rrggbb with an optional leading hash.
var hexColorRegex = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a CSS hex color in #rgb or #rrggbb form.
func ValidateHexColor(value string) error {
	if value == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !hexColorRegex.MatchString(value) {
		return New(ErrCodeInvalidColor, "invalid hex color: %q", value)
	}
	return nil
}

// templateIDRegex matches template identifiers such as "pulse" or "legacy-classic".
var templateIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// ValidateTemplateID validates a template identifier.
func ValidateTemplateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTemplate, "template id cannot be empty")
	}
	if !templateIDRegex.MatchString(id) {
		return New(ErrCodeInvalidTemplate, "invalid template id: %q", id)
	}
	return nil
}

// ValidateDocumentKey validates a persistence key for safety.
// It rejects keys that could be used for path traversal in file-backed stores.
func ValidateDocumentKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "key cannot be empty")
	}
	if len(key) > 128 {
		return New(ErrCodeInvalidInput, "key too long (max 128 characters)")
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "key contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidInput, "key contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a scheme the renderer knows how to load.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, scheme := range []string{"http://", "https://", "file://", "preview://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use http, https, file or preview scheme")
}
