package utils

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// DefaultMaxStringLength is used by [TruncateString] when maxLen is not positive.
const DefaultMaxStringLength = 500

// TruncateString shortens s to at most maxLen bytes and appends the original
// length so a reader knows data was dropped. The cut never splits a UTF-8
// sequence.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:cut], len(s))
}

// JSONToString renders object as JSON, indented with two spaces when indent
// is true. A marshalling failure is rendered as a JSON error object so the
// result is always printable.
func JSONToString(object any, indent bool) string {
	var (
		encoded []byte
		err     error
	)
	if indent {
		encoded, err = json.MarshalIndent(object, "", "  ")
	} else {
		encoded, err = json.Marshal(object)
	}
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, "failed to marshal to JSON: "+err.Error())
	}
	return string(encoded)
}
