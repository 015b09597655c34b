package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrEmptyContent is returned when a structured value is requested from
// blank content.
var ErrEmptyContent = errors.New("empty content")

// ParseStringAs converts model-supplied text into a value of type T.
//
// Strings are returned as-is, unless the content is a {"type":..,"value":..}
// envelope, in which case the value is unwrapped. Booleans and numbers are
// parsed with strconv. Every other kind goes through JSON: the content is
// stripped of markdown code fences, unmarshaled, and on failure repaired with
// jsonrepair and retried. Schema-style envelopes nested anywhere in the
// document are unwrapped as a last resort.
//
// Example usage:
//
//	input, err := parse.ParseStringAs[SearchInput](`{query: 'golang generics'}`)
func ParseStringAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch target.Kind() {
	case reflect.String:
		if unwrapped, err := tryUnwrapPrimitive(content); err == nil {
			target.SetString(unwrapped)
			return result, nil
		}
		target.SetString(content)
		return result, nil

	case reflect.Bool:
		val, err := strconv.ParseBool(primitiveText(content))
		if err != nil {
			return result, fmt.Errorf("failed to parse content as bool: %w", err)
		}
		target.SetBool(val)
		return result, nil

	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(primitiveText(content), 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as float: %w", err)
		}
		target.SetFloat(val)
		return result, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := strconv.ParseInt(primitiveText(content), 10, 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as int: %w", err)
		}
		target.SetInt(val)
		return result, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := strconv.ParseUint(primitiveText(content), 10, 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as uint: %w", err)
		}
		target.SetUint(val)
		return result, nil
	}

	cleaned := stripCodeFence(content)
	if cleaned == "" {
		return result, fmt.Errorf("cannot parse %T: %w", result, ErrEmptyContent)
	}

	err := json.Unmarshal([]byte(cleaned), &result)
	if err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(cleaned)
	if repairErr != nil {
		return result, fmt.Errorf("failed to unmarshal content as %T and failed to repair JSON: unmarshal error: %w, repair error: %v", result, err, repairErr)
	}

	if err = json.Unmarshal([]byte(repaired), &result); err == nil {
		return result, nil
	}

	// Models sometimes echo the schema shape back: {"query": {"type": "string", "value": "..."}}
	if unwrapped, unwrapErr := unwrapSchemaValues(repaired); unwrapErr == nil {
		var retry T
		if json.Unmarshal([]byte(unwrapped), &retry) == nil {
			return retry, nil
		}
	}

	return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w (original content: %s, repaired: %s)", result, err, content, repaired)
}

// primitiveText trims the content and unwraps a schema envelope if present.
func primitiveText(content string) string {
	if unwrapped, err := tryUnwrapPrimitive(content); err == nil {
		return unwrapped
	}
	return strings.TrimSpace(content)
}

// stripCodeFence removes a surrounding ```json ... ``` block.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.IndexByte(trimmed, '\n'); newline != -1 {
		trimmed = trimmed[newline+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// tryUnwrapPrimitive returns the string form of the value held by a
// {"type": ..., "value": ...} envelope.
func tryUnwrapPrimitive(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return "", errors.New("not a JSON object")
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(trimmed), &data); err != nil {
		return "", err
	}

	value, ok := envelopeValue(data)
	if !ok {
		return "", errors.New("not a schema-wrapped value")
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprintf("%v", v), nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}

// envelopeValue reports whether data is exactly {"type": ..., "value": ...}.
func envelopeValue(data map[string]any) (any, bool) {
	if len(data) != 2 {
		return nil, false
	}
	if _, hasType := data["type"]; !hasType {
		return nil, false
	}
	value, hasValue := data["value"]
	return value, hasValue
}

// unwrapSchemaValues replaces every schema envelope in the document with its
// value.
//
// Example input:
//
//	{"query": {"type": "string", "value": "golang"}}
//
// Example output:
//
//	{"query": "golang"}
func unwrapSchemaValues(jsonStr string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", err
	}

	result, err := json.Marshal(recursiveUnwrap(data))
	if err != nil {
		return "", err
	}
	return string(result), nil
}

// UnwrapEnvelopes replaces every {"type": ..., "value": ...} envelope in a
// decoded JSON document with its value. It applies to generic documents the
// same unwrapping [ParseStringAs] falls back to for typed targets.
func UnwrapEnvelopes(document any) any {
	return recursiveUnwrap(document)
}

func recursiveUnwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if value, ok := envelopeValue(v); ok {
			return recursiveUnwrap(value)
		}
		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = recursiveUnwrap(val)
		}
		return result

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = recursiveUnwrap(val)
		}
		return result

	default:
		return data
	}
}
