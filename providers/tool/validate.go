package tool

import (
	"fmt"
	"slices"
	"sync"

	"github.com/quercle/quercle-aigo/core/parse"
	"github.com/quercle/quercle-aigo/internal/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// compiled schemas, keyed by their JSON text so rebuilt tools share entries
var schemaCache sync.Map

// ValidateInput checks inputJSON against the parameter schema of t. The input
// is read with the same leniency as [Tool.Call]: malformed JSON is repaired,
// {"type": ..., "value": ...} envelopes are unwrapped, and optional fields
// left empty or null are treated as absent.
//
// It returns one message per violation; an empty slice means the input is
// valid. The error is non-nil only when the input cannot be parsed at all or
// the schema fails to compile.
func ValidateInput(t GenericTool, inputJSON string) ([]string, error) {
	info := t.ToolInfo()
	if info.Parameters == nil {
		return nil, nil
	}

	schema, err := compiledSchema(info)
	if err != nil {
		return nil, err
	}

	document, err := parse.ParseStringAs[any](inputJSON)
	if err != nil {
		return nil, fmt.Errorf("parse input for %s: %w", info.Name, err)
	}
	document = dropEmptyOptional(parse.UnwrapEnvelopes(document), info.Parameters)

	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validate input for %s: %w", info.Name, err)
	}
	if result.Valid() {
		return nil, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs, nil
}

// dropEmptyOptional removes top-level optional fields holding null, and
// optional string fields holding "". Call decodes both to the zero value,
// which tools read as "not set".
func dropEmptyOptional(document any, schema *jsonschema.Schema) any {
	fields, ok := document.(map[string]any)
	if !ok {
		return document
	}

	cleaned := make(map[string]any, len(fields))
	for key, value := range fields {
		if !slices.Contains(schema.Required, key) && (value == nil || (value == "" && isString(schema.Properties[key]))) {
			continue
		}
		cleaned[key] = value
	}
	return cleaned
}

func isString(property *jsonschema.Schema) bool {
	return property != nil && property.Type == "string"
}

func compiledSchema(info Description) (*gojsonschema.Schema, error) {
	raw, err := info.Parameters.JSON(false)
	if err != nil {
		return nil, err
	}

	key := string(raw)
	if cached, ok := schemaCache.Load(key); ok {
		return cached.(*gojsonschema.Schema), nil
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema for %s: %w", info.Name, err)
	}

	actual, _ := schemaCache.LoadOrStore(key, schema)
	return actual.(*gojsonschema.Schema), nil
}
