package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema is the subset of JSON Schema used to advertise tool parameters and
// results to a language model.
type Schema struct {
	// Type is the JSON type ("object", "array", "string", "number", ...)
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	// Items describes array elements
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties is a *Schema for maps and false for closed objects
	AdditionalProperties any      `json:"additionalProperties,omitempty"`
	Enum                 []any    `json:"enum,omitempty"`
	Minimum              *float64 `json:"minimum,omitempty"`
	Maximum              *float64 `json:"maximum,omitempty"`
	Format               string   `json:"format,omitempty"`
}

// GenerateJSONSchema derives a Schema for T by reflection. Struct fields are
// named after their json tag; a field is required unless it is a pointer or
// tagged omitempty, or when its jsonschema tag says "required".
//
// Supported jsonschema tag entries, comma separated:
//
//	description=...   free text (must not contain commas)
//	enum=a,enum=b     allowed values, converted to the field kind
//	minimum=1         numeric lower bound
//	maximum=20        numeric upper bound
//	format=uri        string format hint
//	required          force the field into the required list
//
// An error is returned when a tag cannot be applied to its field.
func GenerateJSONSchema[T any]() (*Schema, error) {
	return generate(reflect.TypeFor[T](), map[reflect.Type]bool{})
}

// MustGenerateJSONSchema is like [GenerateJSONSchema] but panics on error.
// Tags are fixed at compile time, so a failure is a programming error.
func MustGenerateJSONSchema[T any]() *Schema {
	schema, err := GenerateJSONSchema[T]()
	if err != nil {
		panic(fmt.Sprintf("jsonschema: %v", err))
	}
	return schema
}

func generate(t reflect.Type, inProgress map[reflect.Type]bool) (*Schema, error) {
	switch t.Kind() {
	case reflect.Ptr:
		return generate(t.Elem(), inProgress)
	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil
	case reflect.Slice, reflect.Array:
		items, err := generate(t.Elem(), inProgress)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case reflect.Map:
		values, err := generate(t.Elem(), inProgress)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "object", AdditionalProperties: values}, nil
	case reflect.Struct:
		return generateStruct(t, inProgress)
	default:
		return &Schema{Type: "object"}, nil
	}
}

func generateStruct(t reflect.Type, inProgress map[reflect.Type]bool) (*Schema, error) {
	// Self-referencing types collapse to a plain object instead of recursing forever.
	if inProgress[t] {
		return &Schema{Type: "object"}, nil
	}
	inProgress[t] = true
	defer delete(inProgress, t)

	schema := &Schema{
		Type:       "object",
		Properties: make(map[string]*Schema),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := jsonFieldName(field)
		if skip {
			continue
		}

		fieldSchema, err := generate(field.Type, inProgress)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}

		requiredByTag, err := applyTag(field.Type, field.Tag.Get("jsonschema"), fieldSchema)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}

		schema.Properties[name] = fieldSchema
		if requiredByTag || (field.Type.Kind() != reflect.Ptr && !omitEmpty) {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema, nil
}

// jsonFieldName resolves the property name from the json tag.
func jsonFieldName(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	name = field.Name
	if tag == "" {
		return name, false, false
	}

	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" || opt == "omitzero" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// applyTag applies a jsonschema struct tag to schema and reports whether the
// tag marks the field as required.
func applyTag(fieldType reflect.Type, tag string, schema *Schema) (bool, error) {
	if tag == "" {
		return false, nil
	}

	required := false
	for _, item := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		key = strings.TrimSpace(key)

		if !hasValue {
			if key == "required" {
				required = true
			}
			continue
		}

		switch key {
		case "description":
			schema.Description = value
		case "format":
			schema.Format = value
		case "enum":
			enumValue, err := convertEnum(fieldType, value)
			if err != nil {
				return false, err
			}
			schema.Enum = append(schema.Enum, enumValue)
		case "minimum", "maximum":
			bound, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return false, fmt.Errorf("parse %s %q: %w", key, value, err)
			}
			if key == "minimum" {
				schema.Minimum = &bound
			} else {
				schema.Maximum = &bound
			}
		}
	}

	return required, nil
}

// convertEnum converts a tag value to the Go kind of the field so that the
// serialized enum keeps the right JSON type.
func convertEnum(fieldType reflect.Type, value string) (any, error) {
	for fieldType.Kind() == reflect.Ptr {
		fieldType = fieldType.Elem()
	}

	switch fieldType.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %v to int64 failed: %w", value, err)
		}
		return v, nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %v to float64 failed: %w", value, err)
		}
		return v, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %v to bool failed: %w", value, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("enum tag unsupported for field type: %v", fieldType)
	}
}

// JSON returns the schema encoded as JSON, indented when indent is true.
func (s *Schema) JSON(indent bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return data, nil
}

// String returns the compact JSON representation of the schema.
func (s *Schema) String() string {
	data, err := s.JSON(false)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}
