// Package jsonschema derives JSON Schema documents from Go types using
// reflection, driven by json and jsonschema struct tags.
//
// The main entry point is [GenerateJSONSchema], which derives a [Schema] for
// a type parameter without needing a runtime value. Tool constructors use
// [MustGenerateJSONSchema] because their tags are fixed at compile time.
package jsonschema
