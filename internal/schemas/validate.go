// Package schemas validates request bodies against embedded JSON Schemas.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Embedded schema names.
const (
	GenerateRequest = "generate_request.schema.json"
	ProfileInput    = "profile_input.schema.json"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// registry compiles each embedded schema once, on first use.
var registry = struct {
	sync.Mutex
	byName map[string]*gojsonschema.Schema
}{byName: map[string]*gojsonschema.Schema{}}

// FieldError is one schema violation, keyed by its dotted field path.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Summary returns the first field error on one line, for API responses.
func (ve *ValidationError) Summary() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}
	return ve.Errors[0].Field + ": " + ve.Errors[0].Message
}

// SchemaError means the named schema is missing or does not compile.
// It points at a programming error, never at bad client input.
type SchemaError struct {
	Name string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: %v", e.Name, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Validate checks document against the embedded schema called name.
// A document that is not JSON at all is reported as a ValidationError.
func Validate(name string, document []byte) error {
	schema, err := load(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: rootField, Message: "Invalid JSON"}}}
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = rootField
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

const rootField = "(root)"

func load(name string) (*gojsonschema.Schema, error) {
	registry.Lock()
	defer registry.Unlock()

	if s, ok := registry.byName[name]; ok {
		return s, nil
	}

	raw, err := schemaFiles.ReadFile(name)
	if err != nil {
		return nil, &SchemaError{Name: name, Err: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &SchemaError{Name: name, Err: err}
	}
	registry.byName[name] = s
	return s, nil
}
