// Package schema validates inbound documents against JSON schemas and reports
// the first offending field as a DOES_NOT_CONFORM_TO_SCHEMA error.
package schema

import (
	"fmt"
	"strings"

	"github.com/Dan9191/debt-terms/internal/apperr"
	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON schema plus the declaration order of its
// top-level fields, which decides which violation is reported.
type Schema struct {
	name     string
	fields   []string
	compiled *gojsonschema.Schema
}

// MustCompile compiles source or panics. Intended for package-level schemas.
func MustCompile(name, source string, fields ...string) *Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Sprintf("schema %s: %v", name, err))
	}
	return &Schema{name: name, fields: fields, compiled: compiled}
}

// Name returns the schema name used in error messages.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks a Go value after JSON marshalling.
func (s *Schema) Validate(doc any) error {
	return s.validate(gojsonschema.NewGoLoader(doc))
}

// ValidateJSON checks raw JSON bytes.
func (s *Schema) ValidateJSON(data []byte) error {
	return s.validate(gojsonschema.NewBytesLoader(data))
}

func (s *Schema) validate(doc gojsonschema.JSONLoader) error {
	result, err := s.compiled.Validate(doc)
	if err != nil {
		return apperr.Wrap(apperr.CodeDoesNotConformToSchema,
			fmt.Sprintf("%s is not a valid JSON document", s.name), err)
	}
	if result.Valid() {
		return nil
	}

	first := s.firstViolation(result.Errors())
	field := fieldOf(first)
	return apperr.WithMetadata(apperr.CodeDoesNotConformToSchema,
		fmt.Sprintf("%s does not conform to schema: %s: %s", s.name, field, first.Description()),
		map[string]string{
			"schema": s.name,
			"field":  field,
			"reason": first.Type(),
		})
}

func (s *Schema) firstViolation(errs []gojsonschema.ResultError) gojsonschema.ResultError {
	best := errs[0]
	bestRank := s.rank(best)
	for _, e := range errs[1:] {
		if r := s.rank(e); r < bestRank {
			best, bestRank = e, r
		}
	}
	return best
}

func (s *Schema) rank(e gojsonschema.ResultError) int {
	top, _, _ := strings.Cut(fieldOf(e), ".")
	for i, f := range s.fields {
		if f == top {
			return i
		}
	}
	return len(s.fields)
}

// fieldOf names the field a violation is about. Missing properties are
// reported against the root, with the property name in the details.
func fieldOf(e gojsonschema.ResultError) string {
	if e.Type() == "required" {
		if p, ok := e.Details()["property"].(string); ok {
			return p
		}
	}
	return e.Field()
}
