package schema

import (
	"fmt"
	"strings"

	apperrors "github.com/tripwise/backend/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON Schema used to check request bodies and catalog files
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// MustCompile compiles source and panics if it is not a valid schema.
// Schemas are package-level literals, so a failure is a programming error.
func MustCompile(name, source string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Sprintf("schema %s: %v", name, err))
	}
	return &Schema{name: name, schema: s}
}

// Name returns the schema name
func (s *Schema) Name() string {
	return s.name
}

// ValidateBytes checks a JSON document. Violations come back as a single
// validation error listing every failing field.
func (s *Schema) ValidateBytes(data []byte) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("%s: malformed JSON: %v", s.name, err))
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		msgs[i] = desc.String()
	}
	return apperrors.NewValidationError(fmt.Sprintf("%s: %s", s.name, strings.Join(msgs, "; ")))
}
