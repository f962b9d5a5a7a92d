package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/tripwise/backend/pkg/errors"
	"github.com/tripwise/backend/pkg/schema"
)

const pointSchema = `{
  "type": "object",
  "required": ["x"],
  "properties": {"x": {"type": "number"}, "label": {"type": "string"}}
}`

func TestSchema_ValidateBytes(t *testing.T) {
	s := schema.MustCompile("point", pointSchema)
	assert.Equal(t, "point", s.Name())

	assert.NoError(t, s.ValidateBytes([]byte(`{"x": 1.5, "label": "a"}`)))

	err := s.ValidateBytes([]byte(`{"label": 3}`))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "x")
	assert.Contains(t, err.Error(), "label")

	err = s.ValidateBytes([]byte(`{"x":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed JSON")
}

func TestMustCompile_PanicsOnInvalidSchema(t *testing.T) {
	assert.Panics(t, func() { schema.MustCompile("broken", `{"type": 12}`) })
}
