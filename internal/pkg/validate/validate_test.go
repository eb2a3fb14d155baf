package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(&sample{Email: "a@x.com", Name: "A"}))
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(&sample{Email: "not-an-email"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'email' failed 'email'")
	assert.Contains(t, err.Error(), "field 'name' failed 'required'")
}
