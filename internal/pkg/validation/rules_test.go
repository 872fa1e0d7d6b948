package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidCourseCode(t *testing.T) {
	valid := []string{"CSE110", "CS1234", "MATH101", "EEE2201"}
	invalid := []string{"cse110", "C110", "CSE11", "CSE12345", "CSEEE110", "CSE 110", ""}

	for _, code := range valid {
		assert.True(t, IsValidCourseCode(code), code)
	}
	for _, code := range invalid {
		assert.False(t, IsValidCourseCode(code), code)
	}
}

func TestCourseCodeTag(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	type req struct {
		Course string `validate:"required,coursecode"`
		Filter string `validate:"coursecode"`
	}

	assert.NoError(t, v.Struct(req{Course: "CSE110"}))
	assert.Error(t, v.Struct(req{Course: "cse110"}))
	assert.Error(t, v.Struct(req{Course: "CSE110", Filter: "bogus"}))
}
