package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartRequest struct {
	Courses []string `json:"courses" validate:"required,min=1,dive,course-id"`
	Account string   `json:"accountType" validate:"omitempty,is-account-type"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(&cartRequest{Courses: []string{"c1", "c2"}, Account: "Student"}))
}

func TestValidate_EmptyCourses(t *testing.T) {
	v := New()
	err := v.Validate(&cartRequest{})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "This field is required", vErr.Errors["courses"])
}

func TestValidate_BadCourseID(t *testing.T) {
	v := New()
	err := v.Validate(&cartRequest{Courses: []string{"ok", "has space"}})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Must be a valid course id", vErr.Errors["courses[1]"])
	assert.NotContains(t, vErr.Errors, "courses[0]")
}

func TestValidate_AccountType(t *testing.T) {
	v := New()
	err := v.Validate(&cartRequest{Courses: []string{"c1"}, Account: "Guest"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "accountType")
}
