package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email  string  `json:"email" validate:"required,email"`
	Letter string  `json:"letter_grade" validate:"required,letter_grade"`
	Score  float64 `json:"numeric_grade" validate:"gte=0,lte=100"`
}

func TestTranslateUsesJSONNames(t *testing.T) {
	v := New()

	err := v.Struct(sample{Email: "nope", Letter: "AB", Score: 120})
	require.Error(t, err)

	details := v.Translate(err)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "letter_grade")
	assert.Contains(t, details, "numeric_grade")
	assert.Equal(t, "letter_grade must be a letter optionally followed by + or -", details["letter_grade"])
}

func TestLetterGradeAcceptsModifiers(t *testing.T) {
	v := New()
	for _, letter := range []string{"A", "b+", "C-", "W"} {
		assert.NoError(t, v.Struct(sample{Email: "a@b.test", Letter: letter, Score: 50}), letter)
	}
}

func TestTranslateNonValidationError(t *testing.T) {
	v := New()
	details := v.Translate(assert.AnError)
	assert.Equal(t, assert.AnError.Error(), details["detail"])
}
