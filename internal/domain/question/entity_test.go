package question

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prepnest/prepnest/internal/domain/shared"
)

func validQuestion() *Question {
	return &Question{
		ID:      "3b2c1a40-0000-4000-8000-000000000001",
		Domain:  "Python",
		Level:   LevelBasic,
		Text:    "What does len() return for an empty list?",
		Options: []string{"0", "1", "None", "an error"},
		Answer:  "0",
	}
}

func TestQuestionValidate(t *testing.T) {
	assert.NoError(t, validQuestion().Validate())

	q := validQuestion()
	q.Domain = ""
	assert.Error(t, q.Validate())

	q = validQuestion()
	q.Level = ""
	assert.Error(t, q.Validate())

	q = validQuestion()
	q.Text = "   "
	assert.Error(t, q.Validate())

	q = validQuestion()
	q.Options = nil
	assert.Error(t, q.Validate())
}

func TestQuestionValidate_AnswerMustBeAnOption(t *testing.T) {
	q := validQuestion()
	q.Answer = "42"

	err := q.Validate()
	assert.ErrorIs(t, err, shared.ErrAnswerNotInOptions)
}

func TestIsAnswerable_ExactComparison(t *testing.T) {
	q := validQuestion()
	assert.True(t, q.IsAnswerable())

	// Comparison is exact, casing matters.
	q.Answer = "NONE"
	assert.False(t, q.IsAnswerable())
}

func TestDomainEqualsFold(t *testing.T) {
	d := Domain("C/C++")
	assert.True(t, d.EqualsFold("c/c++"))
	assert.False(t, d.EqualsFold("c#"))
}

func TestKnownLevels(t *testing.T) {
	levels := KnownLevels()
	assert.Equal(t, []Level{LevelBasic, LevelMedium, LevelAdvanced}, levels)
}

func TestDefaultDomainCatalog(t *testing.T) {
	catalog := DefaultDomainCatalog()

	assert.Len(t, catalog, 24)
	assert.Contains(t, catalog, "Web Development")
	assert.Contains(t, catalog, "C/C++")
	assert.Contains(t, catalog, "HR & Behavioral")
}
