package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepnest/prepnest/internal/domain/question"
)

func TestGetPracticeSet_ExactDomainMatch(t *testing.T) {
	repo := newFakeQuestionRepo()
	repo.add("Python", "Basic", sampleQuestion("q1", "Python", "Basic"))
	repo.add("Python", "Advanced", sampleQuestion("q2", "Python", "Advanced"))

	h := NewGetPracticeSetHandler(repo, nil)
	result, err := h.Handle(context.Background(), GetPracticeSetQuery{Domain: "Python"})

	require.NoError(t, err)
	assert.Nil(t, result.NotFound)
	// Режим практики собирает вопросы всех уровней домена.
	assert.Len(t, result.Questions, 2)
	assert.Equal(t, question.StageExact, result.Stage)
}

func TestGetPracticeSet_DecodedDomainMatch(t *testing.T) {
	repo := newFakeQuestionRepo()
	repo.add("C/C++", "Basic", sampleQuestion("q1", "C/C++", "Basic"))

	h := NewGetPracticeSetHandler(repo, nil)
	result, err := h.Handle(context.Background(), GetPracticeSetQuery{Domain: "C%2FC%2B%2B"})

	require.NoError(t, err)
	assert.Nil(t, result.NotFound)
	assert.Len(t, result.Questions, 1)
	assert.Equal(t, question.StageDecoded, result.Stage)
}

func TestGetPracticeSet_NoCaseInsensitiveFallback(t *testing.T) {
	repo := newFakeQuestionRepo()
	repo.add("Python", "Basic", sampleQuestion("q1", "Python", "Basic"))

	h := NewGetPracticeSetHandler(repo, nil)
	result, err := h.Handle(context.Background(), GetPracticeSetQuery{Domain: "python"})

	// В режиме практики стадии без учёта регистра нет: промах.
	require.NoError(t, err)
	require.NotNil(t, result.NotFound)
	assert.Equal(t, "python", result.NotFound.Domain)
	assert.NotEmpty(t, result.NotFound.Message)
}

func TestGetPracticeSet_ValidatesInput(t *testing.T) {
	h := NewGetPracticeSetHandler(newFakeQuestionRepo(), nil)

	_, err := h.Handle(context.Background(), GetPracticeSetQuery{Domain: ""})
	assert.Error(t, err)
}
