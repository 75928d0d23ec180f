package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepnest/prepnest/internal/domain/shared"
)

func TestGetQuestion_Found(t *testing.T) {
	repo := newFakeQuestionRepo()
	q := sampleQuestion("6f1d8a2e-9b3c-4d5e-8f7a-1b2c3d4e5f6a", "Python", "Basic")
	repo.byID[q.ID] = q

	h := NewGetQuestionHandler(repo, nil)
	result, err := h.Handle(context.Background(), GetQuestionQuery{ID: q.ID})

	require.NoError(t, err)
	assert.Equal(t, q, result.Question)
}

func TestGetQuestion_NotFound(t *testing.T) {
	h := NewGetQuestionHandler(newFakeQuestionRepo(), nil)

	_, err := h.Handle(context.Background(), GetQuestionQuery{ID: "6f1d8a2e-9b3c-4d5e-8f7a-1b2c3d4e5f6a"})

	assert.ErrorIs(t, err, shared.ErrQuestionNotFound)
}

func TestGetQuestion_RejectsMalformedID(t *testing.T) {
	h := NewGetQuestionHandler(newFakeQuestionRepo(), nil)

	_, err := h.Handle(context.Background(), GetQuestionQuery{ID: "not-a-uuid"})
	assert.ErrorIs(t, err, shared.ErrInvalidQuestionID)

	_, err = h.Handle(context.Background(), GetQuestionQuery{ID: ""})
	assert.Error(t, err)
}
