package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepnest/prepnest/internal/domain/shared"
	"github.com/prepnest/prepnest/internal/domain/user"
)

// fakeUserRepo реализует user.Repository в памяти. ApplySubmission
// выполняет мутацию напрямую, без транзакции - атомарность проверяют
// тесты слоя postgres.
type fakeUserRepo struct {
	users map[string]*user.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ApplySubmission(ctx context.Context, userID string, sub user.Submission, now time.Time) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	u.ApplySubmission(sub, now)
	return u, nil
}

func TestGetProgress_ReturnsComputedSummary(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &user.User{
		ID:                      "u1",
		Email:                   "learner@example.com",
		QuizzesCompleted:        4,
		CorrectAnswers:          7,
		TotalQuestionsAttempted: 12,
		CurrentStreak:           3,
	}

	h := NewGetProgressHandler(repo, nil)
	result, err := h.Handle(context.Background(), GetProgressQuery{UserID: "u1"})

	require.NoError(t, err)
	assert.Equal(t, 4, result.QuizzesCompleted)
	assert.Equal(t, 7, result.CorrectAnswers)
	assert.Equal(t, 12, result.TotalQuestions)
	assert.Equal(t, 3, result.Streak)
	assert.Equal(t, 58, result.SuccessRate)
}

func TestGetProgress_ZeroAttemptsZeroRate(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &user.User{ID: "u1", Email: "new@example.com"}

	h := NewGetProgressHandler(repo, nil)
	result, err := h.Handle(context.Background(), GetProgressQuery{UserID: "u1"})

	require.NoError(t, err)
	assert.Equal(t, 0, result.SuccessRate)
	assert.Equal(t, 0, result.Streak)
}

func TestGetProgress_UserNotFound(t *testing.T) {
	h := NewGetProgressHandler(newFakeUserRepo(), nil)

	_, err := h.Handle(context.Background(), GetProgressQuery{UserID: "missing"})
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestGetProgress_RequiresIdentity(t *testing.T) {
	h := NewGetProgressHandler(newFakeUserRepo(), nil)

	_, err := h.Handle(context.Background(), GetProgressQuery{UserID: ""})
	assert.ErrorIs(t, err, shared.ErrMissingIdentity)
}
