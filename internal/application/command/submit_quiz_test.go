package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepnest/prepnest/internal/domain/shared"
	"github.com/prepnest/prepnest/internal/domain/user"
)

// fakeUserRepo реализует user.Repository в памяти.
type fakeUserRepo struct {
	users map[string]*user.User
	err   error

	// lastNow фиксирует момент, переданный в ApplySubmission.
	lastNow time.Time
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
	f.lastNow = now
	u.ApplySubmission(sub, now)
	return u, nil
}

func validCommand() SubmitQuizCommand {
	return SubmitQuizCommand{
		UserID:         "u1",
		Domain:         "Python",
		Level:          "Basic",
		Score:          2,
		TotalQuestions: 3,
		CorrectAnswers: 2,
	}
}

func TestSubmitQuiz_FirstSubmission(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &user.User{ID: "u1", Email: "learner@example.com"}

	h := NewSubmitQuizHandler(repo, nil)
	result, err := h.Handle(context.Background(), validCommand())

	require.NoError(t, err)
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, 1, result.UpdatedStats.QuizzesCompleted)
	assert.Equal(t, 2, result.UpdatedStats.CorrectAnswers)
	assert.Equal(t, 3, result.UpdatedStats.TotalQuestions)
	assert.Equal(t, 67, result.UpdatedStats.SuccessRate)
	assert.Equal(t, 1, result.UpdatedStats.CurrentStreak)
}

func TestSubmitQuiz_UsesUTCClock(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &user.User{ID: "u1", Email: "learner@example.com"}

	h := NewSubmitQuizHandler(repo, nil)
	_, err := h.Handle(context.Background(), validCommand())

	require.NoError(t, err)
	assert.Equal(t, time.UTC, repo.lastNow.Location())
}

func TestSubmitQuiz_AccumulatesAcrossSubmissions(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &user.User{ID: "u1", Email: "learner@example.com"}

	h := NewSubmitQuizHandler(repo, nil)

	_, err := h.Handle(context.Background(), validCommand())
	require.NoError(t, err)

	cmd := validCommand()
	cmd.CorrectAnswers = 1
	cmd.Score = 1
	result, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)

	assert.Equal(t, 2, result.UpdatedStats.QuizzesCompleted)
	assert.Equal(t, 3, result.UpdatedStats.CorrectAnswers)
	assert.Equal(t, 6, result.UpdatedStats.TotalQuestions)
}

func TestSubmitQuiz_UserNotFound(t *testing.T) {
	h := NewSubmitQuizHandler(newFakeUserRepo(), nil)

	_, err := h.Handle(context.Background(), validCommand())
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestSubmitQuiz_RequiresIdentity(t *testing.T) {
	h := NewSubmitQuizHandler(newFakeUserRepo(), nil)

	cmd := validCommand()
	cmd.UserID = ""
	_, err := h.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrMissingIdentity)
}

func TestSubmitQuiz_RejectsMalformedPayload(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &user.User{ID: "u1", Email: "learner@example.com"}
	h := NewSubmitQuizHandler(repo, nil)

	cmd := validCommand()
	cmd.TotalQuestions = 0
	_, err := h.Handle(context.Background(), cmd)
	assert.Error(t, err)

	cmd = validCommand()
	cmd.CorrectAnswers = 5
	_, err = h.Handle(context.Background(), cmd)
	assert.Error(t, err)
}

func TestSubmitQuiz_StoreFailure(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &user.User{ID: "u1", Email: "learner@example.com"}
	repo.err = errors.New("connection refused")

	h := NewSubmitQuizHandler(repo, nil)
	_, err := h.Handle(context.Background(), validCommand())

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrProgressSaveFailed)
}
