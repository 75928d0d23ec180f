package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser() *User {
	return &User{
		ID:    "8f14e45f-0000-4000-8000-000000000001",
		Email: "learner@example.com",
	}
}

func TestApplySubmission_FirstSubmissionStartsStreak(t *testing.T) {
	u := newTestUser()
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	u.ApplySubmission(Submission{
		Domain:         "Python",
		Level:          "Basic",
		Score:          2,
		TotalQuestions: 3,
		CorrectAnswers: 2,
	}, now)

	assert.Equal(t, 1, u.CurrentStreak)
	assert.Equal(t, 1, u.QuizzesCompleted)
	assert.Equal(t, 2, u.CorrectAnswers)
	assert.Equal(t, 3, u.TotalQuestionsAttempted)
	assert.Equal(t, now, u.LastQuizDate)
}

func TestApplySubmission_SameDayKeepsStreak(t *testing.T) {
	u := newTestUser()
	morning := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 10, 22, 30, 0, 0, time.UTC)

	u.ApplySubmission(Submission{TotalQuestions: 5, CorrectAnswers: 4}, morning)
	u.ApplySubmission(Submission{TotalQuestions: 5, CorrectAnswers: 3}, evening)

	assert.Equal(t, 1, u.CurrentStreak)
	assert.Equal(t, 2, u.QuizzesCompleted)
	assert.Equal(t, evening, u.LastQuizDate)
}

func TestApplySubmission_NextDayIncrementsStreak(t *testing.T) {
	u := newTestUser()
	day1 := time.Date(2025, 3, 10, 23, 50, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 11, 0, 10, 0, 0, time.UTC)

	u.ApplySubmission(Submission{TotalQuestions: 5, CorrectAnswers: 5}, day1)
	u.ApplySubmission(Submission{TotalQuestions: 5, CorrectAnswers: 5}, day2)

	// Calendar days, not 24h intervals: 23:50 and 00:10 are adjacent days.
	assert.Equal(t, 2, u.CurrentStreak)
}

func TestApplySubmission_MissedDayResetsStreak(t *testing.T) {
	u := newTestUser()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	u.ApplySubmission(Submission{TotalQuestions: 5, CorrectAnswers: 5}, base)
	u.ApplySubmission(Submission{TotalQuestions: 5, CorrectAnswers: 5}, base.AddDate(0, 0, 1))
	u.ApplySubmission(Submission{TotalQuestions: 5, CorrectAnswers: 5}, base.AddDate(0, 0, 2))
	require.Equal(t, 3, u.CurrentStreak)

	u.ApplySubmission(Submission{TotalQuestions: 5, CorrectAnswers: 5}, base.AddDate(0, 0, 5))
	assert.Equal(t, 1, u.CurrentStreak)
}

func TestApplySubmission_ClockSkewTreatedAsSameDay(t *testing.T) {
	u := newTestUser()
	later := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)

	u.ApplySubmission(Submission{TotalQuestions: 5, CorrectAnswers: 5}, later)
	u.ApplySubmission(Submission{TotalQuestions: 5, CorrectAnswers: 5}, earlier)

	assert.Equal(t, 1, u.CurrentStreak)
	// LastQuizDate never moves backwards.
	assert.Equal(t, later, u.LastQuizDate)
}

func TestApplySubmission_CountersAreMonotonic(t *testing.T) {
	u := newTestUser()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	prevQuizzes, prevTotal := 0, 0
	for i := 0; i < 10; i++ {
		u.ApplySubmission(Submission{TotalQuestions: 3, CorrectAnswers: i % 4}, now.AddDate(0, 0, i))

		assert.GreaterOrEqual(t, u.QuizzesCompleted, prevQuizzes)
		assert.GreaterOrEqual(t, u.TotalQuestionsAttempted, prevTotal)
		assert.LessOrEqual(t, u.CorrectAnswers, u.TotalQuestionsAttempted)

		prevQuizzes = u.QuizzesCompleted
		prevTotal = u.TotalQuestionsAttempted
	}
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		name     string
		correct  int
		total    int
		expected int
	}{
		{"no attempts", 0, 0, 0},
		{"perfect score", 10, 10, 100},
		{"two thirds rounds up", 2, 3, 67},
		{"one third rounds down", 1, 3, 33},
		{"half", 5, 10, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newTestUser()
			u.CorrectAnswers = tt.correct
			u.TotalQuestionsAttempted = tt.total
			assert.Equal(t, tt.expected, u.SuccessRate())
		})
	}
}

func TestSubmissionValidate(t *testing.T) {
	valid := Submission{Domain: "Python", Level: "Basic", Score: 2, TotalQuestions: 3, CorrectAnswers: 2}
	assert.NoError(t, valid.Validate())

	assert.Error(t, Submission{TotalQuestions: 0}.Validate())
	assert.Error(t, Submission{TotalQuestions: 3, CorrectAnswers: -1}.Validate())
	assert.Error(t, Submission{TotalQuestions: 3, Score: -1}.Validate())
	assert.Error(t, Submission{TotalQuestions: 3, CorrectAnswers: 4}.Validate())
}

func TestHasSubmitted(t *testing.T) {
	u := newTestUser()
	assert.False(t, u.HasSubmitted())

	u.ApplySubmission(Submission{TotalQuestions: 1, CorrectAnswers: 1}, time.Now().UTC())
	assert.True(t, u.HasSubmitted())
}
