package user

import (
	"math"
	"time"

	"github.com/prepnest/prepnest/internal/domain/shared"
	"github.com/prepnest/prepnest/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMISSION
// Сдача викторины - эфемерное событие: порождает ровно одну мутацию
// реестра прогресса и нигде не сохраняется как отдельная запись.
// ══════════════════════════════════════════════════════════════════════════════

// Submission описывает одну сдачу викторины.
type Submission struct {
	// Domain - домен пройденной викторины.
	Domain string

	// Level - уровень сложности.
	Level string

	// Score - набранные очки.
	Score int

	// TotalQuestions - сколько вопросов было в викторине.
	TotalQuestions int

	// CorrectAnswers - сколько ответов правильные.
	CorrectAnswers int
}

// Validate проверяет корректность сдачи. Исходная система принимала
// что угодно; здесь пробел закрыт явной проверкой.
func (s Submission) Validate() error {
	if s.TotalQuestions <= 0 {
		return shared.NewDomainError("user", "Submit", shared.ErrValueOutOfRange, "totalQuestions must be positive")
	}
	if s.CorrectAnswers < 0 || s.Score < 0 {
		return shared.NewDomainError("user", "Submit", shared.ErrNegativeValue, "score and correctAnswers cannot be negative")
	}
	if s.CorrectAnswers > s.TotalQuestions {
		return shared.NewDomainError("user", "Submit", shared.ErrValueOutOfRange, "correctAnswers exceed totalQuestions")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS LEDGER
// Переход серии определяется разницей КАЛЕНДАРНЫХ дат в UTC, а не
// 24-часовыми интервалами: сдачи в 23:50 и 00:10 - это соседние дни.
// Отрицательная разница (сдвиг часов) трактуется как тот же день,
// и LastQuizDate никогда не двигается назад.
// ══════════════════════════════════════════════════════════════════════════════

// ApplySubmission применяет сдачу к прогрессу пользователя:
// наращивает счётчики, выполняет переход серии и обновляет
// LastQuizDate. Сдача должна быть предварительно провалидирована.
func (u *User) ApplySubmission(sub Submission, now time.Time) {
	u.QuizzesCompleted++
	u.CorrectAnswers += sub.CorrectAnswers
	u.TotalQuestionsAttempted += sub.TotalQuestions

	u.advanceStreak(now)

	if now.After(u.LastQuizDate) {
		u.LastQuizDate = now
	}
	u.UpdatedAt = now
}

// advanceStreak выполняет переход серии по числу прошедших
// календарных дней с последней сдачи.
func (u *User) advanceStreak(now time.Time) {
	if u.LastQuizDate.IsZero() {
		// Первая сдача.
		u.CurrentStreak = 1
		return
	}

	days := timeutil.DaysBetween(u.LastQuizDate, now)
	switch {
	case days == 0:
		// Тот же день - серия не меняется.
	case days == 1:
		// Следующий день - продолжаем серию.
		u.CurrentStreak++
	case days > 1:
		// Пропущены дни - серия начинается заново.
		u.CurrentStreak = 1
	default:
		// days < 0: сдвиг часов. Трактуем как тот же день.
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DERIVED STATISTICS
// ══════════════════════════════════════════════════════════════════════════════

// SuccessRate возвращает процент правильных ответов, округлённый до
// целого. При нуле попыток возвращает 0 - деления на ноль нет.
func (u *User) SuccessRate() int {
	if u.TotalQuestionsAttempted == 0 {
		return 0
	}
	rate := float64(u.CorrectAnswers) / float64(u.TotalQuestionsAttempted) * 100
	return int(math.Round(rate))
}

// HasSubmitted возвращает true, если была хотя бы одна сдача.
func (u *User) HasSubmitted() bool {
	return !u.LastQuizDate.IsZero()
}
