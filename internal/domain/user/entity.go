// Package user содержит доменную модель пользователя и его учебного
// прогресса. Это ядро бизнес-логики - внешних зависимостей нет,
// кроме bcrypt для хеша пароля.
package user

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/prepnest/prepnest/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// User представляет зарегистрированного пользователя.
// Учётные поля (email, хеш пароля) создаются при регистрации - это вне
// ядра. Поля прогресса начинаются с нуля и изменяются исключительно
// реестром прогресса при каждой принятой сдаче викторины.
type User struct {
	// ID - внутренний идентификатор (UUID).
	ID string

	// Email - почта пользователя.
	Email string

	// PasswordHash - bcrypt-хеш пароля.
	PasswordHash string

	// DisplayName - отображаемое имя.
	DisplayName string

	// ─────────────────────────────────────────────────────────────────────────
	// Прогресс (изменяется только реестром прогресса)
	// ─────────────────────────────────────────────────────────────────────────

	// QuizzesCompleted - сколько викторин завершено.
	QuizzesCompleted int

	// CorrectAnswers - всего правильных ответов. Монотонно растёт.
	CorrectAnswers int

	// TotalQuestionsAttempted - всего отвеченных вопросов.
	// Монотонно растёт, всегда >= CorrectAnswers.
	TotalQuestionsAttempted int

	// CurrentStreak - серия последовательных календарных дней
	// хотя бы с одной сдачей.
	CurrentStreak int

	// LastQuizDate - время последней сдачи. Нулевое до первой сдачи.
	LastQuizDate time.Time

	// CreatedAt - время регистрации.
	CreatedAt time.Time

	// UpdatedAt - время последнего изменения.
	UpdatedAt time.Time
}

// Validate проверяет инварианты пользователя.
func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return shared.NewDomainError("user", "Validate", shared.ErrInvalidID, "user ID is required")
	}
	if u.QuizzesCompleted < 0 || u.CorrectAnswers < 0 || u.TotalQuestionsAttempted < 0 || u.CurrentStreak < 0 {
		return shared.NewDomainError("user", "Validate", shared.ErrNegativeValue, "progress counters cannot be negative")
	}
	if u.CorrectAnswers > u.TotalQuestionsAttempted {
		return shared.NewDomainError("user", "Validate", shared.ErrValueOutOfRange, "correct answers exceed attempted questions")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CREDENTIALS
// Выпуск сессий и регистрация - вне ядра, но учётные поля живут на
// этой сущности, поэтому хеширование инкапсулировано здесь.
// ══════════════════════════════════════════════════════════════════════════════

// SetPassword хеширует пароль bcrypt и сохраняет хеш.
func (u *User) SetPassword(plain string) error {
	if len(plain) < 6 {
		return shared.NewDomainError("user", "SetPassword", shared.ErrValueOutOfRange, "password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return shared.WrapError("user", "SetPassword", shared.ErrValidation, "failed to hash password", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword сравнивает пароль с сохранённым хешем.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}
