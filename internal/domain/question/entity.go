// Package question содержит доменную модель вопроса викторины.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package question

import (
	"strings"
	"time"

	"github.com/prepnest/prepnest/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Domain представляет предметную область вопроса (например, "Python").
// Значение чувствительно к регистру и кодировке - хранится ровно так,
// как его записал процесс наполнения базы.
type Domain string

// IsValid проверяет, что домен не пустой.
func (d Domain) IsValid() bool {
	return strings.TrimSpace(string(d)) != ""
}

// String возвращает строковое представление домена.
func (d Domain) String() string {
	return string(d)
}

// EqualsFold сравнивает домены без учёта регистра.
func (d Domain) EqualsFold(other Domain) bool {
	return strings.EqualFold(string(d), string(other))
}

// Level представляет уровень сложности внутри домена.
// Набор уровней открытый: Basic/Medium/Advanced - соглашение,
// а не ограничение схемы.
type Level string

const (
	// LevelBasic - базовый уровень.
	LevelBasic Level = "Basic"
	// LevelMedium - средний уровень.
	LevelMedium Level = "Medium"
	// LevelAdvanced - продвинутый уровень.
	LevelAdvanced Level = "Advanced"
)

// KnownLevels возвращает общепринятые уровни сложности в каноническом порядке.
// Используется агрегациями для заполнения нулями отсутствующих уровней.
func KnownLevels() []Level {
	return []Level{LevelBasic, LevelMedium, LevelAdvanced}
}

// IsValid проверяет, что уровень не пустой.
func (l Level) IsValid() bool {
	return strings.TrimSpace(string(l)) != ""
}

// String возвращает строковое представление уровня.
func (l Level) String() string {
	return string(l)
}

// ══════════════════════════════════════════════════════════════════════════════
// QUESTION ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Question представляет один вопрос с вариантами ответа.
// Вопросы создаются внешним процессом наполнения базы и после этого
// неизменяемы: ядро их только читает.
type Question struct {
	// ID - уникальный идентификатор вопроса (UUID).
	ID string `json:"id"`

	// Domain - предметная область.
	Domain Domain `json:"domain"`

	// Level - уровень сложности.
	Level Level `json:"level"`

	// Text - текст вопроса.
	Text string `json:"question"`

	// Options - упорядоченный список вариантов ответа.
	Options []string `json:"options"`

	// Answer - правильный ответ. Должен совпадать ровно с одним из
	// Options; на записи это не проверяется (запись вне ядра),
	// Validate существует для процесса наполнения и тестов.
	Answer string `json:"answer"`

	// CreatedAt - время создания записи.
	CreatedAt time.Time `json:"-"`
}

// Validate проверяет инварианты вопроса.
// Возвращает первую нарушенную проверку.
func (q *Question) Validate() error {
	if !q.Domain.IsValid() {
		return shared.NewDomainError("question", "Validate", shared.ErrEmptyValue, "domain is required")
	}
	if !q.Level.IsValid() {
		return shared.NewDomainError("question", "Validate", shared.ErrEmptyValue, "level is required")
	}
	if strings.TrimSpace(q.Text) == "" {
		return shared.NewDomainError("question", "Validate", shared.ErrEmptyValue, "question text is required")
	}
	if len(q.Options) == 0 {
		return shared.NewDomainError("question", "Validate", shared.ErrEmptyValue, "at least one option is required")
	}
	if !q.IsAnswerable() {
		return shared.ErrAnswerNotInOptions
	}
	return nil
}

// IsAnswerable возвращает true, если правильный ответ присутствует
// среди вариантов. Сравнение точное: данные хранятся как есть.
func (q *Question) IsAnswerable() bool {
	for _, opt := range q.Options {
		if opt == q.Answer {
			return true
		}
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN CATALOG
// ══════════════════════════════════════════════════════════════════════════════

// DefaultDomainCatalog возвращает фиксированный список доменов,
// который отдаётся клиенту при пустом хранилище или сбое чтения,
// чтобы каталог для браузинга никогда не был пустым.
func DefaultDomainCatalog() []string {
	return []string{
		"Web Development",
		"Frontend (React, Angular)",
		"Backend (Node.js, Django)",
		"Full Stack",
		"Python",
		"Java",
		"C/C++",
		"Data Structures & Algorithms",
		"Database Management (SQL, MongoDB)",
		"Operating Systems",
		"Computer Networks",
		"System Design",
		"DevOps & CI/CD",
		"AI Engineering",
		"Machine Learning",
		"Data Science",
		"Cloud Computing (AWS, Azure, GCP)",
		"Cybersecurity",
		"Blockchain",
		"Mobile Development (Android/iOS)",
		"Software Testing & QA",
		"Version Control (Git/GitHub)",
		"Aptitude & Reasoning",
		"HR & Behavioral",
	}
}
