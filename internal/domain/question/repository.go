package question

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем вопросов.
// Реализации находятся в infrastructure/persistence.
// Все операции только читают: вопросы создаёт внешний процесс наполнения.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции чтения для вопросов.
type Repository interface {
	// ─────────────────────────────────────────────────────────────────────────
	// Lookup
	// ─────────────────────────────────────────────────────────────────────────

	// FindByQuery возвращает вопросы по плану запроса одной стадии
	// сопоставления. Пустой срез - валидный результат (стадия промах).
	FindByQuery(ctx context.Context, q MatchQuery) ([]*Question, error)

	// FindByDomain возвращает все вопросы домена независимо от уровня.
	FindByDomain(ctx context.Context, domain Domain) ([]*Question, error)

	// GetByID возвращает вопрос по идентификатору.
	// Возвращает ErrQuestionNotFound, если вопрос не найден.
	GetByID(ctx context.Context, id string) (*Question, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Catalog & Aggregation
	// ─────────────────────────────────────────────────────────────────────────

	// ListDomains возвращает отсортированный список различных доменов.
	ListDomains(ctx context.Context) ([]string, error)

	// ListLevels возвращает отсортированный список различных уровней.
	ListLevels(ctx context.Context) ([]string, error)

	// DomainStats возвращает агрегаты по каждому домену,
	// отсортированные по имени домена по возрастанию.
	DomainStats(ctx context.Context) ([]DomainAggregate, error)

	// CountByLevel возвращает количество вопросов домена,
	// сгруппированное по уровню. Отсутствующие уровни в карте
	// отсутствуют - заполнение нулями делает агрегация.
	CountByLevel(ctx context.Context, domain Domain) (map[Level]int, error)
}

// DomainAggregate - агрегат по одному домену для каталога.
type DomainAggregate struct {
	// Domain - имя домена.
	Domain string `json:"domain"`

	// TotalQuestions - всего вопросов в домене.
	TotalQuestions int `json:"totalQuestions"`

	// Levels - различные уровни, встречающиеся в домене.
	Levels []string `json:"levels"`
}
