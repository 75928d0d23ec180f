package query

import (
	"context"
	"net/url"

	"github.com/prepnest/prepnest/internal/domain/question"
	"github.com/prepnest/prepnest/internal/domain/shared"
	"github.com/prepnest/prepnest/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEVEL COUNTS QUERY
// Количество вопросов одного домена по уровням. Форма ответа фиксирована:
// каждый известный уровень присутствует всегда, отсутствующие - с нулём.
// ══════════════════════════════════════════════════════════════════════════════

// LevelCountsQuery содержит параметры запроса.
type LevelCountsQuery struct {
	// Domain - домен ровно как получен из пути запроса.
	Domain string
}

// Validate проверяет корректность параметров.
func (q *LevelCountsQuery) Validate() error {
	if q.Domain == "" {
		return shared.NewDomainError("query", "LevelCounts", shared.ErrEmptyValue, "domain is required")
	}
	return nil
}

// LevelCountsResult содержит результат запроса: уровень -> число вопросов.
type LevelCountsResult struct {
	// Counts - все известные уровни, отсутствующие заполнены нулями.
	Counts map[question.Level]int
}

// LevelCountsHandler обрабатывает запрос количества вопросов по уровням.
type LevelCountsHandler struct {
	repo question.Repository
	log  *logger.Logger
}

// NewLevelCountsHandler создаёт новый обработчик.
func NewLevelCountsHandler(repo question.Repository, log *logger.Logger) *LevelCountsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &LevelCountsHandler{repo: repo, log: log}
}

// Handle выполняет запрос.
func (h *LevelCountsHandler) Handle(ctx context.Context, q LevelCountsQuery) (*LevelCountsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	// Домен приходит из сегмента пути и может быть percent-закодирован.
	// PathUnescape сохраняет "+" как буквальный символ.
	domain := q.Domain
	if decoded, err := url.PathUnescape(domain); err == nil {
		domain = decoded
	}

	grouped, err := h.repo.CountByLevel(ctx, question.Domain(domain))
	if err != nil {
		return nil, shared.WrapError("query", "LevelCounts", shared.ErrStoreFailure, "failed to count questions by level", err)
	}

	counts := make(map[question.Level]int, len(question.KnownLevels()))
	for _, level := range question.KnownLevels() {
		counts[level] = grouped[level]
	}

	return &LevelCountsResult{Counts: counts}, nil
}
