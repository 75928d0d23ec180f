package query

import (
	"context"

	"github.com/prepnest/prepnest/internal/domain/question"
	"github.com/prepnest/prepnest/internal/domain/shared"
	"github.com/prepnest/prepnest/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN STATS QUERY
// Агрегаты по доменам для экрана каталога: домен, число вопросов,
// встречающиеся уровни. Сортировка по имени домена по возрастанию.
// ══════════════════════════════════════════════════════════════════════════════

// DomainStatsResult содержит результат запроса.
type DomainStatsResult struct {
	// Stats - агрегаты по доменам, отсортированные по имени.
	Stats []question.DomainAggregate
}

// DomainStatsHandler обрабатывает запрос агрегатов по доменам.
type DomainStatsHandler struct {
	repo  question.Repository
	cache question.CatalogCache
	log   *logger.Logger
}

// NewDomainStatsHandler создаёт новый обработчик. Кеш опционален.
func NewDomainStatsHandler(repo question.Repository, cache question.CatalogCache, log *logger.Logger) *DomainStatsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &DomainStatsHandler{repo: repo, cache: cache, log: log}
}

// Handle выполняет запрос.
func (h *DomainStatsHandler) Handle(ctx context.Context) (*DomainStatsResult, error) {
	if h.cache != nil {
		if stats, err := h.cache.GetDomainStats(ctx); err == nil && len(stats) > 0 {
			return &DomainStatsResult{Stats: stats}, nil
		}
	}

	stats, err := h.repo.DomainStats(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "DomainStats", shared.ErrStoreFailure, "failed to aggregate domain stats", err)
	}
	if stats == nil {
		stats = []question.DomainAggregate{}
	}

	if h.cache != nil {
		if err := h.cache.SetDomainStats(ctx, stats); err != nil {
			h.log.Debug("failed to cache domain stats", logger.Err(err))
		}
	}

	return &DomainStatsResult{Stats: stats}, nil
}
