package query

import (
	"context"

	"github.com/prepnest/prepnest/internal/domain/question"
	"github.com/prepnest/prepnest/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST DOMAINS QUERY
// Каталог доменов: кеш -> хранилище -> фиксированный запасной список.
// Этот эндпоинт никогда не возвращает ошибку клиенту: при сбое
// хранилища отдаём запасной каталог.
// ══════════════════════════════════════════════════════════════════════════════

// ListDomainsResult содержит результат запроса.
type ListDomainsResult struct {
	// Domains - список доменов.
	Domains []string `json:"domains"`

	// Fallback - true, если отдан запасной каталог вместо данных хранилища.
	Fallback bool `json:"-"`
}

// ListDomainsHandler обрабатывает запрос каталога доменов.
type ListDomainsHandler struct {
	repo  question.Repository
	cache question.CatalogCache
	log   *logger.Logger
}

// NewListDomainsHandler создаёт новый обработчик. Кеш опционален.
func NewListDomainsHandler(repo question.Repository, cache question.CatalogCache, log *logger.Logger) *ListDomainsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &ListDomainsHandler{repo: repo, cache: cache, log: log}
}

// Handle выполняет запрос.
func (h *ListDomainsHandler) Handle(ctx context.Context) *ListDomainsResult {
	if h.cache != nil {
		if domains, err := h.cache.GetDomains(ctx); err == nil && len(domains) > 0 {
			return &ListDomainsResult{Domains: domains}
		}
	}

	domains, err := h.repo.ListDomains(ctx)
	if err != nil || len(domains) == 0 {
		if err != nil {
			h.log.Warn("domain catalog unavailable, serving fallback", logger.Err(err))
		}
		return &ListDomainsResult{Domains: question.DefaultDomainCatalog(), Fallback: true}
	}

	if h.cache != nil {
		if err := h.cache.SetDomains(ctx, domains); err != nil {
			h.log.Debug("failed to cache domain catalog", logger.Err(err))
		}
	}

	return &ListDomainsResult{Domains: domains}
}
