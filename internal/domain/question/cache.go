package question

import "context"

// CatalogCache кеширует результаты агрегаций каталога. Вопросы
// неизменяемы, поэтому инвалидация не нужна - достаточно TTL.
// Реализация - в infrastructure/persistence/redis; промах и сбой кеша
// равнозначны: читаем из хранилища напрямую.
type CatalogCache interface {
	// GetDomains возвращает закешированный список доменов.
	GetDomains(ctx context.Context) ([]string, error)

	// SetDomains кеширует список доменов.
	SetDomains(ctx context.Context, domains []string) error

	// GetDomainStats возвращает закешированные агрегаты по доменам.
	GetDomainStats(ctx context.Context) ([]DomainAggregate, error)

	// SetDomainStats кеширует агрегаты по доменам.
	SetDomainStats(ctx context.Context, stats []DomainAggregate) error
}
