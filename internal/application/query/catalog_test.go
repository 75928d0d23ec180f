package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepnest/prepnest/internal/domain/question"
	"github.com/prepnest/prepnest/internal/domain/shared"
)

// fakeCatalogCache реализует question.CatalogCache в памяти.
type fakeCatalogCache struct {
	domains []string
	stats   []question.DomainAggregate
	err     error

	setDomainsCalls int
	setStatsCalls   int
}

func (f *fakeCatalogCache) GetDomains(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.domains, nil
}

func (f *fakeCatalogCache) SetDomains(ctx context.Context, domains []string) error {
	if f.err != nil {
		return f.err
	}
	f.domains = domains
	f.setDomainsCalls++
	return nil
}

func (f *fakeCatalogCache) GetDomainStats(ctx context.Context) ([]question.DomainAggregate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeCatalogCache) SetDomainStats(ctx context.Context, stats []question.DomainAggregate) error {
	if f.err != nil {
		return f.err
	}
	f.stats = stats
	f.setStatsCalls++
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ListDomains
// ─────────────────────────────────────────────────────────────────────────────

func TestListDomains_FromStore(t *testing.T) {
	repo := newFakeQuestionRepo()
	repo.domains = []string{"Java", "Python"}

	h := NewListDomainsHandler(repo, nil, nil)
	result := h.Handle(context.Background())

	assert.Equal(t, []string{"Java", "Python"}, result.Domains)
	assert.False(t, result.Fallback)
}

func TestListDomains_CacheHitSkipsStore(t *testing.T) {
	repo := newFakeQuestionRepo()
	repo.err = errors.New("store must not be called")
	cache := &fakeCatalogCache{domains: []string{"Python"}}

	h := NewListDomainsHandler(repo, cache, nil)
	result := h.Handle(context.Background())

	assert.Equal(t, []string{"Python"}, result.Domains)
}

func TestListDomains_StoreMissPopulatesCache(t *testing.T) {
	repo := newFakeQuestionRepo()
	repo.domains = []string{"Java"}
	cache := &fakeCatalogCache{}

	h := NewListDomainsHandler(repo, cache, nil)
	result := h.Handle(context.Background())

	assert.Equal(t, []string{"Java"}, result.Domains)
	assert.Equal(t, 1, cache.setDomainsCalls)
}

func TestListDomains_FallbackOnStoreFailure(t *testing.T) {
	repo := newFakeQuestionRepo()
	repo.err = errors.New("connection refused")

	h := NewListDomainsHandler(repo, nil, nil)
	result := h.Handle(context.Background())

	// Каталог никогда не пустой: отдаётся запасной список.
	assert.True(t, result.Fallback)
	assert.Equal(t, question.DefaultDomainCatalog(), result.Domains)
}

func TestListDomains_FallbackOnEmptyStore(t *testing.T) {
	repo := newFakeQuestionRepo()

	h := NewListDomainsHandler(repo, nil, nil)
	result := h.Handle(context.Background())

	assert.True(t, result.Fallback)
	assert.NotEmpty(t, result.Domains)
}

// ─────────────────────────────────────────────────────────────────────────────
// DomainStats
// ─────────────────────────────────────────────────────────────────────────────

func TestDomainStats_FromStore(t *testing.T) {
	repo := &statsRepo{stats: []question.DomainAggregate{
		{Domain: "Java", TotalQuestions: 3, Levels: []string{"Basic"}},
		{Domain: "Python", TotalQuestions: 5, Levels: []string{"Basic", "Medium"}},
	}}

	h := NewDomainStatsHandler(repo, nil, nil)
	result, err := h.Handle(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Stats, 2)
	assert.Equal(t, "Java", result.Stats[0].Domain)
	assert.Equal(t, 5, result.Stats[1].TotalQuestions)
}

func TestDomainStats_StoreFailure(t *testing.T) {
	repo := newFakeQuestionRepo()
	repo.err = errors.New("connection refused")

	h := NewDomainStatsHandler(repo, nil, nil)
	_, err := h.Handle(context.Background())

	require.Error(t, err)
	assert.True(t, shared.IsStoreFailure(err))
}

func TestDomainStats_PopulatesCache(t *testing.T) {
	repo := &statsRepo{stats: []question.DomainAggregate{{Domain: "Java", TotalQuestions: 1}}}
	cache := &fakeCatalogCache{}

	h := NewDomainStatsHandler(repo, cache, nil)
	_, err := h.Handle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, cache.setStatsCalls)
}

// statsRepo переопределяет DomainStats поверх пустого фейка.
type statsRepo struct {
	fakeQuestionRepo
	stats []question.DomainAggregate
}

func (r *statsRepo) DomainStats(ctx context.Context) ([]question.DomainAggregate, error) {
	return r.stats, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// LevelCounts
// ─────────────────────────────────────────────────────────────────────────────

func TestLevelCounts_ZeroFillsMissingLevels(t *testing.T) {
	repo := newFakeQuestionRepo()
	repo.add("Python", "Basic", sampleQuestion("q1", "Python", "Basic"), sampleQuestion("q2", "Python", "Basic"))

	h := NewLevelCountsHandler(repo, nil)
	result, err := h.Handle(context.Background(), LevelCountsQuery{Domain: "Python"})

	require.NoError(t, err)
	// Форма фиксирована: все известные уровни присутствуют.
	require.Len(t, result.Counts, 3)
	assert.Equal(t, 2, result.Counts[question.LevelBasic])
	assert.Equal(t, 0, result.Counts[question.LevelMedium])
	assert.Equal(t, 0, result.Counts[question.LevelAdvanced])
}

func TestLevelCounts_DecodesDomain(t *testing.T) {
	repo := newFakeQuestionRepo()
	repo.add("C/C++", "Medium", sampleQuestion("q1", "C/C++", "Medium"))

	h := NewLevelCountsHandler(repo, nil)
	result, err := h.Handle(context.Background(), LevelCountsQuery{Domain: "C%2FC%2B%2B"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Counts[question.LevelMedium])
}

func TestLevelCounts_KeepsLiteralPlus(t *testing.T) {
	// "+" в уже декодированном сегменте пути остаётся буквальным
	// символом, счётчики C/C++ не обнуляются.
	repo := newFakeQuestionRepo()
	repo.add("C/C++", "Basic", sampleQuestion("q1", "C/C++", "Basic"), sampleQuestion("q2", "C/C++", "Basic"))

	h := NewLevelCountsHandler(repo, nil)
	result, err := h.Handle(context.Background(), LevelCountsQuery{Domain: "C/C++"})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Counts[question.LevelBasic])
}

func TestLevelCounts_StoreFailure(t *testing.T) {
	repo := newFakeQuestionRepo()
	repo.err = errors.New("connection refused")

	h := NewLevelCountsHandler(repo, nil)
	_, err := h.Handle(context.Background(), LevelCountsQuery{Domain: "Python"})

	require.Error(t, err)
	assert.True(t, shared.IsStoreFailure(err))
}

func TestLevelCounts_UnknownDomainIsAllZeros(t *testing.T) {
	repo := newFakeQuestionRepo()

	h := NewLevelCountsHandler(repo, nil)
	result, err := h.Handle(context.Background(), LevelCountsQuery{Domain: "Rust"})

	require.NoError(t, err)
	require.Len(t, result.Counts, 3)
	for _, level := range question.KnownLevels() {
		assert.Equal(t, 0, result.Counts[level])
	}
}
