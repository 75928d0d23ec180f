// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"

	"github.com/prepnest/prepnest/internal/domain/question"
	"github.com/prepnest/prepnest/internal/domain/shared"
	"github.com/prepnest/prepnest/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET QUESTIONS QUERY
// Резолвер поиска: превращает сырую пару (домен, уровень) в набор
// вопросов через упорядоченный каскад стадий сопоставления.
// Первая стадия с непустым результатом выигрывает; дальше не идём.
// ══════════════════════════════════════════════════════════════════════════════

// GetQuestionsQuery содержит параметры поиска набора вопросов.
type GetQuestionsQuery struct {
	// Domain - домен ровно как получен из пути запроса.
	Domain string

	// Level - уровень ровно как получен из пути запроса.
	Level string
}

// Validate проверяет корректность параметров.
func (q *GetQuestionsQuery) Validate() error {
	if q.Domain == "" {
		return shared.NewDomainError("query", "GetQuestions", shared.ErrEmptyValue, "domain is required")
	}
	if q.Level == "" {
		return shared.NewDomainError("query", "GetQuestions", shared.ErrEmptyValue, "level is required")
	}
	return nil
}

// LookupDiagnostic - структурированный ответ "не найдено".
// Несёт искомые ключи и полный список известных доменов и уровней,
// чтобы клиент мог увидеть расхождение своего каталога с базой.
type LookupDiagnostic struct {
	// Message - человекочитаемое сообщение.
	Message string `json:"message"`

	// Searched - ключи, по которым искали.
	Searched SearchedKeys `json:"searched"`

	// AvailableDomains - все известные домены.
	AvailableDomains []string `json:"availableDomains"`

	// AvailableLevels - все известные уровни.
	AvailableLevels []string `json:"availableLevels"`
}

// SearchedKeys - исходные ключи поиска.
type SearchedKeys struct {
	Domain string `json:"domain"`
	Level  string `json:"level"`
}

// GetQuestionsResult содержит результат поиска.
type GetQuestionsResult struct {
	// Questions - найденный набор (nil при промахе всех стадий).
	Questions []*question.Question

	// Stage - стадия, давшая результат.
	Stage question.MatchStage

	// NotFound - диагностика, если все стадии промахнулись.
	NotFound *LookupDiagnostic
}

// GetQuestionsHandler обрабатывает поиск набора вопросов.
type GetQuestionsHandler struct {
	repo question.Repository
	log  *logger.Logger
}

// NewGetQuestionsHandler создаёт новый обработчик.
func NewGetQuestionsHandler(repo question.Repository, log *logger.Logger) *GetQuestionsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetQuestionsHandler{repo: repo, log: log}
}

// Handle выполняет запрос.
func (h *GetQuestionsHandler) Handle(ctx context.Context, q GetQuestionsQuery) (*GetQuestionsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	for _, strategy := range question.LookupStrategies() {
		plan, ok := strategy.Build(q.Domain, q.Level)
		if !ok {
			continue
		}

		questions, err := h.repo.FindByQuery(ctx, plan)
		if err != nil {
			return nil, shared.WrapError("query", "GetQuestions", shared.ErrStoreFailure, "failed to fetch questions", err)
		}

		if len(questions) > 0 {
			h.log.Debug("question lookup matched",
				logger.QuizDomain(q.Domain),
				logger.QuizLevel(q.Level),
				logger.MatchStage(string(strategy.Stage)),
				logger.ResultCount(len(questions)),
			)
			return &GetQuestionsResult{Questions: questions, Stage: strategy.Stage}, nil
		}
	}

	diagnostic, err := h.buildDiagnostic(ctx, q)
	if err != nil {
		return nil, err
	}

	h.log.Info("question lookup exhausted all stages",
		logger.QuizDomain(q.Domain),
		logger.QuizLevel(q.Level),
	)
	return &GetQuestionsResult{NotFound: diagnostic}, nil
}

// buildDiagnostic собирает диагностику промаха: исходные ключи плюс
// всё, что реально есть в хранилище.
func (h *GetQuestionsHandler) buildDiagnostic(ctx context.Context, q GetQuestionsQuery) (*LookupDiagnostic, error) {
	domains, err := h.repo.ListDomains(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetQuestions", shared.ErrStoreFailure, "failed to list domains", err)
	}

	levels, err := h.repo.ListLevels(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetQuestions", shared.ErrStoreFailure, "failed to list levels", err)
	}

	return &LookupDiagnostic{
		Message:          "No questions found for the requested domain and level",
		Searched:         SearchedKeys{Domain: q.Domain, Level: q.Level},
		AvailableDomains: domains,
		AvailableLevels:  levels,
	}, nil
}
