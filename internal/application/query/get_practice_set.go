package query

import (
	"context"

	"github.com/prepnest/prepnest/internal/domain/question"
	"github.com/prepnest/prepnest/internal/domain/shared"
	"github.com/prepnest/prepnest/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PRACTICE SET QUERY
// Поиск по всему домену для режима практики: уровень игнорируется,
// каскад короче - exact -> decoded, без стадии без учёта регистра.
// ══════════════════════════════════════════════════════════════════════════════

// GetPracticeSetQuery содержит параметры поиска вопросов домена.
type GetPracticeSetQuery struct {
	// Domain - домен ровно как получен из пути запроса.
	Domain string
}

// Validate проверяет корректность параметров.
func (q *GetPracticeSetQuery) Validate() error {
	if q.Domain == "" {
		return shared.NewDomainError("query", "GetPracticeSet", shared.ErrEmptyValue, "domain is required")
	}
	return nil
}

// PracticeDiagnostic - ответ "не найдено" для режима практики.
type PracticeDiagnostic struct {
	// Message - человекочитаемое сообщение.
	Message string `json:"message"`

	// Domain - искомый домен.
	Domain string `json:"domain"`
}

// GetPracticeSetResult содержит результат поиска.
type GetPracticeSetResult struct {
	// Questions - найденный набор (nil при промахе обеих стадий).
	Questions []*question.Question

	// Stage - стадия, давшая результат.
	Stage question.MatchStage

	// NotFound - диагностика, если обе стадии промахнулись.
	NotFound *PracticeDiagnostic
}

// GetPracticeSetHandler обрабатывает поиск вопросов для практики.
type GetPracticeSetHandler struct {
	repo question.Repository
	log  *logger.Logger
}

// NewGetPracticeSetHandler создаёт новый обработчик.
func NewGetPracticeSetHandler(repo question.Repository, log *logger.Logger) *GetPracticeSetHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetPracticeSetHandler{repo: repo, log: log}
}

// Handle выполняет запрос.
func (h *GetPracticeSetHandler) Handle(ctx context.Context, q GetPracticeSetQuery) (*GetPracticeSetResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	for _, strategy := range question.PracticeStrategies() {
		plan, ok := strategy.Build(q.Domain, "")
		if !ok {
			continue
		}

		questions, err := h.repo.FindByDomain(ctx, plan.Domain)
		if err != nil {
			return nil, shared.WrapError("query", "GetPracticeSet", shared.ErrStoreFailure, "failed to fetch practice questions", err)
		}

		if len(questions) > 0 {
			h.log.Debug("practice lookup matched",
				logger.QuizDomain(q.Domain),
				logger.MatchStage(string(strategy.Stage)),
				logger.ResultCount(len(questions)),
			)
			return &GetPracticeSetResult{Questions: questions, Stage: strategy.Stage}, nil
		}
	}

	return &GetPracticeSetResult{
		NotFound: &PracticeDiagnostic{
			Message: "No practice questions found for the requested domain",
			Domain:  q.Domain,
		},
	}, nil
}
