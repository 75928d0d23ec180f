package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/prepnest/prepnest/internal/domain/question"
	"github.com/prepnest/prepnest/internal/domain/shared"
	"github.com/prepnest/prepnest/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET QUESTION QUERY
// Точечное чтение одного вопроса по идентификатору.
// ══════════════════════════════════════════════════════════════════════════════

// GetQuestionQuery содержит параметры запроса.
type GetQuestionQuery struct {
	// ID - идентификатор вопроса (UUID).
	ID string
}

// Validate проверяет корректность параметров.
func (q *GetQuestionQuery) Validate() error {
	if q.ID == "" {
		return shared.NewDomainError("query", "GetQuestion", shared.ErrEmptyValue, "question id is required")
	}
	if _, err := uuid.Parse(q.ID); err != nil {
		return shared.ErrInvalidQuestionID
	}
	return nil
}

// GetQuestionResult содержит результат запроса.
type GetQuestionResult struct {
	// Question - найденный вопрос.
	Question *question.Question
}

// GetQuestionHandler обрабатывает чтение вопроса по идентификатору.
type GetQuestionHandler struct {
	repo question.Repository
	log  *logger.Logger
}

// NewGetQuestionHandler создаёт новый обработчик.
func NewGetQuestionHandler(repo question.Repository, log *logger.Logger) *GetQuestionHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetQuestionHandler{repo: repo, log: log}
}

// Handle выполняет запрос.
func (h *GetQuestionHandler) Handle(ctx context.Context, q GetQuestionQuery) (*GetQuestionResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	found, err := h.repo.GetByID(ctx, q.ID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("query", "GetQuestion", shared.ErrStoreFailure, "failed to fetch question", err)
	}

	return &GetQuestionResult{Question: found}, nil
}
