package query

import (
	"context"

	"github.com/prepnest/prepnest/internal/domain/shared"
	"github.com/prepnest/prepnest/internal/domain/user"
	"github.com/prepnest/prepnest/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROGRESS QUERY
// Сводка прогресса аутентифицированного пользователя.
// successRate вычисляется при чтении, в хранилище не хранится.
// ══════════════════════════════════════════════════════════════════════════════

// GetProgressQuery содержит параметры запроса.
type GetProgressQuery struct {
	// UserID - идентификатор пользователя из контекста аутентификации.
	UserID string
}

// Validate проверяет корректность параметров.
func (q *GetProgressQuery) Validate() error {
	if q.UserID == "" {
		return shared.ErrMissingIdentity
	}
	return nil
}

// ProgressResult - сводка прогресса пользователя.
type ProgressResult struct {
	// QuizzesCompleted - всего завершённых квизов.
	QuizzesCompleted int `json:"quizzesCompleted"`

	// CorrectAnswers - всего правильных ответов.
	CorrectAnswers int `json:"correctAnswers"`

	// TotalQuestions - всего отвеченных вопросов.
	TotalQuestions int `json:"totalQuestions"`

	// Streak - текущая серия дней подряд.
	Streak int `json:"streak"`

	// SuccessRate - процент правильных ответов, округлённый до целого.
	SuccessRate int `json:"successRate"`
}

// GetProgressHandler обрабатывает запрос прогресса пользователя.
type GetProgressHandler struct {
	repo user.Repository
	log  *logger.Logger
}

// NewGetProgressHandler создаёт новый обработчик.
func NewGetProgressHandler(repo user.Repository, log *logger.Logger) *GetProgressHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetProgressHandler{repo: repo, log: log}
}

// Handle выполняет запрос.
func (h *GetProgressHandler) Handle(ctx context.Context, q GetProgressQuery) (*ProgressResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	u, err := h.repo.GetByID(ctx, q.UserID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("query", "GetProgress", shared.ErrStoreFailure, "failed to fetch user progress", err)
	}

	return &ProgressResult{
		QuizzesCompleted: u.QuizzesCompleted,
		CorrectAnswers:   u.CorrectAnswers,
		TotalQuestions:   u.TotalQuestionsAttempted,
		Streak:           u.CurrentStreak,
		SuccessRate:      u.SuccessRate(),
	}, nil
}
