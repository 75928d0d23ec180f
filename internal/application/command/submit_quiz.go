package command

import (
	"context"

	"github.com/prepnest/prepnest/internal/domain/shared"
	"github.com/prepnest/prepnest/internal/domain/user"
	"github.com/prepnest/prepnest/pkg/logger"
	"github.com/prepnest/prepnest/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT QUIZ COMMAND
// Единственная запись в системе: применение сдачи викторины к реестру
// прогресса пользователя. Чтение и запись идут одной транзакцией
// в репозитории, две одновременные сдачи не теряют обновления.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitQuizCommand содержит данные сдачи викторины.
type SubmitQuizCommand struct {
	// UserID - идентификатор пользователя из контекста аутентификации.
	UserID string

	// Domain - домен пройденной викторины.
	Domain string

	// Level - уровень сложности.
	Level string

	// Score - набранные очки.
	Score int

	// TotalQuestions - сколько вопросов было в викторине.
	TotalQuestions int

	// CorrectAnswers - сколько ответов правильные.
	CorrectAnswers int
}

// Validate проверяет корректность команды.
func (c *SubmitQuizCommand) Validate() error {
	if c.UserID == "" {
		return shared.ErrMissingIdentity
	}
	return c.submission().Validate()
}

func (c *SubmitQuizCommand) submission() user.Submission {
	return user.Submission{
		Domain:         c.Domain,
		Level:          c.Level,
		Score:          c.Score,
		TotalQuestions: c.TotalQuestions,
		CorrectAnswers: c.CorrectAnswers,
	}
}

// UpdatedStats - счётчики пользователя после применения сдачи.
type UpdatedStats struct {
	// QuizzesCompleted - всего завершённых квизов.
	QuizzesCompleted int `json:"quizzesCompleted"`

	// CorrectAnswers - всего правильных ответов.
	CorrectAnswers int `json:"correctAnswers"`

	// TotalQuestions - всего отвеченных вопросов.
	TotalQuestions int `json:"totalQuestions"`

	// SuccessRate - процент правильных ответов, округлённый до целого.
	SuccessRate int `json:"successRate"`

	// CurrentStreak - текущая серия дней подряд.
	CurrentStreak int `json:"currentStreak"`
}

// SubmitQuizResult содержит результат применения сдачи.
type SubmitQuizResult struct {
	// Message - сообщение для клиента.
	Message string `json:"message"`

	// UpdatedStats - счётчики после применения.
	UpdatedStats UpdatedStats `json:"updatedStats"`
}

// SubmitQuizHandler обрабатывает сдачу викторины.
type SubmitQuizHandler struct {
	repo user.Repository
	log  *logger.Logger
}

// NewSubmitQuizHandler создаёт новый обработчик.
func NewSubmitQuizHandler(repo user.Repository, log *logger.Logger) *SubmitQuizHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SubmitQuizHandler{repo: repo, log: log}
}

// Handle выполняет команду.
func (h *SubmitQuizHandler) Handle(ctx context.Context, cmd SubmitQuizCommand) (*SubmitQuizResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := timeutil.NowUTC()

	updated, err := h.repo.ApplySubmission(ctx, cmd.UserID, cmd.submission(), now)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("command", "SubmitQuiz", shared.ErrProgressSaveFailed, "failed to save quiz results", err)
	}

	h.log.Info("quiz submission applied",
		logger.UserID(cmd.UserID),
		logger.QuizDomain(cmd.Domain),
		logger.QuizLevel(cmd.Level),
		logger.Streak(updated.CurrentStreak),
	)

	return &SubmitQuizResult{
		Message: "Quiz results saved successfully",
		UpdatedStats: UpdatedStats{
			QuizzesCompleted: updated.QuizzesCompleted,
			CorrectAnswers:   updated.CorrectAnswers,
			TotalQuestions:   updated.TotalQuestionsAttempted,
			SuccessRate:      updated.SuccessRate(),
			CurrentStreak:    updated.CurrentStreak,
		},
	}, nil
}
