package user

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции с хранилищем пользователей.
type Repository interface {
	// GetByID возвращает пользователя по внутреннему ID.
	// Возвращает ErrUserNotFound, если пользователь не найден.
	GetByID(ctx context.Context, id string) (*User, error)

	// ApplySubmission атомарно применяет сдачу к прогрессу
	// пользователя и возвращает обновлённую запись. Чтение и запись
	// выполняются в одной транзакции с блокировкой строки, чтобы две
	// одновременные сдачи одного пользователя не теряли обновления.
	// Возвращает ErrUserNotFound, если пользователь отсутствует.
	ApplySubmission(ctx context.Context, userID string, sub Submission, now time.Time) (*User, error)
}
