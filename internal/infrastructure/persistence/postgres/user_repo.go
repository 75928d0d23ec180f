// Package postgres implements the PostgreSQL persistence layer for PrepNest.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/prepnest/prepnest/internal/domain/shared"
	"github.com/prepnest/prepnest/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements user.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

const userColumns = `id, email, password_hash, display_name,
	quizzes_completed, correct_answers, total_questions_attempted,
	current_streak, last_quiz_date, created_at, updated_at`

// ─────────────────────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────────────────────

// GetByID returns a user by internal ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	row := r.conn.QueryRow(ctx, query, id)
	return scanUser(row)
}

// ─────────────────────────────────────────────────────────────────────────────
// Ledger update
// ─────────────────────────────────────────────────────────────────────────────

// ApplySubmission applies a quiz submission to the user's progress inside
// a single transaction. The row is locked with FOR UPDATE so that two
// concurrent submissions from the same user serialize instead of losing
// an update.
func (r *UserRepository) ApplySubmission(ctx context.Context, userID string, sub user.Submission, now time.Time) (*user.User, error) {
	var updated *user.User

	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 FOR UPDATE`, userColumns)

		u, err := scanUser(tx.QueryRow(ctx, query, userID))
		if err != nil {
			return err
		}

		u.ApplySubmission(sub, now)

		_, err = tx.Exec(ctx, `
			UPDATE users SET
				quizzes_completed = $1,
				correct_answers = $2,
				total_questions_attempted = $3,
				current_streak = $4,
				last_quiz_date = $5,
				updated_at = $6
			WHERE id = $7
		`,
			u.QuizzesCompleted,
			u.CorrectAnswers,
			u.TotalQuestionsAttempted,
			u.CurrentStreak,
			u.LastQuizDate,
			u.UpdatedAt,
			userID,
		)
		if err != nil {
			return fmt.Errorf("failed to update user progress: %w", err)
		}

		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	var lastQuizDate *time.Time

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.DisplayName,
		&u.QuizzesCompleted,
		&u.CorrectAnswers,
		&u.TotalQuestionsAttempted,
		&u.CurrentStreak,
		&lastQuizDate,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	// last_quiz_date is NULL until the first submission.
	if lastQuizDate != nil {
		u.LastQuizDate = lastQuizDate.UTC()
	}

	return &u, nil
}
