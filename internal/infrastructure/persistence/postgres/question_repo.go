// Package postgres implements the PostgreSQL persistence layer for PrepNest.
package postgres

import (
	"context"
	"fmt"

	"github.com/prepnest/prepnest/internal/domain/question"
	"github.com/prepnest/prepnest/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// QUESTION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// QuestionRepository implements question.Repository for PostgreSQL.
type QuestionRepository struct {
	conn *Connection
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(conn *Connection) *QuestionRepository {
	return &QuestionRepository{conn: conn}
}

const questionColumns = `id, domain, level, question, options, answer, created_at`

// ─────────────────────────────────────────────────────────────────────────────
// Lookup
// ─────────────────────────────────────────────────────────────────────────────

// FindByQuery returns questions matching a single lookup stage plan.
// An empty slice is a valid result, the stage simply missed.
func (r *QuestionRepository) FindByQuery(ctx context.Context, q question.MatchQuery) ([]*question.Question, error) {
	var query string
	if q.CaseInsensitive {
		query = fmt.Sprintf(`
			SELECT %s FROM questions
			WHERE LOWER(domain) = LOWER($1) AND LOWER(level) = LOWER($2)
			ORDER BY created_at
		`, questionColumns)
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM questions
			WHERE domain = $1 AND level = $2
			ORDER BY created_at
		`, questionColumns)
	}

	rows, err := r.conn.Query(ctx, query, q.Domain.String(), q.Level.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	return r.scanQuestions(rows)
}

// FindByDomain returns all questions of a domain regardless of level.
func (r *QuestionRepository) FindByDomain(ctx context.Context, domain question.Domain) ([]*question.Question, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM questions
		WHERE domain = $1
		ORDER BY created_at
	`, questionColumns)

	rows, err := r.conn.Query(ctx, query, domain.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query domain questions: %w", err)
	}
	defer rows.Close()

	return r.scanQuestions(rows)
}

// GetByID returns a question by its identifier.
func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*question.Question, error) {
	query := fmt.Sprintf(`SELECT %s FROM questions WHERE id = $1`, questionColumns)

	row := r.conn.QueryRow(ctx, query, id)
	q, err := r.scanQuestion(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	return q, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Catalog & Aggregation
// ─────────────────────────────────────────────────────────────────────────────

// ListDomains returns the sorted list of distinct domains.
func (r *QuestionRepository) ListDomains(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT domain FROM questions ORDER BY domain`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// ListLevels returns the sorted list of distinct levels.
func (r *QuestionRepository) ListLevels(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT level FROM questions ORDER BY level`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// DomainStats returns per-domain aggregates sorted by domain name.
func (r *QuestionRepository) DomainStats(ctx context.Context) ([]question.DomainAggregate, error) {
	query := `
		SELECT domain, COUNT(*) AS total_questions,
			   ARRAY_AGG(DISTINCT level ORDER BY level) AS levels
		FROM questions
		GROUP BY domain
		ORDER BY domain ASC
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate domain stats: %w", err)
	}
	defer rows.Close()

	stats := make([]question.DomainAggregate, 0)
	for rows.Next() {
		var agg question.DomainAggregate
		if err := rows.Scan(&agg.Domain, &agg.TotalQuestions, &agg.Levels); err != nil {
			return nil, fmt.Errorf("failed to scan domain aggregate: %w", err)
		}
		stats = append(stats, agg)
	}

	return stats, rows.Err()
}

// CountByLevel returns question counts of a domain grouped by level.
// Levels with no questions are absent from the map.
func (r *QuestionRepository) CountByLevel(ctx context.Context, domain question.Domain) (map[question.Level]int, error) {
	query := `
		SELECT level, COUNT(*) FROM questions
		WHERE domain = $1
		GROUP BY level
	`

	rows, err := r.conn.Query(ctx, query, domain.String())
	if err != nil {
		return nil, fmt.Errorf("failed to count questions by level: %w", err)
	}
	defer rows.Close()

	counts := make(map[question.Level]int)
	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("failed to scan level count: %w", err)
		}
		counts[question.Level(level)] = count
	}

	return counts, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *QuestionRepository) scanQuestion(row pgx.Row) (*question.Question, error) {
	var q question.Question
	err := row.Scan(
		&q.ID,
		&q.Domain,
		&q.Level,
		&q.Text,
		&q.Options,
		&q.Answer,
		&q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) scanQuestions(rows pgx.Rows) ([]*question.Question, error) {
	questions := make([]*question.Question, 0)
	for rows.Next() {
		q, err := r.scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func scanStrings(rows pgx.Rows) ([]string, error) {
	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
