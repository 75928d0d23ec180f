// Package postgres implements the PostgreSQL persistence layer for PrepNest.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE QUESTIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create questions table
-- Version: 001

CREATE TABLE IF NOT EXISTS questions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    domain VARCHAR(100) NOT NULL,
    level VARCHAR(20) NOT NULL,
    question TEXT NOT NULL,
    options TEXT[] NOT NULL,
    answer TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_options CHECK (array_length(options, 1) >= 2)
);

-- The lookup cascade filters on (domain, level) and on domain alone.
CREATE INDEX IF NOT EXISTS idx_questions_domain_level ON questions(domain, level);
CREATE INDEX IF NOT EXISTS idx_questions_domain ON questions(domain);

-- Case-insensitive stage compares lowered values.
CREATE INDEX IF NOT EXISTS idx_questions_domain_level_lower ON questions(LOWER(domain), LOWER(level));
`

const migration001Down = `
DROP TABLE IF EXISTS questions;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE USERS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create users table with the progress ledger columns
-- Version: 002

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(100) NOT NULL,
    display_name VARCHAR(100) NOT NULL DEFAULT '',
    quizzes_completed INTEGER NOT NULL DEFAULT 0,
    correct_answers INTEGER NOT NULL DEFAULT 0,
    total_questions_attempted INTEGER NOT NULL DEFAULT 0,
    current_streak INTEGER NOT NULL DEFAULT 0,
    last_quiz_date TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_counters CHECK (
        quizzes_completed >= 0
        AND correct_answers >= 0
        AND total_questions_attempted >= 0
        AND current_streak >= 0
    )
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
`

const migration002Down = `
DROP TABLE IF EXISTS users;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_questions",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_users",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}
