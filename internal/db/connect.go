package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:quizforge.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/quizforge?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS access_codes (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL,
  purchased_at INTEGER NOT NULL,
  expires_at INTEGER,
  is_used INTEGER NOT NULL DEFAULT 0,
  stripe_payment_id TEXT
);
CREATE INDEX IF NOT EXISTS idx_access_codes_email ON access_codes(email);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  access_code TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  last_login_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_users_access_code ON users(access_code);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

CREATE TABLE IF NOT EXISTS purchases (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  access_code TEXT NOT NULL,
  session_id TEXT NOT NULL UNIQUE,
  payment_intent_id TEXT,
  amount_total INTEGER NOT NULL,
  currency TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_purchases_email ON purchases(email);

CREATE TABLE IF NOT EXISTS quizzes (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  category TEXT NOT NULL,
  difficulty TEXT NOT NULL,
  questions_json TEXT NOT NULL,
  passing_score INTEGER NOT NULL,
  estimated_minutes INTEGER,
  is_active INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_quizzes_category ON quizzes(category);

CREATE TABLE IF NOT EXISTS quiz_attempts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  quiz_id TEXT NOT NULL REFERENCES quizzes(id),
  score INTEGER NOT NULL,
  answers_json TEXT NOT NULL,
  passed INTEGER NOT NULL,
  time_spent_seconds INTEGER,
  completed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user ON quiz_attempts(user_id);
CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user_quiz ON quiz_attempts(user_id, quiz_id);

CREATE TABLE IF NOT EXISTS resources (
  id TEXT PRIMARY KEY,
  quiz_id TEXT NOT NULL REFERENCES quizzes(id),
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  file_key TEXT NOT NULL,
  file_name TEXT NOT NULL,
  file_size TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resources_quiz ON resources(quiz_id);

CREATE TABLE IF NOT EXISTS resource_downloads (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  resource_id TEXT NOT NULL REFERENCES resources(id),
  downloaded_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resource_downloads_resource ON resource_downloads(resource_id);

CREATE TABLE IF NOT EXISTS diagnostic_quizzes (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  version INTEGER NOT NULL,
  estimated_minutes INTEGER NOT NULL,
  sections_json TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS diagnostic_attempts (
  id TEXT PRIMARY KEY,
  user_id TEXT REFERENCES users(id),
  guest_id TEXT,
  diagnostic_quiz_id TEXT NOT NULL REFERENCES diagnostic_quizzes(id),
  version INTEGER NOT NULL,
  overall_score INTEGER NOT NULL,
  overall_level TEXT NOT NULL,
  category_results_json TEXT NOT NULL,
  answers_json TEXT NOT NULL,
  recommendations_json TEXT NOT NULL,
  time_spent_seconds INTEGER,
  completed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_diagnostic_attempts_user ON diagnostic_attempts(user_id);
CREATE INDEX IF NOT EXISTS idx_diagnostic_attempts_guest ON diagnostic_attempts(guest_id);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS access_codes (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL,
  purchased_at BIGINT NOT NULL,
  expires_at BIGINT,
  is_used BOOLEAN NOT NULL DEFAULT FALSE,
  stripe_payment_id TEXT
);
CREATE INDEX IF NOT EXISTS idx_access_codes_email ON access_codes(email);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  access_code TEXT NOT NULL,
  created_at BIGINT NOT NULL,
  last_login_at BIGINT
);
CREATE INDEX IF NOT EXISTS idx_users_access_code ON users(access_code);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

CREATE TABLE IF NOT EXISTS purchases (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  access_code TEXT NOT NULL,
  session_id TEXT NOT NULL UNIQUE,
  payment_intent_id TEXT,
  amount_total BIGINT NOT NULL,
  currency TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_purchases_email ON purchases(email);

CREATE TABLE IF NOT EXISTS quizzes (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  category TEXT NOT NULL,
  difficulty TEXT NOT NULL,
  questions_json TEXT NOT NULL,
  passing_score INTEGER NOT NULL,
  estimated_minutes INTEGER,
  is_active BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS idx_quizzes_category ON quizzes(category);

CREATE TABLE IF NOT EXISTS quiz_attempts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  quiz_id TEXT NOT NULL REFERENCES quizzes(id),
  score INTEGER NOT NULL,
  answers_json TEXT NOT NULL,
  passed BOOLEAN NOT NULL,
  time_spent_seconds INTEGER,
  completed_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user ON quiz_attempts(user_id);
CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user_quiz ON quiz_attempts(user_id, quiz_id);

CREATE TABLE IF NOT EXISTS resources (
  id TEXT PRIMARY KEY,
  quiz_id TEXT NOT NULL REFERENCES quizzes(id),
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  file_key TEXT NOT NULL,
  file_name TEXT NOT NULL,
  file_size TEXT NOT NULL,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resources_quiz ON resources(quiz_id);

CREATE TABLE IF NOT EXISTS resource_downloads (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  resource_id TEXT NOT NULL REFERENCES resources(id),
  downloaded_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resource_downloads_resource ON resource_downloads(resource_id);

CREATE TABLE IF NOT EXISTS diagnostic_quizzes (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  version INTEGER NOT NULL,
  estimated_minutes INTEGER NOT NULL,
  sections_json TEXT NOT NULL,
  is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS diagnostic_attempts (
  id TEXT PRIMARY KEY,
  user_id TEXT REFERENCES users(id),
  guest_id TEXT,
  diagnostic_quiz_id TEXT NOT NULL REFERENCES diagnostic_quizzes(id),
  version INTEGER NOT NULL,
  overall_score INTEGER NOT NULL,
  overall_level TEXT NOT NULL,
  category_results_json TEXT NOT NULL,
  answers_json TEXT NOT NULL,
  recommendations_json TEXT NOT NULL,
  time_spent_seconds INTEGER,
  completed_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_diagnostic_attempts_user ON diagnostic_attempts(user_id);
CREATE INDEX IF NOT EXISTS idx_diagnostic_attempts_guest ON diagnostic_attempts(guest_id);
`
