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
			dsn = "file:surveyhub.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/surveyhub?sslmode=disable"
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

	if err := EnsureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates all tables when missing. Exported so tests can
// bootstrap in-memory databases the same way the gateway does.
func EnsureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	default:
		return fmt.Errorf("unsupported driver: %s", driver)
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  survey_id TEXT NOT NULL,
  staff_email TEXT NOT NULL,
  survey_name TEXT NOT NULL DEFAULT '',
  question_text TEXT NOT NULL,
  multiple_choice INTEGER NOT NULL DEFAULT 0,
  scale INTEGER NOT NULL DEFAULT 0,
  texts INTEGER NOT NULL DEFAULT 0,
  shuffle_answers INTEGER NOT NULL DEFAULT 0,
  shuffle_questions INTEGER NOT NULL DEFAULT 0,
  skip_based_on_answer INTEGER NOT NULL DEFAULT 0,
  score_question INTEGER NOT NULL DEFAULT 0,
  add_other_option INTEGER NOT NULL DEFAULT 0,
  require_answer INTEGER NOT NULL DEFAULT 0,
  draft_flag TEXT,                          -- 'draft' or NULL (published)
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS options (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
  option_text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS permissions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  survey_id TEXT NOT NULL,
  survey_title TEXT NOT NULL DEFAULT '',
  staff_email TEXT NOT NULL,
  start_date TEXT NOT NULL,
  start_time TEXT NOT NULL DEFAULT '',
  end_date TEXT NOT NULL,
  end_time TEXT NOT NULL DEFAULT '',
  scheduling_frequency TEXT NOT NULL DEFAULT '',
  days_of_week TEXT NOT NULL DEFAULT '',
  random_timing INTEGER NOT NULL DEFAULT 0,
  time_difference TEXT NOT NULL DEFAULT '',
  send_reminders INTEGER NOT NULL DEFAULT 0,
  assigned_roles TEXT NOT NULL DEFAULT '',
  response_limit INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS student_groups (
  group_id TEXT PRIMARY KEY,
  group_name TEXT NOT NULL,
  staff_email TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS group_students (
  group_id TEXT NOT NULL REFERENCES student_groups(group_id) ON DELETE CASCADE,
  name TEXT NOT NULL DEFAULT '',
  year TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL,
  department TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (group_id, email)
);

CREATE TABLE IF NOT EXISTS student_details (
  email TEXT PRIMARY KEY,
  rollno TEXT NOT NULL DEFAULT '',
  year TEXT NOT NULL DEFAULT '',
  department TEXT NOT NULL DEFAULT '',
  mentor TEXT NOT NULL DEFAULT '',
  skills_json TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS survey_submissions (
  survey_title TEXT NOT NULL,
  student_email TEXT NOT NULL,
  submission_count INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (survey_title, student_email)
);

CREATE TABLE IF NOT EXISTS survey_responses (
  survey_id TEXT NOT NULL,
  question_text TEXT NOT NULL,
  response_text TEXT NOT NULL DEFAULT '',
  selected_option TEXT NOT NULL DEFAULT '',
  student_email TEXT NOT NULL,
  survey_title TEXT NOT NULL DEFAULT '',
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (survey_id, question_text, student_email, survey_title)
);

CREATE TABLE IF NOT EXISTS feedback (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  batch_id TEXT NOT NULL,
  staff_email TEXT NOT NULL,
  student_email TEXT NOT NULL,
  feedback_text TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  id BIGSERIAL PRIMARY KEY,
  survey_id TEXT NOT NULL,
  staff_email TEXT NOT NULL,
  survey_name TEXT NOT NULL DEFAULT '',
  question_text TEXT NOT NULL,
  multiple_choice BOOLEAN NOT NULL DEFAULT FALSE,
  scale BOOLEAN NOT NULL DEFAULT FALSE,
  texts BOOLEAN NOT NULL DEFAULT FALSE,
  shuffle_answers BOOLEAN NOT NULL DEFAULT FALSE,
  shuffle_questions BOOLEAN NOT NULL DEFAULT FALSE,
  skip_based_on_answer BOOLEAN NOT NULL DEFAULT FALSE,
  score_question BOOLEAN NOT NULL DEFAULT FALSE,
  add_other_option BOOLEAN NOT NULL DEFAULT FALSE,
  require_answer BOOLEAN NOT NULL DEFAULT FALSE,
  draft_flag TEXT,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS options (
  id BIGSERIAL PRIMARY KEY,
  question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
  option_text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS permissions (
  id BIGSERIAL PRIMARY KEY,
  survey_id TEXT NOT NULL,
  survey_title TEXT NOT NULL DEFAULT '',
  staff_email TEXT NOT NULL,
  start_date TEXT NOT NULL,
  start_time TEXT NOT NULL DEFAULT '',
  end_date TEXT NOT NULL,
  end_time TEXT NOT NULL DEFAULT '',
  scheduling_frequency TEXT NOT NULL DEFAULT '',
  days_of_week TEXT NOT NULL DEFAULT '',
  random_timing BOOLEAN NOT NULL DEFAULT FALSE,
  time_difference TEXT NOT NULL DEFAULT '',
  send_reminders BOOLEAN NOT NULL DEFAULT FALSE,
  assigned_roles TEXT NOT NULL DEFAULT '',
  response_limit INTEGER NOT NULL DEFAULT 0,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS student_groups (
  group_id TEXT PRIMARY KEY,
  group_name TEXT NOT NULL,
  staff_email TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS group_students (
  group_id TEXT NOT NULL REFERENCES student_groups(group_id) ON DELETE CASCADE,
  name TEXT NOT NULL DEFAULT '',
  year TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL,
  department TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (group_id, email)
);

CREATE TABLE IF NOT EXISTS student_details (
  email TEXT PRIMARY KEY,
  rollno TEXT NOT NULL DEFAULT '',
  year TEXT NOT NULL DEFAULT '',
  department TEXT NOT NULL DEFAULT '',
  mentor TEXT NOT NULL DEFAULT '',
  skills_json TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS survey_submissions (
  survey_title TEXT NOT NULL,
  student_email TEXT NOT NULL,
  submission_count INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (survey_title, student_email)
);

CREATE TABLE IF NOT EXISTS survey_responses (
  survey_id TEXT NOT NULL,
  question_text TEXT NOT NULL,
  response_text TEXT NOT NULL DEFAULT '',
  selected_option TEXT NOT NULL DEFAULT '',
  student_email TEXT NOT NULL,
  survey_title TEXT NOT NULL DEFAULT '',
  updated_at BIGINT NOT NULL,
  PRIMARY KEY (survey_id, question_text, student_email, survey_title)
);

CREATE TABLE IF NOT EXISTS feedback (
  id BIGSERIAL PRIMARY KEY,
  batch_id TEXT NOT NULL,
  staff_email TEXT NOT NULL,
  student_email TEXT NOT NULL,
  feedback_text TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
