package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

var ErrQuizNotFound = errors.New("quiz not found")

type Store interface {
	Put(ctx context.Context, q Quiz) error
	Get(ctx context.Context, id string) (Quiz, error) // full quiz, answer keys included
	ListActive(ctx context.Context) ([]Quiz, error)
	ListAll(ctx context.Context) ([]Quiz, error)
	SetActive(ctx context.Context, id string, active bool) error

	InsertAttempt(ctx context.Context, a Attempt) error
	AttemptsByUser(ctx context.Context, userID string) ([]Attempt, error)
	HasPassedAttempt(ctx context.Context, userID, quizID string) (bool, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Put(ctx context.Context, q Quiz) error {
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id,title,description,category,difficulty,questions_json,passing_score,estimated_minutes,is_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (id) DO UPDATE SET
		   title=EXCLUDED.title, description=EXCLUDED.description, category=EXCLUDED.category,
		   difficulty=EXCLUDED.difficulty, questions_json=EXCLUDED.questions_json,
		   passing_score=EXCLUDED.passing_score, estimated_minutes=EXCLUDED.estimated_minutes,
		   is_active=EXCLUDED.is_active`,
		q.ID, q.Title, q.Description, q.Category, q.Difficulty, string(qj),
		q.PassingScore, nullIntQ(q.EstimatedMinutes), q.IsActive)
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,description,category,difficulty,questions_json,passing_score,estimated_minutes,is_active
		 FROM quizzes WHERE id=$1`, id)
	return scanQuiz(row)
}

func (s *SQLStore) ListActive(ctx context.Context) ([]Quiz, error) {
	return s.list(ctx, `SELECT id,title,description,category,difficulty,questions_json,passing_score,estimated_minutes,is_active
		FROM quizzes WHERE is_active=TRUE ORDER BY category, title`)
}

func (s *SQLStore) ListAll(ctx context.Context) ([]Quiz, error) {
	return s.list(ctx, `SELECT id,title,description,category,difficulty,questions_json,passing_score,estimated_minutes,is_active
		FROM quizzes ORDER BY category, title`)
}

func (s *SQLStore) list(ctx context.Context, query string) ([]Quiz, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) SetActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE quizzes SET is_active=$1 WHERE id=$2`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQuizNotFound
	}
	return nil
}

func (s *SQLStore) InsertAttempt(ctx context.Context, a Attempt) error {
	aj, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts (id,user_id,quiz_id,score,answers_json,passed,time_spent_seconds,completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.UserID, a.QuizID, a.Score, string(aj), a.Passed, nullIntQ(a.TimeSpentSeconds), a.CompletedAt)
	return err
}

func (s *SQLStore) AttemptsByUser(ctx context.Context, userID string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,user_id,quiz_id,score,answers_json,passed,time_spent_seconds,completed_at
		 FROM quiz_attempts WHERE user_id=$1 ORDER BY completed_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Attempt
	for rows.Next() {
		var a Attempt
		var aj string
		var spent sql.NullInt64
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Score, &aj, &a.Passed, &spent, &a.CompletedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(aj), &a.Answers); err != nil {
			return nil, err
		}
		a.TimeSpentSeconds = int(spent.Int64)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) HasPassedAttempt(ctx context.Context, userID, quizID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM quiz_attempts WHERE user_id=$1 AND quiz_id=$2 AND passed=TRUE LIMIT 1`,
		userID, quizID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (Quiz, error) {
	var q Quiz
	var qj string
	var est sql.NullInt64
	if err := row.Scan(&q.ID, &q.Title, &q.Description, &q.Category, &q.Difficulty, &qj, &q.PassingScore, &est, &q.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(qj), &q.Questions); err != nil {
		return Quiz{}, err
	}
	q.EstimatedMinutes = int(est.Int64)
	return q, nil
}

func nullIntQ(v int) any {
	if v == 0 {
		return nil
	}
	return v
}
