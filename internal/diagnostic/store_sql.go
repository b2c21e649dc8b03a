package diagnostic

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

var (
	ErrDiagnosticNotFound = errors.New("diagnostic quiz not found")
	ErrAttemptNotFound    = errors.New("diagnostic attempt not found")
)

type Store interface {
	Put(ctx context.Context, d Diagnostic) error
	Get(ctx context.Context, id string) (Diagnostic, error)
	Active(ctx context.Context) (Diagnostic, error)

	InsertAttempt(ctx context.Context, a Attempt) error
	LatestAttemptByUser(ctx context.Context, userID string) (Attempt, error)
	LatestAttemptByGuest(ctx context.Context, guestID string) (Attempt, error)

	// MigrateGuest re-parents every attempt owned by guestID to userID,
	// clearing the guest id, and reports how many rows changed.
	MigrateGuest(ctx context.Context, guestID, userID string) (int, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Put(ctx context.Context, d Diagnostic) error {
	sj, err := json.Marshal(d.Sections)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO diagnostic_quizzes (id,title,description,version,estimated_minutes,sections_json,is_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (id) DO UPDATE SET
		   title=EXCLUDED.title, description=EXCLUDED.description, version=EXCLUDED.version,
		   estimated_minutes=EXCLUDED.estimated_minutes, sections_json=EXCLUDED.sections_json,
		   is_active=EXCLUDED.is_active`,
		d.ID, d.Title, d.Description, d.Version, d.EstimatedMinutes, string(sj), d.IsActive)
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Diagnostic, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,description,version,estimated_minutes,sections_json,is_active
		 FROM diagnostic_quizzes WHERE id=$1`, id)
	return scanDiagnostic(row)
}

func (s *SQLStore) Active(ctx context.Context) (Diagnostic, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,description,version,estimated_minutes,sections_json,is_active
		 FROM diagnostic_quizzes WHERE is_active=TRUE ORDER BY version DESC LIMIT 1`)
	return scanDiagnostic(row)
}

func (s *SQLStore) InsertAttempt(ctx context.Context, a Attempt) error {
	crj, err := json.Marshal(a.CategoryResults)
	if err != nil {
		return err
	}
	aj, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	rj, err := json.Marshal(a.Recommendations)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO diagnostic_attempts
		   (id,user_id,guest_id,diagnostic_quiz_id,version,overall_score,overall_level,
		    category_results_json,answers_json,recommendations_json,time_spent_seconds,completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, nullStr(a.UserID), nullStr(a.GuestID), a.DiagnosticID, a.Version,
		a.OverallScore, string(a.OverallLevel), string(crj), string(aj), string(rj),
		nullInt(a.TimeSpentSeconds), a.CompletedAt)
	return err
}

func (s *SQLStore) LatestAttemptByUser(ctx context.Context, userID string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx, attemptSelect+` WHERE user_id=$1 ORDER BY completed_at DESC LIMIT 1`, userID)
	return scanAttempt(row)
}

func (s *SQLStore) LatestAttemptByGuest(ctx context.Context, guestID string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx, attemptSelect+` WHERE guest_id=$1 ORDER BY completed_at DESC LIMIT 1`, guestID)
	return scanAttempt(row)
}

func (s *SQLStore) MigrateGuest(ctx context.Context, guestID, userID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE diagnostic_attempts SET user_id=$1, guest_id=NULL WHERE guest_id=$2`,
		userID, guestID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

const attemptSelect = `SELECT id,user_id,guest_id,diagnostic_quiz_id,version,overall_score,overall_level,
	category_results_json,answers_json,recommendations_json,time_spent_seconds,completed_at
	FROM diagnostic_attempts`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDiagnostic(row rowScanner) (Diagnostic, error) {
	var d Diagnostic
	var sj string
	if err := row.Scan(&d.ID, &d.Title, &d.Description, &d.Version, &d.EstimatedMinutes, &sj, &d.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Diagnostic{}, ErrDiagnosticNotFound
		}
		return Diagnostic{}, err
	}
	if err := json.Unmarshal([]byte(sj), &d.Sections); err != nil {
		return Diagnostic{}, err
	}
	return d, nil
}

func scanAttempt(row rowScanner) (Attempt, error) {
	var a Attempt
	var userID, guestID sql.NullString
	var spent sql.NullInt64
	var level, crj, aj, rj string
	if err := row.Scan(&a.ID, &userID, &guestID, &a.DiagnosticID, &a.Version, &a.OverallScore, &level,
		&crj, &aj, &rj, &spent, &a.CompletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrAttemptNotFound
		}
		return Attempt{}, err
	}
	a.UserID = userID.String
	a.GuestID = guestID.String
	a.OverallLevel = Level(level)
	a.TimeSpentSeconds = int(spent.Int64)
	if err := json.Unmarshal([]byte(crj), &a.CategoryResults); err != nil {
		return Attempt{}, err
	}
	if err := json.Unmarshal([]byte(aj), &a.Answers); err != nil {
		return Attempt{}, err
	}
	if err := json.Unmarshal([]byte(rj), &a.Recommendations); err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func nullStr(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}
