package diagnostic

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingIdentity = errors.New("must provide guestId or userId")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoGuestAttempts = errors.New("no guest diagnostic found")
)

type UserDirectory interface {
	UserExists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	store Store
	users UserDirectory
	now   func() time.Time
}

func NewService(store Store, users UserDirectory) *Service {
	return &Service{store: store, users: users, now: time.Now}
}

// GetActive returns the current diagnostic with answer keys stripped.
func (s *Service) GetActive(ctx context.Context) (TakingView, error) {
	d, err := s.store.Active(ctx)
	if err != nil {
		return TakingView{}, err
	}
	view := TakingView{
		ID:               d.ID,
		Title:            d.Title,
		Description:      d.Description,
		Version:          d.Version,
		EstimatedMinutes: d.EstimatedMinutes,
		Sections:         make([]TakingSection, 0, len(d.Sections)),
	}
	for _, sec := range d.Sections {
		ts := TakingSection{
			Category:            sec.Category,
			CategoryDisplayName: sec.CategoryDisplayName,
			Questions:           make([]TakingQuestion, 0, len(sec.Questions)),
		}
		for _, q := range sec.Questions {
			ts.Questions = append(ts.Questions, TakingQuestion{
				ID:         q.ID,
				Question:   q.Question,
				Options:    q.Options,
				Difficulty: q.Difficulty,
			})
		}
		view.TotalQuestions += len(sec.Questions)
		view.Sections = append(view.Sections, ts)
	}
	return view, nil
}

// Submit grades a diagnostic run and persists it as an immutable attempt
// owned by exactly one of userID/guestID.
func (s *Service) Submit(ctx context.Context, diagnosticID, userID, guestID string, answers []AnswerInput, timeSpentSeconds int) (SubmitResult, error) {
	if userID == "" && guestID == "" {
		return SubmitResult{}, ErrMissingIdentity
	}

	d, err := s.store.Get(ctx, diagnosticID)
	if err != nil {
		return SubmitResult{}, err
	}
	if !d.IsActive {
		return SubmitResult{}, ErrDiagnosticNotFound
	}

	if userID != "" {
		ok, err := s.users.UserExists(ctx, userID)
		if err != nil {
			return SubmitResult{}, err
		}
		if !ok {
			return SubmitResult{}, ErrUserNotFound
		}
		// A user attempt is never double-owned.
		guestID = ""
	}

	out := Grade(d, answers)

	attempt := Attempt{
		ID:               uuid.NewString(),
		UserID:           userID,
		GuestID:          guestID,
		DiagnosticID:     d.ID,
		Version:          d.Version,
		OverallScore:     out.OverallScore,
		OverallLevel:     out.OverallLevel,
		CategoryResults:  out.CategoryResults,
		Answers:          out.Answers,
		Recommendations:  out.Recommendations,
		TimeSpentSeconds: timeSpentSeconds,
		CompletedAt:      s.now().UnixMilli(),
	}
	if err := s.store.InsertAttempt(ctx, attempt); err != nil {
		return SubmitResult{}, err
	}

	return SubmitResult{
		AttemptID:       attempt.ID,
		OverallScore:    out.OverallScore,
		OverallLevel:    out.OverallLevel,
		CategoryResults: out.CategoryResults,
		Recommendations: out.Recommendations,
		TotalCorrect:    out.TotalCorrect,
		TotalQuestions:  out.TotalQuestions,
	}, nil
}

// Results returns the latest attempt for the user, falling back to the
// guest id when the user has none.
func (s *Service) Results(ctx context.Context, userID, guestID string) (Results, error) {
	if userID == "" && guestID == "" {
		return Results{}, ErrMissingIdentity
	}

	var a Attempt
	var err error
	if userID != "" {
		a, err = s.store.LatestAttemptByUser(ctx, userID)
	}
	if (userID == "" || errors.Is(err, ErrAttemptNotFound)) && guestID != "" {
		a, err = s.store.LatestAttemptByGuest(ctx, guestID)
	}
	if err != nil {
		return Results{}, err
	}

	return Results{
		AttemptID:        a.ID,
		OverallScore:     a.OverallScore,
		OverallLevel:     a.OverallLevel,
		CategoryResults:  a.CategoryResults,
		Recommendations:  a.Recommendations,
		CompletedAt:      a.CompletedAt,
		TimeSpentSeconds: a.TimeSpentSeconds,
	}, nil
}

// MigrateGuest re-parents guest attempts onto an existing user. Running it
// again after a successful migration finds nothing and reports the
// no-guest-diagnostic failure.
func (s *Service) MigrateGuest(ctx context.Context, guestID, userID string) (MigrateResult, error) {
	ok, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return MigrateResult{}, err
	}
	if !ok {
		return MigrateResult{}, ErrUserNotFound
	}

	n, err := s.store.MigrateGuest(ctx, guestID, userID)
	if err != nil {
		return MigrateResult{}, err
	}
	if n == 0 {
		return MigrateResult{}, ErrNoGuestAttempts
	}
	return MigrateResult{MigratedCount: n}, nil
}
