package quiz

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInactiveQuiz = errors.New("quiz not found")
)

// UserDirectory is the slice of the user store the quiz service needs.
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

func (s *Service) ListActive(ctx context.Context) ([]Summary, error) {
	quizzes, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, Summary{
			ID:               q.ID,
			Title:            q.Title,
			Description:      q.Description,
			Category:         q.Category,
			Difficulty:       q.Difficulty,
			QuestionCount:    len(q.Questions),
			PassingScore:     q.PassingScore,
			EstimatedMinutes: q.EstimatedMinutes,
		})
	}
	return out, nil
}

// GetForTaking returns an active quiz with the answer keys stripped.
func (s *Service) GetForTaking(ctx context.Context, id string) (TakingView, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return TakingView{}, err
	}
	if !q.IsActive {
		return TakingView{}, ErrInactiveQuiz
	}
	view := TakingView{
		ID:               q.ID,
		Title:            q.Title,
		Description:      q.Description,
		Category:         q.Category,
		Difficulty:       q.Difficulty,
		PassingScore:     q.PassingScore,
		EstimatedMinutes: q.EstimatedMinutes,
		Questions:        make([]TakingQuestion, 0, len(q.Questions)),
	}
	for _, qq := range q.Questions {
		view.Questions = append(view.Questions, TakingQuestion{
			ID:       qq.ID,
			Question: qq.Question,
			Options:  qq.Options,
		})
	}
	return view, nil
}

// Submit grades an attempt and persists it. An answer whose question id does
// not appear in the quiz is graded wrong rather than rejected. The answer
// keys and explanations are revealed only here, after grading.
func (s *Service) Submit(ctx context.Context, userID, quizID string, answers []AnswerInput, timeSpentSeconds int) (SubmitResult, error) {
	ok, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return SubmitResult{}, err
	}
	if !ok {
		return SubmitResult{}, ErrUserNotFound
	}

	q, err := s.store.Get(ctx, quizID)
	if err != nil {
		return SubmitResult{}, err
	}

	byID := make(map[string]Question, len(q.Questions))
	for _, qq := range q.Questions {
		byID[qq.ID] = qq
	}

	graded := make([]GradedAnswer, 0, len(answers))
	correct := 0
	for _, ans := range answers {
		qq, found := byID[ans.QuestionID]
		isCorrect := found && qq.CorrectOptionIndex == ans.SelectedOptionIndex
		if isCorrect {
			correct++
		}
		graded = append(graded, GradedAnswer{
			QuestionID:          ans.QuestionID,
			SelectedOptionIndex: ans.SelectedOptionIndex,
			IsCorrect:           isCorrect,
		})
	}

	total := len(q.Questions)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}
	passed := score >= q.PassingScore

	attempt := Attempt{
		ID:               uuid.NewString(),
		UserID:           userID,
		QuizID:           quizID,
		Score:            score,
		Answers:          graded,
		Passed:           passed,
		TimeSpentSeconds: timeSpentSeconds,
		CompletedAt:      s.now().UnixMilli(),
	}
	if err := s.store.InsertAttempt(ctx, attempt); err != nil {
		return SubmitResult{}, err
	}

	selected := make(map[string]GradedAnswer, len(graded))
	for _, g := range graded {
		selected[g.QuestionID] = g
	}
	results := make([]QuestionResult, 0, total)
	for _, qq := range q.Questions {
		r := QuestionResult{
			QuestionID:          qq.ID,
			Question:            qq.Question,
			Options:             qq.Options,
			CorrectOptionIndex:  qq.CorrectOptionIndex,
			SelectedOptionIndex: -1,
			Explanation:         qq.Explanation,
		}
		if g, ok := selected[qq.ID]; ok {
			r.SelectedOptionIndex = g.SelectedOptionIndex
			r.IsCorrect = g.IsCorrect
		}
		results = append(results, r)
	}

	return SubmitResult{
		AttemptID:      attempt.ID,
		Score:          score,
		Passed:         passed,
		CorrectCount:   correct,
		TotalQuestions: total,
		PassingScore:   q.PassingScore,
		Results:        results,
	}, nil
}

// UserProgress derives per-quiz and per-category standing from the stored
// attempts. "Best" and "passed ever" are computed here, never stored.
func (s *Service) UserProgress(ctx context.Context, userID string) (Progress, error) {
	quizzes, err := s.store.ListActive(ctx)
	if err != nil {
		return Progress{}, err
	}
	attempts, err := s.store.AttemptsByUser(ctx, userID)
	if err != nil {
		return Progress{}, err
	}

	byQuiz := make(map[string][]Attempt)
	for _, a := range attempts {
		byQuiz[a.QuizID] = append(byQuiz[a.QuizID], a)
	}

	progress := make([]QuizProgress, 0, len(quizzes))
	for _, q := range quizzes {
		qa := byQuiz[q.ID]
		p := QuizProgress{
			QuizID:       q.ID,
			Title:        q.Title,
			Category:     q.Category,
			Difficulty:   q.Difficulty,
			AttemptCount: len(qa),
		}
		for _, a := range qa {
			if p.BestScore == nil || a.Score > *p.BestScore {
				score := a.Score
				p.BestScore = &score
			}
			if a.Passed {
				p.Passed = true
			}
			if p.LastAttemptAt == nil || a.CompletedAt > *p.LastAttemptAt {
				at := a.CompletedAt
				p.LastAttemptAt = &at
			}
		}
		progress = append(progress, p)
	}

	var categories []CategoryProgress
	seen := make(map[string]int) // category -> index in categories
	for _, p := range progress {
		i, ok := seen[p.Category]
		if !ok {
			i = len(categories)
			seen[p.Category] = i
			categories = append(categories, CategoryProgress{Category: p.Category})
		}
		categories[i].Total++
		if p.Passed {
			categories[i].Passed++
		}
	}
	completed := 0
	for i := range categories {
		if categories[i].Total > 0 {
			categories[i].Percentage = int(math.Round(float64(categories[i].Passed) / float64(categories[i].Total) * 100))
		}
	}
	for _, p := range progress {
		if p.Passed {
			completed++
		}
	}

	return Progress{
		Quizzes:          progress,
		Categories:       categories,
		TotalQuizzes:     len(quizzes),
		CompletedQuizzes: completed,
	}, nil
}

// Admin operations.

func (s *Service) Create(ctx context.Context, q Quiz) (Quiz, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.IsActive = true
	if err := s.store.Put(ctx, q); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func (s *Service) ListAll(ctx context.Context) ([]Quiz, error) {
	return s.store.ListAll(ctx)
}

func (s *Service) ToggleActive(ctx context.Context, id string) (bool, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	next := !q.IsActive
	if err := s.store.SetActive(ctx, id, next); err != nil {
		return false, err
	}
	return next, nil
}
