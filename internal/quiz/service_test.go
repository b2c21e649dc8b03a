package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	quizzes  map[string]Quiz
	attempts []Attempt
}

func newFakeStore(qs ...Quiz) *fakeStore {
	fs := &fakeStore{quizzes: map[string]Quiz{}}
	for _, q := range qs {
		fs.quizzes[q.ID] = q
	}
	return fs
}

func (f *fakeStore) Put(_ context.Context, q Quiz) error {
	f.quizzes[q.ID] = q
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (Quiz, error) {
	q, ok := f.quizzes[id]
	if !ok {
		return Quiz{}, ErrQuizNotFound
	}
	return q, nil
}

func (f *fakeStore) ListActive(_ context.Context) ([]Quiz, error) {
	var out []Quiz
	for _, q := range f.quizzes {
		if q.IsActive {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]Quiz, error) {
	var out []Quiz
	for _, q := range f.quizzes {
		out = append(out, q)
	}
	return out, nil
}

func (f *fakeStore) SetActive(_ context.Context, id string, active bool) error {
	q, ok := f.quizzes[id]
	if !ok {
		return ErrQuizNotFound
	}
	q.IsActive = active
	f.quizzes[id] = q
	return nil
}

func (f *fakeStore) InsertAttempt(_ context.Context, a Attempt) error {
	f.attempts = append(f.attempts, a)
	return nil
}

func (f *fakeStore) AttemptsByUser(_ context.Context, userID string) ([]Attempt, error) {
	var out []Attempt
	for _, a := range f.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) HasPassedAttempt(_ context.Context, userID, quizID string) (bool, error) {
	for _, a := range f.attempts {
		if a.UserID == userID && a.QuizID == quizID && a.Passed {
			return true, nil
		}
	}
	return false, nil
}

type fakeUsers map[string]bool

func (f fakeUsers) UserExists(_ context.Context, id string) (bool, error) {
	return f[id], nil
}

func sampleQuiz() Quiz {
	return Quiz{
		ID:           "quiz-1",
		Title:        "Python Fundamentals",
		Category:     "python",
		Difficulty:   "beginner",
		PassingScore: 70,
		IsActive:     true,
		Questions: []Question{
			{ID: "q1", Question: "one", Options: []string{"a", "b"}, CorrectOptionIndex: 0, Explanation: "because"},
			{ID: "q2", Question: "two", Options: []string{"a", "b"}, CorrectOptionIndex: 1},
			{ID: "q3", Question: "three", Options: []string{"a", "b"}, CorrectOptionIndex: 0},
		},
	}
}

func TestSubmitAllCorrect(t *testing.T) {
	fs := newFakeStore(sampleQuiz())
	svc := NewService(fs, fakeUsers{"u1": true})

	res, err := svc.Submit(context.Background(), "u1", "quiz-1", []AnswerInput{
		{QuestionID: "q1", SelectedOptionIndex: 0},
		{QuestionID: "q2", SelectedOptionIndex: 1},
		{QuestionID: "q3", SelectedOptionIndex: 0},
	}, 90)
	require.NoError(t, err)

	assert.Equal(t, 100, res.Score)
	assert.True(t, res.Passed)
	assert.Equal(t, 3, res.CorrectCount)
	assert.Equal(t, 70, res.PassingScore)
	require.Len(t, res.Results, 3)
	assert.Equal(t, 0, res.Results[0].CorrectOptionIndex)
	assert.Equal(t, "because", res.Results[0].Explanation)

	require.Len(t, fs.attempts, 1)
	assert.True(t, fs.attempts[0].Passed)
	assert.Equal(t, 90, fs.attempts[0].TimeSpentSeconds)
}

func TestSubmitScoreRoundsAndFailsBelowThreshold(t *testing.T) {
	fs := newFakeStore(sampleQuiz())
	svc := NewService(fs, fakeUsers{"u1": true})

	// 2 of 3 correct rounds to 67, below the 70 threshold.
	res, err := svc.Submit(context.Background(), "u1", "quiz-1", []AnswerInput{
		{QuestionID: "q1", SelectedOptionIndex: 0},
		{QuestionID: "q2", SelectedOptionIndex: 1},
		{QuestionID: "q3", SelectedOptionIndex: 1},
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 67, res.Score)
	assert.False(t, res.Passed)
}

func TestSubmitUnknownQuestionCountsWrong(t *testing.T) {
	svc := NewService(newFakeStore(sampleQuiz()), fakeUsers{"u1": true})

	res, err := svc.Submit(context.Background(), "u1", "quiz-1", []AnswerInput{
		{QuestionID: "bogus", SelectedOptionIndex: 0},
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 0, res.CorrectCount)
	assert.Equal(t, 3, res.TotalQuestions)
}

func TestSubmitUnansweredQuestionMarkedUnselected(t *testing.T) {
	svc := NewService(newFakeStore(sampleQuiz()), fakeUsers{"u1": true})

	res, err := svc.Submit(context.Background(), "u1", "quiz-1", []AnswerInput{
		{QuestionID: "q1", SelectedOptionIndex: 0},
	}, 0)
	require.NoError(t, err)
	require.Len(t, res.Results, 3)
	assert.Equal(t, 0, res.Results[0].SelectedOptionIndex)
	assert.Equal(t, -1, res.Results[1].SelectedOptionIndex)
	assert.False(t, res.Results[1].IsCorrect)
}

func TestSubmitUnknownUser(t *testing.T) {
	svc := NewService(newFakeStore(sampleQuiz()), fakeUsers{})
	_, err := svc.Submit(context.Background(), "ghost", "quiz-1", nil, 0)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetForTakingStripsKeys(t *testing.T) {
	svc := NewService(newFakeStore(sampleQuiz()), fakeUsers{})
	view, err := svc.GetForTaking(context.Background(), "quiz-1")
	require.NoError(t, err)
	require.Len(t, view.Questions, 3)
	assert.Equal(t, "q1", view.Questions[0].ID)
	assert.Len(t, view.Questions[0].Options, 2)
}

func TestGetForTakingInactive(t *testing.T) {
	q := sampleQuiz()
	q.IsActive = false
	svc := NewService(newFakeStore(q), fakeUsers{})
	_, err := svc.GetForTaking(context.Background(), q.ID)
	assert.ErrorIs(t, err, ErrInactiveQuiz)
}

func TestUserProgressBestScoreAndCategories(t *testing.T) {
	fs := newFakeStore(sampleQuiz())
	svc := NewService(fs, fakeUsers{"u1": true})

	// Fail first, then pass. Best score and passed flag must reflect both.
	_, err := svc.Submit(context.Background(), "u1", "quiz-1", []AnswerInput{
		{QuestionID: "q1", SelectedOptionIndex: 1},
	}, 0)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), "u1", "quiz-1", []AnswerInput{
		{QuestionID: "q1", SelectedOptionIndex: 0},
		{QuestionID: "q2", SelectedOptionIndex: 1},
		{QuestionID: "q3", SelectedOptionIndex: 0},
	}, 0)
	require.NoError(t, err)

	p, err := svc.UserProgress(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalQuizzes)
	assert.Equal(t, 1, p.CompletedQuizzes)
	require.Len(t, p.Quizzes, 1)
	assert.Equal(t, 2, p.Quizzes[0].AttemptCount)
	require.NotNil(t, p.Quizzes[0].BestScore)
	assert.Equal(t, 100, *p.Quizzes[0].BestScore)
	assert.True(t, p.Quizzes[0].Passed)
	require.Len(t, p.Categories, 1)
	assert.Equal(t, "python", p.Categories[0].Category)
	assert.Equal(t, 100, p.Categories[0].Percentage)
}

func TestToggleActive(t *testing.T) {
	fs := newFakeStore(sampleQuiz())
	svc := NewService(fs, fakeUsers{})

	active, err := svc.ToggleActive(context.Background(), "quiz-1")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = svc.ToggleActive(context.Background(), "quiz-1")
	require.NoError(t, err)
	assert.True(t, active)
}
