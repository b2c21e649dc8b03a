package quiz

type Question struct {
	ID                 string   `json:"id"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
	Explanation        string   `json:"explanation,omitempty"`
}

type Quiz struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	Difficulty       string     `json:"difficulty"` // easy|medium|hard
	Questions        []Question `json:"questions"`
	PassingScore     int        `json:"passingScore"` // percentage required to pass
	EstimatedMinutes int        `json:"estimatedMinutes,omitempty"`
	IsActive         bool       `json:"isActive"`
}

// Summary is the listing view: no questions, no answer keys.
type Summary struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Difficulty       string `json:"difficulty"`
	QuestionCount    int    `json:"questionCount"`
	PassingScore     int    `json:"passingScore"`
	EstimatedMinutes int    `json:"estimatedMinutes,omitempty"`
}

// TakingView is a quiz prepared for an examinee: questions without their
// correct option indexes.
type TakingView struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Category         string           `json:"category"`
	Difficulty       string           `json:"difficulty"`
	PassingScore     int              `json:"passingScore"`
	EstimatedMinutes int              `json:"estimatedMinutes,omitempty"`
	Questions        []TakingQuestion `json:"questions"`
}

type TakingQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type AnswerInput struct {
	QuestionID          string `json:"questionId"`
	SelectedOptionIndex int    `json:"selectedOptionIndex"`
}

type GradedAnswer struct {
	QuestionID          string `json:"questionId"`
	SelectedOptionIndex int    `json:"selectedOptionIndex"`
	IsCorrect           bool   `json:"isCorrect"`
}

type Attempt struct {
	ID               string         `json:"id"`
	UserID           string         `json:"userId"`
	QuizID           string         `json:"quizId"`
	Score            int            `json:"score"`
	Answers          []GradedAnswer `json:"answers"`
	Passed           bool           `json:"passed"`
	TimeSpentSeconds int            `json:"timeSpentSeconds,omitempty"`
	CompletedAt      int64          `json:"completedAt"`
}

// QuestionResult reveals the answer key for one question, returned only
// after an attempt has been graded.
type QuestionResult struct {
	QuestionID          string   `json:"questionId"`
	Question            string   `json:"question"`
	Options             []string `json:"options"`
	CorrectOptionIndex  int      `json:"correctOptionIndex"`
	SelectedOptionIndex int      `json:"selectedOptionIndex"`
	IsCorrect           bool     `json:"isCorrect"`
	Explanation         string   `json:"explanation,omitempty"`
}

type SubmitResult struct {
	AttemptID      string           `json:"attemptId"`
	Score          int              `json:"score"`
	Passed         bool             `json:"passed"`
	CorrectCount   int              `json:"correctCount"`
	TotalQuestions int              `json:"totalQuestions"`
	PassingScore   int              `json:"passingScore"`
	Results        []QuestionResult `json:"results"`
}

type QuizProgress struct {
	QuizID        string `json:"quizId"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	AttemptCount  int    `json:"attemptCount"`
	BestScore     *int   `json:"bestScore"`
	Passed        bool   `json:"passed"`
	LastAttemptAt *int64 `json:"lastAttemptAt"`
}

type CategoryProgress struct {
	Category   string `json:"category"`
	Total      int    `json:"total"`
	Passed     int    `json:"passed"`
	Percentage int    `json:"percentage"`
}

type Progress struct {
	Quizzes          []QuizProgress     `json:"quizzes"`
	Categories       []CategoryProgress `json:"categories"`
	TotalQuizzes     int                `json:"totalQuizzes"`
	CompletedQuizzes int                `json:"completedQuizzes"`
}
