package diagnostic

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Question struct {
	ID                 string   `json:"id"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
	Difficulty         string   `json:"difficulty"` // easy|medium|hard
	Explanation        string   `json:"explanation,omitempty"`
}

type Section struct {
	Category            string     `json:"category"`
	CategoryDisplayName string     `json:"categoryDisplayName"`
	Questions           []Question `json:"questions"`
}

type Diagnostic struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Version          int       `json:"version"`
	EstimatedMinutes int       `json:"estimatedMinutes"`
	Sections         []Section `json:"sections"`
	IsActive         bool      `json:"isActive"`
}

type AnswerInput struct {
	QuestionID          string `json:"questionId"`
	Category            string `json:"category"`
	SelectedOptionIndex int    `json:"selectedOptionIndex"`
}

type GradedAnswer struct {
	QuestionID          string `json:"questionId"`
	Category            string `json:"category"`
	SelectedOptionIndex int    `json:"selectedOptionIndex"`
	IsCorrect           bool   `json:"isCorrect"`
}

type CategoryResult struct {
	Category       string `json:"category"`
	Score          int    `json:"score"`
	Level          Level  `json:"level"`
	CorrectCount   int    `json:"correctCount"`
	TotalQuestions int    `json:"totalQuestions"`
}

type Recommendation struct {
	Category string   `json:"category"`
	Priority Priority `json:"priority"`
	Message  string   `json:"message"`
}

type Attempt struct {
	ID               string           `json:"id"`
	UserID           string           `json:"userId,omitempty"`
	GuestID          string           `json:"guestId,omitempty"`
	DiagnosticID     string           `json:"diagnosticQuizId"`
	Version          int              `json:"version"`
	OverallScore     int              `json:"overallScore"`
	OverallLevel     Level            `json:"overallLevel"`
	CategoryResults  []CategoryResult `json:"categoryResults"`
	Answers          []GradedAnswer   `json:"answers"`
	Recommendations  []Recommendation `json:"recommendations"`
	TimeSpentSeconds int              `json:"timeSpentSeconds,omitempty"`
	CompletedAt      int64            `json:"completedAt"`
}

// TakingView is the examinee-facing shape: sections without answer keys.
type TakingView struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Version          int             `json:"version"`
	EstimatedMinutes int             `json:"estimatedMinutes"`
	Sections         []TakingSection `json:"sections"`
	TotalQuestions   int             `json:"totalQuestions"`
}

type TakingSection struct {
	Category            string           `json:"category"`
	CategoryDisplayName string           `json:"categoryDisplayName"`
	Questions           []TakingQuestion `json:"questions"`
}

type TakingQuestion struct {
	ID         string   `json:"id"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
}

type SubmitResult struct {
	AttemptID       string           `json:"attemptId"`
	OverallScore    int              `json:"overallScore"`
	OverallLevel    Level            `json:"overallLevel"`
	CategoryResults []CategoryResult `json:"categoryResults"`
	Recommendations []Recommendation `json:"recommendations"`
	TotalCorrect    int              `json:"totalCorrect"`
	TotalQuestions  int              `json:"totalQuestions"`
}

type Results struct {
	AttemptID        string           `json:"attemptId"`
	OverallScore     int              `json:"overallScore"`
	OverallLevel     Level            `json:"overallLevel"`
	CategoryResults  []CategoryResult `json:"categoryResults"`
	Recommendations  []Recommendation `json:"recommendations"`
	CompletedAt      int64            `json:"completedAt"`
	TimeSpentSeconds int              `json:"timeSpentSeconds,omitempty"`
}

type MigrateResult struct {
	MigratedCount int `json:"migratedCount"`
}
