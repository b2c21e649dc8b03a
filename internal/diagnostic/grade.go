package diagnostic

import (
	"fmt"
	"math"
	"sort"
)

// LevelForScore classifies a percentage score. Boundaries are inclusive:
// 40 is still beginner, 70 is still intermediate.
func LevelForScore(score int) Level {
	switch {
	case score <= 40:
		return LevelBeginner
	case score <= 70:
		return LevelIntermediate
	default:
		return LevelAdvanced
	}
}

func PriorityForLevel(level Level) Priority {
	switch level {
	case LevelBeginner:
		return PriorityHigh
	case LevelIntermediate:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func RecommendationMessage(categoryDisplayName string, level Level) string {
	switch level {
	case LevelBeginner:
		return fmt.Sprintf("Focus on building a strong foundation in %s. Start with the basics and practice consistently.", categoryDisplayName)
	case LevelIntermediate:
		return fmt.Sprintf("Good progress in %s! Continue practicing to solidify your understanding and tackle more challenging problems.", categoryDisplayName)
	default:
		return fmt.Sprintf("Excellent %s skills! Keep challenging yourself with advanced problems to maintain and further develop your expertise.", categoryDisplayName)
	}
}

// Outcome is the full graded result of one diagnostic run, before it is
// persisted as an attempt.
type Outcome struct {
	Answers         []GradedAnswer
	CategoryResults []CategoryResult
	Recommendations []Recommendation
	OverallScore    int
	OverallLevel    Level
	TotalCorrect    int
	TotalQuestions  int
}

var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// Grade scores answers against the definition. Each answer is graded
// independently against a lookup flattened across all sections; category
// scores are computed against the definition's question count for that
// category, not just the answered ones. Categories with no questions score 0.
// Recommendations come out sorted by priority, ties keeping section order.
func Grade(d Diagnostic, answers []AnswerInput) Outcome {
	type keyInfo struct {
		correctIndex int
		category     string
		displayName  string
	}
	byID := make(map[string]keyInfo)
	totalQuestions := 0
	for _, sec := range d.Sections {
		totalQuestions += len(sec.Questions)
		for _, q := range sec.Questions {
			byID[q.ID] = keyInfo{
				correctIndex: q.CorrectOptionIndex,
				category:     sec.Category,
				displayName:  sec.CategoryDisplayName,
			}
		}
	}

	graded := make([]GradedAnswer, 0, len(answers))
	totalCorrect := 0
	correctByCategory := make(map[string]int)
	for _, ans := range answers {
		info, found := byID[ans.QuestionID]
		isCorrect := found && info.correctIndex == ans.SelectedOptionIndex
		if isCorrect {
			totalCorrect++
			correctByCategory[ans.Category]++
		}
		graded = append(graded, GradedAnswer{
			QuestionID:          ans.QuestionID,
			Category:            ans.Category,
			SelectedOptionIndex: ans.SelectedOptionIndex,
			IsCorrect:           isCorrect,
		})
	}

	results := make([]CategoryResult, 0, len(d.Sections))
	recs := make([]Recommendation, 0, len(d.Sections))
	for _, sec := range d.Sections {
		total := len(sec.Questions)
		correct := correctByCategory[sec.Category]
		score := 0
		if total > 0 {
			score = int(math.Round(float64(correct) / float64(total) * 100))
		}
		level := LevelForScore(score)
		results = append(results, CategoryResult{
			Category:       sec.Category,
			Score:          score,
			Level:          level,
			CorrectCount:   correct,
			TotalQuestions: total,
		})
		recs = append(recs, Recommendation{
			Category: sec.Category,
			Priority: PriorityForLevel(level),
			Message:  RecommendationMessage(sec.CategoryDisplayName, level),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
	})

	overallScore := 0
	if totalQuestions > 0 {
		overallScore = int(math.Round(float64(totalCorrect) / float64(totalQuestions) * 100))
	}

	return Outcome{
		Answers:         graded,
		CategoryResults: results,
		Recommendations: recs,
		OverallScore:    overallScore,
		OverallLevel:    LevelForScore(overallScore),
		TotalCorrect:    totalCorrect,
		TotalQuestions:  totalQuestions,
	}
}
