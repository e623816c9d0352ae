package assessment

import (
	"fmt"

	"github.com/placementprep/interview-backend/internal/entity"
)

// Local substitutes used whenever the generation service fails. Fallbacks are
// never retried against the service: the session continues with templated
// content so a degraded backend never blocks an interview.

func fallbackPreliminaryQuestions(topic string) []string {
	return []string{
		fmt.Sprintf("What is %s and why is it important in programming?", topic),
		fmt.Sprintf("Explain the time complexity of common %s operations.", topic),
		fmt.Sprintf("What are the main advantages and disadvantages of %s?", topic),
		fmt.Sprintf("Describe a real-world use case for %s.", topic),
		fmt.Sprintf("What are some common pitfalls when working with %s?", topic),
	}
}

func fallbackCodingQuestions(topic string, ladder [4]entity.Difficulty) []entity.CodingQuestion {
	questions := make([]entity.CodingQuestion, 0, len(ladder))
	for i, difficulty := range ladder {
		questions = append(questions, entity.CodingQuestion{
			QuestionNumber: i + 1,
			Title:          fmt.Sprintf("%s Problem %d", topic, i+1),
			Description:    fmt.Sprintf("Solve a %s level problem related to %s.", difficulty, topic),
			Difficulty:     difficulty,
			Constraints:    "Standard constraints apply",
			Examples: []entity.QuestionExample{
				{Input: "Example input", Output: "Example output", Explanation: "Explanation"},
			},
			TestCases: []entity.TestCase{
				{Input: "test1", ExpectedOutput: "output1", IsHidden: false},
				{Input: "test2", ExpectedOutput: "output2", IsHidden: true},
			},
		})
	}
	return questions
}

func neutralCodeAnalysis() *entity.CodeAnalysis {
	return &entity.CodeAnalysis{
		TimeComplexity:  "Unable to analyze",
		SpaceComplexity: "Unable to analyze",
		QualityRating:   5,
		Approach:        "Solution submitted",
		Suggestions:     []string{"Review the solution"},
		Strengths:       []string{"Code submitted"},
		Weaknesses:      []string{"Unable to analyze automatically"},
	}
}

func fallbackPreliminaryEvaluation() *entity.PreliminaryEvaluation {
	return &entity.PreliminaryEvaluation{
		Score:    50,
		Feedback: "Error during analysis",
	}
}

func fallbackOverallFeedback() *entity.OverallFeedback {
	return &entity.OverallFeedback{
		Feedback:        "Interview completed. Keep practicing!",
		Recommendations: []string{"Continue learning", "Practice regularly"},
	}
}
