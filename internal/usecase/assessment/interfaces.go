package assessment

import (
	"context"

	"github.com/placementprep/interview-backend/internal/entity"
)

// GenerationConnector abstracts the LLM backend used to produce questions
// and analyses. Every method either returns a usable value or an error the
// caller substitutes with a local fallback.
type GenerationConnector interface {
	GeneratePreliminaryQuestions(ctx context.Context, topic string, level entity.Level) ([]string, error)
	GenerateCodingQuestions(ctx context.Context, topic string, level entity.Level, ladder [4]entity.Difficulty) ([]entity.CodingQuestion, error)
	AnalyzeCodeSolution(ctx context.Context, questionDescription, code, language string) (*entity.CodeAnalysis, error)
	AnalyzePreliminaryAnswers(ctx context.Context, topic string, pairs []entity.QuestionAnswer) (*entity.PreliminaryEvaluation, error)
	GenerateOverallFeedback(ctx context.Context, topic string, level entity.Level, breakdown entity.ScoreBreakdown) (*entity.OverallFeedback, error)
}
