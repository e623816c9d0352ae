package generation

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/placementprep/interview-backend/internal/entity"
	"go.uber.org/zap"
)

// MockConnector serves deterministic payloads for local runs without a
// completion backend (ENABLE_MOCKS=true).
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) GeneratePreliminaryQuestions(ctx context.Context, topic string, level entity.Level) ([]string, error) {
	ctxzap.Info(ctx, "[MOCK] generating preliminary questions")

	return []string{
		fmt.Sprintf("What is %s and why is it important in programming?", topic),
		fmt.Sprintf("Explain the time complexity of common %s operations.", topic),
		fmt.Sprintf("What are the main advantages and disadvantages of %s?", topic),
		fmt.Sprintf("Describe a real-world use case for %s.", topic),
		fmt.Sprintf("What are some common pitfalls when working with %s?", topic),
	}, nil
}

func (m *MockConnector) GenerateCodingQuestions(ctx context.Context, topic string, level entity.Level, ladder [4]entity.Difficulty) ([]entity.CodingQuestion, error) {
	ctxzap.Info(ctx, "[MOCK] generating coding questions")

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

	return questions, nil
}

func (m *MockConnector) AnalyzeCodeSolution(ctx context.Context, questionDescription, code, language string) (*entity.CodeAnalysis, error) {
	ctxzap.Info(ctx, "[MOCK] analyzing code solution")

	return &entity.CodeAnalysis{
		TimeComplexity:  "O(n) assumed for the mock review",
		SpaceComplexity: "O(1) assumed for the mock review",
		QualityRating:   7,
		Approach:        "Iterative single pass",
		Suggestions:     []string{"Add input validation"},
		Strengths:       []string{"Readable structure"},
		Weaknesses:      []string{"No edge-case handling"},
	}, nil
}

func (m *MockConnector) AnalyzePreliminaryAnswers(ctx context.Context, topic string, pairs []entity.QuestionAnswer) (*entity.PreliminaryEvaluation, error) {
	ctxzap.Info(ctx, "[MOCK] analyzing preliminary answers")

	return &entity.PreliminaryEvaluation{
		Score:    70,
		Feedback: "Solid grasp of the fundamentals with room to go deeper on complexity trade-offs.",
	}, nil
}

func (m *MockConnector) GenerateOverallFeedback(ctx context.Context, topic string, level entity.Level, breakdown entity.ScoreBreakdown) (*entity.OverallFeedback, error) {
	ctxzap.Info(ctx, "[MOCK] generating overall feedback")

	return &entity.OverallFeedback{
		Feedback:        fmt.Sprintf("A consistent %s performance on %s across all phases.", level, topic),
		Recommendations: []string{"Practice more coding problems", "Review fundamental concepts", "Focus on time complexity"},
	}, nil
}

func (m *MockConnector) ChatReply(ctx context.Context, history []entity.ChatMessage) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating chat reply", zap.Int("history_len", len(history)))

	return "That's interesting. Could you walk me through a concrete example from your experience?", nil
}

func (m *MockConnector) AnalyzeInterviewPerformance(ctx context.Context, topic string, level entity.Level, transcript []entity.Transcription, duration int64) (*entity.PerformanceAnalysis, error) {
	ctxzap.Info(ctx, "[MOCK] analyzing interview performance")

	return &entity.PerformanceAnalysis{
		OverallScore: 75,
		Breakdown: entity.PerformanceBreakdown{
			TechnicalKnowledge: 80,
			Communication:      75,
			ProblemSolving:     70,
			Confidence:         75,
			Clarity:            75,
		},
		Strengths:        []string{"Clear explanations", "Structured answers"},
		Weaknesses:       []string{"Few concrete examples"},
		Improvements:     []string{"Prepare real project stories", "Practice system design vocabulary"},
		DetailedFeedback: "The candidate communicated clearly and covered the fundamentals well.",
		Grade:            "B",
	}, nil
}
