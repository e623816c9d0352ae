package entity

import "time"

type CreateAssessmentRequest struct {
	UserID string `json:"user_id"`
	Topic  string `json:"topic"`
	Level  Level  `json:"level"`
}

type SubmittedAnswer struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp int64  `json:"timestamp"`
}

type SubmitPreliminaryRequest struct {
	Answers []SubmittedAnswer `json:"answers"`
}

type SubmitSolutionRequest struct {
	QuestionNumber int    `json:"question_number"`
	Code           string `json:"code"`
	Language       string `json:"language"`
}

type StartPreliminaryResponse struct {
	Session   *AssessmentSession `json:"session"`
	Questions []string           `json:"questions"`
}

type SubmitPreliminaryResponse struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

type StartCodingResponse struct {
	Questions []CodingQuestion `json:"questions"`
	TimeLimit int64            `json:"time_limit"`
}

type SubmitSolutionResponse struct {
	Score    float64      `json:"score"`
	Analysis CodeAnalysis `json:"analysis"`
}

type CompleteInterviewResponse struct {
	FinalScore      int            `json:"final_score"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
	Feedback        string         `json:"feedback"`
	Recommendations []string       `json:"recommendations"`
}

// SolutionSummary is the per-question projection on a scorecard.
type SolutionSummary struct {
	QuestionNumber  int     `json:"question_number"`
	Score           float64 `json:"score"`
	QualityRating   float64 `json:"quality_rating"`
	TimeComplexity  string  `json:"time_complexity"`
	SpaceComplexity string  `json:"space_complexity"`
}

// Scorecard is the read-only projection of a completed assessment.
type Scorecard struct {
	SessionID             string            `json:"session_id"`
	UserID                string            `json:"user_id"`
	Topic                 string            `json:"topic"`
	Level                 Level             `json:"level"`
	FinalScore            int               `json:"final_score"`
	Breakdown             ScoreBreakdown    `json:"breakdown"`
	PreliminaryAnswers    int               `json:"preliminary_answers"`
	CodingQuestionsSolved int               `json:"coding_questions_solved"`
	TotalQuestions        int               `json:"total_questions"`
	Duration              int64             `json:"duration"`
	Feedback              string            `json:"feedback"`
	Recommendations       []string          `json:"recommendations"`
	CompletedAt           *time.Time        `json:"completed_at,omitempty"`
	Solutions             []SolutionSummary `json:"solutions"`
}

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatPDF      ResultFormat = "pdf"
	FormatDOCX     ResultFormat = "docx"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
