package entity

// QuestionAnswer is one (question, answer) pair sent for evaluation.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// PreliminaryEvaluation is the scored review of the preliminary Q&A phase.
type PreliminaryEvaluation struct {
	Score    float64 `json:"score"` // 0-100
	Feedback string  `json:"feedback"`
}

// OverallFeedback is the final summary generated from the four component
// scores of a completed assessment.
type OverallFeedback struct {
	Feedback        string   `json:"feedback"`
	Recommendations []string `json:"recommendations"`
}
