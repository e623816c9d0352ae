package assessment

import (
	"time"

	"github.com/placementprep/interview-backend/internal/entity"
)

// sessionSummary is the trimmed list-view projection: question and solution
// payloads are dropped, only counters remain.
type sessionSummary struct {
	SessionID  string               `json:"session_id"`
	Topic      string               `json:"topic"`
	Level      entity.Level         `json:"level"`
	Status     entity.SessionStatus `json:"status"`
	FinalScore int                  `json:"final_score"`
	Questions  int                  `json:"questions"`
	Solutions  int                  `json:"solutions"`
	CreatedAt  time.Time            `json:"created_at"`
}

type sessionListResponse struct {
	Sessions []sessionSummary `json:"sessions"`
	Total    int              `json:"total"`
}

func toSessionListResponse(sessions []*entity.AssessmentSession) sessionListResponse {
	summaries := make([]sessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, sessionSummary{
			SessionID:  session.ID,
			Topic:      session.Topic,
			Level:      session.Level,
			Status:     session.Status,
			FinalScore: session.FinalScore,
			Questions:  len(session.CodingQuestions),
			Solutions:  len(session.UserSolutions),
			CreatedAt:  session.CreatedAt,
		})
	}
	return sessionListResponse{Sessions: summaries, Total: len(summaries)}
}
