package chat

import (
	"context"

	"github.com/placementprep/interview-backend/internal/entity"
)

// GenerationConnector produces interviewer replies and post-interview
// analyses.
type GenerationConnector interface {
	ChatReply(ctx context.Context, history []entity.ChatMessage) (string, error)
	AnalyzeInterviewPerformance(ctx context.Context, topic string, level entity.Level, transcript []entity.Transcription, duration int64) (*entity.PerformanceAnalysis, error)
}
