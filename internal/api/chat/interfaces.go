package chat

import (
	"context"

	"github.com/placementprep/interview-backend/internal/entity"
)

// InterviewUsecase is the business-logic surface the HTTP handlers call.
type InterviewUsecase interface {
	CreateInterview(ctx context.Context, req *entity.CreateInterviewRequest) (*entity.InterviewSession, error)
	GetInterview(ctx context.Context, interviewID string) (*entity.InterviewSession, error)
	ListUserInterviews(ctx context.Context, userID string, limit int) ([]*entity.InterviewSession, error)
	StartInterview(ctx context.Context, interviewID string) (*entity.StartInterviewResponse, error)
	SendMessage(ctx context.Context, interviewID string, req *entity.ChatRequest) (*entity.ChatResponse, error)
	SaveTranscription(ctx context.Context, interviewID string, req *entity.SaveTranscriptionRequest) (*entity.InterviewSession, error)
	EndInterview(ctx context.Context, interviewID string, req *entity.EndInterviewRequest) (*entity.InterviewSession, error)
	ActiveCount() int
}
