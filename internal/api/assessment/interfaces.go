package assessment

import (
	"context"

	"github.com/placementprep/interview-backend/internal/entity"
)

// AssessmentUsecase is the business-logic surface the HTTP handlers call.
type AssessmentUsecase interface {
	CreateSession(ctx context.Context, req *entity.CreateAssessmentRequest) (*entity.AssessmentSession, error)
	GetSession(ctx context.Context, sessionID string) (*entity.AssessmentSession, error)
	ListUserSessions(ctx context.Context, userID string, limit int) ([]*entity.AssessmentSession, error)
	StartPreliminary(ctx context.Context, sessionID string) (*entity.StartPreliminaryResponse, error)
	SubmitPreliminaryAnswers(ctx context.Context, sessionID string, req *entity.SubmitPreliminaryRequest) (*entity.SubmitPreliminaryResponse, error)
	StartCoding(ctx context.Context, sessionID string) (*entity.StartCodingResponse, error)
	SubmitCodeSolution(ctx context.Context, sessionID string, req *entity.SubmitSolutionRequest) (*entity.SubmitSolutionResponse, error)
	CompleteInterview(ctx context.Context, sessionID string) (*entity.CompleteInterviewResponse, error)
	CancelSession(ctx context.Context, sessionID string) (*entity.AssessmentSession, error)
	GetScorecard(ctx context.Context, sessionID string) (*entity.Scorecard, error)
	ExportScorecard(ctx context.Context, sessionID string, format entity.ResultFormat) ([]byte, string, error)
}
