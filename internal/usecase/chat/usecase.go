package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/placementprep/interview-backend/internal/entity"
	"github.com/placementprep/interview-backend/internal/integration/generation"
	"github.com/placementprep/interview-backend/internal/pkg/validator"
	"github.com/placementprep/interview-backend/internal/repository"
	"go.uber.org/zap"
)

// Canned in-band replies used when the generation backend cannot answer.
// Delivered as normal interviewer messages so the conversation survives a
// degraded backend.
const (
	initialGreeting = "Hello! I'm your AI interviewer. Let's begin. Can you briefly introduce yourself"
	busyReply       = "The interview service is temporarily busy. Please wait a few seconds and try again."
	errorReply      = "Something went wrong while processing your response. Please try again."
)

// Usecase implements the conversational interview lifecycle: a persisted
// interview record plus a live in-memory chat history.
type Usecase struct {
	repo      repository.InterviewRepository
	store     *Store
	generator GenerationConnector
	validator *validator.Validator
	logger    *zap.Logger

	now func() time.Time
}

func NewUsecase(
	repo repository.InterviewRepository,
	store *Store,
	generator GenerationConnector,
	validator *validator.Validator,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		repo:      repo,
		store:     store,
		generator: generator,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateInterview registers a scheduled conversational interview.
func (uc *Usecase) CreateInterview(ctx context.Context, req *entity.CreateInterviewRequest) (*entity.InterviewSession, error) {
	if err := uc.validator.ValidateCreateInterview(req); err != nil {
		return nil, err
	}

	tone := req.Tone
	if tone == "" {
		tone = entity.ToneProfessional
	}

	interview := &entity.InterviewSession{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Topic:       req.Topic,
		Description: req.Description,
		Level:       req.Level,
		Tone:        tone,
		Status:      entity.InterviewScheduled,
	}

	created, err := uc.repo.CreateInterview(ctx, interview)
	if err != nil {
		return nil, fmt.Errorf("create interview: %w", err)
	}

	ctxzap.Info(ctx, "interview created",
		zap.String("interview_id", created.ID),
		zap.String("topic", created.Topic),
		zap.String("tone", string(created.Tone)),
	)

	return created, nil
}

// GetInterview returns an interview record by ID.
func (uc *Usecase) GetInterview(ctx context.Context, interviewID string) (*entity.InterviewSession, error) {
	interview, err := uc.repo.GetInterviewByID(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("get interview: %w", err)
	}
	return interview, nil
}

// ListUserInterviews returns a user's most recent interviews, newest first.
func (uc *Usecase) ListUserInterviews(ctx context.Context, userID string, limit int) ([]*entity.InterviewSession, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id", entity.ErrMissingField)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	interviews, err := uc.repo.ListInterviewsByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	return interviews, nil
}

// StartInterview opens the live conversation: the chat store is seeded with
// the system instruction and the fixed greeting, which is returned without a
// generation round trip.
func (uc *Usecase) StartInterview(ctx context.Context, interviewID string) (*entity.StartInterviewResponse, error) {
	interview, err := uc.repo.GetInterviewByID(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("get interview: %w", err)
	}

	if interview.Status != entity.InterviewScheduled {
		return nil, fmt.Errorf("%w: cannot start interview in %q", entity.ErrInvalidSessionStatus, interview.Status)
	}

	uc.store.Open(interview.ID, []entity.ChatMessage{
		{Role: entity.RoleSystem, Content: generation.SystemInstruction(interview.Topic, interview.Level, interview.Tone)},
		{Role: entity.RoleAssistant, Content: initialGreeting},
	})

	startedAt := uc.now()
	interview.StartedAt = &startedAt
	interview.Status = entity.InterviewInProgress

	saved, err := uc.repo.SaveInterview(ctx, interview)
	if err != nil {
		uc.store.Clear(interview.ID)
		return nil, fmt.Errorf("save interview: %w", err)
	}

	ctxzap.Info(ctx, "interview started", zap.String("interview_id", saved.ID))

	return &entity.StartInterviewResponse{Session: saved, InitialMessage: initialGreeting}, nil
}

// SendMessage exchanges one turn with the interviewer. Successful turns are
// pushed onto the persisted transcript as a User/AI pair. Backend failures
// are answered in band: a rate-limit reply on 429, a generic one otherwise,
// and neither is added to the history nor the transcript.
func (uc *Usecase) SendMessage(ctx context.Context, interviewID string, req *entity.ChatRequest) (*entity.ChatResponse, error) {
	if err := uc.validator.ValidateChat(req); err != nil {
		return nil, err
	}

	if !uc.store.Append(interviewID, entity.ChatMessage{Role: entity.RoleUser, Content: req.Message}) {
		return nil, fmt.Errorf("%w: no live conversation, start the interview first", entity.ErrInterviewNotFound)
	}

	history, _ := uc.store.History(interviewID)

	reply, err := uc.generator.ChatReply(ctx, history)
	if err != nil {
		ctxzap.Warn(ctx, "chat reply failed",
			zap.String("interview_id", interviewID),
			zap.Error(err),
		)
		if errors.Is(err, entity.ErrRateLimited) {
			reply = busyReply
		} else {
			reply = errorReply
		}
		return &entity.ChatResponse{Reply: reply, Timestamp: uc.now().UnixMilli()}, nil
	}

	uc.store.Append(interviewID, entity.ChatMessage{Role: entity.RoleAssistant, Content: reply})

	userAt := uc.now().UnixMilli()
	if _, err := uc.repo.AppendTranscriptions(ctx, interviewID, []entity.Transcription{
		{Speaker: "User", Text: req.Message, Timestamp: userAt},
		{Speaker: "AI", Text: reply, Timestamp: userAt + 1},
	}); err != nil {
		// The reply already happened; losing one transcript pair is
		// recoverable, losing the reply is not.
		ctxzap.Warn(ctx, "transcript append failed",
			zap.String("interview_id", interviewID),
			zap.Error(err),
		)
	}

	return &entity.ChatResponse{Reply: reply, Timestamp: userAt + 1}, nil
}

// SaveTranscription appends one spoken line to the persisted transcript.
func (uc *Usecase) SaveTranscription(ctx context.Context, interviewID string, req *entity.SaveTranscriptionRequest) (*entity.InterviewSession, error) {
	if err := uc.validator.ValidateSaveTranscription(req); err != nil {
		return nil, err
	}

	timestamp := req.Timestamp
	if timestamp == 0 {
		timestamp = uc.now().UnixMilli()
	}

	interview, err := uc.repo.AppendTranscriptions(ctx, interviewID, []entity.Transcription{
		{Speaker: req.Speaker, Text: req.Text, Timestamp: timestamp},
	})
	if err != nil {
		return nil, fmt.Errorf("append transcription: %w", err)
	}

	return interview, nil
}

// EndInterview completes the conversation: the live history is discarded,
// the transcript is analyzed, and the record is finalized. Analysis failures
// fall back to a neutral evaluation.
func (uc *Usecase) EndInterview(ctx context.Context, interviewID string, req *entity.EndInterviewRequest) (*entity.InterviewSession, error) {
	interview, err := uc.repo.GetInterviewByID(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("get interview: %w", err)
	}

	if interview.Status != entity.InterviewInProgress {
		return nil, fmt.Errorf("%w: cannot end interview in %q", entity.ErrInvalidSessionStatus, interview.Status)
	}

	// The live history is only dropped once the completed record is saved,
	// so a failed save leaves the conversation intact for a retry.
	history, _ := uc.store.History(interviewID)

	endedAt := uc.now()
	interview.EndedAt = &endedAt
	if interview.StartedAt != nil {
		interview.Duration = int64(endedAt.Sub(*interview.StartedAt).Seconds())
	}

	// No transcript was posted during the interview: archive the chat
	// history instead so the analysis has something to work with.
	if len(interview.Transcriptions) == 0 {
		interview.Transcriptions = archiveHistory(history, endedAt.UnixMilli())
	}

	analysis, err := uc.generator.AnalyzeInterviewPerformance(ctx, interview.Topic, interview.Level, interview.Transcriptions, interview.Duration)
	if err != nil {
		ctxzap.Warn(ctx, "performance analysis failed, using fallback",
			zap.String("interview_id", interviewID),
			zap.Error(err),
		)
		analysis = neutralPerformanceAnalysis()
	}

	interview.Status = entity.InterviewCompleted
	interview.Analysis = analysis
	if req != nil {
		interview.Feedback = req.Feedback
	}

	saved, err := uc.repo.SaveInterview(ctx, interview)
	if err != nil {
		return nil, fmt.Errorf("save interview: %w", err)
	}

	uc.store.Clear(interviewID)

	ctxzap.Info(ctx, "interview completed",
		zap.String("interview_id", saved.ID),
		zap.Float64("overall_score", analysis.OverallScore),
	)

	return saved, nil
}

// ActiveCount reports how many conversations are currently live in memory.
func (uc *Usecase) ActiveCount() int {
	return uc.store.ActiveCount()
}

// archiveHistory converts live chat messages into transcript entries,
// skipping the system instruction.
func archiveHistory(history []entity.ChatMessage, timestamp int64) []entity.Transcription {
	archived := make([]entity.Transcription, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case entity.RoleUser:
			archived = append(archived, entity.Transcription{Speaker: "User", Text: msg.Content, Timestamp: timestamp})
		case entity.RoleAssistant:
			archived = append(archived, entity.Transcription{Speaker: "AI", Text: msg.Content, Timestamp: timestamp})
		}
	}
	return archived
}

func neutralPerformanceAnalysis() *entity.PerformanceAnalysis {
	return &entity.PerformanceAnalysis{
		OverallScore: 50,
		Breakdown: entity.PerformanceBreakdown{
			TechnicalKnowledge: 50,
			Communication:      50,
			ProblemSolving:     50,
			Confidence:         50,
			Clarity:            50,
		},
		Strengths: []string{
			"Completed the interview",
			"Engaged with the interviewer",
			"Attempted to answer questions",
		},
		Weaknesses: []string{
			"Limited technical depth",
			"Could improve communication clarity",
			"Needs more practice",
		},
		Improvements: []string{
			"Study the topic more thoroughly",
			"Practice explaining concepts clearly",
			"Prepare specific examples",
			"Work on confidence",
		},
		DetailedFeedback: "The interview was completed. Continue practicing to improve your performance.",
		Grade:            "C",
	}
}
