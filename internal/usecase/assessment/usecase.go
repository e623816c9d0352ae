package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/placementprep/interview-backend/internal/entity"
	"github.com/placementprep/interview-backend/internal/pkg/formatter"
	"github.com/placementprep/interview-backend/internal/pkg/validator"
	"github.com/placementprep/interview-backend/internal/repository"
	"go.uber.org/zap"
)

// Usecase implements the coding-assessment session lifecycle: preliminary
// Q&A, timed coding phase, scoring and scorecard export.
type Usecase struct {
	repo            repository.AssessmentRepository
	generator       GenerationConnector
	validator       *validator.Validator
	formatters      *formatter.Factory
	logger          *zap.Logger
	codingTimeLimit int64

	now func() time.Time
}

func NewUsecase(
	repo repository.AssessmentRepository,
	generator GenerationConnector,
	validator *validator.Validator,
	formatters *formatter.Factory,
	logger *zap.Logger,
	codingTimeLimit int64,
) *Usecase {
	if codingTimeLimit <= 0 {
		codingTimeLimit = entity.DefaultCodingTimeLimit
	}
	return &Usecase{
		repo:            repo,
		generator:       generator,
		validator:       validator,
		formatters:      formatters,
		logger:          logger,
		codingTimeLimit: codingTimeLimit,
		now:             time.Now,
	}
}

// CreateSession registers a new scheduled assessment for a user.
func (uc *Usecase) CreateSession(ctx context.Context, req *entity.CreateAssessmentRequest) (*entity.AssessmentSession, error) {
	if err := uc.validator.ValidateCreateAssessment(req); err != nil {
		return nil, err
	}

	session := &entity.AssessmentSession{
		ID:              uuid.New().String(),
		UserID:          req.UserID,
		Topic:           req.Topic,
		Level:           req.Level,
		Status:          entity.StatusScheduled,
		CodingTimeLimit: uc.codingTimeLimit,
	}

	created, err := uc.repo.CreateSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	ctxzap.Info(ctx, "assessment session created",
		zap.String("session_id", created.ID),
		zap.String("topic", created.Topic),
		zap.String("level", string(created.Level)),
	)

	return created, nil
}

// GetSession returns a session by ID.
func (uc *Usecase) GetSession(ctx context.Context, sessionID string) (*entity.AssessmentSession, error) {
	session, err := uc.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// ListUserSessions returns a user's most recent sessions, newest first.
func (uc *Usecase) ListUserSessions(ctx context.Context, userID string, limit int) ([]*entity.AssessmentSession, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id", entity.ErrMissingField)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	sessions, err := uc.repo.ListSessionsByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// StartPreliminary moves a scheduled session into the preliminary Q&A phase
// and returns the generated theory questions. Generation failures fall back
// to templated questions without failing the operation.
func (uc *Usecase) StartPreliminary(ctx context.Context, sessionID string) (*entity.StartPreliminaryResponse, error) {
	session, err := uc.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if !session.Status.CanTransitionTo(entity.StatusPreliminary) {
		return nil, fmt.Errorf("%w: cannot start preliminary from %q", entity.ErrInvalidSessionStatus, session.Status)
	}

	questions, err := uc.generator.GeneratePreliminaryQuestions(ctx, session.Topic, session.Level)
	if err != nil || len(questions) == 0 {
		uc.logGenerationFallback(ctx, "preliminary questions", err)
		questions = fallbackPreliminaryQuestions(session.Topic)
	}

	// Synthetic ascending timestamps keep question order stable even when
	// all five arrive in the same batch.
	baseMillis := uc.now().UnixMilli()
	session.PreliminaryQuestions = make([]entity.PreliminaryQuestion, 0, len(questions))
	for i, question := range questions {
		session.PreliminaryQuestions = append(session.PreliminaryQuestions, entity.PreliminaryQuestion{
			Question: question,
			AskedAt:  baseMillis + int64(i),
		})
	}

	startedAt := uc.now()
	session.StartedAt = &startedAt
	session.Status = entity.StatusPreliminary

	saved, err := uc.repo.SaveSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	ctxzap.Info(ctx, "preliminary phase started",
		zap.String("session_id", saved.ID),
		zap.Int("questions", len(questions)),
	)

	return &entity.StartPreliminaryResponse{Session: saved, Questions: questions}, nil
}

// SubmitPreliminaryAnswers records the candidate's theory answers and scores
// them. Evaluation failures fall back to a neutral score of 50.
func (uc *Usecase) SubmitPreliminaryAnswers(ctx context.Context, sessionID string, req *entity.SubmitPreliminaryRequest) (*entity.SubmitPreliminaryResponse, error) {
	if err := uc.validator.ValidateSubmitPreliminary(req); err != nil {
		return nil, err
	}

	session, err := uc.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Status != entity.StatusPreliminary {
		return nil, fmt.Errorf("%w: cannot submit preliminary answers in %q", entity.ErrInvalidSessionStatus, session.Status)
	}

	pairs := make([]entity.QuestionAnswer, 0, len(req.Answers))
	session.PreliminaryAnswers = make([]entity.PreliminaryAnswer, 0, len(req.Answers))
	for _, answer := range req.Answers {
		pairs = append(pairs, entity.QuestionAnswer{Question: answer.Question, Answer: answer.Answer})
		session.PreliminaryAnswers = append(session.PreliminaryAnswers, entity.PreliminaryAnswer{
			Question:  answer.Question,
			Answer:    answer.Answer,
			Timestamp: answer.Timestamp,
		})
	}

	evaluation, err := uc.generator.AnalyzePreliminaryAnswers(ctx, session.Topic, pairs)
	if err != nil {
		uc.logGenerationFallback(ctx, "preliminary evaluation", err)
		evaluation = fallbackPreliminaryEvaluation()
	}

	endedAt := uc.now()
	session.PreliminaryScore = evaluation.Score
	session.PreliminaryEndedAt = &endedAt

	if _, err := uc.repo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	ctxzap.Info(ctx, "preliminary answers evaluated",
		zap.String("session_id", session.ID),
		zap.Float64("score", evaluation.Score),
	)

	return &entity.SubmitPreliminaryResponse{Score: evaluation.Score, Feedback: evaluation.Feedback}, nil
}

// StartCoding moves the session into the timed coding phase and returns four
// generated questions on the level's difficulty ladder. A session may enter
// coding directly from scheduled, skipping the preliminary phase.
func (uc *Usecase) StartCoding(ctx context.Context, sessionID string) (*entity.StartCodingResponse, error) {
	session, err := uc.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if !session.Status.CanTransitionTo(entity.StatusCoding) {
		return nil, fmt.Errorf("%w: cannot start coding from %q", entity.ErrInvalidSessionStatus, session.Status)
	}

	ladder := entity.DifficultyLadder(session.Level)
	questions, err := uc.generator.GenerateCodingQuestions(ctx, session.Topic, session.Level, ladder)
	if err != nil || len(questions) == 0 {
		uc.logGenerationFallback(ctx, "coding questions", err)
		questions = fallbackCodingQuestions(session.Topic, ladder)
	}

	codingStartedAt := uc.now()
	session.CodingQuestions = questions
	session.CodingStartedAt = &codingStartedAt
	if session.StartedAt == nil {
		session.StartedAt = &codingStartedAt
	}
	session.Status = entity.StatusCoding

	if _, err := uc.repo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	ctxzap.Info(ctx, "coding phase started",
		zap.String("session_id", session.ID),
		zap.Int64("time_limit", session.CodingTimeLimit),
	)

	return &entity.StartCodingResponse{Questions: questions, TimeLimit: session.CodingTimeLimit}, nil
}

// SubmitCodeSolution stores the latest solution for one coding question and
// returns its analysis. Resubmitting a question number replaces the earlier
// solution. Analysis failures fall back to a neutral review.
func (uc *Usecase) SubmitCodeSolution(ctx context.Context, sessionID string, req *entity.SubmitSolutionRequest) (*entity.SubmitSolutionResponse, error) {
	if err := uc.validator.ValidateSubmitSolution(req); err != nil {
		return nil, err
	}

	session, err := uc.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Status != entity.StatusCoding {
		return nil, fmt.Errorf("%w: cannot submit solution in %q", entity.ErrInvalidSessionStatus, session.Status)
	}

	question, ok := session.QuestionByNumber(req.QuestionNumber)
	if !ok {
		return nil, fmt.Errorf("%w: question %d", entity.ErrQuestionNotFound, req.QuestionNumber)
	}

	analysis, err := uc.generator.AnalyzeCodeSolution(ctx, question.Description, req.Code, req.Language)
	if err != nil {
		uc.logGenerationFallback(ctx, "code analysis", err)
		analysis = neutralCodeAnalysis()
	}

	solution := entity.UserSolution{
		QuestionNumber: req.QuestionNumber,
		Code:           req.Code,
		Language:       req.Language,
		SubmittedAt:    uc.now(),
		Score:          analysis.QualityRating * 10,
		Analysis:       *analysis,
	}

	if existing, ok := session.SolutionFor(req.QuestionNumber); ok {
		*existing = solution
	} else {
		session.UserSolutions = append(session.UserSolutions, solution)
	}

	if _, err := uc.repo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	ctxzap.Info(ctx, "solution submitted",
		zap.String("session_id", session.ID),
		zap.Int("question_number", req.QuestionNumber),
		zap.Float64("score", solution.Score),
	)

	return &entity.SubmitSolutionResponse{Score: solution.Score, Analysis: *analysis}, nil
}

// CompleteInterview finalizes the session: computes the four-component score
// breakdown, the weighted final score, and overall feedback. A session can be
// completed from either the preliminary or the coding phase.
func (uc *Usecase) CompleteInterview(ctx context.Context, sessionID string) (*entity.CompleteInterviewResponse, error) {
	session, err := uc.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if !session.Status.CanTransitionTo(entity.StatusCompleted) {
		return nil, fmt.Errorf("%w: cannot complete from %q", entity.ErrInvalidSessionStatus, session.Status)
	}

	endedAt := uc.now()

	breakdown := entity.ScoreBreakdown{
		PreliminaryScore:    session.PreliminaryScore,
		CodingScore:         codingScore(session.UserSolutions),
		CodeQualityScore:    codeQualityScore(session.UserSolutions),
		TimeManagementScore: timeManagementScore(session.CodingStartedAt, &endedAt, session.CodingTimeLimit),
	}

	feedback, err := uc.generator.GenerateOverallFeedback(ctx, session.Topic, session.Level, breakdown)
	if err != nil {
		uc.logGenerationFallback(ctx, "overall feedback", err)
		feedback = fallbackOverallFeedback()
	}

	session.Status = entity.StatusCompleted
	session.EndedAt = &endedAt
	if session.StartedAt != nil {
		session.TotalDuration = int64(endedAt.Sub(*session.StartedAt).Seconds())
	}
	session.FinalScore = finalScore(breakdown)
	session.Breakdown = &breakdown
	session.OverallFeedback = feedback.Feedback
	session.Recommendations = feedback.Recommendations

	if _, err := uc.repo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	ctxzap.Info(ctx, "assessment completed",
		zap.String("session_id", session.ID),
		zap.Int("final_score", session.FinalScore),
	)

	return &entity.CompleteInterviewResponse{
		FinalScore:      session.FinalScore,
		Breakdown:       breakdown,
		Feedback:        feedback.Feedback,
		Recommendations: feedback.Recommendations,
	}, nil
}

// CancelSession marks a session cancelled regardless of its current status.
// Cancelling an already-cancelled session is a no-op.
func (uc *Usecase) CancelSession(ctx context.Context, sessionID string) (*entity.AssessmentSession, error) {
	session, err := uc.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Status == entity.StatusCancelled {
		return session, nil
	}

	cancelled, err := uc.repo.UpdateSessionStatus(ctx, sessionID, entity.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("cancel session: %w", err)
	}

	ctxzap.Info(ctx, "assessment cancelled", zap.String("session_id", cancelled.ID))

	return cancelled, nil
}

// GetScorecard builds the read-only result projection of a completed session.
func (uc *Usecase) GetScorecard(ctx context.Context, sessionID string) (*entity.Scorecard, error) {
	session, err := uc.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Status != entity.StatusCompleted {
		return nil, fmt.Errorf("%w: status %q", entity.ErrSessionNotCompleted, session.Status)
	}

	var breakdown entity.ScoreBreakdown
	if session.Breakdown != nil {
		breakdown = *session.Breakdown
	}

	solutions := make([]entity.SolutionSummary, 0, len(session.UserSolutions))
	for _, solution := range session.UserSolutions {
		solutions = append(solutions, entity.SolutionSummary{
			QuestionNumber:  solution.QuestionNumber,
			Score:           solution.Score,
			QualityRating:   solution.Analysis.QualityRating,
			TimeComplexity:  solution.Analysis.TimeComplexity,
			SpaceComplexity: solution.Analysis.SpaceComplexity,
		})
	}

	return &entity.Scorecard{
		SessionID:             session.ID,
		UserID:                session.UserID,
		Topic:                 session.Topic,
		Level:                 session.Level,
		FinalScore:            session.FinalScore,
		Breakdown:             breakdown,
		PreliminaryAnswers:    len(session.PreliminaryAnswers),
		CodingQuestionsSolved: len(session.UserSolutions),
		TotalQuestions:        len(session.CodingQuestions),
		Duration:              session.TotalDuration,
		Feedback:              session.OverallFeedback,
		Recommendations:       session.Recommendations,
		CompletedAt:           session.EndedAt,
		Solutions:             solutions,
	}, nil
}

// ExportScorecard renders a completed session's scorecard in the requested
// document format.
func (uc *Usecase) ExportScorecard(ctx context.Context, sessionID string, format entity.ResultFormat) ([]byte, string, error) {
	scorecard, err := uc.GetScorecard(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	renderer, err := uc.formatters.ForFormat(format)
	if err != nil {
		return nil, "", err
	}

	document, err := renderer.Render(scorecard)
	if err != nil {
		return nil, "", fmt.Errorf("render scorecard: %w", err)
	}

	return document, renderer.ContentType(), nil
}

// logGenerationFallback records that a generation call failed and a local
// substitute was used. An empty-but-successful response logs without cause.
func (uc *Usecase) logGenerationFallback(ctx context.Context, what string, cause error) {
	fields := []zap.Field{zap.String("what", what)}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	ctxzap.Warn(ctx, "generation failed, using fallback", fields...)
}
