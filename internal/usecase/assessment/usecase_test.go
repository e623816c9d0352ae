package assessment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/placementprep/interview-backend/internal/entity"
	"github.com/placementprep/interview-backend/internal/pkg/formatter"
	"github.com/placementprep/interview-backend/internal/pkg/validator"
	"go.uber.org/zap"
)

// memoryRepo is an in-memory AssessmentRepository for tests.
type memoryRepo struct {
	mu       sync.Mutex
	sessions map[string]*entity.AssessmentSession
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sessions: make(map[string]*entity.AssessmentSession)}
}

func (r *memoryRepo) CreateSession(_ context.Context, session *entity.AssessmentSession) (*entity.AssessmentSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *session
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.sessions[session.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *memoryRepo) GetSessionByID(_ context.Context, id string) (*entity.AssessmentSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *memoryRepo) ListSessionsByUser(_ context.Context, userID string, limit int) ([]*entity.AssessmentSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.AssessmentSession, 0)
	for _, session := range r.sessions {
		if session.UserID == userID && len(out) < limit {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memoryRepo) SaveSession(_ context.Context, session *entity.AssessmentSession) (*entity.AssessmentSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; !ok {
		return nil, entity.ErrSessionNotFound
	}
	stored := *session
	stored.UpdatedAt = time.Now()
	r.sessions[session.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *memoryRepo) UpdateSessionStatus(_ context.Context, id string, status entity.SessionStatus) (*entity.AssessmentSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	session.Status = status
	copied := *session
	return &copied, nil
}

// stubGenerator returns canned generation results, or fails everything when
// broken is set.
type stubGenerator struct {
	broken            bool
	preliminaryScore  float64
	qualityRating     float64
	feedback          string
	recommendations   []string
	codingQuestionLen int
}

func (g *stubGenerator) fail() error {
	return entity.ErrGenerationUnavailable
}

func (g *stubGenerator) GeneratePreliminaryQuestions(_ context.Context, topic string, _ entity.Level) ([]string, error) {
	if g.broken {
		return nil, g.fail()
	}
	return []string{
		"What is " + topic + "?",
		"How does " + topic + " scale?",
		"Compare " + topic + " with alternatives.",
	}, nil
}

func (g *stubGenerator) GenerateCodingQuestions(_ context.Context, topic string, _ entity.Level, ladder [4]entity.Difficulty) ([]entity.CodingQuestion, error) {
	if g.broken {
		return nil, g.fail()
	}
	n := g.codingQuestionLen
	if n == 0 {
		n = 4
	}
	questions := make([]entity.CodingQuestion, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, entity.CodingQuestion{
			QuestionNumber: i + 1,
			Title:          topic,
			Difficulty:     ladder[i%4],
		})
	}
	return questions, nil
}

func (g *stubGenerator) AnalyzeCodeSolution(_ context.Context, _, _, _ string) (*entity.CodeAnalysis, error) {
	if g.broken {
		return nil, g.fail()
	}
	return &entity.CodeAnalysis{QualityRating: g.qualityRating, TimeComplexity: "O(n)"}, nil
}

func (g *stubGenerator) AnalyzePreliminaryAnswers(_ context.Context, _ string, _ []entity.QuestionAnswer) (*entity.PreliminaryEvaluation, error) {
	if g.broken {
		return nil, g.fail()
	}
	return &entity.PreliminaryEvaluation{Score: g.preliminaryScore, Feedback: "solid answers"}, nil
}

func (g *stubGenerator) GenerateOverallFeedback(_ context.Context, _ string, _ entity.Level, _ entity.ScoreBreakdown) (*entity.OverallFeedback, error) {
	if g.broken {
		return nil, g.fail()
	}
	return &entity.OverallFeedback{Feedback: g.feedback, Recommendations: g.recommendations}, nil
}

func newTestUsecase(generator GenerationConnector) (*Usecase, *memoryRepo) {
	repo := newMemoryRepo()
	uc := NewUsecase(repo, generator, validator.New(), formatter.NewFactory(), zap.NewNop(), 3600)
	return uc, repo
}

func createTestSession(t *testing.T, uc *Usecase) *entity.AssessmentSession {
	t.Helper()
	session, err := uc.CreateSession(context.Background(), &entity.CreateAssessmentRequest{
		UserID: "user-1",
		Topic:  "Binary Trees",
		Level:  entity.LevelMid,
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return session
}

func TestCreateSessionStartsScheduled(t *testing.T) {
	uc, _ := newTestUsecase(&stubGenerator{})
	session := createTestSession(t, uc)

	if session.Status != entity.StatusScheduled {
		t.Fatalf("status = %q, want scheduled", session.Status)
	}
	if session.CodingTimeLimit != 3600 {
		t.Fatalf("coding time limit = %d, want 3600", session.CodingTimeLimit)
	}
}

func TestCreateSessionRejectsUnknownLevel(t *testing.T) {
	uc, _ := newTestUsecase(&stubGenerator{})
	_, err := uc.CreateSession(context.Background(), &entity.CreateAssessmentRequest{
		UserID: "user-1",
		Topic:  "Graphs",
		Level:  "Principal",
	})
	if !errors.Is(err, entity.ErrInvalidParameter) {
		t.Fatalf("err = %v, want ErrInvalidParameter", err)
	}
}

func TestStartPreliminaryAssignsAscendingTimestamps(t *testing.T) {
	uc, _ := newTestUsecase(&stubGenerator{})
	session := createTestSession(t, uc)

	resp, err := uc.StartPreliminary(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("StartPreliminary: %v", err)
	}
	if resp.Session.Status != entity.StatusPreliminary {
		t.Fatalf("status = %q, want preliminary", resp.Session.Status)
	}
	questions := resp.Session.PreliminaryQuestions
	if len(questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(questions))
	}
	for i := 1; i < len(questions); i++ {
		if questions[i].AskedAt <= questions[i-1].AskedAt {
			t.Fatalf("AskedAt not strictly ascending at index %d", i)
		}
	}
}

func TestStartPreliminaryFallsBackToTemplates(t *testing.T) {
	uc, _ := newTestUsecase(&stubGenerator{broken: true})
	session := createTestSession(t, uc)

	resp, err := uc.StartPreliminary(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("StartPreliminary with broken generator: %v", err)
	}
	if len(resp.Questions) != 5 {
		t.Fatalf("fallback questions = %d, want 5", len(resp.Questions))
	}
	if !strings.Contains(resp.Questions[0], "Binary Trees") {
		t.Fatalf("fallback question not parameterized by topic: %q", resp.Questions[0])
	}
}

func TestStartPreliminaryRejectedAfterCodingStarted(t *testing.T) {
	uc, _ := newTestUsecase(&stubGenerator{})
	session := createTestSession(t, uc)

	if _, err := uc.StartCoding(context.Background(), session.ID); err != nil {
		t.Fatalf("StartCoding: %v", err)
	}
	_, err := uc.StartPreliminary(context.Background(), session.ID)
	if !errors.Is(err, entity.ErrInvalidSessionStatus) {
		t.Fatalf("err = %v, want ErrInvalidSessionStatus", err)
	}
}

func TestSubmitPreliminaryStoresScore(t *testing.T) {
	uc, repo := newTestUsecase(&stubGenerator{preliminaryScore: 85})
	session := createTestSession(t, uc)

	if _, err := uc.StartPreliminary(context.Background(), session.ID); err != nil {
		t.Fatalf("StartPreliminary: %v", err)
	}

	resp, err := uc.SubmitPreliminaryAnswers(context.Background(), session.ID, &entity.SubmitPreliminaryRequest{
		Answers: []entity.SubmittedAnswer{{Question: "What is a tree?", Answer: "A hierarchy", Timestamp: 1}},
	})
	if err != nil {
		t.Fatalf("SubmitPreliminaryAnswers: %v", err)
	}
	if resp.Score != 85 {
		t.Fatalf("score = %v, want 85", resp.Score)
	}

	stored, _ := repo.GetSessionByID(context.Background(), session.ID)
	if stored.PreliminaryScore != 85 {
		t.Fatalf("persisted score = %v, want 85", stored.PreliminaryScore)
	}
	if stored.PreliminaryEndedAt == nil {
		t.Fatal("PreliminaryEndedAt not set")
	}
}

func TestSubmitPreliminaryRequiresPreliminaryPhase(t *testing.T) {
	uc, _ := newTestUsecase(&stubGenerator{})
	session := createTestSession(t, uc)

	_, err := uc.SubmitPreliminaryAnswers(context.Background(), session.ID, &entity.SubmitPreliminaryRequest{
		Answers: []entity.SubmittedAnswer{{Question: "q", Answer: "a"}},
	})
	if !errors.Is(err, entity.ErrInvalidSessionStatus) {
		t.Fatalf("err = %v, want ErrInvalidSessionStatus", err)
	}
}

func TestStartCodingDirectlyFromScheduled(t *testing.T) {
	uc, repo := newTestUsecase(&stubGenerator{})
	session := createTestSession(t, uc)

	resp, err := uc.StartCoding(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("StartCoding: %v", err)
	}
	if len(resp.Questions) != 4 {
		t.Fatalf("questions = %d, want 4", len(resp.Questions))
	}

	stored, _ := repo.GetSessionByID(context.Background(), session.ID)
	if stored.Status != entity.StatusCoding {
		t.Fatalf("status = %q, want coding", stored.Status)
	}
	if stored.StartedAt == nil || stored.CodingStartedAt == nil {
		t.Fatal("phase timestamps not set when skipping preliminary")
	}
}

func TestStartCodingFallbackFollowsDifficultyLadder(t *testing.T) {
	uc, _ := newTestUsecase(&stubGenerator{broken: true})
	session := createTestSession(t, uc)

	resp, err := uc.StartCoding(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("StartCoding with broken generator: %v", err)
	}
	want := entity.DifficultyLadder(entity.LevelMid)
	for i, question := range resp.Questions {
		if question.Difficulty != want[i] {
			t.Fatalf("question %d difficulty = %q, want %q", i+1, question.Difficulty, want[i])
		}
		if len(question.TestCases) == 0 {
			t.Fatalf("question %d has no test cases", i+1)
		}
	}
}

func TestSubmitSolutionReplacesEarlierSubmission(t *testing.T) {
	uc, repo := newTestUsecase(&stubGenerator{qualityRating: 6})
	session := createTestSession(t, uc)

	if _, err := uc.StartCoding(context.Background(), session.ID); err != nil {
		t.Fatalf("StartCoding: %v", err)
	}

	first, err := uc.SubmitCodeSolution(context.Background(), session.ID, &entity.SubmitSolutionRequest{
		QuestionNumber: 2, Code: "def solve(): pass", Language: "python",
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if first.Score != 60 {
		t.Fatalf("score = %v, want 60 (rating*10)", first.Score)
	}

	if _, err := uc.SubmitCodeSolution(context.Background(), session.ID, &entity.SubmitSolutionRequest{
		QuestionNumber: 2, Code: "def solve(): return 1", Language: "python",
	}); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	stored, _ := repo.GetSessionByID(context.Background(), session.ID)
	if len(stored.UserSolutions) != 1 {
		t.Fatalf("solutions = %d, want 1 after resubmission", len(stored.UserSolutions))
	}
	if !strings.Contains(stored.UserSolutions[0].Code, "return 1") {
		t.Fatal("resubmission did not replace the stored code")
	}
}

func TestSubmitSolutionUnknownQuestion(t *testing.T) {
	uc, _ := newTestUsecase(&stubGenerator{})
	session := createTestSession(t, uc)

	if _, err := uc.StartCoding(context.Background(), session.ID); err != nil {
		t.Fatalf("StartCoding: %v", err)
	}

	_, err := uc.SubmitCodeSolution(context.Background(), session.ID, &entity.SubmitSolutionRequest{
		QuestionNumber: 99, Code: "x", Language: "go",
	})
	if !errors.Is(err, entity.ErrQuestionNotFound) {
		t.Fatalf("err = %v, want ErrQuestionNotFound", err)
	}
}

func TestSubmitSolutionNeutralAnalysisOnFailure(t *testing.T) {
	working := &stubGenerator{qualityRating: 8}
	uc, _ := newTestUsecase(working)
	session := createTestSession(t, uc)

	if _, err := uc.StartCoding(context.Background(), session.ID); err != nil {
		t.Fatalf("StartCoding: %v", err)
	}

	working.broken = true
	resp, err := uc.SubmitCodeSolution(context.Background(), session.ID, &entity.SubmitSolutionRequest{
		QuestionNumber: 1, Code: "x", Language: "go",
	})
	if err != nil {
		t.Fatalf("submit with broken analyzer: %v", err)
	}
	if resp.Score != 50 {
		t.Fatalf("neutral score = %v, want 50", resp.Score)
	}
	if resp.Analysis.QualityRating != 5 {
		t.Fatalf("neutral rating = %v, want 5", resp.Analysis.QualityRating)
	}
}

func TestCompleteInterviewComputesWeightedScore(t *testing.T) {
	generator := &stubGenerator{preliminaryScore: 80, qualityRating: 9, feedback: "well done", recommendations: []string{"keep going"}}
	uc, repo := newTestUsecase(generator)
	session := createTestSession(t, uc)

	start := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return start }

	if _, err := uc.StartPreliminary(context.Background(), session.ID); err != nil {
		t.Fatalf("StartPreliminary: %v", err)
	}
	if _, err := uc.SubmitPreliminaryAnswers(context.Background(), session.ID, &entity.SubmitPreliminaryRequest{
		Answers: []entity.SubmittedAnswer{{Question: "q", Answer: "a"}},
	}); err != nil {
		t.Fatalf("SubmitPreliminaryAnswers: %v", err)
	}
	if _, err := uc.StartCoding(context.Background(), session.ID); err != nil {
		t.Fatalf("StartCoding: %v", err)
	}
	if _, err := uc.SubmitCodeSolution(context.Background(), session.ID, &entity.SubmitSolutionRequest{
		QuestionNumber: 1, Code: "x", Language: "go",
	}); err != nil {
		t.Fatalf("SubmitCodeSolution: %v", err)
	}

	// Finish well inside the one-hour limit.
	uc.now = func() time.Time { return start.Add(20 * time.Minute) }

	resp, err := uc.CompleteInterview(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("CompleteInterview: %v", err)
	}

	// 80*0.2 + 90*0.5 + 90*0.2 + 100*0.1 = 16 + 45 + 18 + 10 = 89
	if resp.FinalScore != 89 {
		t.Fatalf("final score = %d, want 89", resp.FinalScore)
	}
	if resp.Breakdown.TimeManagementScore != 100 {
		t.Fatalf("time management = %v, want 100", resp.Breakdown.TimeManagementScore)
	}

	stored, _ := repo.GetSessionByID(context.Background(), session.ID)
	if stored.Status != entity.StatusCompleted {
		t.Fatalf("status = %q, want completed", stored.Status)
	}
	if stored.TotalDuration != 1200 {
		t.Fatalf("total duration = %d, want 1200", stored.TotalDuration)
	}
	if stored.OverallFeedback != "well done" {
		t.Fatalf("feedback = %q", stored.OverallFeedback)
	}
}

func TestCompleteInterviewTwiceFails(t *testing.T) {
	uc, _ := newTestUsecase(&stubGenerator{})
	session := createTestSession(t, uc)

	if _, err := uc.StartCoding(context.Background(), session.ID); err != nil {
		t.Fatalf("StartCoding: %v", err)
	}
	if _, err := uc.CompleteInterview(context.Background(), session.ID); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	_, err := uc.CompleteInterview(context.Background(), session.ID)
	if !errors.Is(err, entity.ErrInvalidSessionStatus) {
		t.Fatalf("err = %v, want ErrInvalidSessionStatus", err)
	}
}

func TestCancelSessionIsIdempotentAndUnconditional(t *testing.T) {
	uc, _ := newTestUsecase(&stubGenerator{})
	session := createTestSession(t, uc)

	if _, err := uc.StartCoding(context.Background(), session.ID); err != nil {
		t.Fatalf("StartCoding: %v", err)
	}
	if _, err := uc.CompleteInterview(context.Background(), session.ID); err != nil {
		t.Fatalf("CompleteInterview: %v", err)
	}

	// Cancellation overrides even a completed session.
	cancelled, err := uc.CancelSession(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("CancelSession: %v", err)
	}
	if cancelled.Status != entity.StatusCancelled {
		t.Fatalf("status = %q, want cancelled", cancelled.Status)
	}

	again, err := uc.CancelSession(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if again.Status != entity.StatusCancelled {
		t.Fatalf("second cancel status = %q", again.Status)
	}
}

func TestGetScorecardRequiresCompletion(t *testing.T) {
	uc, _ := newTestUsecase(&stubGenerator{})
	session := createTestSession(t, uc)

	_, err := uc.GetScorecard(context.Background(), session.ID)
	if !errors.Is(err, entity.ErrSessionNotCompleted) {
		t.Fatalf("err = %v, want ErrSessionNotCompleted", err)
	}
}

func TestGetScorecardCounts(t *testing.T) {
	uc, _ := newTestUsecase(&stubGenerator{preliminaryScore: 70, qualityRating: 8})
	session := createTestSession(t, uc)

	if _, err := uc.StartPreliminary(context.Background(), session.ID); err != nil {
		t.Fatalf("StartPreliminary: %v", err)
	}
	if _, err := uc.SubmitPreliminaryAnswers(context.Background(), session.ID, &entity.SubmitPreliminaryRequest{
		Answers: []entity.SubmittedAnswer{
			{Question: "q1", Answer: "a1"},
			{Question: "q2", Answer: "a2"},
		},
	}); err != nil {
		t.Fatalf("SubmitPreliminaryAnswers: %v", err)
	}
	if _, err := uc.StartCoding(context.Background(), session.ID); err != nil {
		t.Fatalf("StartCoding: %v", err)
	}
	if _, err := uc.SubmitCodeSolution(context.Background(), session.ID, &entity.SubmitSolutionRequest{
		QuestionNumber: 1, Code: "x", Language: "go",
	}); err != nil {
		t.Fatalf("SubmitCodeSolution: %v", err)
	}
	if _, err := uc.CompleteInterview(context.Background(), session.ID); err != nil {
		t.Fatalf("CompleteInterview: %v", err)
	}

	scorecard, err := uc.GetScorecard(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("GetScorecard: %v", err)
	}
	if scorecard.PreliminaryAnswers != 2 {
		t.Fatalf("preliminary answers = %d, want 2", scorecard.PreliminaryAnswers)
	}
	if scorecard.CodingQuestionsSolved != 1 || scorecard.TotalQuestions != 4 {
		t.Fatalf("solved/total = %d/%d, want 1/4", scorecard.CodingQuestionsSolved, scorecard.TotalQuestions)
	}
	if len(scorecard.Solutions) != 1 {
		t.Fatalf("solution summaries = %d, want 1", len(scorecard.Solutions))
	}
}

func TestExportScorecardMarkdown(t *testing.T) {
	uc, _ := newTestUsecase(&stubGenerator{qualityRating: 7, feedback: "nice"})
	session := createTestSession(t, uc)

	if _, err := uc.StartCoding(context.Background(), session.ID); err != nil {
		t.Fatalf("StartCoding: %v", err)
	}
	if _, err := uc.CompleteInterview(context.Background(), session.ID); err != nil {
		t.Fatalf("CompleteInterview: %v", err)
	}

	document, contentType, err := uc.ExportScorecard(context.Background(), session.ID, entity.FormatMarkdown)
	if err != nil {
		t.Fatalf("ExportScorecard: %v", err)
	}
	if !strings.HasPrefix(contentType, "text/markdown") {
		t.Fatalf("content type = %q", contentType)
	}
	if !strings.Contains(string(document), "Binary Trees") {
		t.Fatal("rendered scorecard missing topic")
	}
}

func TestGetSessionNotFound(t *testing.T) {
	uc, _ := newTestUsecase(&stubGenerator{})
	_, err := uc.GetSession(context.Background(), "missing")
	if !errors.Is(err, entity.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}
