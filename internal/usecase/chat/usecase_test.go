package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/placementprep/interview-backend/internal/entity"
	"github.com/placementprep/interview-backend/internal/pkg/validator"
	"go.uber.org/zap"
)

type memoryInterviewRepo struct {
	mu           sync.Mutex
	interviews   map[string]*entity.InterviewSession
	failNextSave bool
}

func newMemoryInterviewRepo() *memoryInterviewRepo {
	return &memoryInterviewRepo{interviews: make(map[string]*entity.InterviewSession)}
}

func (r *memoryInterviewRepo) CreateInterview(_ context.Context, interview *entity.InterviewSession) (*entity.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *interview
	stored.CreatedAt = time.Now()
	r.interviews[interview.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *memoryInterviewRepo) GetInterviewByID(_ context.Context, id string) (*entity.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	interview, ok := r.interviews[id]
	if !ok {
		return nil, entity.ErrInterviewNotFound
	}
	copied := *interview
	return &copied, nil
}

func (r *memoryInterviewRepo) ListInterviewsByUser(_ context.Context, userID string, limit int) ([]*entity.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.InterviewSession, 0)
	for _, interview := range r.interviews {
		if interview.UserID == userID && len(out) < limit {
			copied := *interview
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memoryInterviewRepo) SaveInterview(_ context.Context, interview *entity.InterviewSession) (*entity.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNextSave {
		r.failNextSave = false
		return nil, errors.New("connection reset by peer")
	}
	if _, ok := r.interviews[interview.ID]; !ok {
		return nil, entity.ErrInterviewNotFound
	}
	stored := *interview
	r.interviews[interview.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *memoryInterviewRepo) AppendTranscriptions(_ context.Context, id string, entries []entity.Transcription) (*entity.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	interview, ok := r.interviews[id]
	if !ok {
		return nil, entity.ErrInterviewNotFound
	}
	interview.Transcriptions = append(interview.Transcriptions, entries...)
	copied := *interview
	return &copied, nil
}

type stubChatGenerator struct {
	reply    string
	err      error
	analysis *entity.PerformanceAnalysis
}

func (g *stubChatGenerator) ChatReply(_ context.Context, _ []entity.ChatMessage) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *stubChatGenerator) AnalyzeInterviewPerformance(_ context.Context, _ string, _ entity.Level, _ []entity.Transcription, _ int64) (*entity.PerformanceAnalysis, error) {
	if g.err != nil {
		return nil, g.err
	}
	if g.analysis != nil {
		return g.analysis, nil
	}
	return &entity.PerformanceAnalysis{OverallScore: 72, Grade: "B"}, nil
}

func newChatTestUsecase(generator GenerationConnector) (*Usecase, *memoryInterviewRepo, *Store) {
	repo := newMemoryInterviewRepo()
	store := NewStore(30*time.Minute, false)
	uc := NewUsecase(repo, store, generator, validator.New(), zap.NewNop())
	return uc, repo, store
}

func startedInterview(t *testing.T, uc *Usecase) *entity.InterviewSession {
	t.Helper()
	interview, err := uc.CreateInterview(context.Background(), &entity.CreateInterviewRequest{
		UserID: "user-1",
		Topic:  "Backend Engineer",
		Level:  entity.LevelSenior,
	})
	if err != nil {
		t.Fatalf("CreateInterview: %v", err)
	}
	if _, err := uc.StartInterview(context.Background(), interview.ID); err != nil {
		t.Fatalf("StartInterview: %v", err)
	}
	return interview
}

func TestCreateInterviewDefaultsToProfessionalTone(t *testing.T) {
	uc, _, _ := newChatTestUsecase(&stubChatGenerator{})
	interview, err := uc.CreateInterview(context.Background(), &entity.CreateInterviewRequest{
		UserID: "user-1",
		Topic:  "Backend Engineer",
		Level:  entity.LevelJunior,
	})
	if err != nil {
		t.Fatalf("CreateInterview: %v", err)
	}
	if interview.Tone != entity.ToneProfessional {
		t.Fatalf("tone = %q, want Professional", interview.Tone)
	}
	if interview.Status != entity.InterviewScheduled {
		t.Fatalf("status = %q, want scheduled", interview.Status)
	}
}

func TestStartInterviewSeedsGreetingWithoutGeneration(t *testing.T) {
	uc, _, store := newChatTestUsecase(&stubChatGenerator{err: entity.ErrGenerationUnavailable})

	interview, err := uc.CreateInterview(context.Background(), &entity.CreateInterviewRequest{
		UserID: "user-1",
		Topic:  "Backend Engineer",
		Level:  entity.LevelMid,
	})
	if err != nil {
		t.Fatalf("CreateInterview: %v", err)
	}

	// The greeting is canned, so even a dead backend starts an interview.
	resp, err := uc.StartInterview(context.Background(), interview.ID)
	if err != nil {
		t.Fatalf("StartInterview: %v", err)
	}
	if resp.InitialMessage != initialGreeting {
		t.Fatalf("initial message = %q", resp.InitialMessage)
	}
	if resp.Session.Status != entity.InterviewInProgress {
		t.Fatalf("status = %q, want in-progress", resp.Session.Status)
	}

	history, ok := store.History(interview.ID)
	if !ok {
		t.Fatal("no live history after start")
	}
	if len(history) != 2 || history[0].Role != entity.RoleSystem || history[1].Role != entity.RoleAssistant {
		t.Fatalf("unexpected seeded history: %+v", history)
	}
}

func TestStartInterviewTwiceFails(t *testing.T) {
	uc, _, _ := newChatTestUsecase(&stubChatGenerator{})
	interview := startedInterview(t, uc)

	_, err := uc.StartInterview(context.Background(), interview.ID)
	if !errors.Is(err, entity.ErrInvalidSessionStatus) {
		t.Fatalf("err = %v, want ErrInvalidSessionStatus", err)
	}
}

func TestSendMessageGrowsHistory(t *testing.T) {
	uc, _, store := newChatTestUsecase(&stubChatGenerator{reply: "Tell me about your experience."})
	interview := startedInterview(t, uc)

	resp, err := uc.SendMessage(context.Background(), interview.ID, &entity.ChatRequest{Message: "Hi, I'm Sam."})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if resp.Reply != "Tell me about your experience." {
		t.Fatalf("reply = %q", resp.Reply)
	}

	history, _ := store.History(interview.ID)
	if len(history) != 4 {
		t.Fatalf("history length = %d, want 4 (system, greeting, user, assistant)", len(history))
	}
}

func TestSendMessageWithoutLiveSession(t *testing.T) {
	uc, _, _ := newChatTestUsecase(&stubChatGenerator{})

	_, err := uc.SendMessage(context.Background(), "nope", &entity.ChatRequest{Message: "hello"})
	if !errors.Is(err, entity.ErrInterviewNotFound) {
		t.Fatalf("err = %v, want ErrInterviewNotFound", err)
	}
}

func TestSendMessageRateLimitedAnswersInBand(t *testing.T) {
	generator := &stubChatGenerator{err: entity.ErrRateLimited}
	uc, _, store := newChatTestUsecase(generator)
	interview := startedInterview(t, uc)

	resp, err := uc.SendMessage(context.Background(), interview.ID, &entity.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("SendMessage under rate limit: %v", err)
	}
	if resp.Reply != busyReply {
		t.Fatalf("reply = %q, want busy reply", resp.Reply)
	}

	// The canned reply stays out of the history so a later retry regenerates
	// from the real conversation.
	history, _ := store.History(interview.ID)
	if history[len(history)-1].Role != entity.RoleUser {
		t.Fatalf("last history entry role = %q, want user", history[len(history)-1].Role)
	}
}

func TestSendMessageGenericFailureAnswersInBand(t *testing.T) {
	uc, _, _ := newChatTestUsecase(&stubChatGenerator{err: entity.ErrGenerationUnavailable})
	interview := startedInterview(t, uc)

	resp, err := uc.SendMessage(context.Background(), interview.ID, &entity.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("SendMessage under outage: %v", err)
	}
	if resp.Reply != errorReply {
		t.Fatalf("reply = %q, want generic error reply", resp.Reply)
	}
}

func TestSaveTranscriptionAppends(t *testing.T) {
	uc, repo, _ := newChatTestUsecase(&stubChatGenerator{})
	interview := startedInterview(t, uc)

	if _, err := uc.SaveTranscription(context.Background(), interview.ID, &entity.SaveTranscriptionRequest{
		Speaker: "User", Text: "I have five years of experience.", Timestamp: 100,
	}); err != nil {
		t.Fatalf("SaveTranscription: %v", err)
	}
	saved, err := uc.SaveTranscription(context.Background(), interview.ID, &entity.SaveTranscriptionRequest{
		Speaker: "AI", Text: "Great, tell me more.",
	})
	if err != nil {
		t.Fatalf("second SaveTranscription: %v", err)
	}
	if len(saved.Transcriptions) != 2 {
		t.Fatalf("transcriptions = %d, want 2", len(saved.Transcriptions))
	}
	if saved.Transcriptions[1].Timestamp == 0 {
		t.Fatal("missing timestamp was not defaulted")
	}

	stored, _ := repo.GetInterviewByID(context.Background(), interview.ID)
	if len(stored.Transcriptions) != 2 {
		t.Fatalf("persisted transcriptions = %d, want 2", len(stored.Transcriptions))
	}

	_, err = uc.SaveTranscription(context.Background(), interview.ID, &entity.SaveTranscriptionRequest{
		Speaker: "User", Text: "late entry", Timestamp: -5,
	})
	if !errors.Is(err, entity.ErrInvalidParameter) {
		t.Fatalf("negative timestamp err = %v, want ErrInvalidParameter", err)
	}
}

func TestEndInterviewAnalyzesAndClearsStore(t *testing.T) {
	uc, _, store := newChatTestUsecase(&stubChatGenerator{
		analysis: &entity.PerformanceAnalysis{OverallScore: 88, Grade: "A"},
	})
	interview := startedInterview(t, uc)

	ended, err := uc.EndInterview(context.Background(), interview.ID, &entity.EndInterviewRequest{Feedback: "thanks"})
	if err != nil {
		t.Fatalf("EndInterview: %v", err)
	}
	if ended.Status != entity.InterviewCompleted {
		t.Fatalf("status = %q, want completed", ended.Status)
	}
	if ended.Analysis == nil || ended.Analysis.OverallScore != 88 {
		t.Fatalf("analysis = %+v", ended.Analysis)
	}
	if ended.Feedback != "thanks" {
		t.Fatalf("feedback = %q", ended.Feedback)
	}
	if _, ok := store.History(interview.ID); ok {
		t.Fatal("live history survived EndInterview")
	}
}

func TestSendMessagePersistsTurnPair(t *testing.T) {
	uc, repo, _ := newChatTestUsecase(&stubChatGenerator{reply: "Nice, walk me through your last project."})
	interview := startedInterview(t, uc)

	if _, err := uc.SendMessage(context.Background(), interview.ID, &entity.ChatRequest{Message: "I am a backend developer."}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	stored, err := repo.GetInterviewByID(context.Background(), interview.ID)
	if err != nil {
		t.Fatalf("GetInterviewByID: %v", err)
	}
	if len(stored.Transcriptions) != 2 {
		t.Fatalf("persisted transcriptions = %d, want the User/AI pair", len(stored.Transcriptions))
	}
	if stored.Transcriptions[0].Speaker != "User" || stored.Transcriptions[1].Speaker != "AI" {
		t.Fatalf("unexpected speakers: %q, %q", stored.Transcriptions[0].Speaker, stored.Transcriptions[1].Speaker)
	}
	if stored.Transcriptions[1].Timestamp != stored.Transcriptions[0].Timestamp+1 {
		t.Fatalf("AI timestamp = %d, want user timestamp %d + 1",
			stored.Transcriptions[1].Timestamp, stored.Transcriptions[0].Timestamp)
	}
}

func TestSendMessageFailureLeavesTranscriptUntouched(t *testing.T) {
	uc, repo, _ := newChatTestUsecase(&stubChatGenerator{err: entity.ErrRateLimited})
	interview := startedInterview(t, uc)

	if _, err := uc.SendMessage(context.Background(), interview.ID, &entity.ChatRequest{Message: "hello"}); err != nil {
		t.Fatalf("SendMessage under rate limit: %v", err)
	}

	stored, _ := repo.GetInterviewByID(context.Background(), interview.ID)
	if len(stored.Transcriptions) != 0 {
		t.Fatalf("canned reply leaked into the transcript: %d entries", len(stored.Transcriptions))
	}
}

func TestEndInterviewArchivesGreetingWhenNoTurns(t *testing.T) {
	uc, _, _ := newChatTestUsecase(&stubChatGenerator{
		analysis: &entity.PerformanceAnalysis{OverallScore: 70, Grade: "B"},
	})
	interview := startedInterview(t, uc)

	ended, err := uc.EndInterview(context.Background(), interview.ID, nil)
	if err != nil {
		t.Fatalf("EndInterview: %v", err)
	}
	// the seeded greeting is archived; the system instruction stays out
	if len(ended.Transcriptions) != 1 {
		t.Fatalf("archived transcriptions = %d, want 1", len(ended.Transcriptions))
	}
	if ended.Transcriptions[0].Speaker != "AI" || ended.Transcriptions[0].Text != initialGreeting {
		t.Fatalf("unexpected archived entry: %+v", ended.Transcriptions[0])
	}
}

func TestEndInterviewKeepsConversationWhenSaveFails(t *testing.T) {
	uc, repo, store := newChatTestUsecase(&stubChatGenerator{reply: "Interesting, go on."})
	interview := startedInterview(t, uc)

	if _, err := uc.SendMessage(context.Background(), interview.ID, &entity.ChatRequest{Message: "I build payment systems."}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	repo.failNextSave = true
	if _, err := uc.EndInterview(context.Background(), interview.ID, nil); err == nil {
		t.Fatal("EndInterview succeeded despite the save failure")
	}

	history, ok := store.History(interview.ID)
	if !ok {
		t.Fatal("conversation dropped after the failed save")
	}
	if len(history) != 4 {
		t.Fatalf("history length = %d, want 4 (system, greeting, user, assistant)", len(history))
	}

	ended, err := uc.EndInterview(context.Background(), interview.ID, nil)
	if err != nil {
		t.Fatalf("retried EndInterview: %v", err)
	}
	if ended.Status != entity.InterviewCompleted {
		t.Fatalf("status = %q, want completed", ended.Status)
	}
	if len(ended.Transcriptions) != 2 {
		t.Fatalf("retry lost the chat turns: %d transcript entries, want 2", len(ended.Transcriptions))
	}
	if _, ok := store.History(interview.ID); ok {
		t.Fatal("live history survived the successful retry")
	}
}

func TestEndInterviewFallsBackToNeutralAnalysis(t *testing.T) {
	generator := &stubChatGenerator{}
	uc, _, _ := newChatTestUsecase(generator)
	interview := startedInterview(t, uc)

	generator.err = entity.ErrGenerationUnavailable
	ended, err := uc.EndInterview(context.Background(), interview.ID, nil)
	if err != nil {
		t.Fatalf("EndInterview with broken analyzer: %v", err)
	}
	if ended.Analysis == nil || ended.Analysis.OverallScore != 50 || ended.Analysis.Grade != "C" {
		t.Fatalf("fallback analysis = %+v", ended.Analysis)
	}
}

func TestEndInterviewRequiresInProgress(t *testing.T) {
	uc, _, _ := newChatTestUsecase(&stubChatGenerator{})
	interview, err := uc.CreateInterview(context.Background(), &entity.CreateInterviewRequest{
		UserID: "user-1",
		Topic:  "Backend Engineer",
		Level:  entity.LevelMid,
	})
	if err != nil {
		t.Fatalf("CreateInterview: %v", err)
	}

	_, err = uc.EndInterview(context.Background(), interview.ID, nil)
	if !errors.Is(err, entity.ErrInvalidSessionStatus) {
		t.Fatalf("err = %v, want ErrInvalidSessionStatus", err)
	}
}

func TestActiveCountTracksLiveSessions(t *testing.T) {
	uc, _, _ := newChatTestUsecase(&stubChatGenerator{})
	if uc.ActiveCount() != 0 {
		t.Fatalf("initial active count = %d", uc.ActiveCount())
	}

	first := startedInterview(t, uc)
	startedInterview(t, uc)
	if uc.ActiveCount() != 2 {
		t.Fatalf("active count = %d, want 2", uc.ActiveCount())
	}

	if _, err := uc.EndInterview(context.Background(), first.ID, nil); err != nil {
		t.Fatalf("EndInterview: %v", err)
	}
	if uc.ActiveCount() != 1 {
		t.Fatalf("active count after end = %d, want 1", uc.ActiveCount())
	}
}
