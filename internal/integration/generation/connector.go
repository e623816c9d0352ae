package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/placementprep/interview-backend/internal/config"
	"github.com/placementprep/interview-backend/internal/entity"
	pkghttp "github.com/placementprep/interview-backend/pkg/http"
	"go.uber.org/zap"
)

// Connector talks to an OpenAI-compatible chat-completions service and maps
// its free-text replies into the structured payloads the use cases need.
// Failures are classified, never retried: callers substitute documented
// fallback values instead.
type Connector struct {
	config    config.GenerationConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(cfg config.GenerationConnectorConfig, logger *zap.Logger) *Connector {
	connCfg := &pkghttp.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return &Connector{
		connector: pkghttp.NewConnector(
			connCfg,
			pkghttp.WithRequestTimeout(cfg.RequestTimeout),
			pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
			pkghttp.WithClientKeepAlive(cfg.KeepAlive),
			pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
			pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
			pkghttp.WithRequestLogging(),
			pkghttp.WithAuthToken(cfg.Token),
		),
		config: cfg,
		logger: logger,
	}
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string              `json:"model"`
	Messages    []completionMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
}

// complete performs one chat-completions round trip and returns the first
// choice's content.
func (c *Connector) complete(ctx context.Context, messages []completionMessage, temperature float64) (string, error) {
	req := completionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	var resp completionResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.CompletionsEndpoint, req, &resp); err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", entity.ErrGenerationUnavailable)
	}

	return resp.Choices[0].Message.Content, nil
}

// prompt is a convenience wrapper for single-user-message completions.
func (c *Connector) prompt(ctx context.Context, text string, temperature float64) (string, error) {
	return c.complete(ctx, []completionMessage{{Role: "user", Content: text}}, temperature)
}

// classify maps transport failures onto the domain error taxonomy. A 429 is
// distinguished so the chat path can answer with its dedicated canned reply.
func classify(err error) error {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", entity.ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %v", entity.ErrGenerationUnavailable, err)
}

// GeneratePreliminaryQuestions asks for 5 theory questions on the topic.
func (c *Connector) GeneratePreliminaryQuestions(ctx context.Context, topic string, level entity.Level) ([]string, error) {
	ctxzap.Info(ctx, "generating preliminary questions",
		zap.String("topic", topic),
		zap.String("level", string(level)),
	)

	raw, err := c.prompt(ctx, preliminaryQuestionsPrompt(topic, level), 0.7)
	if err != nil {
		return nil, err
	}

	var questions []string
	if err := UnmarshalArray(raw, &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrGenerationUnavailable, err)
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions in payload", entity.ErrGenerationUnavailable)
	}

	ctxzap.Info(ctx, "preliminary questions generated", zap.Int("count", len(questions)))

	return questions, nil
}

// GenerateCodingQuestions asks for 4 coding challenges sized per the ladder.
func (c *Connector) GenerateCodingQuestions(ctx context.Context, topic string, level entity.Level, ladder [4]entity.Difficulty) ([]entity.CodingQuestion, error) {
	ctxzap.Info(ctx, "generating coding questions",
		zap.String("topic", topic),
		zap.String("level", string(level)),
	)

	raw, err := c.prompt(ctx, codingQuestionsPrompt(topic, level, ladder), 0.8)
	if err != nil {
		return nil, err
	}

	var questions []entity.CodingQuestion
	if err := UnmarshalArray(raw, &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrGenerationUnavailable, err)
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions in payload", entity.ErrGenerationUnavailable)
	}

	ctxzap.Info(ctx, "coding questions generated", zap.Int("count", len(questions)))

	return questions, nil
}

// AnalyzeCodeSolution reviews one submitted solution.
func (c *Connector) AnalyzeCodeSolution(ctx context.Context, questionDescription, code, language string) (*entity.CodeAnalysis, error) {
	ctxzap.Info(ctx, "analyzing code solution", zap.String("language", language))

	raw, err := c.prompt(ctx, codeAnalysisPrompt(questionDescription, code, language), 0.5)
	if err != nil {
		return nil, err
	}

	var analysis entity.CodeAnalysis
	if err := UnmarshalObject(raw, &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrGenerationUnavailable, err)
	}

	return &analysis, nil
}

// AnalyzePreliminaryAnswers scores the preliminary Q&A phase 0-100.
func (c *Connector) AnalyzePreliminaryAnswers(ctx context.Context, topic string, pairs []entity.QuestionAnswer) (*entity.PreliminaryEvaluation, error) {
	ctxzap.Info(ctx, "analyzing preliminary answers", zap.Int("pairs", len(pairs)))

	raw, err := c.prompt(ctx, preliminaryAnalysisPrompt(topic, pairs), 0.5)
	if err != nil {
		return nil, err
	}

	var eval entity.PreliminaryEvaluation
	if err := UnmarshalObject(raw, &eval); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrGenerationUnavailable, err)
	}

	return &eval, nil
}

// GenerateOverallFeedback summarizes a completed assessment from its four
// component scores.
func (c *Connector) GenerateOverallFeedback(ctx context.Context, topic string, level entity.Level, breakdown entity.ScoreBreakdown) (*entity.OverallFeedback, error) {
	ctxzap.Info(ctx, "generating overall feedback", zap.String("topic", topic))

	raw, err := c.prompt(ctx, overallFeedbackPrompt(topic, level, breakdown), 0.6)
	if err != nil {
		return nil, err
	}

	var feedback entity.OverallFeedback
	if err := UnmarshalObject(raw, &feedback); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrGenerationUnavailable, err)
	}

	return &feedback, nil
}

// ChatReply continues a conversational interview given its full history.
func (c *Connector) ChatReply(ctx context.Context, history []entity.ChatMessage) (string, error) {
	ctxzap.Debug(ctx, "requesting chat reply", zap.Int("history_len", len(history)))

	messages := make([]completionMessage, 0, len(history))
	for _, m := range history {
		messages = append(messages, completionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	return c.complete(ctx, messages, c.config.Temperature)
}

// AnalyzeInterviewPerformance evaluates a finished conversational interview
// from its transcript.
func (c *Connector) AnalyzeInterviewPerformance(ctx context.Context, topic string, level entity.Level, transcript []entity.Transcription, duration int64) (*entity.PerformanceAnalysis, error) {
	ctxzap.Info(ctx, "analyzing interview performance",
		zap.String("topic", topic),
		zap.Int("exchanges", len(transcript)),
	)

	raw, err := c.prompt(ctx, performanceAnalysisPrompt(topic, level, transcript, duration), 0.5)
	if err != nil {
		return nil, err
	}

	var analysis entity.PerformanceAnalysis
	if err := UnmarshalObject(raw, &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrGenerationUnavailable, err)
	}

	return &analysis, nil
}
