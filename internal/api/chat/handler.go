package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/placementprep/interview-backend/internal/entity"
	"github.com/placementprep/interview-backend/internal/pkg/logger"
	"github.com/placementprep/interview-backend/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	usecase InterviewUsecase
}

func NewHandler(usecase InterviewUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// CreateInterview handles POST /interview - register a new interview
func (h *Handler) CreateInterview(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateInterview")

	var req entity.CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	interview, err := h.usecase.CreateInterview(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, interview)
}

// GetInterview handles GET /interview/{id}
func (h *Handler) GetInterview(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("interview_id", interviewID),
		zap.String("action", "GetInterview"),
	)

	interview, err := h.usecase.GetInterview(ctx, interviewID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, interview)
}

// ListUserInterviews handles GET /interview/user/{user_id}
func (h *Handler) ListUserInterviews(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("user_id", userID),
		zap.String("action", "ListUserInterviews"),
	)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "invalid limit", err)
			return
		}
		limit = parsed
	}

	interviews, err := h.usecase.ListUserInterviews(ctx, userID, limit)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, map[string]any{
		"interviews": interviews,
		"total":      len(interviews),
	})
}

// StartInterview handles POST /interview/{id}/start
func (h *Handler) StartInterview(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("interview_id", interviewID),
		zap.String("action", "StartInterview"),
	)

	resp, err := h.usecase.StartInterview(ctx, interviewID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// SendMessage handles POST /interview/{id}/chat
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("interview_id", interviewID),
		zap.String("action", "SendMessage"),
	)

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resp, err := h.usecase.SendMessage(ctx, interviewID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// SaveTranscription handles POST /interview/{id}/transcription
func (h *Handler) SaveTranscription(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("interview_id", interviewID),
		zap.String("action", "SaveTranscription"),
	)

	var req entity.SaveTranscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	interview, err := h.usecase.SaveTranscription(ctx, interviewID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, interview)
}

// EndInterview handles POST /interview/{id}/end
func (h *Handler) EndInterview(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("interview_id", interviewID),
		zap.String("action", "EndInterview"),
	)

	// The body is optional: ending without feedback is legal.
	var req entity.EndInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	interview, err := h.usecase.EndInterview(ctx, interviewID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, interview)
}

// ActiveCount handles GET /interview/active-count
func (h *Handler) ActiveCount(w http.ResponseWriter, r *http.Request) {
	response.Success(w, entity.ActiveSessionsResponse{ActiveSessions: h.usecase.ActiveCount()})
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	response.JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrInterviewNotFound) {
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	} else if errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrMissingField) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else if errors.Is(err, entity.ErrInvalidSessionStatus) {
		h.respondError(ctx, w, http.StatusConflict, "invalid session state", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
