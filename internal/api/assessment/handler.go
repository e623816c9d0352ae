package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
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
	usecase AssessmentUsecase
}

func NewHandler(usecase AssessmentUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// CreateSession handles POST /assessment - register a new assessment
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	var req entity.CreateAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	session, err := h.usecase.CreateSession(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, session)
}

// GetSession handles GET /assessment/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", chi.URLParam(r, "id")),
		zap.String("action", "GetSession"),
	)

	session, err := h.usecase.GetSession(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, session)
}

// ListUserSessions handles GET /assessment/user/{user_id}
func (h *Handler) ListUserSessions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("user_id", userID),
		zap.String("action", "ListUserSessions"),
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

	sessions, err := h.usecase.ListUserSessions(ctx, userID, limit)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionListResponse(sessions))
}

// StartPreliminary handles POST /assessment/{id}/preliminary/start
func (h *Handler) StartPreliminary(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "StartPreliminary"),
	)

	resp, err := h.usecase.StartPreliminary(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// SubmitPreliminaryAnswers handles POST /assessment/{id}/preliminary/submit
func (h *Handler) SubmitPreliminaryAnswers(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "SubmitPreliminaryAnswers"),
	)

	var req entity.SubmitPreliminaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resp, err := h.usecase.SubmitPreliminaryAnswers(ctx, sessionID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// StartCoding handles POST /assessment/{id}/coding/start
func (h *Handler) StartCoding(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "StartCoding"),
	)

	resp, err := h.usecase.StartCoding(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// SubmitCodeSolution handles POST /assessment/{id}/coding/submit
func (h *Handler) SubmitCodeSolution(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "SubmitCodeSolution"),
	)

	var req entity.SubmitSolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resp, err := h.usecase.SubmitCodeSolution(ctx, sessionID, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// CompleteInterview handles POST /assessment/{id}/complete
func (h *Handler) CompleteInterview(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "CompleteInterview"),
	)

	resp, err := h.usecase.CompleteInterview(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// CancelSession handles POST /assessment/{id}/cancel
func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "CancelSession"),
	)

	session, err := h.usecase.CancelSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, session)
}

// GetScorecard handles GET /assessment/{id}/scorecard
func (h *Handler) GetScorecard(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "GetScorecard"),
	)

	scorecard, err := h.usecase.GetScorecard(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, scorecard)
}

// ExportScorecard handles GET /assessment/{id}/scorecard/export?format=pdf
func (h *Handler) ExportScorecard(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "ExportScorecard"),
	)

	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}

	document, contentType, err := h.usecase.ExportScorecard(ctx, sessionID, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=scorecard-%s", sessionID))
	w.WriteHeader(http.StatusOK)
	w.Write(document)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	response.JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrSessionNotFound) || errors.Is(err, entity.ErrQuestionNotFound) {
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	} else if errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrMissingField) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else if errors.Is(err, entity.ErrInvalidSessionStatus) || errors.Is(err, entity.ErrSessionNotCompleted) {
		h.respondError(ctx, w, http.StatusConflict, "invalid session state", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
