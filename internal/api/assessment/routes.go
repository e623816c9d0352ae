package assessment

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers assessment session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/assessment", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/user/{user_id}", h.ListUserSessions)
		r.Get("/{id}", h.GetSession)
		r.Post("/{id}/preliminary/start", h.StartPreliminary)
		r.Post("/{id}/preliminary/submit", h.SubmitPreliminaryAnswers)
		r.Post("/{id}/coding/start", h.StartCoding)
		r.Post("/{id}/coding/submit", h.SubmitCodeSolution)
		r.Post("/{id}/complete", h.CompleteInterview)
		r.Post("/{id}/cancel", h.CancelSession)
		r.Get("/{id}/scorecard", h.GetScorecard)
		r.Get("/{id}/scorecard/export", h.ExportScorecard)
	})
}
