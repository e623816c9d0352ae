package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers conversational interview routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/interview", func(r chi.Router) {
		r.Post("/", h.CreateInterview)
		r.Get("/active-count", h.ActiveCount)
		r.Get("/user/{user_id}", h.ListUserInterviews)
		r.Get("/{id}", h.GetInterview)
		r.Post("/{id}/start", h.StartInterview)
		r.Post("/{id}/chat", h.SendMessage)
		r.Post("/{id}/transcription", h.SaveTranscription)
		r.Post("/{id}/end", h.EndInterview)
	})
}
