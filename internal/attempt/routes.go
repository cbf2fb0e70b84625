package attempt

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes serves attempt history. Submission is mounted under the quiz
// router through Handler.Submit.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.History)
	r.Get("/{id}", h.Detail)

	return r
}
