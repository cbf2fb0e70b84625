package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes expects submit to handle POST /{id}/submit, which lives with attempts.
func Routes(h *Handler, submit http.HandlerFunc) http.Handler {
	r := chi.NewRouter()

	r.Post("/generate", h.GenerateQuiz)
	r.Get("/", h.ListQuizzes)
	r.Get("/{id}", h.GetQuiz)
	r.Get("/{id}/status", h.GetQuizStatus)
	r.Delete("/{id}", h.DeleteQuiz)
	if submit != nil {
		r.Post("/{id}/submit", submit)
	}

	return r
}
