package upload

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/upload", h.Upload)
	r.Get("/recent", h.Recent)
	r.Delete("/{id}", h.Delete)

	return r
}
