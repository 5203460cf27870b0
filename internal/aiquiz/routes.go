package aiquiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts draft generation. Drafting is an admin tool, so guard
// applies to every endpoint when set.
func Routes(h *Handler, guard func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	if guard != nil {
		r.Use(guard)
	}

	r.Post("/", h.GenerateQuestions)
	return r
}
