package subject

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the subject endpoints. guard wraps the write endpoints and
// may be nil.
func Routes(h *Handler, guard func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListSubjects)
	r.Group(func(r chi.Router) {
		if guard != nil {
			r.Use(guard)
		}
		r.Post("/", h.CreateSubject)
		r.Put("/{id}", h.SyncSubject)
		r.Delete("/{id}", h.DeleteSubject)
	})
	return r
}
