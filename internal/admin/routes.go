package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, guard func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Group(func(r chi.Router) {
		if guard != nil {
			r.Use(guard)
		}
		r.Post("/update-passcode", h.UpdatePasscode)
	})
	return r
}
