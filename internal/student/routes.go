package student

import "github.com/go-chi/chi/v5"

func AuthRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	return r
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/results", h.SaveResult)
	return r
}
