package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saulo-duarte/prepmate-api/internal/admin"
	"github.com/saulo-duarte/prepmate-api/internal/aiquiz"
	"github.com/saulo-duarte/prepmate-api/internal/auth"
	"github.com/saulo-duarte/prepmate-api/internal/middlewares"
	"github.com/saulo-duarte/prepmate-api/internal/student"
	"github.com/saulo-duarte/prepmate-api/internal/subject"
)

const APIPrefix = "/api"

type RouterConfig struct {
	SubjectHandler *subject.Handler
	StudentHandler *student.Handler
	AdminHandler   *admin.Handler
	AIQuizHandler  *aiquiz.Handler

	CORSOrigins       []string
	RequireAdminToken bool
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware(cfg.CORSOrigins))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("PrepMate API is running"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var guard func(http.Handler) http.Handler
	if cfg.RequireAdminToken {
		guard = auth.RequireAdmin
	}

	r.Route(APIPrefix, func(r chi.Router) {
		r.Mount("/subjects", subject.Routes(cfg.SubjectHandler, guard))
		r.Mount("/auth", student.AuthRoutes(cfg.StudentHandler))
		r.Mount("/student", student.Routes(cfg.StudentHandler))
		r.Mount("/admin", admin.Routes(cfg.AdminHandler, guard))

		if cfg.AIQuizHandler != nil {
			r.Mount("/ai-questions", aiquiz.Routes(cfg.AIQuizHandler, guard))
		}
	})
	return r
}
