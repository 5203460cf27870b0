package subject

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/prepmate-api/internal/config"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
)

type Handler struct {
	service SubjectService
}

func NewHandler(s SubjectService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	subjects, err := h.service.List(r.Context())
	if err != nil {
		log.WithError(err).Error("error listing subjects")
		config.ServerError(w)
		return
	}

	config.JSON(w, http.StatusOK, ListSubjectsResponse{
		Subjects: subjects,
		Results:  []curriculum.QuizResult{},
	})
}

func (h *Handler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req CreateSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("invalid body for create subject")
		config.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		config.Message(w, http.StatusBadRequest, "Subject id and name are required")
		return
	}

	created, err := h.service.Create(r.Context(), curriculum.Subject{
		ID:       req.ID,
		Name:     req.Name,
		Chapters: req.Chapters,
	})
	if err != nil {
		h.writeError(w, r, err, "error creating subject")
		return
	}

	config.JSON(w, http.StatusOK, created)
}

func (h *Handler) SyncSubject(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id := chi.URLParam(r, "id")
	var req SyncSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("invalid body for sync subject")
		config.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.Sync(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err, "error syncing subject")
		return
	}

	config.JSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		log.WithError(err).Error("error deleting subject")
		config.ServerError(w)
		return
	}

	config.Message(w, http.StatusOK, "Subject removed")
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, ErrSubjectNotFound):
		config.Message(w, http.StatusNotFound, "Subject not found")
	case errors.Is(err, ErrInvalidSubject):
		config.Message(w, http.StatusBadRequest, err.Error())
	default:
		config.WithContext(r.Context()).WithError(err).Error(msg)
		config.ServerError(w)
	}
}
