package student

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saulo-duarte/prepmate-api/internal/config"
)

type Handler struct {
	service StudentService
}

func NewHandler(s StudentService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		config.Message(w, http.StatusBadRequest, "Name, valid email and password are required")
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrStudentExists) {
			config.Message(w, http.StatusBadRequest, "User already exists")
			return
		}
		if errors.Is(err, ErrPasswordTooLong) {
			config.Message(w, http.StatusBadRequest, "Password must be at most 72 bytes")
			return
		}
		log.WithError(err).Error("error registering student")
		config.ServerError(w)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		config.Message(w, http.StatusBadRequest, "Invalid Credentials")
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			config.Message(w, http.StatusBadRequest, "Invalid Credentials")
			return
		}
		log.WithError(err).Error("error logging in student")
		config.ServerError(w)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) SaveResult(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req SaveResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		config.Message(w, http.StatusBadRequest, "Email is required")
		return
	}

	results, err := h.service.SaveResult(r.Context(), req.Email, req.Result)
	if err != nil {
		switch {
		case errors.Is(err, ErrStudentNotFound):
			config.Message(w, http.StatusNotFound, "Student not found")
		case errors.Is(err, ErrInvalidResult):
			config.Message(w, http.StatusBadRequest, err.Error())
		default:
			log.WithError(err).Error("error saving result")
			config.ServerError(w)
		}
		return
	}

	config.JSON(w, http.StatusOK, results)
}
