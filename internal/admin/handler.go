package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saulo-duarte/prepmate-api/internal/config"
)

type Handler struct {
	service AdminService
}

func NewHandler(s AdminService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.JSON(w, http.StatusBadRequest, LoginResponse{Success: false, Msg: "Invalid request body"})
		return
	}

	token, err := h.service.Verify(r.Context(), req.Passcode)
	if err != nil {
		if errors.Is(err, ErrInvalidPasscode) {
			log.Warn("admin login with invalid passcode")
			config.JSON(w, http.StatusUnauthorized, LoginResponse{Success: false, Msg: "Invalid passcode"})
			return
		}
		log.WithError(err).Error("error verifying admin passcode")
		config.ServerError(w)
		return
	}

	config.JSON(w, http.StatusOK, LoginResponse{Success: true, Token: token})
}

func (h *Handler) UpdatePasscode(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req UpdatePasscodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		config.Message(w, http.StatusBadRequest, "New passcode is required")
		return
	}

	if err := h.service.UpdatePasscode(r.Context(), req.NewPasscode); err != nil {
		if errors.Is(err, ErrPasscodeTooLong) {
			config.Message(w, http.StatusBadRequest, "Passcode must be at most 72 bytes")
			return
		}
		log.WithError(err).Error("error updating admin passcode")
		config.ServerError(w)
		return
	}

	config.JSON(w, http.StatusOK, UpdatePasscodeResponse{Success: true, Msg: "Passcode updated"})
}
