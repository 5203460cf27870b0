package admin

import "github.com/go-playground/validator/v10"

var validate = validator.New()

type LoginRequest struct {
	Passcode string `json:"passcode"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Msg     string `json:"msg,omitempty"`
}

type UpdatePasscodeRequest struct {
	NewPasscode string `json:"newPasscode" validate:"required,max=72"`
}

type UpdatePasscodeResponse struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}
