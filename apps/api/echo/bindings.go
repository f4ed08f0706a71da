package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/revisioncam/core"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required,notblank"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token     string `json:"token"`
		Username  string `json:"username"`
		ExpiresAt string `json:"expiresAt"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	// ImportRequest is filled from the multipart form, not bound.
	ImportRequest struct {
		FileName string `json:"file" validate:"required,csvfile"`
	}

	PreviewRequest struct {
		Enabled *bool `json:"enabled" validate:"required"`
	}

	GoToRequest struct {
		Index *int `json:"index" validate:"required,min=0"`
	}

	FlipRequest struct {
		Flipped *bool `json:"flipped"`
	}

	SelectRequest struct {
		Choice *int `json:"choice" validate:"required,min=0"`
	}
)

func (r *LoginRequest) Validate(validate *validator.Validate) error {
	r.Username = core.CleanString(r.Username, true /* lower */)
	return validate.Struct(r)
}

func (r *ImportRequest) Validate(validate *validator.Validate) error {
	r.FileName = core.CleanFileName(r.FileName)
	return validate.Struct(r)
}

func (r PreviewRequest) Validate(validate *validator.Validate) error { return validate.Struct(r) }
func (r GoToRequest) Validate(validate *validator.Validate) error    { return validate.Struct(r) }
func (r SelectRequest) Validate(validate *validator.Validate) error  { return validate.Struct(r) }
