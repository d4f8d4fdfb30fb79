package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/faculty-locator-api/internal/models"
)

// NewValidator returns a validator with the locator's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return models.IsClock(fl.Field().String())
	})
	return v
}
