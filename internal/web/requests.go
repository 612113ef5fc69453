package web

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps go-playground/validator to implement echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// SendMessageRequest is the form posted by the chat page.
// An empty text is rejected here so no message is created for it.
type SendMessageRequest struct {
	Author string `form:"author" validate:"max=64"`
	Text   string `form:"text" validate:"required,max=2000"`
}
