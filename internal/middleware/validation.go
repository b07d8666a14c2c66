package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Request-shape validation for the typed child-record endpoints. This layer
// only enforces that a submitted record carries all of its declared fields;
// the domain rules (year range, minimum age, zip format) live solely in the
// rules package and run at validation/quote time.
type RequestShapeValidator struct {
	validate *validator.Validate
}

func NewRequestShapeValidator() *RequestShapeValidator {
	return &RequestShapeValidator{validate: validator.New()}
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type BadRequestErrorResponse struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details"`
}

func (v *RequestShapeValidator) ValidateRequest(obj any) []ValidationError {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	var validationErrors []ValidationError
	for _, err := range err.(validator.ValidationErrors) {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: shapeErrorMsg(err),
			Type:    err.Tag(),
		})
	}

	return validationErrors
}

func shapeErrorMsg(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "oneof":
		return "Must be one of: " + err.Param()
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	default:
		return "Invalid value"
	}
}

func RespondWithValidationError(c *gin.Context, validationErrors []ValidationError) {
	c.JSON(http.StatusBadRequest, BadRequestErrorResponse{
		Error:   "Invalid request data",
		Details: validationErrors,
	})
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"error": message,
	})
}
