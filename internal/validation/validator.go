package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator to integrate with Gin.
type Validator struct {
	v *validator.Validate
}

// FieldError is one failed validation rule, keyed by struct field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// ValidateStruct validates payload and, on failure, writes a 400 response
// with per-field errors and returns false.
func (v *Validator) ValidateStruct(ctx *gin.Context, payload any) bool {
	err := v.v.Struct(payload)
	if err == nil {
		return true
	}

	var fields []FieldError
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.StructField(), Message: fe.Error()})
		}
	}
	ctx.JSON(http.StatusBadRequest, gin.H{
		"message": "Something is missing",
		"success": false,
		"errors":  fields,
	})
	return false
}
