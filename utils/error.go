package utils

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyDecimal  = errors.New("empty decimal string")
	ErrEmptySheet    = errors.New("sheet has no header or data rows")
	ErrHeaderMissing = errors.New("no recognizable header row found")
)

// ProcessValidationErrors flattens validator output into a field->tag map for
// JSON error responses.
func ProcessValidationErrors(err error) map[string]string {
	errorResponse := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errorResponse["error"] = err.Error()
		return errorResponse
	}

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}
