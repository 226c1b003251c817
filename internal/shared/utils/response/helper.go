package response

import (
	"net/http"

	"eventhub/internal/shared/validation"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondValidation writes a 400 with per-field messages when err carries them.
// It reports false when err is not a validation error.
func RespondValidation(c *gin.Context, err error) bool {
	fieldErrs, ok := validation.As(err)
	if !ok {
		return false
	}
	RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, fieldErrs)
	return true
}
