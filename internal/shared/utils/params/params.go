package params

import (
	"net/http"

	"eventhub/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UUID reads a path parameter as a UUID, writing a 400 when it is malformed.
func UUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid "+name, nil, map[string]string{name: "must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}
