package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventhub/internal/shared/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondJSON_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondJSON(c, "success", http.StatusCreated, "created", gin.H{"id": "1"}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)

	var body StandardApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, http.StatusCreated, body.StatusCode)
	assert.Nil(t, body.Errors)
}

func TestRespondValidation(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handled := RespondValidation(c, validation.Errors{"quantity": "must be greater than 0"})
	require.True(t, handled)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity":"must be greater than 0"`)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	assert.False(t, RespondValidation(c, errors.New("boom")))
}
