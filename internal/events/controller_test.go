package events

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventhub/internal/shared/middleware"
	"eventhub/internal/users"
	"eventhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withIdentity stands in for the JWT middleware.
func withIdentity(userID uuid.UUID, role users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID.String())
		c.Set(middleware.ContextUserRole, string(role))
		c.Next()
	}
}

func setupRouter(f *fixture, userID uuid.UUID, role users.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctrl := NewController(f.svc, logger.Discard())
	r.Use(withIdentity(userID, role))
	r.GET("/events", ctrl.GetAllEvents)
	r.GET("/events/:id", ctrl.GetEvent)
	r.GET("/events/:id/countdown", ctrl.GetCountdown)
	r.PUT("/events/:id", ctrl.UpdateEvent)
	return r
}

func TestController_UpdateFinishedEventStatus(t *testing.T) {
	f := newFixture()
	resp := f.create(t)
	id := uuid.MustParse(resp.ID)
	f.repo.events[id].Status = StatusFinished

	r := setupRouter(f, f.organizer, users.RoleOrganizer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/events/"+resp.ID, bytes.NewBufferString(`{"status":"ACTIVE"}`)))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestController_UpdateByStranger(t *testing.T) {
	f := newFixture()
	resp := f.create(t)

	r := setupRouter(f, uuid.New(), users.RoleOrganizer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/events/"+resp.ID, bytes.NewBufferString(`{"title":"Otro"}`)))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestController_CountdownForbiddenToOrganizers(t *testing.T) {
	f := newFixture()
	resp := f.create(t)

	r := setupRouter(f, f.organizer, users.RoleOrganizer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/"+resp.ID+"/countdown", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	r = setupRouter(f, uuid.New(), users.RoleUser)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/"+resp.ID+"/countdown", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data Countdown `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.GreaterOrEqual(t, body.Data.Days, 1)
}

func TestController_GetEvent(t *testing.T) {
	f := newFixture()
	resp := f.create(t)
	r := setupRouter(f, uuid.New(), users.RoleUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/"+resp.ID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestController_ListMine(t *testing.T) {
	f := newFixture()
	f.create(t)
	r := setupRouter(f, uuid.New(), users.RoleOrganizer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?mine=true", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []EventResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Data)
}
