package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"complaintflow/backend/internal/api/handler"
	"complaintflow/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestServer() (*gin.Engine, *handler.Handler) {
	gin.SetMode(gin.TestMode)
	h := handler.NewHandler(nil, nil, []byte("test-secret"), nil)

	r := gin.New()
	r.POST("/auth/token", h.IssueToken)
	r.GET("/whoami", h.ActorAuth(), func(c *gin.Context) {
		v, _ := c.Get("actor")
		c.JSON(http.StatusOK, v.(models.Actor))
	})
	return r, h
}

func issueToken(t *testing.T, r *gin.Engine, body map[string]string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp["token"]
}

func TestTokenRoundTrip(t *testing.T) {
	r, _ := newAuthTestServer()

	w, token := issueToken(t, r, map[string]string{
		"user_id":       "auth-5",
		"role":          "department_authority",
		"department_id": "dept-2",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var actor models.Actor
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actor))
	assert.Equal(t, "auth-5", actor.ID)
	assert.Equal(t, models.RoleAuthority, actor.Role)
	assert.Equal(t, "dept-2", actor.DepartmentID)
}

func TestTokenRejectsUnknownRole(t *testing.T) {
	r, _ := newAuthTestServer()

	w, _ := issueToken(t, r, map[string]string{
		"user_id": "x-1",
		"role":    "dean",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestWithoutTokenIsUnauthorized(t *testing.T) {
	r, _ := newAuthTestServer()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestWithGarbageTokenIsUnauthorized(t *testing.T) {
	r, _ := newAuthTestServer()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
