package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smartgriev/backend/internal/api"
	"smartgriev/backend/internal/api/handler"
	"smartgriev/backend/internal/auth"
	"smartgriev/backend/internal/complaint"
	"smartgriev/backend/internal/idgen"
	"smartgriev/backend/internal/metrics"
	"smartgriev/backend/internal/models"
	"smartgriev/backend/internal/nlp"
	"smartgriev/backend/internal/notification"
	"smartgriev/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router *gin.Engine
	store  *storage.MemoryStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStorage()
	provider := auth.NewLocalProvider(store, "test-secret", time.Hour, "")
	provider.Cost = bcrypt.MinCost
	authService := auth.NewService(provider, store, nil)

	classifier := nlp.NewDefaultClassifier()
	ids := idgen.NewGenerator("SMG", idgen.NewScanCounter(store, "SMG"), nil)
	m := metrics.New()
	complaints := complaint.NewService(store, classifier, ids, complaint.WithMetrics(m))

	h := handler.NewHandler(complaints, notification.NewService(store), authService, classifier, store, nil)
	r := api.NewRouter(api.RouterConfig{
		Handler:       h,
		Authenticator: authService,
		Metrics:       m,
		CORSOrigins:   []string{"*"},
	})
	return &testServer{router: r, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, in auth.RegisterInput) (string, auth.User) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", "", in)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res struct {
		User    auth.User    `json:"user"`
		Session auth.Session `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Session.AccessToken)
	return res.Session.AccessToken, res.User
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, w, &body)
	return body["error"]
}

func strPtr(s string) *string { return &s }

// TestHealth verifies the unauthenticated health check body.
func TestHealth(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	w := s.do(t, http.MethodGet, "/api/health", "", nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Smart Griev Backend Running", body["message"])
}

// TestProtectedRoutesRequireToken verifies that every protected route rejects missing and invalid tokens.
func TestProtectedRoutesRequireToken(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act & Assert
	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/complaints/submit"},
		{http.MethodGet, "/api/complaints"},
		{http.MethodGet, "/api/complaints/SMG-2025-0001"},
		{http.MethodPut, "/api/complaints/SMG-2025-0001/status"},
		{http.MethodPost, "/api/nlp/classify"},
		{http.MethodGet, "/api/analytics"},
		{http.MethodGet, "/api/notifications"},
	} {
		w := s.do(t, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}

	w := s.do(t, http.MethodGet, "/api/complaints", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", errorOf(t, w))
}

// TestAuthEndpoints verifies register and login over HTTP, including their error bodies.
func TestAuthEndpoints(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act & Assert
	_, user := s.register(t, auth.RegisterInput{Email: "asha@example.com", Password: "pw", Name: "Asha"})
	assert.Equal(t, models.RoleCitizen, user.Role)
	assert.Equal(t, "Asha", user.Name)

	w := s.do(t, http.MethodPost, "/api/auth/register", "", auth.RegisterInput{Email: "asha@example.com", Password: "pw", Name: "Asha"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already registered", errorOf(t, w))

	w = s.do(t, http.MethodPost, "/api/auth/register", "", auth.RegisterInput{Email: "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email, password, and name are required", errorOf(t, w))

	w = s.do(t, http.MethodPost, "/api/auth/login", "", auth.LoginInput{Email: "asha@example.com", Password: "pw"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", auth.LoginInput{Email: "asha@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", errorOf(t, w))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", errorOf(t, rec))
}

// TestComplaintLifecycle walks a complaint from submission through a status
// change, checking visibility, history and notifications along the way.
func TestComplaintLifecycle(t *testing.T) {
	// Arrange
	s := newTestServer(t)
	citizen, citizenUser := s.register(t, auth.RegisterInput{Email: "asha@example.com", Password: "pw", Name: "Asha"})
	officer, _ := s.register(t, auth.RegisterInput{
		Email: "ravi@example.com", Password: "pw", Name: "Ravi",
		Role: "officer", Department: strPtr("Public Works"),
	})
	waterOfficer, _ := s.register(t, auth.RegisterInput{
		Email: "meena@example.com", Password: "pw", Name: "Meena",
		Role: models.RoleOfficer, Department: strPtr("Water Supply"),
	})

	// Act & Assert
	w := s.do(t, http.MethodPost, "/api/complaints/submit", citizen, complaint.SubmitInput{
		Title:       "Pothole",
		Description: "There is a huge pothole on the main road near the school",
		Location:    "MG Road",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Complaint
	decode(t, w, &created)
	assert.Equal(t, fmt.Sprintf("SMG-%d-0001", time.Now().UTC().Year()), created.ID)
	assert.Equal(t, models.StatusSubmitted, created.Status)
	assert.Equal(t, "Public Works", created.Department)
	assert.Equal(t, citizenUser.ID, created.UserID)
	require.NotNil(t, created.NLPAnalysis)

	var list []models.Complaint
	w = s.do(t, http.MethodGet, "/api/complaints", citizen, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Asha", list[0].UserName)

	w = s.do(t, http.MethodGet, "/api/complaints", officer, nil)
	decode(t, w, &list)
	assert.Len(t, list, 1)

	w = s.do(t, http.MethodGet, "/api/complaints", waterOfficer, nil)
	decode(t, w, &list)
	assert.Empty(t, list)

	w = s.do(t, http.MethodGet, "/api/complaints/"+created.ID, waterOfficer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/api/complaints/"+created.ID+"/status", officer, map[string]string{
		"status":  models.StatusInProgress,
		"comment": "Crew dispatched",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Complaint
	decode(t, w, &updated)
	assert.Equal(t, models.StatusInProgress, updated.Status)

	var detail models.ComplaintDetail
	w = s.do(t, http.MethodGet, "/api/complaints/"+created.ID, citizen, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &detail)
	require.Len(t, detail.History, 2)
	assert.Equal(t, models.ActionStatusUpdated, detail.History[0].Action)
	require.NotNil(t, detail.History[0].StatusFrom)
	assert.Equal(t, models.StatusSubmitted, *detail.History[0].StatusFrom)
	assert.Equal(t, "Crew dispatched", detail.History[0].Comment)
	assert.Equal(t, models.ActionSubmitted, detail.History[1].Action)

	var notifications []models.Notification
	w = s.do(t, http.MethodGet, "/api/notifications", citizen, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &notifications)
	require.Len(t, notifications, 2)
	assert.Equal(t, models.NotificationStatusUpdated, notifications[0].Type)
	assert.Contains(t, notifications[0].Message, models.StatusInProgress)

	w = s.do(t, http.MethodPut, "/api/notifications/"+notifications[0].ID+"/read", officer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/api/notifications/"+notifications[0].ID+"/read", citizen, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var read models.Notification
	decode(t, w, &read)
	assert.True(t, read.IsRead)

	var summary map[string]interface{}
	w = s.do(t, http.MethodGet, "/api/analytics", waterOfficer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &summary)
	assert.EqualValues(t, 1, summary["total"])
	assert.EqualValues(t, 1, summary["pending"])
	assert.EqualValues(t, 0, summary["resolved"])
	assert.Equal(t, "N/A", summary["avgResolutionTime"])
}

// TestSubmitValidation verifies that invalid submissions store nothing.
func TestSubmitValidation(t *testing.T) {
	// Arrange
	s := newTestServer(t)
	token, _ := s.register(t, auth.RegisterInput{Email: "asha@example.com", Password: "pw", Name: "Asha"})

	// Act & Assert
	w := s.do(t, http.MethodPost, "/api/complaints/submit", token, complaint.SubmitInput{Title: "Only a title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title, description, and location are required", errorOf(t, w))

	w = s.do(t, http.MethodPost, "/api/complaints/submit", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	last, err := s.store.LastComplaintID(context.Background(), "SMG-")
	require.NoError(t, err)
	assert.Empty(t, last)
}

// TestUpdateStatusErrors verifies the validation and not-found responses of the status route.
func TestUpdateStatusErrors(t *testing.T) {
	// Arrange
	s := newTestServer(t)
	token, _ := s.register(t, auth.RegisterInput{Email: "admin@example.com", Password: "pw", Name: "Admin", Role: models.RoleAdmin})

	// Act & Assert
	w := s.do(t, http.MethodPost, "/api/complaints/submit", token, complaint.SubmitInput{
		Title: "Leak", Description: "Water pipe leakage on the street", Location: "Ward 4",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Complaint
	decode(t, w, &created)

	w = s.do(t, http.MethodPut, "/api/complaints/"+created.ID+"/status", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Status is required", errorOf(t, w))

	w = s.do(t, http.MethodPut, "/api/complaints/"+created.ID+"/status", token, map[string]string{"status": "Archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/complaints/SMG-1999-0042/status", token, map[string]string{"status": models.StatusResolved})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Complaint not found", errorOf(t, w))
}

// TestClassifyAndDepartments verifies the classifier endpoint and the public department list.
func TestClassifyAndDepartments(t *testing.T) {
	// Arrange
	s := newTestServer(t)
	token, _ := s.register(t, auth.RegisterInput{Email: "asha@example.com", Password: "pw", Name: "Asha"})

	// Act & Assert
	w := s.do(t, http.MethodPost, "/api/nlp/classify", token, map[string]string{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Text is required", errorOf(t, w))

	w = s.do(t, http.MethodPost, "/api/nlp/classify", token, map[string]string{"text": "Sewage water overflowing from the drain"})
	require.Equal(t, http.StatusOK, w.Code)
	var analysis nlp.Analysis
	decode(t, w, &analysis)
	assert.Equal(t, "Water Supply", analysis.PredictedDepartment)
	assert.Greater(t, analysis.ConfidenceScore, 0.0)

	require.NoError(t, s.store.SaveDepartments(context.Background(), []models.Department{
		{Name: "Public Works", Code: "PWD", Keywords: []string{"road"}, DefaultPriority: nlp.UrgencyHigh},
	}))
	w = s.do(t, http.MethodGet, "/api/departments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var departments []models.Department
	decode(t, w, &departments)
	require.Len(t, departments, 1)
	assert.Equal(t, "PWD", departments[0].Code)
}

// TestMetricsEndpoint verifies that request metrics are scraped by route template.
func TestMetricsEndpoint(t *testing.T) {
	// Arrange
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/health", "", nil)

	// Act
	w := s.do(t, http.MethodGet, "/metrics", "", nil)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
	assert.Contains(t, w.Body.String(), `path="/api/health"`)
}

// TestCORSPreflight verifies that preflight requests are answered before auth.
func TestCORSPreflight(t *testing.T) {
	// Arrange
	s := newTestServer(t)

	// Act
	req := httptest.NewRequest(http.MethodOptions, "/api/complaints", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
