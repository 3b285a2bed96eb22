package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaints/internal/models"
	"github.com/noah-isme/campus-complaints/internal/repository"
	"github.com/noah-isme/campus-complaints/internal/service"
)

type memoryAccounts map[string]*models.Account

func (m memoryAccounts) FindByID(ctx context.Context, id string, role models.Role) (*models.Account, error) {
	a, ok := m[id]
	if !ok || a.Role != role {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (m memoryAccounts) Create(ctx context.Context, a *models.Account) error {
	if _, ok := m[a.ID]; ok {
		return repository.ErrDuplicateAccount
	}
	m[a.ID] = a
	return nil
}

func (m memoryAccounts) Upsert(ctx context.Context, a *models.Account) error {
	m[a.ID] = a
	return nil
}

type memoryComplaints struct {
	records []models.ComplaintRecord
}

func (m *memoryComplaints) Create(ctx context.Context, r *models.ComplaintRecord) error {
	r.ID = len(m.records) + 1
	m.records = append(m.records, *r)
	return nil
}

func (m *memoryComplaints) List(ctx context.Context) ([]models.ComplaintRecord, error) {
	return append([]models.ComplaintRecord(nil), m.records...), nil
}

func (m *memoryComplaints) Resolve(ctx context.Context, id int, at time.Time) (bool, error) {
	for i := range m.records {
		if m.records[i].ID == id && m.records[i].Status == models.ComplaintPending {
			m.records[i].Status = models.ComplaintResolved
			m.records[i].ResolvedAt = &at
			return true, nil
		}
	}
	return false, nil
}

func buildRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	auth := service.NewAuthService(memoryAccounts{}, nil, zap.NewNop(), metrics, service.AuthConfig{Secret: "secret", Expiry: 2 * time.Hour})
	require.NoError(t, auth.SeedAdmin(context.Background(), "admin", "admin123", "Campus Administrator"))
	complaints := service.NewComplaintService(&memoryComplaints{}, nil, nil, zap.NewNop(), metrics)

	router := gin.New()
	RegisterRoutes(router, Routes{
		Auth:       NewAuthHandler(auth),
		Complaints: NewComplaintHandler(complaints),
		Metrics:    NewMetricsHandler(metrics, nil),
		Tokens:     auth,
		Logger:     zap.NewNop(),
	})
	return router
}

func call(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine, role models.Role, id, password string) string {
	t.Helper()
	w := call(router, http.MethodPost, "/login", "", models.LoginRequest{Role: role, ID: id, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res models.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestComplaintLifecycleOverHTTP(t *testing.T) {
	router := buildRouter(t)

	w := call(router, http.MethodPost, "/register", "", models.RegisterRequest{Name: "Asha", ID: "S1", Password: "pw"})
	require.Equal(t, http.StatusOK, w.Code)

	w = call(router, http.MethodPost, "/register", "", models.RegisterRequest{Name: "Asha", ID: "S1", Password: "pw"})
	assert.JSONEq(t, `{"status":"fail","message":"Student ID already registered"}`, w.Body.String())

	student := login(t, router, models.RoleStudent, "S1", "pw")
	w = call(router, http.MethodPost, "/submit_complaint", student, models.SubmitComplaintRequest{StudentName: "Asha", Category: "Hostel", Description: "No water"})
	require.Equal(t, http.StatusOK, w.Code)

	w = call(router, http.MethodPost, "/resolve_complaint", student, models.ResolveComplaintRequest{ID: 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := login(t, router, models.RoleAdmin, "admin", "admin123")
	w = call(router, http.MethodPost, "/submit_complaint", admin, models.SubmitComplaintRequest{StudentName: "x", Category: "y", Description: "z"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(router, http.MethodPost, "/resolve_complaint", admin, models.ResolveComplaintRequest{ID: 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = call(router, http.MethodGet, "/get_complaints", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Complaint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "S1", list[0].StudentID)
	assert.Equal(t, models.ComplaintResolved, list[0].Status)
	assert.NotNil(t, list[0].ResolvedAt)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := buildRouter(t)

	w := call(router, http.MethodGet, "/get_complaints", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Token missing"}`, w.Body.String())

	w = call(router, http.MethodGet, "/get_complaints", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Invalid token"}`, w.Body.String())
}

func TestLoginRejectsWrongPortal(t *testing.T) {
	router := buildRouter(t)

	w := call(router, http.MethodPost, "/login", "", models.LoginRequest{Role: models.RoleStudent, ID: "admin", Password: "admin123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Invalid credentials"}`, w.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	router := buildRouter(t)

	assert.Equal(t, http.StatusOK, call(router, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, call(router, http.MethodGet, "/ready", "", nil).Code)
	w := call(router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "goroutines_total")
}
