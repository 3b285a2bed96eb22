package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-complaints/internal/client/session"
	"github.com/noah-isme/campus-complaints/internal/models"
	appErrors "github.com/noah-isme/campus-complaints/pkg/errors"
	"github.com/noah-isme/campus-complaints/pkg/middleware/requestid"
)

type fixedSession struct {
	sess *session.Session
}

func (f fixedSession) Current() *session.Session { return f.sess }

func studentSession() fixedSession {
	return fixedSession{sess: &session.Session{Identity: session.Identity{ID: "S1", DisplayName: "Asha"}, Role: models.RoleStudent, Token: "student-token"}}
}

func adminSession() fixedSession {
	return fixedSession{sess: &session.Session{Identity: session.Identity{ID: "admin"}, Role: models.RoleAdmin, Token: "admin-token"}}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathLogin, r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(requestid.Header))
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.RoleStudent, req.Role)
		assert.Equal(t, "S1", req.ID)
		writeJSON(w, http.StatusOK, models.StatusResponse{Status: models.StatusSuccess, Token: "tok"})
	}))
	defer srv.Close()

	token, err := New(srv.URL, nil).Login(context.Background(), models.RoleStudent, " S1 ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestLoginRejectedKeepsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, models.StatusResponse{Status: models.StatusError, Message: "Invalid credentials"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Login(context.Background(), models.RoleAdmin, "admin", "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.KindRejected, appErrors.Category(err))
	assert.Equal(t, "Invalid credentials", appErrors.FromError(err).Message)
}

func TestRegisterValidationSkipsNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()
	client := New(srv.URL, nil)

	err := client.Register(context.Background(), RegisterInput{Name: "Asha", ID: "S1", Password: "a", ConfirmPassword: "b"})
	assert.Equal(t, appErrors.KindValidation, appErrors.Category(err))
	assert.Equal(t, "Passwords do not match!", appErrors.FromError(err).Message)

	err = client.Register(context.Background(), RegisterInput{Name: " ", ID: "S1", Password: "a", ConfirmPassword: "a"})
	assert.Equal(t, "Missing fields", appErrors.FromError(err).Message)

	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestRegisterDuplicate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, models.StatusResponse{Status: models.StatusFail, Message: "Student ID already registered"})
	}))
	defer srv.Close()

	err := New(srv.URL, nil).Register(context.Background(), RegisterInput{Name: "Asha", ID: "S1", Password: "a", ConfirmPassword: "a"})
	assert.ErrorIs(t, err, appErrors.ErrRejected)
	assert.Equal(t, "Student ID already registered", appErrors.FromError(err).Message)
}

func TestSubmitRequiresSession(t *testing.T) {
	err := New("http://127.0.0.1:0", fixedSession{}).SubmitComplaint(context.Background(), "Asha", "Hostel", "No water")
	assert.ErrorIs(t, err, appErrors.ErrNoSession)
}

func TestSubmitValidationNamesTheFailingRule(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()
	client := New(srv.URL, studentSession())

	err := client.SubmitComplaint(context.Background(), "Asha", strings.Repeat("x", 61), "No water")
	assert.Equal(t, appErrors.KindValidation, appErrors.Category(err))
	assert.Equal(t, "category must be at most 60 characters", appErrors.FromError(err).Message)

	err = client.SubmitComplaint(context.Background(), "Asha", "", "No water")
	assert.Equal(t, "name, category and description are required", appErrors.FromError(err).Message)

	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSubmitSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer student-token", r.Header.Get("Authorization"))
		var req models.SubmitComplaintRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hostel", req.Category)
		writeJSON(w, http.StatusOK, models.StatusResponse{Status: models.StatusSuccess})
	}))
	defer srv.Close()

	err := New(srv.URL, studentSession()).SubmitComplaint(context.Background(), "Asha", "Hostel", "No water")
	assert.NoError(t, err)
}

func TestListComplaintsUnauthorizedIsSessionExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, models.StatusResponse{Status: models.StatusError, Message: "Token expired"})
	}))
	defer srv.Close()

	list, err := New(srv.URL, studentSession()).ListComplaints(context.Background())
	assert.Nil(t, list)
	assert.ErrorIs(t, err, appErrors.ErrSessionExpired)
	assert.Equal(t, appErrors.KindSession, appErrors.Category(err))
}

func TestListComplaintsDecodesArray(t *testing.T) {
	resolved := "18/10/2026"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		writeJSON(w, http.StatusOK, []models.Complaint{
			{ID: 1, StudentID: "S1", Category: "Hostel", Status: models.ComplaintPending, SubmittedAt: "17/10/2026"},
			{ID: 7, StudentID: "S2", Category: "Maintenance", Status: models.ComplaintResolved, SubmittedAt: "17/10/2026", ResolvedAt: &resolved},
		})
	}))
	defer srv.Close()

	list, err := New(srv.URL, studentSession()).ListComplaints(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[0].ResolvedAt)
	assert.Equal(t, "18/10/2026", *list[1].ResolvedAt)
}

func TestListComplaintsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, studentSession()).ListComplaints(context.Background())
	assert.Equal(t, appErrors.KindTransport, appErrors.Category(err))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).Login(context.Background(), models.RoleStudent, "S1", "pw")
	assert.Equal(t, appErrors.KindTransport, appErrors.Category(err))
}

func TestResolveRequiresAdmin(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var req models.ResolveComplaintRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 7, req.ID)
		writeJSON(w, http.StatusOK, models.StatusResponse{Status: models.StatusSuccess})
	}))
	defer srv.Close()

	err := New(srv.URL, studentSession()).ResolveComplaint(context.Background(), 7)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.Zero(t, atomic.LoadInt32(&calls))

	require.NoError(t, New(srv.URL, adminSession()).ResolveComplaint(context.Background(), 7))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
