// Package api talks to the complaint backend. Every call is single shot:
// no retry and no client-imposed timeout beyond what ctx carries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaints/internal/client/session"
	"github.com/noah-isme/campus-complaints/internal/models"
	appErrors "github.com/noah-isme/campus-complaints/pkg/errors"
	"github.com/noah-isme/campus-complaints/pkg/middleware/requestid"
)

// Endpoint paths served by the backend.
const (
	PathLogin            = "/login"
	PathRegister         = "/register"
	PathSubmitComplaint  = "/submit_complaint"
	PathGetComplaints    = "/get_complaints"
	PathResolveComplaint = "/resolve_complaint"
)

// SessionSource exposes the active session, if any.
type SessionSource interface {
	Current() *session.Session
}

// Client issues authenticated JSON requests against one base URL.
type Client struct {
	baseURL   string
	http      *http.Client
	sessions  SessionSource
	validator *validator.Validate
	logger    *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a logger for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New constructs a Client for baseURL.
func New(baseURL string, sessions SessionSource, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		sessions:  sessions,
		validator: validator.New(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterInput is the registration form, including the confirmation field
// that never leaves the client.
type RegisterInput struct {
	Name            string `validate:"required"`
	ID              string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, role models.Role, id, password string) (string, error) {
	req := models.LoginRequest{Role: role, ID: strings.TrimSpace(id), Password: password}
	if err := c.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "role, id and password are required")
	}

	status, body, err := c.do(ctx, http.MethodPost, PathLogin, req, "")
	if err != nil {
		return "", err
	}
	res, err := c.envelope(status, body, "Invalid "+string(role)+" login")
	if err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", appErrors.Clone(appErrors.ErrTransport, "login response carried no token")
	}
	return res.Token, nil
}

// Register creates a student account. Success means the caller should show the login view.
func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.ID = strings.TrimSpace(in.ID)
	if err := c.validator.Struct(in); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, registerMessage(err))
	}

	req := models.RegisterRequest{Name: in.Name, ID: in.ID, Password: in.Password}
	status, body, err := c.do(ctx, http.MethodPost, PathRegister, req, "")
	if err != nil {
		return err
	}
	_, err = c.envelope(status, body, "Registration failed.")
	return err
}

// SubmitComplaint files a complaint for the logged-in student.
func (c *Client) SubmitComplaint(ctx context.Context, studentName, category, description string) error {
	sess, err := c.requireSession()
	if err != nil {
		return err
	}
	req := models.SubmitComplaintRequest{StudentName: studentName, Category: category, Description: description}
	if err := c.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, submitMessage(err))
	}

	status, body, err := c.do(ctx, http.MethodPost, PathSubmitComplaint, req, sess.Token)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return expired(body)
	}
	_, err = c.envelope(status, body, "Error")
	return err
}

// ListComplaints fetches the full complaint collection.
// An authorization failure yields ErrSessionExpired rather than a rejection.
func (c *Client) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	sess, err := c.requireSession()
	if err != nil {
		return nil, err
	}

	status, body, err := c.do(ctx, http.MethodGet, PathGetComplaints, nil, sess.Token)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, expired(body)
	}
	if status != http.StatusOK {
		_, err := c.envelope(status, body, "failed to load complaints")
		if err == nil {
			err = appErrors.Clone(appErrors.ErrTransport, fmt.Sprintf("unexpected status %d", status))
		}
		return nil, err
	}

	var list []models.Complaint
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, status, "malformed complaint list")
	}
	return list, nil
}

// ResolveComplaint marks a complaint resolved. Requires an administrator session.
// Already-resolved complaints are not guarded here.
func (c *Client) ResolveComplaint(ctx context.Context, id int) error {
	sess, err := c.requireSession()
	if err != nil {
		return err
	}
	if !sess.IsAdmin() {
		return appErrors.Clone(appErrors.ErrForbidden, "only administrators can resolve complaints")
	}

	status, body, err := c.do(ctx, http.MethodPost, PathResolveComplaint, models.ResolveComplaintRequest{ID: id}, sess.Token)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return expired(body)
	}
	_, err = c.envelope(status, body, "failed to resolve complaint")
	return err
}

func (c *Client) requireSession() (*session.Session, error) {
	if c.sessions == nil {
		return nil, appErrors.ErrNoSession
	}
	sess := c.sessions.Current()
	if sess == nil || sess.Token == "" {
		return nil, appErrors.ErrNoSession
	}
	return sess, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, token string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, "encode request")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := uuid.NewString()
	req.Header.Set(requestid.Header, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, "request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, resp.StatusCode, "read response")
	}

	c.logger.Debug("api_request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", reqID),
	)
	return resp.StatusCode, body, nil
}

// envelope interprets {status, message, ...}. Non-success statuses become
// rejections carrying the backend message verbatim, or fallback when absent.
func (c *Client) envelope(status int, body []byte, fallback string) (*models.StatusResponse, error) {
	var res models.StatusResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, status, "malformed response")
	}
	if res.Status == models.StatusSuccess {
		return &res, nil
	}
	msg := res.Message
	if msg == "" {
		msg = fallback
	}
	rejected := appErrors.Clone(appErrors.ErrRejected, msg)
	rejected.Status = status
	return nil, rejected
}

func expired(body []byte) error {
	var res models.StatusResponse
	if err := json.Unmarshal(body, &res); err == nil && res.Message != "" {
		return appErrors.Wrap(errors.New(res.Message), appErrors.ErrSessionExpired.Code, http.StatusUnauthorized, appErrors.ErrSessionExpired.Message)
	}
	return appErrors.ErrSessionExpired
}

func registerMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "eqfield" {
				return "Passwords do not match!"
			}
		}
	}
	return "Missing fields"
}

func submitMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "max" {
				field := strings.ToLower(fe.Field())
				if fe.Field() == "StudentName" {
					field = "name"
				}
				return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
			}
		}
	}
	return "name, category and description are required"
}
