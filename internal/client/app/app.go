// Package app is the view router. It owns the application state, routes user
// actions to the API client and refreshes the complaint snapshot afterwards.
//
// Handlers run one at a time; App is not safe for concurrent use.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaints/internal/client/api"
	"github.com/noah-isme/campus-complaints/internal/client/complaints"
	"github.com/noah-isme/campus-complaints/internal/client/render"
	"github.com/noah-isme/campus-complaints/internal/client/session"
	"github.com/noah-isme/campus-complaints/internal/models"
	appErrors "github.com/noah-isme/campus-complaints/pkg/errors"
)

// Sessions is the session store as seen by the router.
type Sessions interface {
	Restore() (*session.Session, error)
	Establish(token string) (*session.Session, error)
	Clear() error
	Current() *session.Session
}

// Backend is the API client as seen by the router.
type Backend interface {
	Login(ctx context.Context, role models.Role, id, password string) (string, error)
	Register(ctx context.Context, in api.RegisterInput) error
	SubmitComplaint(ctx context.Context, studentName, category, description string) error
	ListComplaints(ctx context.Context) ([]models.Complaint, error)
	ResolveComplaint(ctx context.Context, id int) error
}

// Success notices.
const (
	NoticeRegistered = "Registered successfully! You can now login."
	NoticeSubmitted  = "Complaint submitted!"
	NoticeResolved   = "Marked as resolved"
	NoticeLoggedOut  = "Logged out"
)

// App routes actions between views.
type App struct {
	sessions Sessions
	backend  Backend
	store    *complaints.Store
	logger   *zap.Logger
	state    State
	bindings map[Action]Handler
}

// New wires an App. The complaint store starts empty.
func New(sessions Sessions, backend Backend, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		sessions: sessions,
		backend:  backend,
		store:    complaints.NewStore(),
		logger:   logger,
		state:    State{View: ViewLogin, LoginRole: models.RoleStudent, Filters: DefaultFilters()},
	}
	a.bindings = a.bindingTable()
	return a
}

// State returns a copy of the current state.
func (a *App) State() State {
	return a.state
}

// Complaints exposes the held snapshot.
func (a *App) Complaints() *complaints.Store {
	return a.store
}

// Start restores a persisted session and enters its portal.
func (a *App) Start(ctx context.Context) error {
	sess, err := a.sessions.Restore()
	if err != nil {
		if errors.Is(err, appErrors.ErrNoSession) {
			a.toLoggedOut(ViewLogin)
			return nil
		}
		return err
	}
	return a.enter(ctx, sess)
}

// Login authenticates and enters the portal matching the token's role.
func (a *App) Login(ctx context.Context, role models.Role, id, password string) error {
	a.state.LoginRole = role
	token, err := a.backend.Login(ctx, role, id, password)
	if err != nil {
		return a.fail(err)
	}
	sess, err := a.sessions.Establish(token)
	if err != nil {
		return a.fail(err)
	}
	return a.enter(ctx, sess)
}

// Register creates a student account and returns to the login view.
func (a *App) Register(ctx context.Context, in api.RegisterInput) error {
	if a.state.View.LoggedIn() {
		return a.fail(appErrors.Clone(appErrors.ErrValidation, "log out before registering a new account"))
	}
	if err := a.backend.Register(ctx, in); err != nil {
		return a.fail(err)
	}
	a.state.View = ViewLogin
	a.state.LoginRole = models.RoleStudent
	a.state.Notice = Notice{Message: NoticeRegistered}
	return nil
}

// Logout clears the session and discards the snapshot.
func (a *App) Logout() error {
	err := a.sessions.Clear()
	a.toLoggedOut(ViewLogin)
	a.state.Notice = Notice{Message: NoticeLoggedOut}
	return err
}

// Submit files a complaint as the logged-in student and refreshes.
func (a *App) Submit(ctx context.Context, studentName, category, description string) error {
	if a.state.View != ViewStudentPortal {
		return a.fail(appErrors.Clone(appErrors.ErrForbidden, "only students can submit complaints"))
	}
	if err := a.backend.SubmitComplaint(ctx, studentName, category, description); err != nil {
		return a.fail(err)
	}
	if err := a.Refresh(ctx); err != nil {
		return err
	}
	a.state.Notice = Notice{Message: NoticeSubmitted}
	return nil
}

// Resolve marks a complaint resolved as an administrator and refreshes.
func (a *App) Resolve(ctx context.Context, id int) error {
	if a.state.View != ViewAdminPortal {
		return a.fail(appErrors.Clone(appErrors.ErrForbidden, "only administrators can resolve complaints"))
	}
	if err := a.backend.ResolveComplaint(ctx, id); err != nil {
		return a.fail(err)
	}
	if err := a.Refresh(ctx); err != nil {
		return err
	}
	a.state.Notice = Notice{Message: NoticeResolved}
	return nil
}

// Refresh refetches the full list and replaces the snapshot.
func (a *App) Refresh(ctx context.Context) error {
	if !a.state.View.LoggedIn() {
		return a.fail(appErrors.ErrNoSession)
	}
	list, err := a.backend.ListComplaints(ctx)
	if err != nil {
		return a.fail(err)
	}
	a.store.Replace(list)
	a.logger.Debug("complaints refreshed", zap.Int("count", len(list)))
	return nil
}

// SetFilters updates the admin view predicates.
func (a *App) SetFilters(status, category string) error {
	if a.state.View != ViewAdminPortal {
		return a.fail(appErrors.Clone(appErrors.ErrForbidden, "filters apply to the admin portal only"))
	}
	if status == "" {
		status = complaints.All
	}
	if category == "" {
		category = complaints.All
	}
	switch status {
	case complaints.All, string(models.ComplaintPending), string(models.ComplaintResolved):
	default:
		return a.fail(appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status filter %q", status)))
	}
	a.state.Filters = Filters{Status: status, Category: category}
	return nil
}

// ShowRegister switches from the login view to registration.
func (a *App) ShowRegister() error {
	if a.state.View.LoggedIn() {
		return a.fail(appErrors.Clone(appErrors.ErrValidation, "already logged in"))
	}
	a.state.View = ViewRegister
	return nil
}

// ShowLogin switches from registration back to the login view.
func (a *App) ShowLogin() error {
	if a.state.View.LoggedIn() {
		return a.fail(appErrors.Clone(appErrors.ErrValidation, "already logged in"))
	}
	a.state.View = ViewLogin
	return nil
}

// SelectLoginRole toggles between the student and admin login forms.
func (a *App) SelectLoginRole(role models.Role) error {
	if !role.Valid() {
		return a.fail(appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown role %q", role)))
	}
	a.state.LoginRole = role
	return nil
}

// Render projects the snapshot for the current view.
func (a *App) Render() render.View {
	switch a.state.View {
	case ViewStudentPortal:
		return render.Render(a.store.ForStudent(a.state.Session.Identity.ID), models.RoleStudent)
	case ViewAdminPortal:
		return render.Render(a.store.ForAdminView(a.state.Filters.Status, a.state.Filters.Category), models.RoleAdmin)
	default:
		return render.View{}
	}
}

// Stats aggregates the whole snapshot for the admin portal.
func (a *App) Stats() complaints.Stats {
	return a.store.Aggregate()
}

func (a *App) enter(ctx context.Context, sess *session.Session) error {
	a.state.Session = sess
	a.state.Notice = Notice{}
	a.state.Filters = DefaultFilters()
	a.state.Welcome = fmt.Sprintf("Welcome, %s (%s)", sess.Identity.DisplayName, sess.Identity.ID)
	if sess.IsAdmin() {
		a.state.View = ViewAdminPortal
		a.state.StudentID = ""
	} else {
		a.state.View = ViewStudentPortal
		a.state.StudentID = sess.Identity.ID
	}
	a.logger.Debug("entered portal", zap.String("view", a.state.View.String()), zap.String("id", sess.Identity.ID))
	return a.Refresh(ctx)
}

func (a *App) toLoggedOut(view View) {
	a.store.Clear()
	a.state = State{View: view, LoginRole: models.RoleStudent, Filters: DefaultFilters()}
}

// fail records err as the notice. Session failures also clear the session
// and return to the login view, discarding the snapshot.
func (a *App) fail(err error) error {
	kind := appErrors.Category(err)
	if kind == appErrors.KindSession && a.state.View.LoggedIn() {
		if clearErr := a.sessions.Clear(); clearErr != nil {
			a.logger.Warn("failed to clear session", zap.Error(clearErr))
		}
		a.toLoggedOut(ViewLogin)
	}
	msg := err.Error()
	var appErr *appErrors.Error
	if errors.As(err, &appErr) && kind != appErrors.KindTransport {
		msg = appErr.Message
	}
	if kind == appErrors.KindUnknown {
		kind = appErrors.KindTransport
	}
	a.state.Notice = Notice{Kind: kind, Message: msg}
	return err
}
