package app

import (
	"github.com/noah-isme/campus-complaints/internal/client/complaints"
	"github.com/noah-isme/campus-complaints/internal/client/session"
	"github.com/noah-isme/campus-complaints/internal/models"
	appErrors "github.com/noah-isme/campus-complaints/pkg/errors"
)

// View is one of the four mutually exclusive top-level views.
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewStudentPortal
	ViewAdminPortal
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewRegister:
		return "register"
	case ViewStudentPortal:
		return "student-portal"
	case ViewAdminPortal:
		return "admin-portal"
	default:
		return "unknown"
	}
}

// LoggedIn reports whether v is a portal view.
func (v View) LoggedIn() bool {
	return v == ViewStudentPortal || v == ViewAdminPortal
}

// Filters are the admin view predicates. Each is a concrete value or complaints.All.
type Filters struct {
	Status   string
	Category string
}

// DefaultFilters shows everything.
func DefaultFilters() Filters {
	return Filters{Status: complaints.All, Category: complaints.All}
}

// Notice is the last user-facing message. Kind is KindUnknown for successes.
type Notice struct {
	Kind    appErrors.Kind
	Message string
}

// IsError reports whether the notice describes a failure.
func (n Notice) IsError() bool {
	return n.Kind != appErrors.KindUnknown
}

// State is everything the views read. It is owned by App and copied out.
type State struct {
	View      View
	LoginRole models.Role
	Session   *session.Session
	// StudentID pre-fills the submission form in the student portal.
	StudentID string
	Welcome   string
	Filters   Filters
	Notice    Notice
}
