package models

import "time"

// ComplaintStatus moves one way, pending to resolved.
type ComplaintStatus string

const (
	ComplaintPending  ComplaintStatus = "pending"
	ComplaintResolved ComplaintStatus = "resolved"
)

// DateLayout formats submittedAt and resolvedAt on the wire (dd/mm/yyyy).
const DateLayout = "02/01/2006"

// Complaint is a single student-submitted issue as served by /get_complaints.
type Complaint struct {
	ID          int             `json:"id"`
	StudentName string          `json:"studentName"`
	StudentID   string          `json:"studentId"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Status      ComplaintStatus `json:"status"`
	SubmittedAt string          `json:"submittedAt"`
	ResolvedAt  *string         `json:"resolvedAt"`
}

// IsPending reports whether the complaint still awaits resolution.
func (c Complaint) IsPending() bool {
	return c.Status == ComplaintPending
}

// SubmitComplaintRequest is posted by a student. The owner comes from the token.
type SubmitComplaintRequest struct {
	StudentName string `json:"studentName" validate:"required,max=120"`
	Category    string `json:"category" validate:"required,max=60"`
	Description string `json:"description" validate:"required,max=2000"`
}

// ResolveComplaintRequest is posted by an administrator.
type ResolveComplaintRequest struct {
	ID int `json:"id" validate:"required,gt=0"`
}

// ComplaintRecord is the stored row behind a Complaint.
type ComplaintRecord struct {
	ID          int             `db:"id"`
	StudentID   string          `db:"student_id"`
	StudentName string          `db:"student_name"`
	Category    string          `db:"category"`
	Description string          `db:"description"`
	Status      ComplaintStatus `db:"status"`
	SubmittedAt time.Time       `db:"submitted_at"`
	ResolvedAt  *time.Time      `db:"resolved_at"`
}

// Complaint converts the stored row into its wire form.
func (r ComplaintRecord) Complaint() Complaint {
	out := Complaint{
		ID:          r.ID,
		StudentName: r.StudentName,
		StudentID:   r.StudentID,
		Category:    r.Category,
		Description: r.Description,
		Status:      r.Status,
		SubmittedAt: r.SubmittedAt.Format(DateLayout),
	}
	if r.ResolvedAt != nil {
		resolved := r.ResolvedAt.Format(DateLayout)
		out.ResolvedAt = &resolved
	}
	return out
}
