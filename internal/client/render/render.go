// Package render projects complaint subsequences into display-ready views.
// Every render is a full recompute; nothing is kept between calls.
package render

import "github.com/noah-isme/campus-complaints/internal/models"

// Placeholders shown when a view has nothing to list.
const (
	StudentPlaceholder = "No complaints yet"
	AdminPlaceholder   = "No complaints to show"
)

// Card is one complaint as the viewer sees it.
type Card struct {
	ID          int
	StudentID   string
	StudentName string
	Category    string
	Description string
	Status      models.ComplaintStatus
	SubmittedAt string
	ResolvedAt  string
	// Resolvable is set only for pending complaints in the admin view.
	Resolvable bool
}

// View is the projection of one subsequence for one role.
type View struct {
	Role        models.Role
	Cards       []Card
	Placeholder string
}

// Empty reports whether the placeholder should be shown instead of cards.
func (v View) Empty() bool {
	return len(v.Cards) == 0
}

// Render builds the view of list for role.
func Render(list []models.Complaint, role models.Role) View {
	view := View{Role: role, Cards: make([]Card, 0, len(list))}
	if role == models.RoleAdmin {
		view.Placeholder = AdminPlaceholder
	} else {
		view.Placeholder = StudentPlaceholder
	}

	for _, c := range list {
		card := Card{
			ID:          c.ID,
			StudentID:   c.StudentID,
			StudentName: c.StudentName,
			Category:    c.Category,
			Description: c.Description,
			Status:      c.Status,
			SubmittedAt: c.SubmittedAt,
			Resolvable:  role == models.RoleAdmin && c.IsPending(),
		}
		if c.ResolvedAt != nil {
			card.ResolvedAt = *c.ResolvedAt
		}
		view.Cards = append(view.Cards, card)
	}
	return view
}
