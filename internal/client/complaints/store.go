// Package complaints holds the last fetched complaint snapshot and derives
// role- and filter-scoped views of it.
package complaints

import "github.com/noah-isme/campus-complaints/internal/models"

// All is the wildcard filter value.
const All = "all"

// Stats summarises the full snapshot, independent of active filters.
type Stats struct {
	Total    int
	Pending  int
	Resolved int
}

// Store is the in-memory snapshot. It is replaced wholesale on every fetch.
// Not safe for concurrent use.
type Store struct {
	items []models.Complaint
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps the held collection.
func (s *Store) Replace(list []models.Complaint) {
	items := make([]models.Complaint, len(list))
	copy(items, list)
	s.items = items
}

// Clear drops the snapshot.
func (s *Store) Clear() {
	s.items = nil
}

// All returns the full snapshot in backend order.
func (s *Store) All() []models.Complaint {
	return s.filter(func(models.Complaint) bool { return true })
}

// Len reports the snapshot size.
func (s *Store) Len() int {
	return len(s.items)
}

// ForStudent returns the complaints owned by studentID, in backend order.
func (s *Store) ForStudent(studentID string) []models.Complaint {
	return s.filter(func(c models.Complaint) bool { return c.StudentID == studentID })
}

// ForAdminView applies both filters as independent predicates. Either may be All.
func (s *Store) ForAdminView(status, category string) []models.Complaint {
	return s.filter(func(c models.Complaint) bool {
		if status != All && string(c.Status) != status {
			return false
		}
		if category != All && c.Category != category {
			return false
		}
		return true
	})
}

// Categories lists distinct categories in first-seen order.
func (s *Store) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range s.items {
		if _, ok := seen[c.Category]; ok {
			continue
		}
		seen[c.Category] = struct{}{}
		out = append(out, c.Category)
	}
	return out
}

// Aggregate counts the whole snapshot. Statuses other than pending and
// resolved are counted as pending so Total always equals Pending+Resolved.
func (s *Store) Aggregate() Stats {
	stats := Stats{Total: len(s.items)}
	for _, c := range s.items {
		if c.Status == models.ComplaintResolved {
			stats.Resolved++
		} else {
			stats.Pending++
		}
	}
	return stats
}

func (s *Store) filter(keep func(models.Complaint) bool) []models.Complaint {
	out := make([]models.Complaint, 0, len(s.items))
	for _, c := range s.items {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
