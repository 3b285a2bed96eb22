package complaints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-complaints/internal/models"
)

func sample() []models.Complaint {
	resolved := "18/10/2026"
	return []models.Complaint{
		{ID: 3, StudentID: "S1", Category: "Hostel", Status: models.ComplaintPending},
		{ID: 1, StudentID: "S2", Category: "Maintenance", Status: models.ComplaintResolved, ResolvedAt: &resolved},
		{ID: 2, StudentID: "S1", Category: "Maintenance", Status: models.ComplaintPending},
		{ID: 5, StudentID: "S3", Category: "Hostel", Status: models.ComplaintResolved, ResolvedAt: &resolved},
		{ID: 4, StudentID: "S2", Category: "Maintenance", Status: models.ComplaintResolved, ResolvedAt: &resolved},
	}
}

func ids(list []models.Complaint) []int {
	out := make([]int, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

func TestReplaceIsWholesale(t *testing.T) {
	s := NewStore()
	src := sample()
	s.Replace(src)
	src[0].Category = "mutated"
	assert.Equal(t, "Hostel", s.All()[0].Category)

	s.Replace([]models.Complaint{{ID: 9}})
	assert.Equal(t, []int{9}, ids(s.All()))
}

func TestForStudentKeepsOrder(t *testing.T) {
	s := NewStore()
	s.Replace(sample())
	assert.Equal(t, []int{3, 2}, ids(s.ForStudent("S1")))
	assert.Empty(t, s.ForStudent("nobody"))
}

func TestForAdminViewPendingAll(t *testing.T) {
	s := NewStore()
	s.Replace(sample())
	got := s.ForAdminView(string(models.ComplaintPending), All)
	assert.Equal(t, []int{3, 2}, ids(got))
	for _, c := range got {
		assert.True(t, c.IsPending())
	}
}

func TestFilterCompositionIsAnd(t *testing.T) {
	s := NewStore()
	s.Replace(sample())

	byCategory := s.ForAdminView(All, "Maintenance")
	byStatus := s.ForAdminView(string(models.ComplaintResolved), All)
	both := s.ForAdminView(string(models.ComplaintResolved), "Maintenance")

	inStatus := make(map[int]bool)
	for _, c := range byStatus {
		inStatus[c.ID] = true
	}
	var intersection []int
	for _, c := range byCategory {
		if inStatus[c.ID] {
			intersection = append(intersection, c.ID)
		}
	}
	assert.Equal(t, intersection, ids(both))
	assert.Equal(t, []int{1, 4}, ids(both))
}

func TestAggregateIgnoresFilters(t *testing.T) {
	s := NewStore()
	assert.Equal(t, Stats{}, s.Aggregate())

	s.Replace(sample())
	_ = s.ForAdminView(string(models.ComplaintPending), "Hostel")
	stats := s.Aggregate()
	assert.Equal(t, Stats{Total: 5, Pending: 2, Resolved: 3}, stats)

	s.Replace(append(sample(), models.Complaint{ID: 6, Status: "escalated"}))
	stats = s.Aggregate()
	require.Equal(t, 6, stats.Total)
	assert.Equal(t, stats.Total, stats.Pending+stats.Resolved)
}

func TestCategoriesFirstSeen(t *testing.T) {
	s := NewStore()
	s.Replace(sample())
	assert.Equal(t, []string{"Hostel", "Maintenance"}, s.Categories())

	s.Clear()
	assert.Zero(t, s.Len())
}
