package render

import (
	"strconv"

	"github.com/noah-isme/campus-complaints/pkg/export"
)

var exportHeaders = []string{"ID", "Student ID", "Student", "Category", "Description", "Status", "Submitted", "Resolved"}

// Dataset flattens a view into rows for CSV or PDF export.
func Dataset(v View) export.Dataset {
	data := export.Dataset{
		Headers: exportHeaders,
		Widths:  []float64{0.6, 1.2, 1.6, 1.3, 4, 1, 1.2, 1.2},
		Rows:    make([]map[string]string, 0, len(v.Cards)),
	}
	for _, c := range v.Cards {
		data.Rows = append(data.Rows, map[string]string{
			"ID":          strconv.Itoa(c.ID),
			"Student ID":  c.StudentID,
			"Student":     c.StudentName,
			"Category":    c.Category,
			"Description": c.Description,
			"Status":      string(c.Status),
			"Submitted":   c.SubmittedAt,
			"Resolved":    c.ResolvedAt,
		})
	}
	return data
}
