package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataset() Dataset {
	return Dataset{
		Headers: []string{"ID", "Category", "Description"},
		Widths:  []float64{1, 2, 5},
		Rows: []map[string]string{
			{"ID": "1", "Category": "Hostel", "Description": "No water, again"},
			{"ID": "2", "Category": "Maintenance", "Description": strings.Repeat("broken fan ", 40)},
		},
	}
}

func TestRenderCSV(t *testing.T) {
	out, err := Render(FormatCSV, dataset(), "")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Category,Description", lines[0])
	assert.Equal(t, `1,Hostel,"No water, again"`, lines[1])
}

func TestRenderPDF(t *testing.T) {
	out, err := Render(FormatPDF, dataset(), "Complaints")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRequiresHeaders(t *testing.T) {
	_, err := Render(FormatCSV, Dataset{}, "")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestColumnWidthsSumToTotal(t *testing.T) {
	widths := columnWidths(Dataset{Headers: []string{"a", "b", "c"}, Widths: []float64{2}}, 100)
	assert.InDelta(t, 50, widths[0], 0.001)
	assert.InDelta(t, 25, widths[1], 0.001)
	assert.InDelta(t, 100, widths[0]+widths[1]+widths[2], 0.001)
}
