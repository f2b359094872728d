package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/frontdesk-log/internal/application"
)

func TestWriteReport(t *testing.T) {
	summary := application.ReportSummary{
		Window: application.ReportLast7Days,
		Cutoff: time.Date(2024, time.March, 3, 14, 30, 0, 0, time.UTC),
		Total:  3,
		ByCategory: []application.ReportBar{
			{Label: "Complaint", Count: 2, Color: "#c0392b"},
			{Label: "Request", Count: 1, Color: "#8e44ad"},
		},
		ByStaff:    []application.ReportBar{{Label: "Alice", Count: 3, Color: "#0A66C2"}},
		ByPriority: []application.ReportBar{{Label: "Medium", Count: 3, Color: "#f39c12"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, summary))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Category", "Staff", "Priority", "Status"}, f.GetSheetList())

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Window (days)", "7"},
		{"Since", "2024-03-03T14:30:00Z"},
		{"Entries", "3"},
	}, rows)

	rows, err = f.GetRows("Category")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Label", "Count"}, {"Complaint", "2"}, {"Request", "1"}}, rows)

	styleID, err := f.GetCellStyle("Category", "B2")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotEmpty(t, style.Fill.Color)
	assert.True(t, strings.HasSuffix(strings.ToUpper(style.Fill.Color[0]), "C0392B"), "fill %v", style.Fill.Color)

	rows, err = f.GetRows("Status")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Label", "Count"}}, rows)
}

func TestFillColor(t *testing.T) {
	assert.Equal(t, "0A66C2", fillColor("#0a66c2"))
	assert.Equal(t, "10B981", fillColor("10B981"))
}
