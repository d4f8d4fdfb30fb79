package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Revathi (F001)",
		Headers: []string{"Day", "Start", "Room"},
		Rows: []map[string]string{
			{"Day": "Monday", "Start": "09:00", "Room": "BLOCK 1"},
			{"Day": "Monday", "Start": "11:45"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Day,Start,Room", lines[0])
	assert.Equal(t, "Monday,11:45,", lines[2])
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	require.Error(t, err)
	_, err = NewXLSXExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestDatasetValidateAndBands(t *testing.T) {
	require.Error(t, Dataset{Headers: []string{"Day", "Day"}}.Validate())

	data := Dataset{
		Headers: []string{"Day", "Start"},
		GroupBy: "Day",
		Rows: []map[string]string{
			{"Day": "Monday"}, {"Day": "Monday"}, {"Day": "Tuesday"}, {"Day": "Saturday"},
		},
	}
	require.NoError(t, data.Validate())
	assert.Equal(t, []bool{false, false, true, false}, data.bands())
	assert.Equal(t, []bool{false, false}, Dataset{Rows: data.Rows[:2]}.bands())
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(out, []byte("PK")))
}

func TestICSExporterRender(t *testing.T) {
	start := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	out, err := NewICSExporter().Render("Revathi", []CalendarEvent{{
		UID:      "F001-monday-0900",
		Summary:  "CSE Section A",
		Location: "BLOCK 1",
		Start:    start,
		End:      start.Add(55 * time.Minute),
		Weekly:   true,
	}}, start)
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "UID:F001-monday-0900")
	assert.Contains(t, body, "RRULE:FREQ=WEEKLY")
	assert.Contains(t, body, "LOCATION:BLOCK 1")
}

func TestICSExporterRejectsInvertedEvents(t *testing.T) {
	start := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	_, err := NewICSExporter().Render("x", []CalendarEvent{{UID: "a", Start: start, End: start}}, start)
	require.Error(t, err)
}
