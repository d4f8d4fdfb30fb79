package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-locator-api/internal/service"
	appErrors "github.com/noah-isme/faculty-locator-api/pkg/errors"
)

type exporterMock struct {
	query  string
	format string
	cached bool
}

func (m *exporterMock) Render(ctx context.Context, query, format string) (*service.ExportResult, error) {
	m.query = query
	m.format = format
	if format != "csv" {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, "format is not enabled")
	}
	return &service.ExportResult{
		Filename:    "f001-timetable.csv",
		ContentType: "text/csv",
		Payload:     []byte("Day,Start\nMonday,09:00\n"),
		Cached:      m.cached,
	}, nil
}

func (m *exporterMock) Formats() []string { return []string{"csv"} }

func TestExportHandlerExport(t *testing.T) {
	mock := &exporterMock{cached: true}
	handler := NewExportHandler(mock)

	c, w := newTestContext(http.MethodGet, "/faculty/F001/export?format=csv", nil, gin.Params{{Key: "id", Value: "F001"}})
	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "F001", mock.query)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="f001-timetable.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), "Monday,09:00")
}

func TestExportHandlerRejectsFormats(t *testing.T) {
	handler := NewExportHandler(&exporterMock{})

	c, w := newTestContext(http.MethodGet, "/faculty/F001/export", nil, gin.Params{{Key: "id", Value: "F001"}})
	handler.Export(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(http.MethodGet, "/faculty/F001/export?format=pdf", nil, gin.Params{{Key: "id", Value: "F001"}})
	handler.Export(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrUnsupportedFormat.Code, env.Error.Code)
}

func TestExportHandlerFormats(t *testing.T) {
	handler := NewExportHandler(&exporterMock{})
	c, w := newTestContext(http.MethodGet, "/exports/formats", nil, nil)

	handler.Formats(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"formats":["csv"]`)
}
