package service

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belalwws/noor-academy-sub008/internal/models"
	"github.com/belalwws/noor-academy-sub008/internal/upstream"
	"github.com/belalwws/noor-academy-sub008/pkg/config"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
)

type reportAPIStub struct {
	mu      sync.Mutex
	rows    []models.Report
	patched map[string]interface{}
}

func (s *reportAPIStub) List(ctx context.Context, filters url.Values) (upstream.List[models.Report], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]models.Report, 0, len(s.rows))
	status := filters.Get("status")
	for _, row := range s.rows {
		if status == "" || string(row.Status) == status {
			rows = append(rows, row)
		}
	}
	return upstream.List[models.Report]{Results: rows, Count: len(rows)}, nil
}

func (s *reportAPIStub) Patch(ctx context.Context, id string, payload interface{}) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.patched == nil {
		s.patched = map[string]interface{}{}
	}
	s.patched[id] = payload
	for _, row := range s.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return models.Report{ID: id}, nil
}

func testExportsConfig() config.ExportsConfig {
	return config.ExportsConfig{
		Enabled:   true,
		MaxRows:   100,
		PDFTitle:  "Reports",
		CSVHeader: true,
	}
}

func sampleReports() []models.Report {
	now := time.Now()
	return []models.Report{
		{ID: "r1", Subject: "Broken video", Status: models.ReportStatusOpen, ReporterID: "u1", CreatedAt: now},
		{ID: "r2", Subject: "Wrong grade", Status: models.ReportStatusReviewed, ReporterID: "u2", CreatedAt: now.Add(-time.Hour)},
	}
}

func TestReportServiceListFiltersByStatus(t *testing.T) {
	api := &reportAPIStub{rows: sampleReports()}
	svc := NewReportService(api, testReconcileConfig(), testExportsConfig(), nil, nil)

	rows, err := svc.List(context.Background(), "open")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "r1", rows[0].ID)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReportServiceSetStatusKeepsLocalValue(t *testing.T) {
	api := &reportAPIStub{rows: sampleReports()}
	svc := NewReportService(api, testReconcileConfig(), testExportsConfig(), nil, nil)

	updated, err := svc.SetStatus(context.Background(), "", "r1", "reviewed")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusReviewed, updated.Status)
	assert.Equal(t, map[string]string{"status": "reviewed"}, api.patched["r1"])
}

func TestReportServiceSetStatusRejectsUnknownValue(t *testing.T) {
	svc := NewReportService(&reportAPIStub{}, testReconcileConfig(), testExportsConfig(), nil, nil)
	_, err := svc.SetStatus(context.Background(), "", "r1", "done")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportServiceExportCSV(t *testing.T) {
	api := &reportAPIStub{rows: sampleReports()}
	svc := NewReportService(api, testReconcileConfig(), testExportsConfig(), nil, nil)

	data, err := svc.ExportCSV(context.Background(), "")
	require.NoError(t, err)
	text := string(data)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Subject,Status,Reporter,Summary,Created", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Broken video")
}

func TestReportServiceExportPDFProducesDocument(t *testing.T) {
	api := &reportAPIStub{rows: sampleReports()}
	svc := NewReportService(api, testReconcileConfig(), testExportsConfig(), nil, nil)

	data, err := svc.ExportPDF(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestReportServiceExportDisabled(t *testing.T) {
	exports := testExportsConfig()
	exports.Enabled = false
	svc := NewReportService(&reportAPIStub{}, testReconcileConfig(), exports, nil, nil)

	_, err := svc.ExportCSV(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestReportServiceExportTruncatesToMaxRows(t *testing.T) {
	exports := testExportsConfig()
	exports.MaxRows = 1
	api := &reportAPIStub{rows: sampleReports()}
	svc := NewReportService(api, testReconcileConfig(), exports, nil, nil)

	data, err := svc.ExportCSV(context.Background(), "")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
}
