package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/belalwws/noor-academy-sub008/internal/liststore"
	"github.com/belalwws/noor-academy-sub008/internal/models"
	"github.com/belalwws/noor-academy-sub008/internal/upstream"
	"github.com/belalwws/noor-academy-sub008/pkg/config"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
	"github.com/belalwws/noor-academy-sub008/pkg/export"
	"github.com/belalwws/noor-academy-sub008/pkg/retry"
)

type reportAPI interface {
	List(ctx context.Context, filters url.Values) (upstream.List[models.Report], error)
	Patch(ctx context.Context, id string, payload interface{}) (models.Report, error)
}

// ReportService mirrors the supervisor dashboard's report rows, keyed by
// status filter, and renders snapshots to CSV or PDF for download.
type ReportService struct {
	api     reportAPI
	views   *syncViews[models.Report]
	exports config.ExportsConfig
	logger  *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(api reportAPI, reconcile config.ReconcileConfig, exports config.ExportsConfig, metrics *MetricsService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	schedule := retry.NewSchedule(reconcile.Delays...)
	svc := &ReportService{api: api, exports: exports, logger: logger}
	svc.views = newSyncViews(func(status string) *syncView[models.Report] {
		store := liststore.New(liststore.Options[models.Report]{
			Less:            func(a, b models.Report) bool { return a.CreatedAt.After(b.CreatedAt) },
			FreshnessWindow: reconcile.FreshnessWindow,
			Logger:          logger,
			Observer:        metrics,
		})
		fetch := func(ctx context.Context) ([]models.Report, error) {
			filters := url.Values{}
			if status != "" {
				filters.Set("status", status)
			}
			filters.Set("ordering", "-created_at")
			list, err := api.List(ctx, filters)
			if err != nil {
				return nil, err
			}
			return list.Results, nil
		}
		return &syncView[models.Report]{
			store:      store,
			reconciler: liststore.NewReconciler(store, fetch, schedule, logger),
		}
	})
	return svc
}

// List returns the mirrored reports for the given status filter ("" = all).
func (s *ReportService) List(ctx context.Context, status string) ([]models.Report, error) {
	view := s.views.get(status)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}

// SetStatus moves a report through review with local-trust semantics.
func (s *ReportService) SetStatus(ctx context.Context, viewStatus, id, status string) (*models.Report, error) {
	desired := models.ReportStatus(strings.ToLower(status))
	switch desired {
	case models.ReportStatusOpen, models.ReportStatusReviewed, models.ReportStatusClosed:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown report status")
	}
	view := s.views.get(viewStatus)
	if err := view.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	updated, err := view.store.Patch(ctx, id,
		func(r *models.Report) { r.Status = desired },
		func(ctx context.Context, _ models.Report) (models.Report, error) {
			return s.api.Patch(ctx, id, map[string]string{"status": string(desired)})
		})
	if err != nil {
		return nil, mapStoreErr(err, "report")
	}
	return &updated, nil
}

// Reconcile forces a synchronous authoritative refresh.
func (s *ReportService) Reconcile(ctx context.Context, status string) ([]models.Report, error) {
	view := s.views.get(status)
	if err := view.reconciler.Now(ctx); err != nil {
		return nil, err
	}
	return view.store.Snapshot(), nil
}

var reportColumns = []export.Column{
	{Key: "id", Label: "ID"},
	{Key: "subject", Label: "Subject"},
	{Key: "status", Label: "Status"},
	{Key: "reporter", Label: "Reporter"},
	{Key: "summary", Label: "Summary"},
	{Key: "created_at", Label: "Created"},
}

// ExportCSV renders the current snapshot as CSV.
func (s *ReportService) ExportCSV(ctx context.Context, status string) ([]byte, error) {
	table, err := s.table(ctx, status)
	if err != nil {
		return nil, err
	}
	data, err := table.CSV(s.exports.CSVHeader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv export")
	}
	return data, nil
}

// ExportPDF renders the current snapshot as PDF.
func (s *ReportService) ExportPDF(ctx context.Context, status string) ([]byte, error) {
	table, err := s.table(ctx, status)
	if err != nil {
		return nil, err
	}
	data, err := table.PDF(s.exports.PDFTitle)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf export")
	}
	return data, nil
}

func (s *ReportService) table(ctx context.Context, status string) (export.Table, error) {
	if !s.exports.Enabled {
		return export.Table{}, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}
	rows, err := s.List(ctx, status)
	if err != nil {
		return export.Table{}, err
	}
	if max := s.exports.MaxRows; max > 0 && len(rows) > max {
		rows = rows[:max]
	}
	table := export.Table{Columns: reportColumns, Rows: make([]map[string]string, 0, len(rows))}
	for _, r := range rows {
		table.Rows = append(table.Rows, map[string]string{
			"id":         r.ID,
			"subject":    r.Subject,
			"status":     string(r.Status),
			"reporter":   r.ReporterID,
			"summary":    r.Summary,
			"created_at": r.CreatedAt.Format(time.RFC3339),
		})
	}
	return table, nil
}
