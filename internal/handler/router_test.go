package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/belalwws/noor-academy-sub008/internal/models"
	"github.com/belalwws/noor-academy-sub008/internal/service"
	"github.com/belalwws/noor-academy-sub008/internal/upstream"
	"github.com/belalwws/noor-academy-sub008/pkg/config"
	"github.com/belalwws/noor-academy-sub008/pkg/response"
)

type batchBackend struct {
	mu   sync.Mutex
	rows []models.Batch
	next int
}

func (b *batchBackend) List(ctx context.Context, filters url.Values) (upstream.List[models.Batch], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rows := make([]models.Batch, len(b.rows))
	copy(rows, b.rows)
	return upstream.List[models.Batch]{Results: rows, Count: len(rows)}, nil
}

func (b *batchBackend) Create(ctx context.Context, payload interface{}) (models.Batch, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req := payload.(service.CreateBatchRequest)
	b.next++
	created := models.Batch{
		ID:        "b-" + string(rune('0'+b.next)),
		CourseID:  req.CourseID,
		Name:      req.Name,
		Type:      models.BatchType(req.Type),
		CreatedAt: time.Now(),
	}
	b.rows = append(b.rows, created)
	return created, nil
}

func (b *batchBackend) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, row := range b.rows {
		if row.ID == id {
			b.rows = append(b.rows[:i], b.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func newTestRouter(t *testing.T, backend *batchBackend) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reconcile := config.ReconcileConfig{
		Delays:          []time.Duration{time.Millisecond},
		FreshnessWindow: 30 * time.Second,
	}
	metrics := service.NewMetricsService()
	batches := service.NewBatchService(backend, nil, reconcile, metrics, nil)

	r := gin.New()
	Register(r, "/api/v1", Services{Batches: batches, Metrics: metrics})
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestRouterBatchLifecycle(t *testing.T) {
	backend := &batchBackend{}
	r := newTestRouter(t, backend)

	w := doJSON(t, r, http.MethodPost, "/api/v1/batches", service.CreateBatchRequest{
		CourseID: "c1", Name: "Group A", Type: "group",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeEnvelope(t, w)
	require.NotNil(t, created.Data)

	w = doJSON(t, r, http.MethodGet, "/api/v1/batches?course=c1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decodeEnvelope(t, w)
	rows, ok := listed.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)

	w = doJSON(t, r, http.MethodPost, "/api/v1/batches/reconcile?course=c1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/batches/b-1?course=c1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/batches?course=c1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed = decodeEnvelope(t, w)
	require.Empty(t, listed.Data)
}

func TestRouterValidationErrorShape(t *testing.T) {
	r := newTestRouter(t, &batchBackend{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/batches", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	require.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestRouterDeleteUnknownBatchReturns404(t *testing.T) {
	r := newTestRouter(t, &batchBackend{})

	w := doJSON(t, r, http.MethodDelete, "/api/v1/batches/missing?course=c1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterHealthAndMetricsEndpoints(t *testing.T) {
	r := newTestRouter(t, &batchBackend{})

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
