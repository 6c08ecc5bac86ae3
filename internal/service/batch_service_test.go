package service

import (
	"context"
	"errors"
	"net/url"
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

type batchAPIStub struct {
	mu        sync.Mutex
	rows      []models.Batch
	createErr error
	deleteErr error
	listCalls int
	deleted   []string

	// lagging hides created rows from List, like a backend whose list
	// index trails its writes.
	lagging bool
	hidden  []models.Batch
}

func (s *batchAPIStub) List(ctx context.Context, filters url.Values) (upstream.List[models.Batch], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	rows := make([]models.Batch, len(s.rows))
	copy(rows, s.rows)
	return upstream.List[models.Batch]{Results: rows, Count: len(rows)}, nil
}

func (s *batchAPIStub) Create(ctx context.Context, payload interface{}) (models.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return models.Batch{}, s.createErr
	}
	req := payload.(CreateBatchRequest)
	created := models.Batch{
		ID:        "b-new",
		CourseID:  req.CourseID,
		Name:      req.Name,
		Type:      models.BatchType(req.Type),
		Status:    models.BatchStatusActive,
		CreatedAt: time.Now(),
	}
	if s.lagging {
		s.hidden = append(s.hidden, created)
	} else {
		s.rows = append(s.rows, created)
	}
	return created, nil
}

func (s *batchAPIStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	for i, row := range s.rows {
		if row.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			break
		}
	}
	return nil
}

func testReconcileConfig() config.ReconcileConfig {
	return config.ReconcileConfig{
		Delays:          []time.Duration{time.Millisecond},
		FreshnessWindow: 30 * time.Second,
	}
}

func TestBatchServiceListLoadsViewOnFirstUse(t *testing.T) {
	api := &batchAPIStub{rows: []models.Batch{{ID: "b1", CourseID: "c1"}}}
	svc := NewBatchService(api, nil, testReconcileConfig(), nil, nil)

	rows, err := svc.List(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b1", rows[0].ID)
	assert.Equal(t, 1, api.listCalls)

	// Second list serves the mirror without refetching.
	_, err = svc.List(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, api.listCalls)
}

func TestBatchServiceListRequiresCourse(t *testing.T) {
	svc := NewBatchService(&batchAPIStub{}, nil, testReconcileConfig(), nil, nil)
	_, err := svc.List(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBatchServiceCreateInsertsConfirmedRow(t *testing.T) {
	api := &batchAPIStub{}
	svc := NewBatchService(api, nil, testReconcileConfig(), nil, nil)
	_, err := svc.List(context.Background(), "c1")
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), CreateBatchRequest{
		CourseID: "c1", Name: "Group A", Type: "group",
	})
	require.NoError(t, err)
	assert.Equal(t, "b-new", created.ID)

	rows, err := svc.List(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b-new", rows[0].ID)
}

func TestBatchServiceCreateBeforeFirstListSurvivesLaggingBackend(t *testing.T) {
	// The backend confirms the create but its list index lags, so the
	// initial fetch does not return the new row yet.
	api := &batchAPIStub{lagging: true}
	svc := NewBatchService(api, nil, testReconcileConfig(), nil, nil)

	created, err := svc.Create(context.Background(), CreateBatchRequest{
		CourseID: "c1", Name: "Group A", Type: "group",
	})
	require.NoError(t, err)

	rows, err := svc.List(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, created.ID, rows[0].ID)
}

func TestBatchServiceCreateValidatesPayload(t *testing.T) {
	svc := NewBatchService(&batchAPIStub{}, nil, testReconcileConfig(), nil, nil)
	_, err := svc.Create(context.Background(), CreateBatchRequest{CourseID: "c1", Name: "x", Type: "bogus"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBatchServiceCreateFailureLeavesMirrorUnchanged(t *testing.T) {
	api := &batchAPIStub{createErr: errors.New("upstream down")}
	svc := NewBatchService(api, nil, testReconcileConfig(), nil, nil)
	_, err := svc.List(context.Background(), "c1")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateBatchRequest{CourseID: "c1", Name: "Group A", Type: "group"})
	require.Error(t, err)

	rows, err := svc.List(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBatchServiceDeleteRemovesRow(t *testing.T) {
	api := &batchAPIStub{rows: []models.Batch{{ID: "b1", CourseID: "c1"}}}
	svc := NewBatchService(api, nil, testReconcileConfig(), nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "c1", "b1"))
	assert.Equal(t, []string{"b1"}, api.deleted)

	rows, err := svc.List(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBatchServiceDeleteFailureRestoresRow(t *testing.T) {
	api := &batchAPIStub{
		rows:      []models.Batch{{ID: "b1", CourseID: "c1"}},
		deleteErr: errors.New("rejected"),
	}
	svc := NewBatchService(api, nil, testReconcileConfig(), nil, nil)

	err := svc.Delete(context.Background(), "c1", "b1")
	require.Error(t, err)

	rows, err := svc.List(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b1", rows[0].ID)
}

func TestBatchServiceDeleteUnknownIDMapsToNotFound(t *testing.T) {
	api := &batchAPIStub{}
	svc := NewBatchService(api, nil, testReconcileConfig(), nil, nil)
	err := svc.Delete(context.Background(), "c1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBatchServiceReconcileRefreshesMirror(t *testing.T) {
	api := &batchAPIStub{rows: []models.Batch{{ID: "b1", CourseID: "c1"}}}
	svc := NewBatchService(api, nil, testReconcileConfig(), nil, nil)
	_, err := svc.List(context.Background(), "c1")
	require.NoError(t, err)

	api.mu.Lock()
	api.rows = append(api.rows, models.Batch{ID: "b2", CourseID: "c1"})
	api.mu.Unlock()

	rows, err := svc.Reconcile(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
