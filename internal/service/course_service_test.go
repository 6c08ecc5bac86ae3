package service

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belalwws/noor-academy-sub008/internal/models"
	"github.com/belalwws/noor-academy-sub008/internal/upstream"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
)

type courseAPIStub struct {
	mu      sync.Mutex
	rows    []models.Course
	filters url.Values
	patched map[string]interface{}
}

func (s *courseAPIStub) List(ctx context.Context, filters url.Values) (upstream.List[models.Course], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters
	rows := make([]models.Course, len(s.rows))
	copy(rows, s.rows)
	return upstream.List[models.Course]{Results: rows, Count: len(rows)}, nil
}

func (s *courseAPIStub) Create(ctx context.Context, payload interface{}) (models.Course, error) {
	req := payload.(CreateCourseRequest)
	created := models.Course{
		ID:        "c-new",
		Title:     req.Title,
		TeacherID: req.TeacherID,
		Status:    models.CourseStatusPending,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.rows = append(s.rows, created)
	s.mu.Unlock()
	return created, nil
}

func (s *courseAPIStub) Patch(ctx context.Context, id string, payload interface{}) (models.Course, error) {
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
	return models.Course{ID: id}, nil
}

func TestCourseServiceListScopesToTeacher(t *testing.T) {
	api := &courseAPIStub{rows: []models.Course{{ID: "c1", TeacherID: "t1"}}}
	svc := NewCourseService(api, nil, testReconcileConfig(), nil, nil)

	_, err := svc.List(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", api.filters.Get("teacher"))
}

func TestCourseServiceListUnscopedOmitsTeacherFilter(t *testing.T) {
	api := &courseAPIStub{rows: []models.Course{{ID: "c1"}}}
	svc := NewCourseService(api, nil, testReconcileConfig(), nil, nil)

	_, err := svc.List(context.Background(), allCoursesView)
	require.NoError(t, err)
	assert.Empty(t, api.filters.Get("teacher"))
}

func TestCourseServiceSetStatusAppliesImmediately(t *testing.T) {
	api := &courseAPIStub{rows: []models.Course{{ID: "c1", Status: models.CourseStatusPending}}}
	svc := NewCourseService(api, nil, testReconcileConfig(), nil, nil)

	updated, err := svc.SetStatus(context.Background(), allCoursesView, "c1", "approved")
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusApproved, updated.Status)
	assert.Equal(t, map[string]string{"status": "approved"}, api.patched["c1"])
}

func TestCourseServiceSetStatusRejectsUnknownValue(t *testing.T) {
	svc := NewCourseService(&courseAPIStub{}, nil, testReconcileConfig(), nil, nil)
	_, err := svc.SetStatus(context.Background(), allCoursesView, "c1", "granted")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceTogglesTrustLocalValue(t *testing.T) {
	// The upstream echo returns the row before the write landed; the mirror
	// must keep the toggled value anyway.
	api := &courseAPIStub{rows: []models.Course{{ID: "c1", AcceptingApplications: false}}}
	svc := NewCourseService(api, nil, testReconcileConfig(), nil, nil)

	updated, err := svc.SetAcceptingApplications(context.Background(), allCoursesView, "c1", true)
	require.NoError(t, err)
	assert.True(t, updated.AcceptingApplications)
	assert.Equal(t, map[string]bool{"accepting_applications": true}, api.patched["c1"])

	hidden, err := svc.SetHidden(context.Background(), allCoursesView, "c1", true)
	require.NoError(t, err)
	assert.True(t, hidden.IsHidden)
}

func TestCourseServiceSetStatusUnknownCourse(t *testing.T) {
	api := &courseAPIStub{}
	svc := NewCourseService(api, nil, testReconcileConfig(), nil, nil)
	_, err := svc.SetStatus(context.Background(), allCoursesView, "missing", "approved")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
