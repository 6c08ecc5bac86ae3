package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/belalwws/noor-academy-sub008/internal/middleware"
	"github.com/belalwws/noor-academy-sub008/internal/service"
	"github.com/belalwws/noor-academy-sub008/internal/session"
)

// Services bundles everything the router wires up.
type Services struct {
	Batches         *service.BatchService
	Notes           *service.NoteService
	Courses         *service.CourseService
	Enrollments     *service.EnrollmentService
	Topics          *service.TopicService
	Reports         *service.ReportService
	RecordedCourses *service.RecordedCourseService
	KnowledgeLabs   *service.KnowledgeLabService
	Reminders       *service.ReminderService
	Session         *session.Manager
	Metrics         *service.MetricsService
}

// Register mounts all gateway routes under the given prefix.
func Register(r *gin.Engine, prefix string, svcs Services) {
	metricsHandler := NewMetricsHandler(svcs.Metrics)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(prefix)
	api.Use(middleware.Metrics(svcs.Metrics))

	api.GET("/status", metricsHandler.Status)

	if svcs.Session != nil {
		sessionHandler := NewSessionHandler(svcs.Session)
		api.PUT("/session", sessionHandler.Set)
		api.DELETE("/session", sessionHandler.Clear)
	}

	if svcs.Batches != nil {
		h := NewBatchHandler(svcs.Batches)
		api.GET("/batches", h.List)
		api.POST("/batches", h.Create)
		api.DELETE("/batches/:id", h.Delete)
		api.POST("/batches/reconcile", h.Reconcile)
	}

	if svcs.Notes != nil {
		h := NewNoteHandler(svcs.Notes)
		api.GET("/notes", h.List)
		api.POST("/notes", h.Create)
		api.DELETE("/notes/:id", h.Delete)
		api.PATCH("/notes/:id/pin", h.SetPinned)
		api.POST("/notes/reconcile", h.Reconcile)
	}

	if svcs.Courses != nil {
		h := NewCourseHandler(svcs.Courses)
		api.GET("/courses", h.List)
		api.POST("/courses", h.Create)
		api.PATCH("/courses/:id/status", h.SetStatus)
		api.PATCH("/courses/:id/accepting-applications", h.SetAcceptingApplications)
		api.PATCH("/courses/:id/hidden", h.SetHidden)
		api.POST("/courses/reconcile", h.Reconcile)
	}

	if svcs.Enrollments != nil {
		h := NewEnrollmentHandler(svcs.Enrollments)
		api.GET("/enrollments", h.List)
		api.POST("/enrollments", h.Create)
		api.PATCH("/enrollments/:id/status", h.SetStatus)
		api.DELETE("/enrollments/:id", h.Delete)
		api.POST("/enrollments/reconcile", h.Reconcile)
	}

	if svcs.Topics != nil {
		h := NewTopicHandler(svcs.Topics)
		api.GET("/topics", h.List)
		api.POST("/topics", h.Create)
		api.DELETE("/topics/:id", h.Delete)
		api.PATCH("/topics/:id/pin", h.SetPinned)
		api.PATCH("/topics/:id/hidden", h.SetHidden)
		api.POST("/topics/reconcile", h.Reconcile)
	}

	if svcs.Reports != nil {
		h := NewReportHandler(svcs.Reports)
		api.GET("/reports", h.List)
		api.PATCH("/reports/:id/status", h.SetStatus)
		api.GET("/reports/export/csv", h.ExportCSV)
		api.GET("/reports/export/pdf", h.ExportPDF)
		api.POST("/reports/reconcile", h.Reconcile)
	}

	if svcs.RecordedCourses != nil {
		h := NewRecordedCourseHandler(svcs.RecordedCourses)
		api.GET("/recorded-courses", h.List)
		api.PATCH("/recorded-courses/:id/hidden", h.SetHidden)
		api.DELETE("/recorded-courses/:id", h.Delete)
		api.POST("/recorded-courses/reconcile", h.Reconcile)
	}

	if svcs.KnowledgeLabs != nil {
		h := NewKnowledgeLabHandler(svcs.KnowledgeLabs)
		api.GET("/knowledge-labs", h.List)
		api.POST("/knowledge-labs", h.Create)
		api.DELETE("/knowledge-labs/:id", h.Delete)
		api.POST("/knowledge-labs/reconcile", h.Reconcile)
	}

	if svcs.Reminders != nil {
		h := NewReminderHandler(svcs.Reminders)
		api.GET("/users/:id/reminder-settings", h.Get)
		api.PUT("/users/:id/reminder-settings", h.Update)
	}
}
