package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Teachers      *TeacherHandler
	Attendance    *AttendanceHandler
	Timetable     *TimetableHandler
	Substitutions *SubstitutionHandler
	Periods       *PeriodHandler
	Activity      *ActivityHandler
	Messages      *MessageHandler
	Uploads       *UploadHandler
	Reports       *ReportHandler
	Metrics       http.Handler
}

// RegisterRoutes mounts all API routes under the given prefix, plus
// the health and metrics endpoints at the root.
func RegisterRoutes(router *gin.Engine, prefix string, h Handlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := router.Group(prefix)

	api.GET("/teachers", h.Teachers.List)
	api.POST("/teachers", h.Teachers.Create)
	api.GET("/teachers/:id", h.Teachers.Get)

	api.GET("/attendance", h.Attendance.DailyStatus)
	api.POST("/attendance", h.Attendance.Mark)

	api.GET("/timetable", h.Timetable.List)

	api.GET("/substitutions", h.Substitutions.List)
	api.POST("/substitutions", h.Substitutions.Assign)
	api.PATCH("/substitutions/:id/status", h.Substitutions.UpdateStatus)
	api.GET("/absences", h.Substitutions.AbsenceBoard)

	api.GET("/periods", h.Periods.List)
	api.POST("/periods", h.Periods.Create)
	api.GET("/periods/current", h.Periods.Current)
	api.PUT("/periods/:id", h.Periods.Update)

	api.GET("/activity-logs", h.Activity.List)

	api.GET("/messages", h.Messages.List)
	api.POST("/messages", h.Messages.Create)

	api.POST("/upload/teachers", h.Uploads.Teachers)
	api.POST("/upload/timetable", h.Uploads.Timetable)

	api.GET("/reports/substitutions", h.Reports.Substitutions)
}
