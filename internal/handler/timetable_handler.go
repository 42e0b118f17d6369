package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/relief-api/internal/service"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
	"github.com/schoolops/relief-api/pkg/response"
)

// TimetableHandler wires the weekly schedule to HTTP routes.
type TimetableHandler struct {
	timetable *service.TimetableService
}

// NewTimetableHandler constructs a new TimetableHandler.
func NewTimetableHandler(timetable *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetable: timetable}
}

// List godoc
// @Summary List timetable entries
// @Tags Timetable
// @Produce json
// @Param day query string false "Weekday name"
// @Param teacherId query int false "Filter by teacher"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var teacherID *int64
	if raw := c.Query("teacherId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "teacherId must be an integer"))
			return
		}
		teacherID = &id
	}

	views, err := h.timetable.List(c.Request.Context(), c.Query("day"), teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}
