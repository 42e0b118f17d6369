package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/relief-api/internal/service"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
	"github.com/schoolops/relief-api/pkg/response"
)

// ActivityHandler serves the activity feed.
type ActivityHandler struct {
	activity *service.ActivityService
}

// NewActivityHandler constructs a new ActivityHandler.
func NewActivityHandler(activity *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// List godoc
// @Summary List activity log entries, newest first
// @Tags Activity
// @Produce json
// @Param limit query int false "Maximum entries to return"
// @Success 200 {object} response.Envelope
// @Router /activity-logs [get]
func (h *ActivityHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	views, err := h.activity.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}
