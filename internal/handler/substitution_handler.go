package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/relief-api/internal/models"
	"github.com/schoolops/relief-api/internal/service"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
	"github.com/schoolops/relief-api/pkg/response"
)

// SubstitutionHandler wires cover assignment to HTTP routes.
type SubstitutionHandler struct {
	substitutions *service.SubstitutionService
}

// NewSubstitutionHandler constructs a new SubstitutionHandler.
func NewSubstitutionHandler(substitutions *service.SubstitutionService) *SubstitutionHandler {
	return &SubstitutionHandler{substitutions: substitutions}
}

// List godoc
// @Summary List substitutions for a date
// @Tags Substitutions
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /substitutions [get]
func (h *SubstitutionHandler) List(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	views, err := h.substitutions.ListByDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}

// Assign godoc
// @Summary Assign a substitute for a slot
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param payload body service.AssignSubstitutionRequest true "Substitution payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /substitutions [post]
func (h *SubstitutionHandler) Assign(c *gin.Context) {
	var req service.AssignSubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid substitution payload"))
		return
	}
	sub, err := h.substitutions.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}

// UpdateStatus godoc
// @Summary Advance a substitution's lifecycle
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param id path int true "Substitution ID"
// @Success 204
// @Router /substitutions/{id}/status [patch]
func (h *SubstitutionHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id must be an integer"))
		return
	}

	var payload struct {
		Status models.SubstitutionStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	if err := h.substitutions.UpdateStatus(c.Request.Context(), id, payload.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AbsenceBoard godoc
// @Summary Absent teachers and their uncovered slots for a date
// @Tags Substitutions
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /absences [get]
func (h *SubstitutionHandler) AbsenceBoard(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	board, err := h.substitutions.AbsenceBoard(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, board)
}
