package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/relief-api/internal/service"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
	"github.com/schoolops/relief-api/pkg/response"
)

// UploadHandler ingests CSV uploads for the roster and timetable.
type UploadHandler struct {
	roster      *service.RosterImportService
	timetable   *service.TimetableImportService
	maxFileSize int64
}

// NewUploadHandler constructs a new UploadHandler.
func NewUploadHandler(roster *service.RosterImportService, timetable *service.TimetableImportService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{roster: roster, timetable: timetable, maxFileSize: maxFileSize}
}

// Teachers godoc
// @Summary Upload a teacher roster CSV
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Headerless CSV: name, optional phone"
// @Success 200 {object} response.Envelope
// @Router /upload/teachers [post]
func (h *UploadHandler) Teachers(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	summary, err := h.roster.Import(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// Timetable godoc
// @Summary Upload a weekly timetable CSV
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Wide CSV: Day, Period, one column per class"
// @Success 200 {object} response.Envelope
// @Router /upload/timetable [post]
func (h *UploadHandler) Timetable(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	summary, err := h.timetable.Import(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

func (h *UploadHandler) openUpload(c *gin.Context) (multipart.File, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "multipart field \"file\" is required"))
		return nil, false
	}
	if h.maxFileSize > 0 && header.Size > h.maxFileSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file exceeds the upload size limit"))
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload"))
		return nil, false
	}
	return file, true
}
