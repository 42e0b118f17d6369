package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	appErrors "github.com/schoolops/relief-api/pkg/errors"
	"github.com/schoolops/relief-api/pkg/export"
)

// Report formats supported by the exporter.
const (
	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"
)

// Report carries a rendered document ready to stream.
type Report struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportService renders substitution reports for download.
type ReportService struct {
	substitutions *SubstitutionService
	csv           *export.CSVExporter
	pdf           *export.PDFExporter
	logger        *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(substitutions *SubstitutionService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		substitutions: substitutions,
		csv:           export.NewCSVExporter(),
		pdf:           export.NewPDFExporter(),
		logger:        logger,
	}
}

// SubstitutionReport renders the day's cover assignments in the
// requested format.
func (s *ReportService) SubstitutionReport(ctx context.Context, date, format string) (*Report, error) {
	views, err := s.substitutions.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	headers := []string{"Period", "Class", "Original Teacher", "Substitute", "Status"}
	rows := make([]map[string]string, 0, len(views))
	for _, view := range views {
		rows = append(rows, map[string]string{
			"Period":           strconv.Itoa(view.Period),
			"Class":            view.Class,
			"Original Teacher": view.OriginalTeacherName,
			"Substitute":       view.SubstituteTeacherName,
			"Status":           string(view.Status),
		})
	}
	dataset := export.Dataset{Headers: headers, Rows: rows}

	switch format {
	case ReportFormatCSV, "":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render CSV report")
		}
		return &Report{
			FileName:    fmt.Sprintf("substitutions-%s.csv", date),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case ReportFormatPDF:
		content, err := s.pdf.Render(dataset, fmt.Sprintf("Substitutions %s", date))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render PDF report")
		}
		return &Report{
			FileName:    fmt.Sprintf("substitutions-%s.pdf", date),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
