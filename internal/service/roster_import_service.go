package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/schoolops/relief-api/internal/dto"
	"github.com/schoolops/relief-api/internal/models"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
)

// RosterImportService ingests teacher roster CSV uploads. Files are
// headerless: each row is a teacher name with an optional phone number
// in the second column.
type RosterImportService struct {
	teachers *TeacherService
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewRosterImportService constructs a RosterImportService.
func NewRosterImportService(teachers *TeacherService, metrics *MetricsService, logger *zap.Logger) *RosterImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterImportService{teachers: teachers, metrics: metrics, logger: logger}
}

// Import reads the CSV stream and registers unknown teachers. Every
// parsed row counts toward Total; rows whose name is already
// registered count as skipped, rows with an empty name are dropped
// without affecting the other counters.
func (s *RosterImportService) Import(ctx context.Context, r io.Reader) (*dto.RosterImportSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	summary := &dto.RosterImportSummary{NewTeachers: []models.Teacher{}}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed CSV file")
		}
		if len(record) == 0 {
			continue
		}
		summary.Total++

		name := NormalizeName(record[0])
		if name == "" {
			continue
		}

		var phone *string
		if len(record) > 1 {
			phone = normalizeOptional(&record[1])
		}
		teacher, created, err := s.teachers.Resolve(ctx, name, phone)
		if err != nil {
			return nil, fmt.Errorf("import teacher %q: %w", name, err)
		}
		if created {
			summary.Created++
			summary.NewTeachers = append(summary.NewTeachers, *teacher)
			s.metrics.ObserveImportRow("roster", "created")
		} else {
			summary.Skipped++
			s.metrics.ObserveImportRow("roster", "skipped")
		}
	}

	s.logger.Info("roster import complete",
		zap.Int("total", summary.Total),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}
