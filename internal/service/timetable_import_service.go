package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/schoolops/relief-api/internal/dto"
	"github.com/schoolops/relief-api/internal/models"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
)

// TimetableImportService ingests the wide timetable CSV: a header row
// of Day, Period followed by class names, then one data row per
// (day, period) with the assigned teacher in each class column.
type TimetableImportService struct {
	timetable timetableRepository
	teachers  *TeacherService
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewTimetableImportService constructs a TimetableImportService.
func NewTimetableImportService(timetable timetableRepository, teachers *TeacherService, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *TimetableImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableImportService{timetable: timetable, teachers: teachers, cache: cache, metrics: metrics, logger: logger}
}

// Import parses the CSV stream and replaces nothing: entries append to
// the existing schedule. Unknown teacher names are registered on the
// fly. Every data row counts toward Total; rows that are too short or
// have a blank day or non-numeric period are counted as skipped, and
// blank or "empty" class cells are ignored silently.
func (s *TimetableImportService) Import(ctx context.Context, r io.Reader) (*dto.TimetableImportSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "CSV file is empty")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed CSV file")
	}
	if len(header) < 3 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "header must list Day, Period and at least one class")
	}
	classes := header[2:]

	summary := &dto.TimetableImportSummary{NewTeachers: []models.Teacher{}}
	seenTeachers := make(map[int64]bool)
	var entries []models.TimetableEntry

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed CSV file")
		}
		summary.Total++
		if len(record) < 2 {
			summary.Skipped++
			s.metrics.ObserveImportRow("timetable", "skipped")
			continue
		}

		day := strings.TrimSpace(record[0])
		period, periodErr := strconv.Atoi(strings.TrimSpace(record[1]))
		if day == "" || periodErr != nil || period < 1 {
			summary.Skipped++
			s.metrics.ObserveImportRow("timetable", "skipped")
			continue
		}
		s.metrics.ObserveImportRow("timetable", "accepted")

		for i, class := range classes {
			cellIdx := i + 2
			if cellIdx >= len(record) {
				break
			}
			cell := strings.TrimSpace(record[cellIdx])
			if cell == "" || strings.EqualFold(cell, "empty") {
				continue
			}

			teacher, created, err := s.teachers.Resolve(ctx, cell, nil)
			if err != nil {
				return nil, fmt.Errorf("resolve teacher %q: %w", cell, err)
			}
			if created && !seenTeachers[teacher.ID] {
				summary.NewTeachers = append(summary.NewTeachers, *teacher)
			}
			seenTeachers[teacher.ID] = true

			entries = append(entries, models.TimetableEntry{
				Day:       day,
				Period:    period,
				Class:     strings.TrimSpace(class),
				TeacherID: teacher.ID,
			})
		}
	}

	if len(entries) > 0 {
		if _, err := s.timetable.BulkCreate(ctx, entries); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store timetable")
		}
	}
	summary.Created = len(entries)

	_ = s.cache.Invalidate(ctx, "timetable:*")
	s.logger.Info("timetable import complete",
		zap.Int("rows", summary.Total),
		zap.Int("entries", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("new_teachers", len(summary.NewTeachers)))
	return summary, nil
}
