package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/scoring"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

type ExportService interface {
	// ExportUserResults renders a user's results and statistics as an XLSX
	// workbook.
	ExportUserResults(ctx context.Context, userID string) ([]byte, error)
}

type exportService struct {
	results ResultService
	logger  *slog.Logger
}

func NewExportService(results ResultService, logger *slog.Logger) ExportService {
	return &exportService{
		results: results,
		logger:  logger,
	}
}

func (s *exportService) ExportUserResults(ctx context.Context, userID string) ([]byte, error) {
	history, err := s.results.GetHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary, err := s.results.GetStatistics(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	headers := []interface{}{
		"Result ID", "Exam ID", "Exam", "Completed At", "Score", "Total Points",
		"Percentage", "Passed", "Time Spent",
	}
	if err := writeRow(f, resultsSheet, 1, headers); err != nil {
		return nil, err
	}

	row := 2
	for _, entry := range history {
		for _, r := range entry.Results {
			values := []interface{}{
				r.ID,
				r.ExamID,
				entry.ExamTitle,
				r.CompletedAt.Format("2006-01-02 15:04:05"),
				r.Score,
				r.TotalPoints,
				fmt.Sprintf("%.1f", r.Percentage),
				passLabel(r.Passed),
				scoring.FormatTimeSpent(r.TimeSpent),
			}
			if err := writeRow(f, resultsSheet, row, values); err != nil {
				return nil, err
			}
			row++
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if err := writeSummary(f, summary, history); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.InfoContext(ctx, "Exported user results", "user_id", userID, "rows", row-2)
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, summary models.UserSummary, history []models.ExamHistory) error {
	rows := [][]interface{}{
		{"Total Exams", summary.TotalExams},
		{"Passed Exams", summary.PassedExams},
		{"Average Score", fmt.Sprintf("%.1f", summary.AverageScore)},
		{"Total Time Spent", scoring.FormatTimeSpent(summary.TotalTimeSpent)},
		{},
		{"Exam", "Attempts", "Average Score", "Best Score"},
	}
	for _, entry := range history {
		rows = append(rows, []interface{}{
			entry.ExamTitle,
			entry.AttemptsCount,
			fmt.Sprintf("%.1f", entry.AverageScore),
			fmt.Sprintf("%.1f", entry.BestScore),
		})
	}

	for i, values := range rows {
		if err := writeRow(f, summarySheet, i+1, values); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func passLabel(passed bool) string {
	if passed {
		return "Pass"
	}
	return "Fail"
}
