package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/prep-ai/interview-service/internal/repositories"
)

const exportSheet = "Interview History"

// ExportHistory renders the user's full session history as an XLSX workbook
// with one row per session and a stats block underneath.
func (s *sessionService) ExportHistory(ctx context.Context, userID uint) ([]byte, error) {
	sessions, _, err := s.repo.Session().ListByUser(ctx, nil, userID, repositories.SessionFilters{
		Limit:     1000,
		SortBy:    "started_at",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions for export: %w", err)
	}

	stats, err := s.repo.Session().GetUserStats(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create export sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []string{"ID", "Job Role", "Company", "Type", "Difficulty", "Status", "Questions", "Overall Score", "Started", "Completed"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write export header: %w", err)
		}
	}

	row := 2
	for _, session := range sessions {
		company := ""
		if session.Company != nil {
			company = *session.Company
		}
		overall := ""
		if session.OverallScore != nil {
			overall = fmt.Sprintf("%.0f", *session.OverallScore)
		}
		completed := ""
		if session.CompletedAt != nil {
			completed = session.CompletedAt.Format("2006-01-02 15:04")
		}

		values := []any{
			session.ID,
			session.JobRole,
			company,
			session.InterviewType,
			session.Difficulty,
			string(session.Status),
			session.EntryCount,
			overall,
			session.StartedAt.Format("2006-01-02 15:04"),
			completed,
		}
		for i, value := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write export row: %w", err)
			}
		}
		row++
	}

	row++
	statLines := [][2]any{
		{"Total sessions", stats.TotalSessions},
		{"Completed sessions", stats.CompletedSessions},
		{"Average score", fmt.Sprintf("%.1f", stats.AverageScore)},
		{"Best score", fmt.Sprintf("%.1f", stats.BestScore)},
		{"Total questions", stats.TotalQuestions},
	}
	for _, line := range statLines {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(exportSheet, labelCell, line[0]); err != nil {
			return nil, fmt.Errorf("failed to write export stats: %w", err)
		}
		if err := f.SetCellValue(exportSheet, valueCell, line[1]); err != nil {
			return nil, fmt.Errorf("failed to write export stats: %w", err)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render export workbook: %w", err)
	}
	return buf.Bytes(), nil
}
