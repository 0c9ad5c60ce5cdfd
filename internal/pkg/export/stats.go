// Package export renders monthly attendance figures as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/stats"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	summarySheet = "Summary"
	teamSheet    = "Team"
)

// MonthlyFilename is the attachment name of a user's monthly workbook.
func MonthlyFilename(month, userID string) string {
	return fmt.Sprintf("attendance_%s_%s.xlsx", month, sanitize(userID))
}

// TeamFilename is the attachment name of an organization's monthly workbook.
func TeamFilename(month string) string {
	return fmt.Sprintf("attendance_team_%s.xlsx", month)
}

// WriteMonthly writes a single-sheet workbook with one metric per row.
func WriteMonthly(w io.Writer, s stats.MonthlyStats, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	rows := [][]any{
		{"Monthly Attendance"},
		{"User", s.UserID},
		{"Month", s.Month},
		{},
		{"Metric", "Value"},
		{"Work days", s.WorkDays},
		{"Work hours", s.WorkHours},
		{"Base work hours", s.BaseWorkHours},
		{"Overtime hours", s.OvertimeHours},
		{"Fix punch hours", s.FixPunchHours},
		{"Trip hours", s.TripHours},
		{"Leave days", s.LeaveDays},
		{"Late count", s.LateCount},
		{"Early leave count", s.EarlyLeaveCount},
		{"Missing punch count", s.MissingPunchCount},
		{"Anomaly count", s.AnomalyCount},
		{},
		{"Generated at", generatedAt.UTC().Format(time.RFC3339)},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.MergeCell(summarySheet, "A1", "B1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", header); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A5", "B5", header); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 28); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

var teamColumns = []string{
	"Name", "User ID", "Work days", "Work hours", "Base hours", "Overtime hours",
	"Fix punch hours", "Trip hours", "Leave days", "Late", "Early leave",
	"Missing punch", "Anomalies",
}

// WriteTeam writes one row per member under a styled header row.
func WriteTeam(w io.Writer, month string, members []stats.TeamMemberStats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", teamSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(teamSheet, "A1", &[]any{"Team attendance " + month}); err != nil {
		return err
	}
	if err := f.SetSheetRow(teamSheet, "A2", &teamColumns); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(teamColumns), 2)
	if err := f.SetCellStyle(teamSheet, "A2", last, header); err != nil {
		return err
	}

	for i, m := range members {
		row := []any{
			m.FullName, m.UserID, m.WorkDays, m.WorkHours, m.BaseWorkHours, m.OvertimeHours,
			m.FixPunchHours, m.TripHours, m.LeaveDays, m.LateCount, m.EarlyLeaveCount,
			m.MissingPunchCount, m.AnomalyCount,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		if err := f.SetSheetRow(teamSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write member %s: %w", m.UserID, err)
		}
	}

	if err := f.SetColWidth(teamSheet, "A", "B", 24); err != nil {
		return err
	}
	if err := f.SetPanes(teamSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      2,
		TopLeftCell: "A3",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	return style, nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
