package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/Veraticus/hotelpro/internal/report"
	"github.com/charmbracelet/lipgloss"
)

const progressWidth = 30

// RenderSummary renders the dashboard metrics for a terminal.
func RenderSummary(s report.Summary, userID, backend string) string {
	var b strings.Builder

	b.WriteString(FormatTitle("Hotel sales dashboard"))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("user %s · backend %s", userID, backend)))
	b.WriteString("\n\n")

	if s.Empty {
		b.WriteString(FormatWarning("No sales data. Add records with `hotelpro seed` or the edit page."))
		b.WriteString("\n")
		return b.String()
	}

	tiles := lipgloss.JoinHorizontal(lipgloss.Top,
		tile("Total revenue", report.FormatCurrency(s.TotalRevenue)),
		tile("Rooms sold", fmt.Sprintf("%d", s.SoldRooms)),
		tile("Occupancy", s.OccupancyLabel()),
		tile("Goal completion", report.FormatPercent(s.GoalCompletion)),
	)
	b.WriteString(tiles)
	b.WriteString("\n")
	b.WriteString(ProgressBar(s.GoalProgress, progressWidth))
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("  target %s", report.FormatCurrency(s.TargetRevenue))))
	b.WriteString("\n\n")

	b.WriteString(SubtitleStyle.Render("Daily revenue"))
	b.WriteString("\n")
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-12s %14s", "Date", "Revenue")))
	b.WriteString("\n")
	for _, d := range s.Daily {
		b.WriteString(TableCellStyle.Render(fmt.Sprintf("%-12s %14s", model.DayKey(d.Date), report.FormatCurrency(d.Revenue))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(SubtitleStyle.Render("Rooms sold by type"))
	b.WriteString("\n")
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-16s %6s", "Room type", "Sold")))
	b.WriteString("\n")
	for _, rt := range s.RoomTypes {
		b.WriteString(TableCellStyle.Render(fmt.Sprintf("%-16s %6d", rt.RoomType, rt.Count)))
		b.WriteString("\n")
	}

	return b.String()
}

func tile(label, value string) string {
	return TileStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		SubtleStyle.Render(label),
		MetricStyle.Render(value),
	))
}

// ProgressBar renders pct (0-100) as a bar of the given width.
func ProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = max(0, min(100, pct))
	filled := int(pct / 100 * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return ProgressStyle.Render(bar) + " " + BoldStyle.Render(fmt.Sprintf("%.1f%%", pct))
}
