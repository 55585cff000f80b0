package output

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Render turns a Schedule into a human-readable grid, one row per
// assignment sorted by (week, day, period), grounded on
// rcresswell-canvas-report/report.go's printTable: tablewriter.NewWriter,
// Configure for per-column alignment, Header/Append/Render. Stays a pure
// string-returning helper rather than writing directly to stdout, so the
// CLI layer decides where it goes.
func Render(sched Schedule) string {
	rows := append([]Assignment(nil), sched.Assignments...)
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.PeriodStart < b.PeriodStart
	})

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{
			tw.AlignRight, // Week
			tw.AlignLeft,  // Day
			tw.AlignRight, // Period
			tw.AlignLeft,  // Course
			tw.AlignLeft,  // Room
			tw.AlignLeft,  // Instructor
		}
	})
	table.Header("Week", "Day", "Period", "Course", "Room", "Instructor")

	for _, a := range rows {
		table.Append(
			fmt.Sprintf("%d", a.Week),
			a.Day,
			fmt.Sprintf("%d", a.PeriodStart),
			a.CourseID,
			a.RoomID,
			a.InstructorID,
		)
	}
	table.Render()

	return buf.String()
}
