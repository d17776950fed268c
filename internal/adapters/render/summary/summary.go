// Package summary formats aggregation results and subject snapshots for
// presentation. Grouping happens here, not in the aggregator: records are
// bucketed by course name in first-seen order, and assignment order inside a
// course is preserved as the API returned it.
package summary

import (
	"fmt"
	"strings"

	"github.com/bnema/magicpin/internal/domain"
)

const (
	publishedGlyph = "📝"
	pendingGlyph   = "⏳"

	noAssignments = "No assignments found in your Google Classroom courses."
	noDueDate     = "No due date"
)

// Format renders the flat assignment sequence as a per-course summary.
func Format(records []domain.AssignmentRecord) string {
	if len(records) == 0 {
		return noAssignments
	}

	s := defaultStyles()

	order := make([]string, 0, len(records))
	groups := make(map[string][]domain.AssignmentRecord, len(records))
	for _, record := range records {
		if _, seen := groups[record.CourseName]; !seen {
			order = append(order, record.CourseName)
		}
		groups[record.CourseName] = append(groups[record.CourseName], record)
	}

	var b strings.Builder
	b.WriteString(s.title.Render(fmt.Sprintf("Assignment Summary (%d total)", len(records))))
	b.WriteString("\n\n")

	for _, courseName := range order {
		assignments := groups[courseName]
		b.WriteString(s.course.Render(fmt.Sprintf("%s (%d assignments):", courseName, len(assignments))))
		b.WriteString("\n")
		for _, assignment := range assignments {
			b.WriteString(s.item.Render(formatAssignment(assignment)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatAssignment(record domain.AssignmentRecord) string {
	glyph := pendingGlyph
	if record.State == domain.AssignmentStatePublished {
		glyph = publishedGlyph
	}

	points := ""
	if record.MaxPoints > 0 {
		points = fmt.Sprintf(" (%g pts)", record.MaxPoints)
	}

	due := noDueDate
	if record.DueDate != nil {
		due = "Due: " + record.DueDate.String()
	}

	return fmt.Sprintf("%s %s%s - %s", glyph, record.Title, points, due)
}

// Subjects renders a snapshot as a short list for the sidebar alert area.
func Subjects(snapshot domain.SubjectSnapshot) string {
	if len(snapshot.Subjects) == 0 {
		return "No emails found."
	}

	s := defaultStyles()

	lines := make([]string, 0, len(snapshot.Subjects)+1)
	lines = append(lines, s.title.Render("Latest emails"))
	for _, subject := range snapshot.Subjects {
		lines = append(lines, s.item.Render("- "+subject))
	}

	return strings.Join(lines, "\n")
}
