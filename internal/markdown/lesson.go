// Package markdown renders canonical lesson and story plans to the
// structured-markup text used both as the UI preview and as export input.
// Every field is optional; absent fields degrade to "N/A" or are omitted.
package markdown

import (
	"fmt"
	"strings"

	"github.com/mamamath/mothermath-backend/internal/normalize"
	"github.com/mamamath/mothermath-backend/internal/types"
)

// FormatLesson normalizes raw gateway output and renders it as a lesson-plan
// markdown document. If the content does not parse as JSON the raw
// (fence-stripped) text is returned unchanged.
func FormatLesson(responseText string) string {
	result := normalize.Normalize(responseText)
	if result.Kind != normalize.KindJSON {
		return result.Text
	}
	return RenderLesson(types.CanonicalFromMap(result.Object))
}

// RenderLesson renders a canonical plan. Sections render in slice order,
// which is scaffold order; no re-sorting happens here.
func RenderLesson(doc *types.CanonicalLessonPlan) string {
	if doc == nil {
		return ""
	}
	var b strings.Builder

	fmt.Fprintf(&b, "# Lesson Plan: %s\n\n", orNA(doc.Title))
	fmt.Fprintf(&b, "**Grade Level:** %s\n", orNA(doc.GradeLevel))
	fmt.Fprintf(&b, "**Subject:** %s\n", orNA(doc.Subject))
	fmt.Fprintf(&b, "**Topic:** %s\n\n", orNA(doc.Topic))

	writeBulletSection(&b, "Lesson Objectives", doc.LessonObjectives)
	writeBulletSection(&b, "Materials", doc.Materials)

	if len(doc.Sections) > 0 {
		b.WriteString("## Lesson Procedure\n")
		for _, sec := range doc.Sections {
			title := sec.Title
			if title == "" {
				title = "Section"
			}
			fmt.Fprintf(&b, "### %s\n\n", title)
			writeBoldList(&b, "Teacher Activities:", sec.TeacherActivities)
			writeBoldList(&b, "Learner Activities:", sec.LearnerActivities)
		}
	}

	if doc.Evaluation != nil && doc.Evaluation.Description != "" {
		fmt.Fprintf(&b, "## Evaluation\n%s\n\n", doc.Evaluation.Description)
	}
	if doc.Assignment != nil && doc.Assignment.Description != "" {
		fmt.Fprintf(&b, "## Assignment\n%s\n\n", doc.Assignment.Description)
	}

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func writeBulletSection(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func writeBoldList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n", label)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
