package markdown

import (
	"fmt"
	"strings"

	"github.com/mamamath/mothermath-backend/internal/normalize"
	"github.com/mamamath/mothermath-backend/internal/types"
)

// FormatStory normalizes raw gateway output and renders it as a story-based
// lesson-plan markdown document, falling back to raw text on parse failure.
func FormatStory(responseText string) string {
	result := normalize.Normalize(responseText)
	if result.Kind != normalize.KindJSON {
		return result.Text
	}
	return RenderStory(types.StoryFromMap(result.Object))
}

func RenderStory(doc *types.StoryLessonPlan) string {
	if doc == nil {
		return ""
	}
	var b strings.Builder

	fmt.Fprintf(&b, "# Story-Based Lesson Plan: %s\n\n", orNA(doc.Title))
	fmt.Fprintf(&b, "**Grade Level:** %s\n", orNA(doc.GradeLevel))
	fmt.Fprintf(&b, "**Subject:** %s\n", orNA(doc.Subject))
	fmt.Fprintf(&b, "**Topic:** %s\n", orNA(doc.Topic))
	theme := doc.StoryTheme
	if theme == "" {
		theme = "Mathematical Adventure"
	}
	fmt.Fprintf(&b, "**Story Theme:** %s\n\n", theme)

	if doc.StoryOverview != "" {
		fmt.Fprintf(&b, "## Story Overview\n%s\n\n", doc.StoryOverview)
	}

	if len(doc.Characters) > 0 {
		b.WriteString("## Main Characters\n")
		for _, c := range doc.Characters {
			if c.Description != "" {
				fmt.Fprintf(&b, "- **%s**: %s\n", c.Name, c.Description)
			} else {
				fmt.Fprintf(&b, "- %s\n", c.Name)
			}
		}
		b.WriteString("\n")
	}

	if doc.Setting != "" {
		fmt.Fprintf(&b, "## Setting\n%s\n\n", doc.Setting)
	}

	writeBulletSection(&b, "Learning Objectives", doc.LessonObjectives)
	writeBulletSection(&b, "Materials Needed", doc.Materials)

	if len(doc.StorySections) > 0 {
		b.WriteString("## The Mathematical Story\n\n")
		for i, sec := range doc.StorySections {
			title := sec.Title
			if title == "" {
				title = fmt.Sprintf("Part %d", i+1)
			}
			fmt.Fprintf(&b, "### %s\n\n", title)
			if sec.StoryContent != "" {
				fmt.Fprintf(&b, "**Story:**\n%s\n\n", sec.StoryContent)
			}
			if sec.MathConcept != "" {
				fmt.Fprintf(&b, "**Math Concept:**\n%s\n\n", sec.MathConcept)
			}
			writeBoldList(&b, "Teacher Guidance:", sec.TeacherGuidance)
			writeBoldList(&b, "Student Activities:", sec.StudentActivities)
		}
	}

	writeBulletSection(&b, "Practice Activities", doc.PracticeActivities)

	if doc.Assessment != nil && doc.Assessment.Description != "" {
		fmt.Fprintf(&b, "## Assessment\n%s\n\n", doc.Assessment.Description)
	}

	writeBulletSection(&b, "Extension Activities", doc.ExtensionActivities)

	if doc.CulturalConnections != "" {
		fmt.Fprintf(&b, "## Cultural Connections\n%s\n\n", doc.CulturalConnections)
	}

	return b.String()
}
