package export

import "strings"

// Slug derives the deterministic download filename stem from a topic:
// lower-cased, every non-alphanumeric character replaced by an underscore.
func Slug(topic string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(topic) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// LessonPDFName returns "<slug>_lesson_plan.pdf" for a topic.
func LessonPDFName(topic string) string {
	return Slug(topic) + "_lesson_plan.pdf"
}

// StoryPDFName returns "<slug>_story_lesson_plan.pdf" for a topic.
func StoryPDFName(topic string) string {
	return Slug(topic) + "_story_lesson_plan.pdf"
}

// SlideDeckName returns "<slug>_lesson_plan_slides.pdf". The slide deck is
// also a PDF, so its name must not collide with LessonPDFName.
func SlideDeckName(topic string) string {
	return Slug(topic) + "_lesson_plan_slides.pdf"
}
