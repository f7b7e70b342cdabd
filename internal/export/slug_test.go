package export

import "testing"

func TestSlug(t *testing.T) {
	cases := []struct {
		name  string
		topic string
		want  string
	}{
		{"spaces and punctuation", "Addition & Subtraction!", "addition___subtraction_"},
		{"already clean", "fractions", "fractions"},
		{"mixed case", "Long Division", "long_division"},
		{"digits survive", "Base 10 Blocks", "base_10_blocks"},
		{"unicode collapses", "Géométrie", "g_om_trie"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slug(tc.topic); got != tc.want {
				t.Fatalf("Slug(%q) = %q, want %q", tc.topic, got, tc.want)
			}
		})
	}
}

func TestExportFilenames(t *testing.T) {
	if got := LessonPDFName("Addition & Subtraction!"); got != "addition___subtraction__lesson_plan.pdf" {
		t.Fatalf("lesson pdf name = %q", got)
	}
	if got := StoryPDFName("Addition & Subtraction!"); got != "addition___subtraction__story_lesson_plan.pdf" {
		t.Fatalf("story pdf name = %q", got)
	}
	if got := SlideDeckName("Fractions"); got != "fractions_lesson_plan_slides.pdf" {
		t.Fatalf("slide deck name = %q", got)
	}
}
