package markdown

import (
	"strings"
	"testing"
)

func TestFormatStoryFullDocument(t *testing.T) {
	in := `{"storyLessonPlan":{
		"title":"Market Day Math",
		"gradeLevel":"Primary 3",
		"topic":"Money",
		"storyOverview":"Manka helps her mother sell plantains.",
		"characters":[{"name":"Manka","description":"A curious pupil"},"Ambe"],
		"setting":"Ntarinkon Market",
		"storySections":[{
			"title":"AT THE MARKET",
			"storyContent":"Manka counted the coins carefully.",
			"mathConcept":"Counting money in CFA francs",
			"teacherGuidance":["Ask how many coins Manka holds"],
			"studentActivities":["Count paper coins in pairs"]
		}],
		"practiceActivities":["Set up a class market stall"],
		"culturalConnections":"Market trading is part of daily life."
	}}`

	got := FormatStory(in)

	for _, want := range []string{
		"# Story-Based Lesson Plan: Market Day Math",
		"**Story Theme:** Mathematical Adventure",
		"## Story Overview\nManka helps her mother sell plantains.",
		"- **Manka**: A curious pupil",
		"- Ambe",
		"## Setting\nNtarinkon Market",
		"### AT THE MARKET",
		"**Story:**\nManka counted the coins carefully.",
		"**Math Concept:**\nCounting money in CFA francs",
		"**Teacher Guidance:**\n- Ask how many coins Manka holds",
		"**Student Activities:**\n- Count paper coins in pairs",
		"## Practice Activities\n- Set up a class market stall",
		"## Cultural Connections\nMarket trading is part of daily life.",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("rendered story markdown missing %q:\n%s", want, got)
		}
	}
}

func TestFormatStoryUntitledSectionsAreNumbered(t *testing.T) {
	in := `{"storyLessonPlan":{"storySections":[{"storyContent":"Once upon a time."},{"storyContent":"The end."}]}}`
	got := FormatStory(in)
	if !strings.Contains(got, "### Part 1") || !strings.Contains(got, "### Part 2") {
		t.Fatalf("untitled story sections must fall back to Part N:\n%s", got)
	}
}

func TestFormatStoryNonJSONFallsBack(t *testing.T) {
	raw := "no structure here"
	if got := FormatStory(raw); got != raw {
		t.Fatalf("expected raw fallback, got %q", got)
	}
}
