package normalize

import (
	"reflect"
	"testing"
)

func TestNormalizeStripsFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{name: "no_fence", in: `{"title":"Sets"}`},
		{name: "plain_fence", in: "```\n{\"title\":\"Sets\"}\n```"},
		{name: "json_tagged_fence", in: "```json\n{\"title\":\"Sets\"}\n```"},
		{name: "fence_with_outer_whitespace", in: "  \n```json\n{\"title\":\"Sets\"}\n```  \n"},
	}

	want := Normalize(`{"title":"Sets"}`)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("Normalize(%q) = %+v, want %+v", tc.in, got, want)
			}
		})
	}
}

func TestNormalizeUnwrapsEnvelope(t *testing.T) {
	got := Normalize(`{"lessonPlan":{"title":"Fractions"}}`)
	if got.Kind != KindJSON {
		t.Fatalf("expected KindJSON, got %v", got.Kind)
	}
	if got.Object["title"] != "Fractions" {
		t.Fatalf("expected unwrapped object, got %+v", got.Object)
	}

	story := Normalize(`{"storyLessonPlan":{"title":"Market Day"}}`)
	if story.Object["title"] != "Market Day" {
		t.Fatalf("expected unwrapped story object, got %+v", story.Object)
	}
}

func TestNormalizeFallsBackToText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "free_text", in: "Here is your answer.", want: "Here is your answer."},
		{name: "fenced_free_text", in: "```\nHere is your answer.\n```", want: "Here is your answer."},
		{name: "truncated_json", in: `{"title": "Se`, want: `{"title": "Se`},
		{name: "empty", in: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			if got.Kind != KindText {
				t.Fatalf("expected KindText, got %v", got.Kind)
			}
			if got.Text != tc.want {
				t.Fatalf("Normalize(%q).Text = %q, want %q", tc.in, got.Text, tc.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		`{"lessonPlan":{"title":"Fractions"}}`,
		"```json\n{\"sections\":[{\"title\":\"INTRODUCTION\"}]}\n```",
		"free text reply",
		"```\nplain fenced text\n```",
		"```\n```json\n{\"title\":\"Sets\"}\n```\n```",
		"```\n```inner```\n```",
		"",
		`{"broken":`,
	}
	for _, in := range inputs {
		first := Normalize(in)
		second := Normalize(first.Text)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("Normalize not idempotent for %q: first %+v, second %+v", in, first, second)
		}
	}
}
