package markdown

import (
	"strings"
	"testing"
)

func TestFormatLessonHeadingFromEnvelope(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "wrapped_plan",
			in:   `{"lessonPlan":{"title":"Introduction to Sets"}}`,
			want: "# Lesson Plan: Introduction to Sets\n",
		},
		{
			name: "bare_plan",
			in:   `{"title":"Counting to 10"}`,
			want: "# Lesson Plan: Counting to 10\n",
		},
		{
			name: "missing_title",
			in:   `{"lessonPlan":{"gradeLevel":"Primary 1"}}`,
			want: "# Lesson Plan: N/A\n",
		},
		{
			name: "fenced_wrapped_plan",
			in:   "```json\n{\"lessonPlan\":{\"title\":\"Fractions\"}}\n```",
			want: "# Lesson Plan: Fractions\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatLesson(tc.in)
			if !strings.HasPrefix(got, tc.want) {
				t.Fatalf("FormatLesson(%q) begins %q, want prefix %q", tc.in, firstLine(got), tc.want)
			}
		})
	}
}

func TestFormatLessonFullDocument(t *testing.T) {
	in := `{"lessonPlan":{
		"title":"Addition Basics",
		"gradeLevel":"Primary 2",
		"subject":"Mathematics",
		"topic":"Addition",
		"lessonObjectives":["Add single digits","Use number lines"],
		"materials":["Counters","Chalkboard"],
		"sections":[{
			"title":"INTRODUCTION",
			"teacherActivities":["Greet learners","Show counters"],
			"learnerActivities":["Respond to greeting"]
		}],
		"evaluation":{"description":"Exit ticket with 5 sums."},
		"assignment":{"description":"Ten practice sums at home."}
	}}`

	got := FormatLesson(in)

	for _, want := range []string{
		"**Grade Level:** Primary 2",
		"## Lesson Objectives\n- Add single digits\n- Use number lines\n",
		"## Materials\n- Counters\n- Chalkboard\n",
		"## Lesson Procedure\n### INTRODUCTION",
		"**Teacher Activities:**\n- Greet learners\n- Show counters\n",
		"**Learner Activities:**\n- Respond to greeting\n",
		"## Evaluation\nExit ticket with 5 sums.",
		"## Assignment\nTen practice sums at home.",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("rendered markdown missing %q:\n%s", want, got)
		}
	}
}

func TestFormatLessonSectionsKeepScaffoldOrder(t *testing.T) {
	in := `{"lessonPlan":{"sections":[
		{"title":"PRESENTATION"},
		{"title":"INTRODUCTION"},
		{"title":"EVALUATION"}
	]}}`
	got := FormatLesson(in)

	pres := strings.Index(got, "### PRESENTATION")
	intro := strings.Index(got, "### INTRODUCTION")
	eval := strings.Index(got, "### EVALUATION")
	if pres < 0 || intro < 0 || eval < 0 {
		t.Fatalf("missing section headings:\n%s", got)
	}
	if !(pres < intro && intro < eval) {
		t.Fatal("sections must render in array order, not re-sorted")
	}
}

func TestFormatLessonNonJSONFallsBackToRawText(t *testing.T) {
	raw := "The model had an off day and wrote prose."
	if got := FormatLesson(raw); got != raw {
		t.Fatalf("expected raw fallback, got %q", got)
	}
}

func TestFormatLessonIgnoresWrongTypedFields(t *testing.T) {
	in := `{"lessonPlan":{"title":"Shapes","materials":"not-an-array","lessonObjectives":[1,2]}}`
	got := FormatLesson(in)
	if strings.Contains(got, "## Materials") {
		t.Fatal("non-array materials must be omitted")
	}
	if strings.Contains(got, "## Lesson Objectives") {
		t.Fatal("array without string items must be omitted")
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
