package export

import (
	"bytes"
	"testing"

	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

const lessonJSON = `{
  "lessonPlan": {
    "title": "Introduction to Fractions",
    "gradeLevel": "Class 4",
    "lessonObjectives": ["identify halves", "identify quarters"],
    "materials": ["counters", "fraction strips"],
    "sections": [
      {
        "title": "Introduction",
        "teacherActivities": ["greet the class", "show a halved orange"],
        "learnerActivities": ["respond to greeting"]
      }
    ],
    "evaluation": {"description": "Oral questions on halves."},
    "assignment": {"description": "Shade half of each shape."}
  }
}`

func TestLessonPDFFromJSON(t *testing.T) {
	e := NewPDFExporter(DefaultBranding(), nil, testLogger(t))
	out, err := e.Lesson(lessonJSON, "Fractions", "Class 4")
	if err != nil {
		t.Fatalf("Lesson: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF, starts with %q", out[:8])
	}
}

func TestLessonPDFFallsBackToText(t *testing.T) {
	e := NewPDFExporter(DefaultBranding(), nil, testLogger(t))
	out, err := e.Lesson("# Lesson Plan: Fractions\n\nJust some prose.", "Fractions", "Class 4")
	if err != nil {
		t.Fatalf("Lesson: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("fallback output is not a PDF")
	}
}

func TestStoryPDFFromJSON(t *testing.T) {
	content := `{"storyLessonPlan": {
      "title": "Amina's Market Day",
      "storyOverview": "Amina counts mangoes at the market.",
      "characters": ["Amina", {"name": "Mr. Tabi", "description": "the fruit seller"}],
      "storySections": [
        {"storyContent": "Amina buys six mangoes.",
         "teacherGuidance": ["read aloud"],
         "studentActivities": ["count along", "draw the mangoes"]}
      ],
      "culturalConnections": "Markets across Cameroon."
    }}`
	e := NewPDFExporter(DefaultBranding(), nil, testLogger(t))
	out, err := e.Story(content, "Counting", "Class 2")
	if err != nil {
		t.Fatalf("Story: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("story output is not a PDF")
	}
}

func TestLessonPDFManyRowsStillRenders(t *testing.T) {
	plan := &types.CanonicalLessonPlan{Title: "Long Lesson"}
	for i := 0; i < 12; i++ {
		plan.Sections = append(plan.Sections, types.ActivitySection{
			Title:             "Step",
			TeacherActivities: []string{"explain the idea in detail, repeating the key vocabulary until every learner has heard it twice"},
			LearnerActivities: []string{"practice on slates"},
		})
	}
	e := NewPDFExporter(DefaultBranding(), nil, testLogger(t))
	doc := e.build(func(d *pdfDoc) { e.lessonBody(d, plan, "Long Lesson", "Class 6") }, true)
	if doc.pdf.PageCount() < 2 {
		t.Fatalf("expected the document to span pages, got %d", doc.pdf.PageCount())
	}
	var buf bytes.Buffer
	if err := doc.pdf.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
}
