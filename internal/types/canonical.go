package types

// Pure JSON contracts for the canonical lesson-plan document produced by the
// gateway. Every field is optional at parse time: the model output is
// untrusted, so decoding is tolerant and renderers degrade field by field.

type DescriptionBlock struct {
	Description string `json:"description,omitempty"`
}

type ActivitySection struct {
	Title             string   `json:"title,omitempty"`
	TeacherActivities []string `json:"teacherActivities,omitempty"`
	LearnerActivities []string `json:"learnerActivities,omitempty"`
}

type CanonicalLessonPlan struct {
	Title            string            `json:"title,omitempty"`
	GradeLevel       string            `json:"gradeLevel,omitempty"`
	Subject          string            `json:"subject,omitempty"`
	Topic            string            `json:"topic,omitempty"`
	LessonObjectives []string          `json:"lessonObjectives,omitempty"`
	Materials        []string          `json:"materials,omitempty"`
	Sections         []ActivitySection `json:"sections,omitempty"`
	Evaluation       *DescriptionBlock `json:"evaluation,omitempty"`
	Assignment       *DescriptionBlock `json:"assignment,omitempty"`
}

// CanonicalFromMap coerces a normalized-but-untrusted object into the
// canonical shape. Fields of the wrong type are dropped, never fatal.
func CanonicalFromMap(m map[string]any) *CanonicalLessonPlan {
	if m == nil {
		return nil
	}
	doc := &CanonicalLessonPlan{
		Title:            stringOf(m["title"]),
		GradeLevel:       stringOf(m["gradeLevel"]),
		Subject:          stringOf(m["subject"]),
		Topic:            stringOf(m["topic"]),
		LessonObjectives: stringSliceOf(m["lessonObjectives"]),
		Materials:        stringSliceOf(m["materials"]),
		Evaluation:       descriptionOf(m["evaluation"]),
		Assignment:       descriptionOf(m["assignment"]),
	}
	for _, raw := range sliceOf(m["sections"]) {
		sec, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		doc.Sections = append(doc.Sections, ActivitySection{
			Title:             stringOf(sec["title"]),
			TeacherActivities: stringSliceOf(sec["teacherActivities"]),
			LearnerActivities: stringSliceOf(sec["learnerActivities"]),
		})
	}
	return doc
}

// PairActivities aligns teacher and learner activities by index. The result
// always has max(len(teacher), len(learner)) rows; the shorter side
// contributes empty strings. Rows are never dropped.
func PairActivities(teacher, learner []string) [][2]string {
	n := len(teacher)
	if len(learner) > n {
		n = len(learner)
	}
	rows := make([][2]string, 0, n)
	for i := 0; i < n; i++ {
		var row [2]string
		if i < len(teacher) {
			row[0] = teacher[i]
		}
		if i < len(learner) {
			row[1] = learner[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func sliceOf(v any) []any {
	s, _ := v.([]any)
	return s
}

func stringSliceOf(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func descriptionOf(v any) *DescriptionBlock {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	desc := stringOf(m["description"])
	if desc == "" {
		return nil
	}
	return &DescriptionBlock{Description: desc}
}
