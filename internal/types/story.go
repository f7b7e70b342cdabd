package types

// StoryLessonPlan is the canonical story-based plan: the standard plan fields
// plus narrative structure. Decoding stays tolerant for the same reason.

type Character struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type StorySection struct {
	Title             string   `json:"title,omitempty"`
	StoryContent      string   `json:"storyContent,omitempty"`
	MathConcept       string   `json:"mathConcept,omitempty"`
	TeacherGuidance   []string `json:"teacherGuidance,omitempty"`
	StudentActivities []string `json:"studentActivities,omitempty"`
}

type StoryLessonPlan struct {
	Title               string            `json:"title,omitempty"`
	GradeLevel          string            `json:"gradeLevel,omitempty"`
	Subject             string            `json:"subject,omitempty"`
	Topic               string            `json:"topic,omitempty"`
	StoryTheme          string            `json:"storyTheme,omitempty"`
	StoryOverview       string            `json:"storyOverview,omitempty"`
	Characters          []Character       `json:"characters,omitempty"`
	Setting             string            `json:"setting,omitempty"`
	LessonObjectives    []string          `json:"lessonObjectives,omitempty"`
	Materials           []string          `json:"materials,omitempty"`
	StorySections       []StorySection    `json:"storySections,omitempty"`
	PracticeActivities  []string          `json:"practiceActivities,omitempty"`
	Assessment          *DescriptionBlock `json:"assessment,omitempty"`
	ExtensionActivities []string          `json:"extensionActivities,omitempty"`
	CulturalConnections string            `json:"culturalConnections,omitempty"`
}

// StoryFromMap coerces an untrusted object into the story-plan shape.
// Characters may arrive as plain strings or as {name, description} objects;
// both forms are accepted.
func StoryFromMap(m map[string]any) *StoryLessonPlan {
	if m == nil {
		return nil
	}
	doc := &StoryLessonPlan{
		Title:               stringOf(m["title"]),
		GradeLevel:          stringOf(m["gradeLevel"]),
		Subject:             stringOf(m["subject"]),
		Topic:               stringOf(m["topic"]),
		StoryTheme:          stringOf(m["storyTheme"]),
		StoryOverview:       stringOf(m["storyOverview"]),
		Setting:             stringOf(m["setting"]),
		LessonObjectives:    stringSliceOf(m["lessonObjectives"]),
		Materials:           stringSliceOf(m["materials"]),
		PracticeActivities:  stringSliceOf(m["practiceActivities"]),
		Assessment:          descriptionOf(m["assessment"]),
		ExtensionActivities: stringSliceOf(m["extensionActivities"]),
		CulturalConnections: stringOf(m["culturalConnections"]),
	}
	for _, raw := range sliceOf(m["characters"]) {
		switch c := raw.(type) {
		case string:
			doc.Characters = append(doc.Characters, Character{Name: c})
		case map[string]any:
			doc.Characters = append(doc.Characters, Character{
				Name:        stringOf(c["name"]),
				Description: stringOf(c["description"]),
			})
		}
	}
	for _, raw := range sliceOf(m["storySections"]) {
		sec, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		doc.StorySections = append(doc.StorySections, StorySection{
			Title:             stringOf(sec["title"]),
			StoryContent:      stringOf(sec["storyContent"]),
			MathConcept:       stringOf(sec["mathConcept"]),
			TeacherGuidance:   stringSliceOf(sec["teacherGuidance"]),
			StudentActivities: stringSliceOf(sec["studentActivities"]),
		})
	}
	return doc
}
