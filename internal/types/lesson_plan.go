package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LessonSection is one entry of the user-authored scaffold that seeds AI
// expansion. Ordering is significant: sections render and export top-to-bottom
// in slice order.
type LessonSection struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	KeyPoints         string `json:"keyPoints"`
	Time              string `json:"time,omitempty"`
	TeacherActivities string `json:"teacherActivities,omitempty"`
	LearnerActivities string `json:"learnerActivities,omitempty"`
}

// LessonPlan is a saved lesson plan. Content holds the canonical JSON object
// returned by the gateway; GeneratedContent holds the rendered markdown shown
// in the UI and used as export fallback input.
type LessonPlan struct {
	ID               uuid.UUID                         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID                         `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Title            string                            `gorm:"not null;column:title" json:"title"`
	Topic            string                            `gorm:"not null;column:topic" json:"topic"`
	Level            string                            `gorm:"not null;column:level" json:"level"`
	Kind             string                            `gorm:"not null;default:standard;column:kind" json:"kind"` // standard | story
	Sections         datatypes.JSONSlice[LessonSection] `gorm:"column:sections" json:"sections"`
	Content          datatypes.JSON                    `gorm:"column:content" json:"content"`
	GeneratedContent string                            `gorm:"type:text;column:generated_content" json:"generated_content"`
	CreatedAt        time.Time                         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time                         `gorm:"not null;default:now()" json:"updated_at"`
}

func (LessonPlan) TableName() string {
	return "lesson_plan"
}

const (
	LessonPlanKindStandard = "standard"
	LessonPlanKindStory    = "story"
)

// ValidateSections rejects scaffolds the generator cannot use: empty titles
// and duplicate ids.
func ValidateSections(sections []LessonSection) error {
	seen := make(map[string]bool, len(sections))
	for _, s := range sections {
		if s.Title == "" {
			return ErrEmptySectionTitle
		}
		if s.ID != "" {
			if seen[s.ID] {
				return ErrDuplicateSectionID
			}
			seen[s.ID] = true
		}
	}
	return nil
}
