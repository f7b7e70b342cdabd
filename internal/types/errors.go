package types

import "errors"

var (
	ErrEmptySectionTitle  = errors.New("section title must not be empty")
	ErrDuplicateSectionID = errors.New("duplicate section id")
	ErrEmptyTranscript    = errors.New("transcript is empty")
	ErrEmptyTopic         = errors.New("topic must not be empty")
	ErrEmptyLevel         = errors.New("level must not be empty")
	ErrNoQuestions        = errors.New("interview has no questions")
)
