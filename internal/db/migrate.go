package db

import (
	"github.com/mamamath/mothermath-backend/internal/types"
)

func (s *DatabaseService) AutoMigrateAll() error {
	return s.db.AutoMigrate(
		&types.LessonPlan{},
		&types.Interview{},
	)
}
