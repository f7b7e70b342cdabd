package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/types"
)

type LessonPlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, plan *types.LessonPlan) (*types.LessonPlan, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LessonPlan, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LessonPlan, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type lessonPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonPlanRepo(db *gorm.DB, baseLog *logger.Logger) LessonPlanRepo {
	return &lessonPlanRepo{db: db, log: baseLog.With("repo", "LessonPlanRepo")}
}

func (r *lessonPlanRepo) Create(ctx context.Context, tx *gorm.DB, plan *types.LessonPlan) (*types.LessonPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *lessonPlanRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LessonPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.LessonPlan
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *lessonPlanRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LessonPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.LessonPlan
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonPlanRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.LessonPlan{}).Error
}
