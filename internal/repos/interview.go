package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/types"
)

type InterviewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, interview *types.Interview) (*types.Interview, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Interview, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Interview, error)
	UpdateTranscript(ctx context.Context, tx *gorm.DB, id uuid.UUID, transcript []types.TranscriptEntry) error
	UpdateFeedback(ctx context.Context, tx *gorm.DB, id uuid.UUID, feedback string) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type interviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInterviewRepo(db *gorm.DB, baseLog *logger.Logger) InterviewRepo {
	return &interviewRepo{db: db, log: baseLog.With("repo", "InterviewRepo")}
}

func (r *interviewRepo) Create(ctx context.Context, tx *gorm.DB, interview *types.Interview) (*types.Interview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(interview).Error; err != nil {
		return nil, err
	}
	return interview, nil
}

func (r *interviewRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Interview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Interview
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *interviewRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Interview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Interview
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *interviewRepo) UpdateTranscript(ctx context.Context, tx *gorm.DB, id uuid.UUID, transcript []types.TranscriptEntry) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Interview{}).
		Where("id = ?", id).
		Update("transcript", datatypes.NewJSONSlice(transcript)).Error
}

func (r *interviewRepo) UpdateFeedback(ctx context.Context, tx *gorm.DB, id uuid.UUID, feedback string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Interview{}).
		Where("id = ?", id).
		Update("feedback", feedback).Error
}

func (r *interviewRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Interview{}).Error
}
