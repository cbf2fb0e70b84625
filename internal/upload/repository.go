package upload

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrFileNotFound = errors.New("file not found")

type Repository interface {
	Create(ctx context.Context, f *UploadedFile) error
	FindByIDsAndUser(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) ([]UploadedFile, error)
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]UploadedFile, error)
	SoftDelete(ctx context.Context, id, userID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *UploadedFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

// FindByIDsAndUser silently skips ids that are missing, deleted or owned by
// someone else.
func (r *repository) FindByIDsAndUser(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) ([]UploadedFile, error) {
	var files []UploadedFile
	if len(ids) == 0 {
		return files, nil
	}
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userID).
		Order("created_at ASC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *repository) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]UploadedFile, error) {
	var files []UploadedFile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *repository) SoftDelete(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&UploadedFile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}
