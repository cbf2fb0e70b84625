package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrAlreadyTerminal   = errors.New("quiz is no longer generating")
	ErrInvalidTransition = errors.New("invalid quiz status transition")
)

// Outcome is the single terminal write applied to a generating quiz.
type Outcome struct {
	Status    Status
	Questions []Question
	Error     *string
}

type Repository interface {
	Create(ctx context.Context, q *Quiz) error
	FindStatus(ctx context.Context, id, userID uuid.UUID) (*Quiz, error)
	FindCompleted(ctx context.Context, id, userID uuid.UUID) (*Quiz, error)
	ListCompletedByUser(ctx context.Context, userID uuid.UUID) ([]Quiz, error)
	FinishGeneration(ctx context.Context, id uuid.UUID, outcome Outcome) error
	SoftDelete(ctx context.Context, id, userID uuid.UUID) error
	FailStale(ctx context.Context, createdBefore time.Time, reason string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func ownedBy(id, userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND user_id = ?", id, userID)
	}
}

func (r *repository) Create(ctx context.Context, q *Quiz) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *repository) first(ctx context.Context, query *gorm.DB) (*Quiz, error) {
	var q Quiz
	if err := query.WithContext(ctx).First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) FindStatus(ctx context.Context, id, userID uuid.UUID) (*Quiz, error) {
	return r.first(ctx, r.db.Select("id", "status", "generation_error").Scopes(ownedBy(id, userID)))
}

func (r *repository) FindCompleted(ctx context.Context, id, userID uuid.UUID) (*Quiz, error) {
	return r.first(ctx, r.db.Scopes(ownedBy(id, userID)).Where("status = ?", StatusCompleted))
}

func (r *repository) ListCompletedByUser(ctx context.Context, userID uuid.UUID) ([]Quiz, error) {
	var quizzes []Quiz
	if err := r.db.WithContext(ctx).
		Omit("questions").
		Where("user_id = ? AND status = ?", userID, StatusCompleted).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

// FinishGeneration only touches rows still in generating, so a quiz that
// already reached a terminal status is never rewritten.
func (r *repository) FinishGeneration(ctx context.Context, id uuid.UUID, outcome Outcome) error {
	if !StatusGenerating.CanTransitionTo(outcome.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, outcome.Status)
	}

	questions := outcome.Questions
	if questions == nil {
		questions = []Question{}
	}

	res := r.db.WithContext(ctx).
		Model(&Quiz{}).
		Where("id = ? AND status = ?", id, StatusGenerating).
		Updates(map[string]any{
			"status":           outcome.Status,
			"questions":        datatypes.JSONSlice[Question](questions),
			"generation_error": outcome.Error,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyTerminal
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(ownedBy(id, userID)).Delete(&Quiz{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuizNotFound
	}
	return nil
}

// FailStale fails quizzes still generating that were created before the
// cutoff. It runs at startup, when no job from an earlier process can still
// be running.
func (r *repository) FailStale(ctx context.Context, createdBefore time.Time, reason string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Quiz{}).
		Where("status = ? AND created_at < ?", StatusGenerating, createdBefore).
		Updates(map[string]any{
			"status":           StatusFailed,
			"questions":        datatypes.JSONSlice[Question]([]Question{}),
			"generation_error": reason,
		})
	return res.RowsAffected, res.Error
}
