package attempt

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/saulo-duarte/studyquiz/internal/quiz"
	"gorm.io/gorm"
)

var ErrAttemptNotFound = errors.New("attempt not found")

type Repository interface {
	Create(ctx context.Context, a *QuizAttempt) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]QuizAttempt, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*QuizAttempt, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *QuizAttempt) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]QuizAttempt, error) {
	var attempts []QuizAttempt
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&attempts).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(attempts))
	for _, a := range attempts {
		ids = append(ids, a.QuizID)
	}
	summaries, err := r.quizSummaries(ctx, userID, ids, false)
	if err != nil {
		return nil, err
	}
	for i := range attempts {
		attempts[i].Quiz = summaries[attempts[i].QuizID]
	}
	return attempts, nil
}

func (r *repository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*QuizAttempt, error) {
	var a QuizAttempt
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}

	summaries, err := r.quizSummaries(ctx, userID, []uuid.UUID{a.QuizID}, true)
	if err != nil {
		return nil, err
	}
	a.Quiz = summaries[a.QuizID]
	return &a, nil
}

// quizSummaries also reads the user's soft-deleted quizzes so history keeps
// its titles after the quiz itself is removed.
func (r *repository) quizSummaries(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, withQuestions bool) (map[uuid.UUID]*QuizSummary, error) {
	out := make(map[uuid.UUID]*QuizSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	columns := []string{"id", "title", "difficulty", "quiz_type"}
	if withQuestions {
		columns = append(columns, "questions")
	}

	var quizzes []quiz.Quiz
	if err := r.db.WithContext(ctx).
		Unscoped().
		Select(columns).
		Where("id IN ? AND user_id = ?", ids, userID).
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	for _, q := range quizzes {
		out[q.ID] = summaryOf(q, withQuestions)
	}
	return out, nil
}
