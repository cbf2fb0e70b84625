package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/studyquiz/internal/aiquiz"
	"github.com/saulo-duarte/studyquiz/internal/config"
	"github.com/saulo-duarte/studyquiz/internal/ratelimit"
	"github.com/saulo-duarte/studyquiz/internal/upload"
	util "github.com/saulo-duarte/studyquiz/internal/utils"
)

const (
	MinQuestions = 1
	MaxQuestions = 50
)

var (
	ErrNoFilesSelected = errors.New("no files selected")
	ErrInvalidSettings = errors.New("invalid quiz settings")
	ErrFilesNotFound   = errors.New("no valid files found")
	ErrNoTextContent   = errors.New("no text content found in uploaded files")
	ErrRateLimited     = errors.New("too many quiz generations, try again later")
)

// SourceFileFinder returns the caller's non-deleted files among ids.
type SourceFileFinder interface {
	FindByIDsAndUser(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) ([]upload.UploadedFile, error)
}

// JobQueue accepts generation jobs without blocking.
type JobQueue interface {
	Enqueue(ctx context.Context, job Job) error
}

type QuizService interface {
	Generate(ctx context.Context, userID uuid.UUID, req GenerateQuizRequest) (*Quiz, error)
	Status(ctx context.Context, id, userID uuid.UUID) (*StatusResponse, error)
	ListCompleted(ctx context.Context, userID uuid.UUID) ([]Quiz, error)
	GetCompleted(ctx context.Context, id, userID uuid.UUID) (*Quiz, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type quizService struct {
	repo    Repository
	files   SourceFileFinder
	queue   JobQueue
	limiter ratelimit.Limiter
	now     func() time.Time
}

func NewService(repo Repository, files SourceFileFinder, queue JobQueue, limiter ratelimit.Limiter) QuizService {
	if limiter == nil {
		limiter = ratelimit.NewNoop()
	}
	return &quizService{
		repo:    repo,
		files:   files,
		queue:   queue,
		limiter: limiter,
		now:     time.Now,
	}
}

func validateSettings(req GenerateQuizRequest) error {
	if !req.QuizType.IsValid() {
		return fmt.Errorf("%w: unknown quizType %q", ErrInvalidSettings, req.QuizType)
	}
	if !req.Difficulty.IsValid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSettings, req.Difficulty)
	}
	if req.NumQuestions < MinQuestions || req.NumQuestions > MaxQuestions {
		return fmt.Errorf("%w: numQuestions must be between %d and %d", ErrInvalidSettings, MinQuestions, MaxQuestions)
	}
	return nil
}

// Generate validates the request, records the quiz as generating and hands
// the work to the queue. It returns as soon as the job is queued.
func (s *quizService) Generate(ctx context.Context, userID uuid.UUID, req GenerateQuizRequest) (*Quiz, error) {
	log := config.WithContext(ctx).WithField("user_id", userID)

	if len(req.FileIDs) == 0 {
		return nil, ErrNoFilesSelected
	}
	if err := validateSettings(req); err != nil {
		return nil, err
	}

	files, err := s.files.FindByIDsAndUser(ctx, req.FileIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("find source files: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrFilesNotFound
	}

	texts := make([]string, 0, len(files))
	for _, f := range files {
		if f.ExtractedText != nil && *f.ExtractedText != "" {
			texts = append(texts, *f.ExtractedText)
		}
	}
	if len(texts) == 0 {
		return nil, ErrNoTextContent
	}

	allowed, err := s.limiter.Allow(ctx, userID.String())
	if err != nil {
		log.WithError(err).Warn("Rate limiter unavailable, allowing request")
	} else if !allowed {
		return nil, ErrRateLimited
	}

	quiz := &Quiz{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       "Quiz - " + util.ShortDate(s.now()),
		QuizType:    req.QuizType,
		Difficulty:  req.Difficulty,
		TimeLimit:   req.TimeLimit.Minutes(),
		Questions:   []Question{},
		SourceFiles: snapshot(files),
		Status:      StatusGenerating,
	}
	if err := s.repo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	log = log.WithField("quiz_id", quiz.ID)
	log.WithField("files", len(files)).Info("Quiz generation initiated")

	err = s.queue.Enqueue(ctx, Job{
		QuizID: quiz.ID,
		UserID: userID,
		Texts:  texts,
		Settings: aiquiz.Settings{
			QuizType:     req.QuizType,
			Difficulty:   req.Difficulty,
			NumQuestions: req.NumQuestions,
		},
		EnqueuedAt: s.now(),
	})
	if err != nil {
		log.WithError(err).Error("Failed to queue quiz generation")
		return quiz, err
	}
	return quiz, nil
}

func snapshot(files []upload.UploadedFile) []SourceFile {
	out := make([]SourceFile, 0, len(files))
	for _, f := range files {
		out = append(out, SourceFile{
			Filename:     f.Filename,
			OriginalName: f.OriginalName,
			FilePath:     f.FilePath,
			UploadedAt:   f.CreatedAt,
		})
	}
	return out
}

func (s *quizService) Status(ctx context.Context, id, userID uuid.UUID) (*StatusResponse, error) {
	q, err := s.repo.FindStatus(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return &StatusResponse{QuizID: q.ID, Status: q.Status, Error: q.GenerationError}, nil
}

func (s *quizService) ListCompleted(ctx context.Context, userID uuid.UUID) ([]Quiz, error) {
	quizzes, err := s.repo.ListCompletedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if quizzes == nil {
		quizzes = []Quiz{}
	}
	return quizzes, nil
}

func (s *quizService) GetCompleted(ctx context.Context, id, userID uuid.UUID) (*Quiz, error) {
	return s.repo.FindCompleted(ctx, id, userID)
}

func (s *quizService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id, userID)
}
