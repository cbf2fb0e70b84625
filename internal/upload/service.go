package upload

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/studyquiz/internal/config"
	"github.com/saulo-duarte/studyquiz/internal/extract"
	"github.com/saulo-duarte/studyquiz/internal/metrics"
	"github.com/saulo-duarte/studyquiz/internal/storage"
)

const RecentFilesLimit = 10

var (
	ErrNoFiles      = errors.New("no files uploaded")
	ErrUploadFailed = errors.New("no file could be saved")
)

type Service interface {
	Upload(ctx context.Context, userID uuid.UUID, inputs []FileInput) (*UploadResult, error)
	Recent(ctx context.Context, userID uuid.UUID) ([]UploadedFile, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type service struct {
	repo      Repository
	extractor extract.Extractor
	store     storage.Store
}

func NewService(repo Repository, extractor extract.Extractor, store storage.Store) Service {
	return &service{repo: repo, extractor: extractor, store: store}
}

// Upload processes files in input order. Extraction problems are recorded on
// the file itself. A file that cannot be stored or persisted is reported in
// Failed and does not stop its siblings; the call only errors when every file
// failed.
func (s *service) Upload(ctx context.Context, userID uuid.UUID, inputs []FileInput) (*UploadResult, error) {
	if len(inputs) == 0 {
		return nil, ErrNoFiles
	}

	log := config.WithContext(ctx).WithField("user_id", userID)
	result := &UploadResult{
		Files:  make([]UploadedFile, 0, len(inputs)),
		Failed: []FailedFile{},
	}

	var lastErr error
	for _, in := range inputs {
		f, err := s.process(ctx, userID, in)
		if err != nil {
			log.WithError(err).WithField("file", in.Name).Error("Failed to save uploaded file")
			result.Failed = append(result.Failed, FailedFile{Name: in.Name, Error: "failed to save file"})
			lastErr = err
			continue
		}
		metrics.FileUploaded(f.IsProcessed)
		result.Files = append(result.Files, *f)
	}

	if len(result.Files) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, lastErr)
	}

	log.WithField("count", len(result.Files)).WithField("failed", len(result.Failed)).Info("Upload complete")
	return result, nil
}

func (s *service) process(ctx context.Context, userID uuid.UUID, in FileInput) (*UploadedFile, error) {
	mimeType := extract.DetectMimeType(in.Name, in.MimeType)
	res := s.extractor.Extract(ctx, extract.Source{Name: in.Name, MimeType: mimeType, Data: in.Data})

	id := uuid.New()
	ext := strings.ToLower(filepath.Ext(in.Name))
	storedName := id.String() + ext

	path, err := s.store.Put(ctx, storedName, mimeType, in.Data)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", in.Name, err)
	}

	f := &UploadedFile{
		ID:              id,
		UserID:          userID,
		OriginalName:    in.Name,
		Filename:        storedName,
		FilePath:        path,
		FileType:        ext,
		FileSize:        int64(len(in.Data)),
		MimeType:        mimeType,
		ExtractedText:   res.Text,
		IsProcessed:     res.Processed(),
		ProcessingError: res.Error,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		if derr := s.store.Delete(context.WithoutCancel(ctx), storedName); derr != nil {
			config.WithContext(ctx).WithError(derr).WithField("object", storedName).Warn("Failed to remove orphaned upload")
		}
		return nil, fmt.Errorf("persist %s: %w", in.Name, err)
	}
	return f, nil
}

func (s *service) Recent(ctx context.Context, userID uuid.UUID) ([]UploadedFile, error) {
	files, err := s.repo.ListRecentByUser(ctx, userID, RecentFilesLimit)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []UploadedFile{}
	}
	return files, nil
}

func (s *service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id, userID)
}
