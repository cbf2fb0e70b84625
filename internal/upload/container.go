package upload

import (
	"github.com/saulo-duarte/studyquiz/internal/extract"
	"github.com/saulo-duarte/studyquiz/internal/storage"
	"gorm.io/gorm"
)

type UploadContainer struct {
	Repo    Repository
	Service Service
	Handler *Handler
}

func NewUploadContainer(db *gorm.DB, store storage.Store, maxUploadBytes int64) *UploadContainer {
	repo := NewRepository(db)
	service := NewService(repo, extract.NewExtractor(), store)
	handler := NewHandler(service, maxUploadBytes)

	return &UploadContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
