package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/studyquiz/internal/auth"
	"github.com/saulo-duarte/studyquiz/internal/config"
)

const multipartMemory = 32 << 20

type Handler struct {
	service  Service
	maxBytes int64
}

func NewHandler(s Service, maxBytes int64) *Handler {
	return &Handler{service: s, maxBytes: maxBytes}
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		log.WithError(err).Warn("Invalid multipart body")
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		http.Error(w, ErrNoFiles.Error(), http.StatusBadRequest)
		return
	}

	inputs := make([]FileInput, 0, len(headers))
	for _, fh := range headers {
		in, err := readPart(fh)
		if err != nil {
			log.WithError(err).WithField("file", fh.Filename).Error("Failed to read uploaded part")
			http.Error(w, "invalid multipart body", http.StatusBadRequest)
			return
		}
		inputs = append(inputs, in)
	}

	result, err := h.service.Upload(r.Context(), userID, inputs)
	if err != nil {
		log.WithError(err).Error("Failed to upload files")
		http.Error(w, "failed to upload files", http.StatusInternalServerError)
		return
	}

	msg := "Files uploaded successfully"
	if len(result.Failed) > 0 {
		msg = "Some files could not be saved"
	}
	config.JSON(w, http.StatusOK, UploadResponse{
		Message: msg,
		Files:   result.Files,
		Failed:  result.Failed,
	})
}

func readPart(fh *multipart.FileHeader) (FileInput, error) {
	f, err := fh.Open()
	if err != nil {
		return FileInput{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return FileInput{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return FileInput{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	files, err := h.service.Recent(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("Failed to fetch recent files")
		http.Error(w, "failed to fetch files", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, RecentFilesResponse{Files: files})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrFileNotFound) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to delete file")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
