package quiz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/studyquiz/internal/auth"
	"github.com/saulo-duarte/studyquiz/internal/config"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

// GenerateQuiz answers 202 once the quiz is recorded; clients poll
// GetQuizStatus until it reaches a terminal status.
func (h *Handler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	quiz, err := h.service.Generate(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoFilesSelected):
			http.Error(w, "No files selected", http.StatusBadRequest)
		case errors.Is(err, ErrInvalidSettings):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrFilesNotFound):
			http.Error(w, "No valid files found", http.StatusNotFound)
		case errors.Is(err, ErrNoTextContent):
			http.Error(w, "No text content found in uploaded files. Please upload files with text content.", http.StatusBadRequest)
		case errors.Is(err, ErrRateLimited):
			http.Error(w, err.Error(), http.StatusTooManyRequests)
		case errors.Is(err, ErrQueueFull), errors.Is(err, ErrDispatcherClosed):
			http.Error(w, "quiz generation is busy, try again later", http.StatusServiceUnavailable)
		default:
			log.WithError(err).Error("Failed to generate quiz")
			http.Error(w, "Failed to generate quiz", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusAccepted, GenerateQuizResponse{
		Message: "Quiz generation started",
		QuizID:  quiz.ID,
		Status:  quiz.Status,
	})
}

func (h *Handler) GetQuizStatus(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	status, err := h.service.Status(r.Context(), id, userID)
	if err != nil {
		h.lookupError(w, r, err, "Failed to get quiz status")
		return
	}

	config.JSON(w, http.StatusOK, status)
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	quizzes, err := h.service.ListCompleted(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("Failed to fetch quizzes")
		http.Error(w, "Failed to fetch quizzes", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, QuizListResponse{Quizzes: quizzes})
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	quiz, err := h.service.GetCompleted(r.Context(), id, userID)
	if err != nil {
		h.lookupError(w, r, err, "Failed to fetch quiz")
		return
	}

	config.JSON(w, http.StatusOK, QuizResponse{Quiz: quiz})
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		h.lookupError(w, r, err, "Failed to delete quiz")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ownerAndID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		config.WithContext(r.Context()).Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

func (h *Handler) lookupError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, ErrQuizNotFound) {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}
	config.WithContext(r.Context()).WithError(err).Error(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}
