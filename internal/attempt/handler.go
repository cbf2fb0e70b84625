package attempt

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/studyquiz/internal/auth"
	"github.com/saulo-duarte/studyquiz/internal/config"
	"github.com/saulo-duarte/studyquiz/internal/quiz"
)

type Handler struct {
	service AttemptService
}

func NewHandler(s AttemptService) *Handler {
	return &Handler{service: s}
}

// Submit serves POST /quizzes/{id}/submit.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := ownerAndID(w, r, "invalid quiz id")
	if !ok {
		return
	}
	log := config.WithContext(r.Context())

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	a, err := h.service.Submit(r.Context(), userID, quizID, req)
	if err != nil {
		switch {
		case errors.Is(err, quiz.ErrQuizNotFound):
			http.Error(w, "Quiz not found", http.StatusNotFound)
		case errors.Is(err, ErrQuestionNotFound), errors.Is(err, ErrDuplicateAnswer), errors.Is(err, ErrInvalidTimestamps):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.WithError(err).Error("Failed to submit quiz")
			http.Error(w, "Failed to submit quiz", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusCreated, SubmitResponse{
		Message: "Quiz submitted successfully",
		Attempt: a,
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	attempts, err := h.service.History(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("Failed to fetch quiz history")
		http.Error(w, "Failed to fetch quiz history", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, HistoryResponse{Attempts: attempts})
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r, "invalid attempt id")
	if !ok {
		return
	}

	a, err := h.service.Detail(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, ErrAttemptNotFound) {
			http.Error(w, "Attempt not found", http.StatusNotFound)
			return
		}
		config.WithContext(r.Context()).WithError(err).Error("Failed to fetch attempt")
		http.Error(w, "Failed to fetch attempt", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, AttemptResponse{Attempt: a})
}

func ownerAndID(w http.ResponseWriter, r *http.Request, badID string) (uuid.UUID, uuid.UUID, bool) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		config.WithContext(r.Context()).Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, badID, http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}
