package attempt_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/studyquiz/internal/attempt"
	"github.com/saulo-duarte/studyquiz/internal/auth"
	"github.com/saulo-duarte/studyquiz/internal/quiz"
)

func TestSubmitPersistsScoredAttempt(t *testing.T) {
	userID := uuid.New()
	q := completedQuiz(userID)
	repo := &memoryRepo{}
	pub := &recordingPublisher{}
	svc := attempt.NewService(repo, &quizFinder{quizzes: []quiz.Quiz{q}}, pub)

	start := time.Now().Add(-2 * time.Minute)
	a, err := svc.Submit(context.Background(), userID, q.ID, attempt.SubmitRequest{
		Answers: []attempt.AnswerInput{
			{QuestionID: q.Questions[0].ID, UserAnswer: "Mitochondria"},
			{QuestionID: q.Questions[1].ID, UserAnswer: "ATP"},
			{QuestionID: q.Questions[2].ID, UserAnswer: "4"},
		},
		StartedAt:   start,
		CompletedAt: start.Add(90 * time.Second),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, 100, a.Score)
	assert.Equal(t, 90, a.TimeTaken)
	assert.Equal(t, q.ID, a.QuizID)
	require.Len(t, repo.attempts, 1)
	require.Len(t, pub.attempts, 1)
	assert.Equal(t, a.ID.String(), pub.attempts[0].AttemptID)
	assert.Equal(t, 100, pub.attempts[0].Score)
}

func TestSubmitErrors(t *testing.T) {
	userID := uuid.New()
	q := completedQuiz(userID)
	generating := completedQuiz(userID)
	generating.Status = quiz.StatusGenerating
	now := time.Now()

	cases := []struct {
		name    string
		userID  uuid.UUID
		quizID  uuid.UUID
		req     attempt.SubmitRequest
		wantErr error
	}{
		{"OtherUser", uuid.New(), q.ID, attempt.SubmitRequest{StartedAt: now, CompletedAt: now}, quiz.ErrQuizNotFound},
		{"NotCompleted", userID, generating.ID, attempt.SubmitRequest{StartedAt: now, CompletedAt: now}, quiz.ErrQuizNotFound},
		{"MissingTimestamps", userID, q.ID, attempt.SubmitRequest{}, attempt.ErrInvalidTimestamps},
		{"UnknownQuestion", userID, q.ID, attempt.SubmitRequest{
			Answers:   []attempt.AnswerInput{{QuestionID: uuid.New(), UserAnswer: "x"}},
			StartedAt: now, CompletedAt: now,
		}, attempt.ErrQuestionNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memoryRepo{}
			pub := &recordingPublisher{}
			svc := attempt.NewService(repo, &quizFinder{quizzes: []quiz.Quiz{q, generating}}, pub)

			_, err := svc.Submit(context.Background(), tc.userID, tc.quizID, tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, repo.attempts)
			assert.Empty(t, pub.attempts)
		})
	}
}

func TestSubmitSaveFailureSkipsEvent(t *testing.T) {
	userID := uuid.New()
	q := completedQuiz(userID)
	pub := &recordingPublisher{}
	svc := attempt.NewService(&memoryRepo{err: errors.New("db down")}, &quizFinder{quizzes: []quiz.Quiz{q}}, pub)

	now := time.Now()
	_, err := svc.Submit(context.Background(), userID, q.ID, attempt.SubmitRequest{StartedAt: now, CompletedAt: now})
	require.Error(t, err)
	assert.Empty(t, pub.attempts)
}

func TestHistoryNewestFirstAndLimited(t *testing.T) {
	userID := uuid.New()
	repo := &memoryRepo{}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < attempt.HistoryLimit+5; i++ {
		repo.attempts = append(repo.attempts, attempt.QuizAttempt{
			ID: uuid.New(), UserID: userID, Score: i, CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	repo.attempts = append(repo.attempts, attempt.QuizAttempt{ID: uuid.New(), UserID: uuid.New()})

	svc := attempt.NewService(repo, &quizFinder{}, nil)
	got, err := svc.History(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, attempt.HistoryLimit)
	assert.Equal(t, attempt.HistoryLimit+4, got[0].Score)

	empty, err := svc.History(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestAttemptHandlers(t *testing.T) {
	userID := uuid.New()
	q := completedQuiz(userID)
	repo := &memoryRepo{}
	h := attempt.NewHandler(attempt.NewService(repo, &quizFinder{quizzes: []quiz.Quiz{q}}, &recordingPublisher{}))

	r := chi.NewRouter()
	r.Mount("/quizzes", quiz.Routes(quiz.NewHandler(nil), h.Submit))
	r.Mount("/attempts", attempt.Routes(h))

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{UserID: userID.String()}))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/quizzes/"+q.ID.String()+"/submit", map[string]any{
		"answers": []map[string]any{
			{"question_id": q.Questions[0].ID, "user_answer": "Nucleus", "time_spent": 7},
		},
		"startedAt":   "2025-03-01T10:00:00Z",
		"completedAt": "2025-03-01T10:01:30.500Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var submitted attempt.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	assert.Equal(t, "Quiz submitted successfully", submitted.Message)
	assert.Equal(t, 0, submitted.Attempt.Score)
	assert.Equal(t, 90, submitted.Attempt.TimeTaken)
	assert.Equal(t, 7, submitted.Attempt.Answers[0].TimeSpent)

	t.Run("UnknownQuestionIsBadRequest", func(t *testing.T) {
		rec := do(http.MethodPost, "/quizzes/"+q.ID.String()+"/submit", map[string]any{
			"answers":     []map[string]any{{"question_id": uuid.New(), "user_answer": "x"}},
			"startedAt":   "2025-03-01T10:00:00Z",
			"completedAt": "2025-03-01T10:01:00Z",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownQuizIsNotFound", func(t *testing.T) {
		rec := do(http.MethodPost, "/quizzes/"+uuid.NewString()+"/submit", map[string]any{
			"answers":     []map[string]any{},
			"startedAt":   "2025-03-01T10:00:00Z",
			"completedAt": "2025-03-01T10:01:00Z",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("History", func(t *testing.T) {
		rec := do(http.MethodGet, "/attempts/", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp attempt.HistoryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Attempts, 1)
		assert.Equal(t, submitted.Attempt.ID, resp.Attempts[0].ID)
	})

	t.Run("Detail", func(t *testing.T) {
		rec := do(http.MethodGet, "/attempts/"+submitted.Attempt.ID.String(), nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = do(http.MethodGet, "/attempts/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = do(http.MethodGet, "/attempts/nope", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
