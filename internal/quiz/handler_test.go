package quiz_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/studyquiz/internal/auth"
	"github.com/saulo-duarte/studyquiz/internal/quiz"
	"github.com/saulo-duarte/studyquiz/internal/upload"
)

type handlerEnv struct {
	userID uuid.UUID
	file   upload.UploadedFile
	repo   *memoryRepo
	queue  *recordingQueue
	router http.Handler
}

func newHandlerEnv() *handlerEnv {
	userID := uuid.New()
	env := &handlerEnv{
		userID: userID,
		file:   textFile(userID, strPtr("Enzymes lower activation energy.")),
		repo:   newMemoryRepo(),
		queue:  &recordingQueue{},
	}
	svc := quiz.NewService(env.repo, &fileFinder{files: []upload.UploadedFile{env.file}}, env.queue, nil)

	r := chi.NewRouter()
	r.Mount("/quizzes", quiz.Routes(quiz.NewHandler(svc), nil))
	env.router = r
	return env
}

func (e *handlerEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{UserID: e.userID.String()}))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateQuizHandler(t *testing.T) {
	env := newHandlerEnv()

	rec := env.do(t, http.MethodPost, "/quizzes/generate", map[string]any{
		"fileIds":      []string{env.file.ID.String()},
		"quizType":     "multiple-choice",
		"numQuestions": 5,
		"difficulty":   "easy",
		"timeLimit":    "none",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp struct {
		Message string `json:"message"`
		QuizID  string `json:"quizId"`
		Status  string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Quiz generation started", resp.Message)
	assert.Equal(t, "generating", resp.Status)
	assert.Len(t, env.queue.jobs, 1)

	status := env.do(t, http.MethodGet, "/quizzes/"+resp.QuizID+"/status", nil)
	require.Equal(t, http.StatusOK, status.Code)
	assert.JSONEq(t, `{"quizId":"`+resp.QuizID+`","status":"generating","error":null}`, status.Body.String())

	full := env.do(t, http.MethodGet, "/quizzes/"+resp.QuizID, nil)
	assert.Equal(t, http.StatusNotFound, full.Code)
}

func TestGenerateQuizHandlerErrors(t *testing.T) {
	cases := []struct {
		name string
		body any
		want int
	}{
		{"MalformedBody", "not an object", http.StatusBadRequest},
		{"NoFiles", map[string]any{"fileIds": []string{}, "quizType": "multiple-choice", "numQuestions": 5, "difficulty": "easy"}, http.StatusBadRequest},
		{"BadSettings", map[string]any{"fileIds": []string{uuid.NewString()}, "quizType": "essay", "numQuestions": 5, "difficulty": "easy"}, http.StatusBadRequest},
		{"UnknownFiles", map[string]any{"fileIds": []string{uuid.NewString()}, "quizType": "fill-blank", "numQuestions": 5, "difficulty": "easy"}, http.StatusNotFound},
		{"BadTimeLimit", map[string]any{"fileIds": []string{uuid.NewString()}, "quizType": "fill-blank", "numQuestions": 5, "difficulty": "easy", "timeLimit": "soon"}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newHandlerEnv()
			rec := env.do(t, http.MethodPost, "/quizzes/generate", tc.body)
			assert.Equal(t, tc.want, rec.Code)
			assert.Empty(t, env.queue.jobs)
		})
	}
}

func TestGenerateQuizHandlerQueueFull(t *testing.T) {
	env := newHandlerEnv()
	env.queue.err = quiz.ErrQueueFull

	rec := env.do(t, http.MethodPost, "/quizzes/generate", map[string]any{
		"fileIds":      []string{env.file.ID.String()},
		"quizType":     "fill-blank",
		"numQuestions": 3,
		"difficulty":   "hard",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestQuizReadHandlers(t *testing.T) {
	env := newHandlerEnv()
	ctx := context.Background()

	q := &quiz.Quiz{ID: uuid.New(), UserID: env.userID, Title: "Quiz - 1/2/2025", Status: quiz.StatusGenerating}
	require.NoError(t, env.repo.Create(ctx, q))
	require.NoError(t, env.repo.FinishGeneration(ctx, q.ID, quiz.Outcome{
		Status: quiz.StatusCompleted,
		Questions: []quiz.Question{{
			ID: uuid.New(), QuestionText: "2+2?", QuestionType: "multiple-choice",
			Options: []string{"3", "4"}, CorrectAnswer: "4",
		}},
	}))

	t.Run("List", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/quizzes/", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Quizzes []map[string]any `json:"quizzes"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Quizzes, 1)
		assert.NotContains(t, resp.Quizzes[0], "questions")
	})

	t.Run("Get", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/quizzes/"+q.ID.String(), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp quiz.QuizResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Quiz.Questions, 1)
		assert.Equal(t, "4", resp.Quiz.Questions[0].CorrectAnswer)
	})

	t.Run("InvalidID", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/quizzes/not-a-uuid/status", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/quizzes/"+q.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = env.do(t, http.MethodGet, "/quizzes/"+q.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
