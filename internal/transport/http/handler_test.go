package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
	"trivia-quiz-service/internal/logging"
)

const staticEmail = "niwatarou@gmail.com"

func TestLoginFlow(t *testing.T) {
	server := newTestServer(t, app.DefaultOptions())

	status, body := post(t, server, url.Values{"email": {staticEmail}, "action": {"login"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "You have successfully logged in")

	status, body = post(t, server, url.Values{"email": {staticEmail}, "action": {"login"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "Error: User is already logged in")
}

func TestValidationErrors(t *testing.T) {
	server := newTestServer(t, app.DefaultOptions())
	cases := []struct {
		name   string
		params url.Values
		body   string
	}{
		{"missing email", url.Values{"action": {"login"}}, "Error: Email parameter is missing"},
		{"missing action", url.Values{"email": {staticEmail}}, "Error: Action parameter is missing"},
		{"no tld", url.Values{"email": {"testtest.test"}, "action": {"login"}}, "Error: Invalid email address"},
		{"no dot", url.Values{"email": {"test@testtest"}, "action": {"login"}}, "Error: Invalid email address"},
		{"quoted", url.Values{"email": {`test"123"@test.test`}, "action": {"login"}}, "Error: Invalid email address"},
		{"empty email", url.Values{"email": {""}, "action": {"login"}}, "Error: Invalid email address"},
		{"long local", url.Values{"email": {strings.Repeat("a", 256) + "@example.com"}, "action": {"login"}}, "Error: Invalid email address"},
		{"invalid action", url.Values{"email": {staticEmail}, "action": {staticEmail}}, "Error: Invalid action"},
		{"missing question id", url.Values{"email": {staticEmail}, "action": {"answer"}, "answer": {"true"}}, "Error: Question ID parameter is missing"},
		{"unknown question", url.Values{"email": {staticEmail}, "action": {"answer"}, "question_id": {"9999"}, "answer": {"x"}}, "Error: Question not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := post(t, server, tc.params)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tc.body, body)
		})
	}
}

func TestAnswerAndScore(t *testing.T) {
	server := newTestServer(t, app.DefaultOptions())

	status, body := post(t, server, url.Values{"email": {staticEmail}, "action": {"score"}})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Current score: 0", body)

	answer := url.Values{
		"email":       {staticEmail},
		"action":      {"answer"},
		"question_id": {"0"},
		"answer":      {"To test the bartender's skills"},
	}
	for i := 0; i < 2; i++ {
		status, body = post(t, server, answer)
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "Correct answer")
	}
	status, body = post(t, server, url.Values{"email": {staticEmail}, "action": {"answer"}, "question_id": {"1"}})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Incorrect answer")

	_, body = post(t, server, url.Values{"email": {staticEmail}, "action": {"score"}})
	assert.Equal(t, "Current score: 1", body)
}

func TestQuestionSequenceAndReset(t *testing.T) {
	server := newTestServer(t, app.DefaultOptions())
	reset := url.Values{"email": {staticEmail}, "action": {"reset"}}
	question := url.Values{"email": {staticEmail}, "action": {"question"}}

	status, _ := post(t, server, reset)
	require.Equal(t, http.StatusOK, status)

	_, body := post(t, server, question)
	assert.Contains(t, body, "Question: Why did the QA engineer go to the bar?")
	assert.Contains(t, body, "Id: 0")
	assert.Contains(t, body, "Answer: To test the bartender's skills")

	for i := 0; i < 4; i++ {
		post(t, server, question)
	}
	status, body = post(t, server, question)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "No more questions available", body)

	post(t, server, reset)
	_, body = post(t, server, url.Values{"email": {staticEmail}, "action": {"score"}})
	assert.Equal(t, "Current score: 0", body)
	_, body = post(t, server, question)
	assert.Contains(t, body, "Id: 0")
}

func TestFormBodyParameters(t *testing.T) {
	server := newTestServer(t, app.DefaultOptions())

	form := url.Values{"email": {"body@example.com"}, "action": {"login"}}
	resp, err := http.Post(server.URL+"/", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "You have successfully logged in", string(data))
}

func TestMethodNotAllowed(t *testing.T) {
	server := newTestServer(t, app.DefaultOptions())

	resp, err := http.Get(server.URL + "/?email=" + url.QueryEscape(staticEmail) + "&action=score")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, http.MethodPost, resp.Header.Get("Allow"))
}

func TestInternalErrorsAreHidden(t *testing.T) {
	catalog, err := app.NewCatalog(memoryQuestions())
	require.NoError(t, err)
	service := app.NewQuizService(failingStore{}, catalog, app.DefaultOptions())
	handler := NewActionHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/?email="+url.QueryEscape(staticEmail)+"&action=score", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error: Internal server error", rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	calls := 0
	handler := RateLimit(1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 2, calls)
}

func TestRateLimitSharedAcrossRoutes(t *testing.T) {
	catalog, err := app.NewCatalog(memoryQuestions())
	require.NoError(t, err)
	service := app.NewQuizService(memory.NewSessionStore(), catalog, app.DefaultOptions())
	server := httptest.NewServer(NewRouter(service, logging.Discard(), RouterOptions{RateLimitRPS: 0.001, RateLimitBurst: 1}))
	t.Cleanup(server.Close)

	status, _ := post(t, server, url.Values{"email": {staticEmail}, "action": {"score"}})
	assert.Equal(t, http.StatusOK, status)

	resp, err := http.Get(server.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRequestLoggedOnceWithAction(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	catalog, err := app.NewCatalog(memoryQuestions())
	require.NoError(t, err)
	service := app.NewQuizService(memory.NewSessionStore(), catalog, app.DefaultOptions())
	server := httptest.NewServer(NewRouter(service, logger, RouterOptions{}))
	t.Cleanup(server.Close)

	status, _ := post(t, server, url.Values{"email": {staticEmail}, "action": {"answer"}, "question_id": {"x"}})
	assert.Equal(t, http.StatusBadRequest, status)

	entries := hook.AllEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "request", entries[0].Message)
	assert.Equal(t, "answer", entries[0].Data["action"])
	assert.Equal(t, http.StatusBadRequest, entries[0].Data["status"])
	assert.Equal(t, domain.ErrInvalidQuestionID, entries[0].Data[logrus.ErrorKey])
}

func TestInternalErrorLoggedAtErrorLevel(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	catalog, err := app.NewCatalog(memoryQuestions())
	require.NoError(t, err)
	service := app.NewQuizService(failingStore{}, catalog, app.DefaultOptions())
	handler := RequestLogger(logger, NewActionHandler(service))

	req := httptest.NewRequest(http.MethodPost, "/?email="+url.QueryEscape(staticEmail)+"&action=score", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "score", entry.Data["action"])
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, app.DefaultOptions())
	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func post(t *testing.T, server *httptest.Server, params url.Values) (int, string) {
	t.Helper()
	resp, err := http.Post(server.URL+"/?"+params.Encode(), "application/x-www-form-urlencoded", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func newTestServer(t *testing.T, opts app.Options) *httptest.Server {
	t.Helper()
	catalog, err := app.NewCatalog(memoryQuestions())
	require.NoError(t, err)
	service := app.NewQuizService(memory.NewSessionStore(), catalog, opts)
	server := httptest.NewServer(NewRouter(service, logging.Discard(), RouterOptions{}))
	t.Cleanup(server.Close)
	return server
}

func memoryQuestions() []domain.Question {
	qs, _ := memory.NewDefaultQuestionLoader().LoadQuestions(context.Background())
	return qs
}

var errStoreDown = errors.New("store down")

type failingStore struct{}

func (failingStore) Create(context.Context, string) (domain.Session, error) {
	return domain.Session{}, errStoreDown
}

func (failingStore) Update(context.Context, string, func(*domain.Session)) (domain.Session, error) {
	return domain.Session{}, errStoreDown
}

func (failingStore) Get(context.Context, string) (domain.Session, bool, error) {
	return domain.Session{}, false, errStoreDown
}
