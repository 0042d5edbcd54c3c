package http

import (
	"errors"
	"net/http"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
)

const (
	errorPrefix      = "Error: "
	msgInternalError = "Internal server error"
	msgBadMethod     = "Method not allowed"
	msgBadForm       = "Invalid request body"
)

// ActionHandler serves the single form-encoded action endpoint. Logging is
// left to RequestLogger, which picks up the action and error it reports.
type ActionHandler struct {
	service *app.QuizService
}

func NewActionHandler(service *app.QuizService) *ActionHandler {
	return &ActionHandler{service: service}
}

// ServeHTTP reads parameters from the query string and the form body, runs
// the requested action and answers with a plain-text body.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeText(w, http.StatusMethodNotAllowed, errorPrefix+msgBadMethod)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeText(w, http.StatusBadRequest, errorPrefix+msgBadForm)
		return
	}

	res, err := h.service.Dispatch(r.Context(), r.Form)
	status, body := outcome(res, err)
	annotate(r, r.Form.Get("action"), err)
	writeText(w, status, body)
}

// outcome maps a dispatch result onto a status code and body. Validation
// failures become 400s, anything else unexpected is a 500.
func outcome(res app.Result, err error) (int, string) {
	if err == nil {
		return http.StatusOK, res.Body
	}
	var reqErr *domain.RequestError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest, errorPrefix + reqErr.Message
	}
	return http.StatusInternalServerError, errorPrefix + msgInternalError
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
