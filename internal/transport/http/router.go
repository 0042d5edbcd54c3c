package http

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"trivia-quiz-service/internal/app"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires the action endpoint, the websocket transport and the health check.
func NewRouter(service *app.QuizService, log logrus.FieldLogger, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	limit := RateLimit(opts.RateLimitRPS, opts.RateLimitBurst)
	mux.Handle("/ws", limit(NewWSHandler(service, log)))
	mux.Handle("/", limit(NewActionHandler(service)))
	return RequestLogger(log, mux)
}
