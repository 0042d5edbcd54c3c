package http

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimit returns middleware that rejects requests beyond rps (with burst).
// Every handler wrapped by the same middleware shares one limiter. A
// non-positive rps disables limiting.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeText(w, http.StatusTooManyRequests, errorPrefix+"Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestInfo collects what handlers know about a request for its log line.
type requestInfo struct {
	action string
	err    error
}

type requestInfoKey struct{}

// annotate records the action and its error for RequestLogger. It does
// nothing outside RequestLogger.
func annotate(r *http.Request, action string, err error) {
	if info, ok := r.Context().Value(requestInfoKey{}).(*requestInfo); ok {
		info.action = action
		info.err = err
	}
}

// RequestLogger logs one line per request, including the action and error
// reported by the handler.
func RequestLogger(log logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		info := &requestInfo{}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info)))

		entry := log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		})
		if info.action != "" {
			entry = entry.WithField("action", info.action)
		}
		if info.err != nil {
			entry = entry.WithError(info.err)
		}
		if rec.status >= http.StatusInternalServerError {
			entry.Error("request")
			return
		}
		entry.Info("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack passes through to the underlying writer so websocket upgrades keep working.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
