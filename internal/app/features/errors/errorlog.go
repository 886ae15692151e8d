// internal/app/features/errors/errorlog.go
package errors

import (
	"net/http"

	"github.com/dalemusser/ideahub/internal/app/system/apperr"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger writes error responses and logs the failures worth logging
// with request context.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (l *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	}
}

// Write maps err to a status and body. Store and unclassified errors are
// logged; the rest are expected outcomes of client input.
func (l *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := StatusFor(err)
	switch apperr.KindOf(err) {
	case apperr.KindStore, apperr.KindUnknown:
		l.Log.Error(op+" failed", l.fields(r, err)...)
	default:
		l.Log.Debug(op+" rejected", append(l.fields(r, err), zap.Int("status", status))...)
	}
	WriteJSON(w, status, bodyFor(err))
}

// LogBadRequest answers 400 with userMsg.
func (l *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	l.Log.Info(msg, l.fields(r, err)...)
	WriteJSON(w, http.StatusBadRequest, Body{Error: userMsg})
}

// LogServerError answers 500 with userMsg.
func (l *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	l.Log.Error(msg, l.fields(r, err)...)
	WriteJSON(w, http.StatusInternalServerError, Body{Error: userMsg})
}
