// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with a friendly error page, so
// handlers can fail in one line without leaking internals to the user.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger around the app logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs err at error level and renders a 500-class page
// with userMsg and a back link.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Error(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	w.WriteHeader(http.StatusInternalServerError)
	e.render(w, r, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs err at warn level and renders a 400-class page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	w.WriteHeader(http.StatusBadRequest)
	e.render(w, r, "Invalid request", userMsg, backURL)
}

func (e *ErrorLogger) render(w http.ResponseWriter, r *http.Request, title, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	templates.Render(w, r, "error_page", newPageData(r, title, msg, backURL))
}
