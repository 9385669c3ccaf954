package logger

import (
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Logger struct {
	*logrus.Entry
}

// New builds a logger from the environment: pretty console output for local
// runs, JSON elsewhere; level from LOG_LEVEL (default info).
func New() *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	base.SetFormatter(formatterFor(os.Getenv("ENVIRONMENT")))
	base.SetLevel(levelFor(os.Getenv("LOG_LEVEL")))
	return &Logger{Entry: logrus.NewEntry(base)}
}

func formatterFor(env string) logrus.Formatter {
	if env == "" || env == "local" {
		return &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
			ForceColors:     true,
		}
	}
	return &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
}

func levelFor(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// WithComponent tags entries with the emitting component.
func (l *Logger) WithComponent(name string) *logrus.Entry {
	return l.WithField("component", name)
}

// WithRequest attaches request metadata, assigning a request ID when the
// caller did not send one.
func (l *Logger) WithRequest(r *http.Request) *logrus.Entry {
	reqID := r.Header.Get("X-Request-ID")
	if reqID == "" {
		reqID = uuid.New().String()
	}
	return l.WithFields(logrus.Fields{
		"req_id":    reqID,
		"method":    r.Method,
		"path":      r.URL.Path,
		"remote_ip": r.RemoteAddr,
	})
}

// WithError standardizes error logging.
func (l *Logger) WithError(err error) *logrus.Entry {
	if err == nil {
		return l.Entry
	}
	return l.Entry.WithField("error", err.Error())
}
