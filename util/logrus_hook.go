package util

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// SentryHook forwards error and fatal log entries to Sentry.
type SentryHook struct {
	FlushTimeout time.Duration
	capture      func(entry *logrus.Entry)
}

var (
	levels = []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}
)

// NewSentryHook initializes the sentry client with dsn.
func NewSentryHook(dsn, env string) (*SentryHook, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
	})
	if err != nil {
		return nil, err
	}
	return &SentryHook{FlushTimeout: 2 * time.Second, capture: captureEntry}, nil
}

func (h *SentryHook) Levels() []logrus.Level {
	return levels
}

func (h *SentryHook) Fire(entry *logrus.Entry) error {
	h.capture(entry)
	// fatal entries exit the process right after the hooks run
	if entry.Level <= logrus.FatalLevel {
		sentry.Flush(h.FlushTimeout)
	}
	return nil
}

func captureEntry(entry *logrus.Entry) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentryLevel(entry.Level))
		for k, v := range entry.Data {
			scope.SetExtra(k, v)
		}
		if err, ok := entry.Data[logrus.ErrorKey].(error); ok {
			scope.SetExtra("message", entry.Message)
			sentry.CaptureException(err)
			return
		}
		sentry.CaptureMessage(entry.Message)
	})
}

func sentryLevel(level logrus.Level) sentry.Level {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return sentry.LevelFatal
	case logrus.ErrorLevel:
		return sentry.LevelError
	case logrus.WarnLevel:
		return sentry.LevelWarning
	default:
		return sentry.LevelInfo
	}
}
