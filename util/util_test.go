package util

import (
	"errors"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestCreateScannerFromReaderLongLine(t *testing.T) {
	long := strings.Repeat("a", 200*1024)
	scanner := CreateScannerFromReader(strings.NewReader(long + "\nb\n"))

	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	assert.NoError(t, scanner.Err())
	assert.Equal(t, []string{long, "b"}, lines)
}

func TestGetRunID(t *testing.T) {
	a, b := GetRunID(), GetRunID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestSentryHookFire(t *testing.T) {
	captured := make([]*logrus.Entry, 0)
	hook := &SentryHook{capture: func(e *logrus.Entry) { captured = append(captured, e) }}

	logger := logrus.New()
	logger.AddHook(hook)
	logger.Info("not forwarded")
	logger.WithError(errors.New("boom")).Error("forwarded")

	assert.Len(t, captured, 1)
	assert.Equal(t, "forwarded", captured[0].Message)
	assert.Equal(t, []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}, hook.Levels())
}

func TestSentryLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.FatalLevel))
	assert.Equal(t, sentry.LevelError, sentryLevel(logrus.ErrorLevel))
	assert.Equal(t, sentry.LevelWarning, sentryLevel(logrus.WarnLevel))
	assert.Equal(t, sentry.LevelInfo, sentryLevel(logrus.DebugLevel))
}
