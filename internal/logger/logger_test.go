package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConfigureJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	configure(l, "debug", "JSON", &buf)

	if l.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %s", l.GetLevel())
	}
	l.WithField("run", "r1").Info("hello")
	if !strings.Contains(buf.String(), `"run":"r1"`) {
		t.Errorf("expected json field in output, got %q", buf.String())
	}
}

func TestConfigureBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	configure(l, "loud", "", &buf)
	if l.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info level, got %s", l.GetLevel())
	}
	if _, ok := l.Formatter.(*logrus.TextFormatter); !ok {
		t.Errorf("expected text formatter, got %T", l.Formatter)
	}
}
