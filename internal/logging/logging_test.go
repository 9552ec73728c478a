package logging_test

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-repoforms/internal/logging"
)

func TestNew(t *testing.T) {
	logger, err := logging.New("debug", "console")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be enabled")
	}

	logger, err = logging.New("WARN", "")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info must be disabled at warn level")
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := logging.New("loud", "json"); err == nil {
		t.Fatalf("expected unknown level to fail")
	}
	if _, err := logging.New("info", "xml"); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
}
