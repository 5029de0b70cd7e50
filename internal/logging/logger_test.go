package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dacosmicgiant/fitness-mock/internal/config"
)

func TestInit_UsesConfiguredDirectory(t *testing.T) {
	dir := t.TempDir()

	log, err := Init(config.LoggingConfig{
		Directory:  dir,
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	log.Info("configured sink")
	_ = log.Sync()

	matches, err := filepath.Glob(filepath.Join(dir, "*-info.log"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one info log file in the configured directory, found %d", len(matches))
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "configured sink") {
		t.Error("log entry was not written to the configured file")
	}
}

func TestInit_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	if _, err := Init(config.LoggingConfig{Directory: dir, MaxSize: 1, MaxBackups: 1, MaxAge: 1}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("log directory was not created: %v", err)
	}
}
