package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"loud", logrus.InfoLevel},
	}
	for _, tc := range tests {
		if got := New(Config{Level: tc.in}).GetLevel(); got != tc.want {
			t.Errorf("level %q: want %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestNewFileSink(t *testing.T) {
	p := filepath.Join(t.TempDir(), "dflight2kml.log")
	l := New(Config{Level: "info", File: p, MaxSizeMB: 1, MaxBackups: 1})
	l.Info("Conversion started")

	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "Conversion started") {
		t.Fatalf("unexpected log content %q", data)
	}
}
