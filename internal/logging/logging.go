package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how verbosely the converter logs.
type Config struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Output is the console sink, os.Stderr when nil.
	Output io.Writer
}

// New builds a logrus logger writing to cfg.Output and, when cfg.File is set,
// to a size-rotated log file as well. An unknown level falls back to info.
func New(cfg Config) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.File != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB, // MB
			MaxBackups: cfg.MaxBackups,
		})
	}
	l.SetOutput(out)

	if err != nil && cfg.Level != "" {
		l.Warnf("Invalid log level %q, using info", cfg.Level)
	}
	return l
}
