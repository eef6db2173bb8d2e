package log

import (
	"io"
	"log/slog"
	"os"
)

type Config struct {
	Level     int  `mapstructure:"level"`
	AddSource bool `mapstructure:"add_source"`
}

// New returns a JSON logger writing to w, or to stdout when w is nil.
func New(c Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     slog.Level(c.Level),
		AddSource: c.AddSource,
	}))
}

// Setup installs the logger built from c as the slog default.
func Setup(c Config) *slog.Logger {
	l := New(c, nil)
	slog.SetDefault(l)
	return l
}
