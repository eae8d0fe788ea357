package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/selfhostedhub/compare/internal/util"
)

// Environment variables read by LoadSettings
const (
	EnvDataDir    = "COMPARE_DATA_DIR"
	EnvFormat     = "COMPARE_FORMAT"
	EnvColor      = "COMPARE_COLOR"
	EnvPaidCredit = "COMPARE_PAID_CREDIT"
	EnvLogLevel   = "COMPARE_LOG_LEVEL"
	EnvLogFormat  = "COMPARE_LOG_FORMAT"
	EnvLogFile    = "COMPARE_LOG_FILE"
)

// Settings holds process-wide defaults. Command flags override them.
type Settings struct {
	DataDir string // empty means the embedded catalog

	Format     string // text, json or yaml
	OutputFile string // empty means stdout
	Color      string // auto, always or never

	PaidCredit string // half or full

	LogLevel  slog.Level
	LogFormat string // text or json
	LogFile   string // empty means stderr
}

// DefaultSettings returns the built-in defaults
func DefaultSettings() *Settings {
	return &Settings{
		Format:     "text",
		Color:      "auto",
		PaidCredit: "half",
		LogLevel:   slog.LevelError,
		LogFormat:  "text",
	}
}

// LoadSettings returns the defaults with COMPARE_* environment overrides applied
func LoadSettings() *Settings {
	s := DefaultSettings()

	lower := func(v string) string { return strings.ToLower(strings.TrimSpace(v)) }
	overrides := []struct {
		env   string
		apply func(string)
	}{
		{EnvDataDir, func(v string) { s.DataDir = v }},
		{EnvFormat, func(v string) { s.Format = lower(v) }},
		{EnvColor, func(v string) { s.Color = lower(v) }},
		{EnvPaidCredit, func(v string) { s.PaidCredit = lower(v) }},
		{EnvLogLevel, func(v string) {
			// an unknown level keeps the default
			if level, err := ParseLogLevel(v); err == nil {
				s.LogLevel = level
			}
		}},
		{EnvLogFormat, func(v string) { s.LogFormat = lower(v) }},
		{EnvLogFile, func(v string) { s.LogFile = v }},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			o.apply(v)
		}
	}
	return s
}

// ParseLogLevel accepts the slog level names plus "warning" and "fatal"
func ParseLogLevel(level string) (slog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(level))
	switch name {
	case "warning":
		return slog.LevelWarn, nil
	case "fatal":
		return slog.LevelError, nil
	case "debug", "info", "warn", "error":
		var l slog.Level
		err := l.UnmarshalText([]byte(name))
		return l, err
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
}

// logOutput opens the log file, falling back to stderr with a warning
func (s *Settings) logOutput() io.Writer {
	if s.LogFile == "" {
		return os.Stderr
	}
	f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v\n", s.LogFile, err)
		return os.Stderr
	}
	return f
}

// ConfigureLogger builds the process logger from the settings
func (s *Settings) ConfigureLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: s.LogLevel}
	out := s.logOutput()
	if s.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// Validate checks enumerated settings
func (s *Settings) Validate() error {
	if err := util.ValidateOutputFormat(s.Format); err != nil {
		return err
	}
	if err := util.ValidateColorMode(s.Color); err != nil {
		return err
	}
	if s.PaidCredit != "half" && s.PaidCredit != "full" {
		return fmt.Errorf("invalid paid credit %q (expected half or full)", s.PaidCredit)
	}
	return nil
}
