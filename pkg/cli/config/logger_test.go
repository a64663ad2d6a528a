package config_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/tagship/pkg/cli/config"
)

func TestLogger_Configure(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "Valid level: debug", level: "debug"},
		{name: "Valid level: DEBUG (case insensitive)", level: "DEBUG"},
		{name: "Valid level: info", level: "info"},
		{name: "Valid level: warn", level: "warn"},
		{name: "Valid level: ERROR", level: "ERROR"},
		{name: "Invalid level: invalid", level: "invalid", wantErr: true},
		{name: "Invalid level: empty string", level: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &config.Logger{
				Level:  tt.level,
				Format: "text",
			}

			result, err := logger.Configure()
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.NotNil(t, result)
		})
	}
}

func TestLogger_Formats(t *testing.T) {
	for _, format := range []string{"console", "text", "json", "JSON"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := &config.Logger{Level: "info", Format: format}

			result, err := logger.NewLogger(&buf)
			gt.NoError(t, err)
			result.Info("test log message")
			gt.True(t, strings.Contains(buf.String(), "test log message"))
		})
	}
}

func TestLogger_InvalidFormat(t *testing.T) {
	logger := &config.Logger{Level: "info", Format: "xml"}
	_, err := logger.Configure()
	gt.Error(t, err)
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := &config.Logger{Level: "warn", Format: "json"}

	result, err := logger.NewLogger(&buf)
	gt.NoError(t, err)
	result.Info("hidden message")
	result.Warn("visible message")

	gt.False(t, strings.Contains(buf.String(), "hidden message"))
	gt.True(t, strings.Contains(buf.String(), "visible message"))
}

type credential struct {
	User     string
	Password string `masq:"secret"`
}

func TestLogger_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := &config.Logger{Level: "info", Format: "json"}

	result, err := logger.NewLogger(&buf)
	gt.NoError(t, err)
	result.Info("login", "cred", credential{User: "blue", Password: "s3cr3t-value"})

	gt.True(t, strings.Contains(buf.String(), "blue"))
	gt.False(t, strings.Contains(buf.String(), "s3cr3t-value"))
}

func TestLogger_Flags(t *testing.T) {
	logger := &config.Logger{}
	flags := logger.Flags()
	gt.A(t, flags).Length(2)

	names := make(map[string]bool)
	for _, flag := range flags {
		names[flag.Names()[0]] = true
	}
	gt.True(t, names["log-level"])
	gt.True(t, names["log-format"])
}
