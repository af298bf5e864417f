package commands

import (
	"strings"
	"testing"
)

func TestConfigCommand_Structure(t *testing.T) {
	if configCmd.Use != "config" {
		t.Errorf("Expected use 'config', got %s", configCmd.Use)
	}
	if configCmd.Short == "" {
		t.Error("Short description should not be empty")
	}
	if configCmd.RunE == nil {
		t.Error("RunE should not be nil")
	}

	found := false
	for _, cmd := range configCmd.Commands() {
		if cmd.Name() == "set" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Subcommand set not found")
	}
}

func TestRunConfigSet_Validation(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"bad url", "base-url", "not a url", "not a valid URL"},
		{"url without scheme", "base-url", "localhost:8000", "not a valid URL"},
		{"unknown theme", "theme", "solarized", "unknown theme"},
		{"zero timeout", "timeout", "0", "positive"},
		{"non-numeric timeout", "timeout", "soon", "positive"},
		{"bad bool", "copy-to-clipboard", "yes please", "true or false"},
		{"unknown key", "model", "flash", "unknown key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runConfigSet(tt.key, tt.value)
			if err == nil {
				t.Fatalf("Expected error for %s=%s", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestRunConfigSet_ValidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		key   string
		value string
	}{
		{"base-url", "https://lumina.example.com/"},
		{"theme", "dark"},
		{"timeout", "120"},
		{"copy-to-clipboard", "true"},
		{"verbose", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if err := runConfigSet(tt.key, tt.value); err != nil {
				t.Errorf("runConfigSet(%s, %s) failed: %v", tt.key, tt.value, err)
			}
		})
	}
}
