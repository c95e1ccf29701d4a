package ui_test

import (
	"testing"

	"github.com/arthur-debert/sprout/pkg/ui"
	"github.com/stretchr/testify/assert"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		name     string
		format   ui.Format
		expected string
	}{
		{
			name:     "auto format",
			format:   ui.FormatAuto,
			expected: "auto",
		},
		{
			name:     "terminal format",
			format:   ui.FormatTerminal,
			expected: "term",
		},
		{
			name:     "text format",
			format:   ui.FormatText,
			expected: "text",
		},
		{
			name:     "json format",
			format:   ui.FormatJSON,
			expected: "json",
		},
		{
			name:     "unknown format",
			format:   ui.Format(999),
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.format.String())
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ui.Format
		wantErr  bool
	}{
		{
			name:     "parse auto",
			input:    "auto",
			expected: ui.FormatAuto,
		},
		{
			name:     "parse empty string as auto",
			input:    "",
			expected: ui.FormatAuto,
		},
		{
			name:     "parse term",
			input:    "term",
			expected: ui.FormatTerminal,
		},
		{
			name:     "parse terminal",
			input:    "terminal",
			expected: ui.FormatTerminal,
		},
		{
			name:     "parse text",
			input:    "text",
			expected: ui.FormatText,
		},
		{
			name:     "parse plain",
			input:    "plain",
			expected: ui.FormatText,
		},
		{
			name:     "parse json",
			input:    "json",
			expected: ui.FormatJSON,
		},
		{
			name:     "parse uppercase",
			input:    "JSON",
			expected: ui.FormatJSON,
		},
		{
			name:    "parse invalid format",
			input:   "yaml",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := ui.ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "unknown format")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, format)
			}
		})
	}
}
