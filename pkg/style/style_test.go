package style

import (
	"strings"
	"testing"
)

func TestTextHelpers(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		style    func(string) string
		contains string
	}{
		{
			name:     "bold text",
			text:     "Hello World",
			style:    Bold,
			contains: "Hello World",
		},
		{
			name:     "italic text",
			text:     "Hello World",
			style:    Italic,
			contains: "Hello World",
		},
		{
			name:     "underline text",
			text:     "Hello World",
			style:    Underline,
			contains: "Hello World",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.style(tt.text)
			if !strings.Contains(result, tt.contains) {
				t.Errorf("Expected output to contain %q, got %q", tt.contains, result)
			}
		})
	}
}

func TestIndent(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		level    int
		expected string
	}{
		{
			name:     "no indent",
			text:     "Hello",
			level:    0,
			expected: "Hello",
		},
		{
			name:     "single indent",
			text:     "Hello",
			level:    1,
			expected: "  Hello",
		},
		{
			name:     "double indent",
			text:     "Hello",
			level:    2,
			expected: "    Hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Indent(tt.text, tt.level)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestMarkupRender(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "single tag",
			input:    "[success]done[/success]",
			contains: []string{"done"},
		},
		{
			name:     "mixed text and tags",
			input:    "Created [folder]src[/folder] with [file]main.go[/file]",
			contains: []string{"Created", "src", "main.go"},
		},
		{
			name:     "unknown tag left alone",
			input:    "[nope]text[/nope]",
			contains: []string{"[nope]text[/nope]"},
		},
		{
			name:     "unclosed tag left alone",
			input:    "[error]oops",
			contains: []string{"[error]oops"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Render(tt.input)
			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("Expected output to contain %q, got %q", expected, result)
				}
			}
		})
	}
}

func TestMarkupAddStyle(t *testing.T) {
	p := NewMarkupParser()
	p.AddStyle("shout", ErrorStyle)

	result := p.Render("[shout]hey[/shout]")
	if !strings.Contains(result, "hey") {
		t.Errorf("Expected custom tag content to survive, got %q", result)
	}
	if strings.Contains(result, "[shout]") {
		t.Errorf("Expected custom tag markers to be consumed, got %q", result)
	}
}
