package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "short string unchanged", input: "hello", maxLen: 10, expected: "hello"},
		{name: "exact length unchanged", input: "hello", maxLen: 5, expected: "hello"},
		{name: "long string truncated", input: "hello world this is a long string", maxLen: 15, expected: "hello world ..."},
		{name: "newlines replaced with spaces", input: "hello\nworld", maxLen: 20, expected: "hello world"},
		{name: "carriage returns handled", input: "hello\r\nworld", maxLen: 20, expected: "hello world"},
		{name: "unicode counted by rune", input: "héllo wörld", maxLen: 8, expected: "héllo..."},
		{name: "tiny max clamped", input: "abcdefgh", maxLen: 1, expected: "a..."},
		{name: "empty", input: "", maxLen: 10, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.maxLen))
		})
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		input, expected string
	}{
		{"", ""},
		{"abc", "********"},
		{"abcdefgh", "********"},
		{"abcdefghi", "ab******"},
		{"s3cr3t-token-value", "s3******"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Mask(tt.input))
		})
	}
}
