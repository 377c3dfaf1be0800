package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \r\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)
			assert.False(t, p.Interactive())

			got, err := p.Confirm("Delete?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Delete? [y/N]: ", out.String())
		})
	}
}

func TestPrompter_ReadSecretPiped(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("hunter2\nhunter2\n"), &out)

	v, err := p.ReadNewSecret("Passphrase: ")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", v)
	assert.Equal(t, "Passphrase: Confirm passphrase: ", out.String())
}

func TestPrompter_ReadNewSecretMismatch(t *testing.T) {
	p := NewPrompter(strings.NewReader("a\nb\n"), &bytes.Buffer{})

	_, err := p.ReadNewSecret("Passphrase: ")
	assert.Error(t, err)
}

func TestPrompter_ReadSecretEOF(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})

	_, err := p.ReadSecret("Value: ")
	assert.Error(t, err)
}
