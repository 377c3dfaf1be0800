package ini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
		wantErr  bool
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "a", expected: []string{"a"}},
		{name: "plain list", input: "a,b,c", expected: []string{"a", "b", "c"}},
		{name: "quoted comma", input: `a,"b,c",""`, expected: []string{"a", "b,c", ""}},
		{name: "escaped quote", input: `"say \"hi\"",x`, expected: []string{`say "hi"`, "x"}},
		{name: "escaped backslash", input: `"C:\\tmp"`, expected: []string{`C:\tmp`}},
		{name: "escaped newline", input: `"l1\nl2"`, expected: []string{"l1\nl2"}},
		{name: "spaces around bare", input: " a , b ", expected: []string{"a", "b"}},
		{name: "space after quoted", input: `"a b" , c`, expected: []string{"a b", "c"}},
		{name: "trailing comma", input: "a,", expected: []string{"a", ""}},
		{name: "only quotes", input: `""`, expected: []string{""}},
		{name: "unterminated", input: `"abc`, wantErr: true},
		{name: "dangling escape", input: `"abc\`, wantErr: true},
		{name: "quote inside bare", input: `ab"c`, wantErr: true},
		{name: "text after close", input: `"ab"c`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitArray(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedArray)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestJoinArray(t *testing.T) {
	assert.Equal(t, "a,b", JoinArray([]string{"a", "b"}))
	assert.Equal(t, `a,"b,c",""`, JoinArray([]string{"a", "b,c", ""}))
	assert.Equal(t, `"x \"y\""`, JoinArray([]string{`x "y"`}))
	assert.Equal(t, "", JoinArray(nil))
}

func TestArrayRoundTrip(t *testing.T) {
	cases := [][]string{
		{"one"},
		{"a", "b,c", ""},
		{"with space", `with "quotes"`, `back\slash`, "comma,inside", "tab\there"},
		{"multi\nline", "", ""},
		{`\"`, `""`, ","},
	}

	for _, elems := range cases {
		got, err := SplitArray(JoinArray(elems))
		require.NoError(t, err)
		assert.Equal(t, elems, got)
	}
}
