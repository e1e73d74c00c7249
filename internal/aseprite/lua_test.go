package aseprite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLuaString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text",
			input: "Background",
			want:  `"Background"`,
		},
		{
			name:  "empty string",
			input: "",
			want:  `""`,
		},
		{
			name:  "embedded quotes",
			input: `Layer "one"`,
			want:  `"Layer \"one\""`,
		},
		{
			name:  "backslashes",
			input: `C:\sprites\out`,
			want:  `"C:\\sprites\\out"`,
		},
		{
			name:  "backslash before quote",
			input: `\"`,
			want:  `"\\\""`,
		},
		{
			name:  "newline and tab",
			input: "a\nb\tc",
			want:  `"a\nb\tc"`,
		},
		{
			name:  "carriage return",
			input: "a\rb",
			want:  `"a\rb"`,
		},
		{
			name:  "control character",
			input: "a\x07b",
			want:  `"a\7b"`,
		},
		{
			name:  "unicode passes through",
			input: "スプライト",
			want:  `"スプライト"`,
		},
		{
			name:  "script injection attempt stays inert",
			input: `") os.exit(1) --`,
			want:  `"\") os.exit(1) --"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LuaString(tt.input))
		})
	}
}
