package rawterm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterCRLF(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"", ""},
		{"abc", "abc"},
		{"abc\n", "abc\r\n"},
		{"\n\n", "\r\n\r\n"},
		{"a\nb\nc", "a\r\nb\r\nc"},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		n, err := Writer(&buf).Write([]byte(tc.in))
		require.NoError(t, err)
		assert.Equal(t, len(tc.in), n, "input %q", tc.in)
		assert.Equal(t, tc.out, buf.String(), "input %q", tc.in)
	}
}
