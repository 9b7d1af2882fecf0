package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputBuffer_Write(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		writes    []string
		want      string
		truncated bool
	}{
		{"within limit", 100, []string{"hello"}, "hello", false},
		{"truncates at limit", 10, []string{"hello world"}, "hello worl", true},
		{"multiple writes", 8, []string{"abc", "def", "ghi"}, "abcdefgh", true},
		{"exactly at limit", 5, []string{"hello"}, "hello", false},
		{"write after full", 5, []string{"hello", "!"}, "hello", true},
		{"empty write after full", 5, []string{"hello", ""}, "hello", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewOutputBuffer(tt.limit)
			for _, w := range tt.writes {
				n, err := buf.Write([]byte(w))
				assert.NoError(t, err)
				assert.Equal(t, len(w), n)
			}
			assert.Equal(t, tt.want, buf.String())
			assert.Equal(t, len(tt.want), buf.Len())
			assert.Equal(t, tt.truncated, buf.Truncated())
		})
	}
}

func TestOutputBuffer_Reset(t *testing.T) {
	buf := NewOutputBuffer(3)
	_, _ = buf.Write([]byte("overflow"))
	assert.True(t, buf.Truncated())

	buf.Reset()
	assert.Empty(t, buf.String())
	assert.False(t, buf.Truncated())
}
