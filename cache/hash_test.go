package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollingHash(t *testing.T) {
	tests := []struct {
		input string
		want  int32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 3105},
		{"hello", 99162322},
		// wraps to the smallest int32
		{"polygenelubricants", -2147483648},
		// surrogate pair hashed as two code units
		{"😀", 1772899},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, RollingHash(tt.input))
		})
	}
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "code_explanation_go_99162322", ExplanationKey("hello", "go"))
	assert.Equal(t, "translation_hi_99162322", TranslationKey("hello", "hi"))

	assert.Equal(t, ExplanationKey("x := 1", "go"), ExplanationKey("x := 1", "go"))
	assert.NotEqual(t, AudioKey("hi", "en", "voice-a"), AudioKey("hi", "en", "voice-b"))
}
