package uniuri

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	seen := make(map[string]struct{})

	for range 200 {
		s := New()
		assert.Len(t, s, StdLen)
		assert.Regexp(t, `^[A-Za-z0-9]+$`, s)

		_, dup := seen[s]
		assert.False(t, dup, "duplicate %q", s)
		seen[s] = struct{}{}
	}
}

func TestNewLenChars(t *testing.T) {
	assert.Empty(t, NewLen(0))
	assert.Len(t, NewLen(1000), 1000)

	s := NewLenChars(64, []byte("ab"))
	assert.Regexp(t, `^[ab]{64}$`, s)

	assert.Panics(t, func() { NewLenChars(4, []byte("a")) })
}

func TestSKU(t *testing.T) {
	re := regexp.MustCompile(`^SKU-[A-Z0-9]{8}$`)

	for range 50 {
		assert.Regexp(t, re, SKU())
	}
}

func TestFileName(t *testing.T) {
	testCases := []struct {
		ext  string
		want string
	}{
		{ext: ".png", want: `^[A-Za-z0-9]{16}\.png$`},
		{ext: "JPG", want: `^[A-Za-z0-9]{16}\.jpg$`},
		{ext: ".WebP", want: `^[A-Za-z0-9]{16}\.webp$`},
		{ext: "", want: `^[A-Za-z0-9]{16}$`},
	}

	for _, tc := range testCases {
		t.Run(tc.ext, func(t *testing.T) {
			assert.Regexp(t, tc.want, FileName(tc.ext))
		})
	}
}
