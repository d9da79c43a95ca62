package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"About Us", "about-us"},
		{"  Hello,  World!  ", "hello-world"},
		{"Already-Slugged", "already-slugged"},
		{"100% Pure", "100-pure"},
		{"___", ""},
		{"", ""},
		{"ÜBER cool", "ber-cool"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, slugify(tt.input))
		})
	}
}

func TestSlugifyCapsLength(t *testing.T) {
	long := strings.Repeat("a", 150)
	slug := slugify(long)
	assert.LessOrEqual(t, len(slug), maxSlugLen)
	assert.NotEmpty(t, slug)
}

func TestValidURL(t *testing.T) {
	assert.True(t, validURL("https://cdn.example.com/img.png"))
	assert.True(t, validURL("http://example.com"))
	assert.False(t, validURL("not a url"))
	assert.False(t, validURL("ftp://example.com/file"))
	assert.False(t, validURL("/relative/path"))
	assert.False(t, validURL(""))
}

func TestNormalizeIDSet(t *testing.T) {
	p1 := "11111111-1111-1111-1111-111111111111"
	p2 := "22222222-2222-2222-2222-222222222222"

	t.Run("deduplicates and trims", func(t *testing.T) {
		out, bad := normalizeIDSet([]string{p1, " " + p1 + " ", p2, p1})
		assert.Empty(t, bad)
		assert.Equal(t, []string{p1, p2}, out)
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		out, bad := normalizeIDSet([]string{p1, "not-a-uuid"})
		assert.Equal(t, "not-a-uuid", bad)
		assert.Nil(t, out)
	})

	t.Run("empty input", func(t *testing.T) {
		out, bad := normalizeIDSet(nil)
		assert.Empty(t, bad)
		assert.Empty(t, out)
	})
}
