package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	t.Run("empty input yields nothing", func(t *testing.T) {
		s := New(500, 50)
		assert.Nil(t, s.Split(""))
		assert.Nil(t, s.Split("   \n "))
	})

	t.Run("short text is a single chunk", func(t *testing.T) {
		s := New(500, 50)
		content := "Product: Red Sneaker\nCategory: Footwear\nPrice: $59.99\nDescription: running sneaker"
		chunks := s.Split(content)
		assert.Equal(t, []string{content}, chunks)
	})

	t.Run("long text is bounded by chunk size", func(t *testing.T) {
		s := New(100, 20)
		var b strings.Builder
		for i := 0; i < 30; i++ {
			b.WriteString("This sentence describes one product feature. ")
		}
		chunks := s.Split(b.String())
		assert.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 100+20, "chunk %q", c)
		}
	})

	t.Run("paragraph separator is preferred", func(t *testing.T) {
		s := New(40, 0)
		chunks := s.Split("first paragraph here\n\nsecond paragraph here\n\nthird paragraph here")
		assert.GreaterOrEqual(t, len(chunks), 2)
		for _, c := range chunks {
			assert.NotContains(t, c, "\n\n")
		}
	})

	t.Run("text without separators is hard split", func(t *testing.T) {
		s := New(50, 10)
		chunks := s.Split(strings.Repeat("x", 200))
		assert.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 50)
		}
	})

	t.Run("all content is retained", func(t *testing.T) {
		s := New(80, 0)
		text := "alpha beta gamma. delta epsilon zeta. eta theta iota. kappa lambda mu. nu xi omicron."
		chunks := s.Split(text)
		joined := strings.Join(chunks, " ")
		for _, word := range strings.Fields(strings.ReplaceAll(text, ".", "")) {
			assert.Contains(t, joined, word)
		}
	})

	t.Run("defaults applied for bad arguments", func(t *testing.T) {
		s := New(0, -1)
		assert.Equal(t, 500, s.chunkSize)
		assert.Equal(t, 50, s.overlap)
	})
}
