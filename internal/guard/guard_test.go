package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neusearch/neusearch/internal/catalog"
)

var testKeywords = []string{"shoe", "sneaker", "footwear", "laptop", "playstation", "coffee"}

func cand(id int64, name, desc string, distance float64) catalog.Candidate {
	return catalog.Candidate{
		Item:     catalog.Item{ID: id, Name: name, Description: desc},
		Distance: distance,
	}
}

func TestExtractKeyword(t *testing.T) {
	g := New(testKeywords)

	t.Run("finds keyword as substring", func(t *testing.T) {
		assert.Equal(t, "sneaker", g.ExtractKeyword("Show me sneakers"))
	})

	t.Run("is case insensitive", func(t *testing.T) {
		assert.Equal(t, "laptop", g.ExtractKeyword("Any LAPTOPS in stock?"))
	})

	t.Run("respects priority order", func(t *testing.T) {
		// Both "shoe" and "sneaker" appear; "shoe" comes first in the vocabulary.
		assert.Equal(t, "shoe", g.ExtractKeyword("sneaker shoes"))
	})

	t.Run("returns empty when no keyword matches", func(t *testing.T) {
		assert.Equal(t, "", g.ExtractKeyword("something to drink"))
	})
}

func TestValidate(t *testing.T) {
	g := New(testKeywords)

	t.Run("no keyword is a no-op preserving order", func(t *testing.T) {
		in := []catalog.Candidate{
			cand(1, "Red Sneaker", "running sneaker", 0.1),
			cand(2, "Gaming Laptop", "fast laptop", 0.2),
			cand(3, "Espresso Maker", "brews coffee", 0.3),
		}
		out := g.Validate("something nice for my desk", in)
		assert.Equal(t, in, out)
	})

	t.Run("drops candidates without the keyword", func(t *testing.T) {
		in := []catalog.Candidate{
			cand(1, "Red Sneaker", "running sneaker", 0.1),
			cand(2, "Gaming Laptop", "fast laptop", 0.2),
		}
		out := g.Validate("Show me sneakers", in)
		assert.Len(t, out, 1)
		assert.Equal(t, "Red Sneaker", out[0].Item.Name)
	})

	t.Run("promotes name matches over description matches", func(t *testing.T) {
		in := []catalog.Candidate{
			cand(1, "Trail Runner", "lightweight shoe for trails", 0.1),
			cand(2, "Classic Shoe", "leather upper", 0.2),
			cand(3, "City Walker", "comfortable walking shoe", 0.3),
			cand(4, "Court Shoe", "indoor sole", 0.4),
		}
		out := g.Validate("need new shoes", in)
		assert.Len(t, out, 4)
		// Name matches first in incoming order, then description-only matches.
		assert.Equal(t, "Classic Shoe", out[0].Item.Name)
		assert.Equal(t, "Court Shoe", out[1].Item.Name)
		assert.Equal(t, "Trail Runner", out[2].Item.Name)
		assert.Equal(t, "City Walker", out[3].Item.Name)
	})

	t.Run("empty result when nothing mentions the keyword", func(t *testing.T) {
		in := []catalog.Candidate{
			cand(1, "Gaming Laptop", "fast laptop", 0.2),
		}
		out := g.Validate("playstation games", in)
		assert.Empty(t, out)
	})

	t.Run("empty input stays empty", func(t *testing.T) {
		assert.Empty(t, g.Validate("shoes", nil))
	})
}
