package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"shopscout/internal/api"
	"shopscout/internal/assistant"
	"shopscout/internal/extract"
)

func TestRenderOverview_Fallbacks(t *testing.T) {
	m := newTestModel(t)

	t.Run("malformed payload", func(t *testing.T) {
		out := m.renderOverview("no json here")
		assert.Contains(t, out, "Unable to parse overview data. Please try again.")
	})

	t.Run("missing overview", func(t *testing.T) {
		out := m.renderOverview(`{"recommendations": []}`)
		assert.Contains(t, out, "No overview available for this recommendation.")
	})

	t.Run("overview present", func(t *testing.T) {
		out := m.renderOverview(`Here you go {"overview": "Three solid laptops.", "recommendations": []}`)
		assert.Contains(t, out, "Three solid laptops.")
		assert.NotContains(t, out, "recommendations")
	})
}

func TestRenderProducts_DetailAlignment(t *testing.T) {
	m := newTestModel(t)
	bundle := &assistant.ProductBundle{
		Recommendations: []extract.Recommendation{
			{Name: "ThinkPad X1", Price: "$1,400", Description: "Light business laptop"},
			{Name: "MacBook Air", Price: "$1,100"},
		},
		Details: []api.ProductDetail{
			{
				Name: "ThinkPad X1",
				BuyLinks: []map[string]any{
					{"title": "Lenovo Store", "price": "$1,399", "link": "https://lenovo.example/x1"},
				},
				Reviews: []map[string]any{
					{"summary": "Best keyboard in class.", "link": "https://reviews.example/x1"},
				},
			},
		},
	}

	out := m.renderProducts(bundle)

	assert.Contains(t, out, "ThinkPad X1")
	assert.Contains(t, out, "Where to Buy:")
	assert.Contains(t, out, "Lenovo Store")
	assert.Contains(t, out, "Best keyboard in class.")
	// Second product has no detail entry and renders without enrichment.
	assert.Contains(t, out, "MacBook Air")
	assert.Equal(t, 1, strings.Count(out, "Where to Buy:"))
}

func TestRenderDetail_MissingSummary(t *testing.T) {
	m := newTestModel(t)

	out := m.renderDetail(&api.ProductDetail{
		Reviews: []map[string]any{{"link": "https://reviews.example/a"}},
	})

	assert.Contains(t, out, "No review summary available.")
}

func TestStringField(t *testing.T) {
	obj := map[string]any{"title": "Store", "rating": 4.5}

	assert.Equal(t, "Store", stringField(obj, "title"))
	assert.Equal(t, "", stringField(obj, "rating"))
	assert.Equal(t, "", stringField(obj, "missing"))
}
