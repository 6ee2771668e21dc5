package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := New()
	entries := []struct{ id, topic string }{
		{"train-001", "음식"},
		{"train-002", "여행"},
		{"train-010", "음식"},
		{"valid-001", "일상"},
		{"valid-002", "음식"},
	}
	for i, e := range entries {
		require.NoError(t, c.Add(e.id, e.topic, Ordinal(i)))
	}
	return c
}

func TestCatalogLookup(t *testing.T) {
	c := buildCatalog(t)
	assert.Equal(t, 5, c.Len())

	ord, ok := c.Lookup("train-010")
	require.True(t, ok)
	assert.Equal(t, Ordinal(2), ord)

	_, ok = c.Lookup("train-999")
	assert.False(t, ok)
}

func TestCatalogAddRejects(t *testing.T) {
	c := buildCatalog(t)
	assert.Error(t, c.Add("train-001", "음식", 9))
	assert.Error(t, c.Add("", "음식", 9))
	assert.Equal(t, 5, c.Len())
}

func TestCatalogWithPrefix(t *testing.T) {
	c := buildCatalog(t)
	assert.Equal(t, []string{"train-001", "train-002", "train-010"}, c.WithPrefix("train-"))
	assert.Equal(t, []string{"train-001", "train-002"}, c.WithPrefix("train-00"))
	assert.Empty(t, c.WithPrefix("test-"))
	assert.Len(t, c.WithPrefix(""), 5)
}

func TestCatalogTopics(t *testing.T) {
	c := buildCatalog(t)
	assert.Equal(t, []string{"여행", "음식", "일상"}, c.Topics())
	assert.Equal(t, 3, c.TopicCount("음식"))
	assert.Equal(t, 0, c.TopicCount("스포츠"))

	assert.Equal(t, []Ordinal{0, 2, 4}, c.ByTopics("음식"))
	assert.Equal(t, []Ordinal{0, 1, 2, 4}, c.ByTopics("여행", "음식", "스포츠"))
	assert.Empty(t, c.ByTopics())
}
