// Package catalog indexes loaded dialogues by id and by topic.
package catalog

import (
	"fmt"
	"slices"
	"sync"

	roaring "github.com/RoaringBitmap/roaring"
	"github.com/armon/go-radix"
)

// Ordinal is the position of a dialogue in the slice the catalog was built from.
type Ordinal = uint32

// Catalog maps dialogue ids to ordinals with a patricia tree, so id prefixes
// (e.g. a shared corpus prefix) can be listed in O(k), and keeps one roaring
// bitmap of ordinals per topic.
type Catalog struct {
	mu     sync.RWMutex
	ids    *radix.Tree
	topics map[string]*roaring.Bitmap
	size   int
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		ids:    radix.New(),
		topics: make(map[string]*roaring.Bitmap),
	}
}

// Add registers the dialogue at ordinal. Duplicate ids are rejected.
func (c *Catalog) Add(id, topic string, ord Ordinal) error {
	if id == "" {
		return fmt.Errorf("invalid input: dialogue id cannot be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.ids.Get(id); ok {
		return fmt.Errorf("duplicate dialogue id %q at ordinals %d and %d", id, prev.(Ordinal), ord)
	}
	c.ids.Insert(id, ord)

	bm, ok := c.topics[topic]
	if !ok {
		bm = roaring.New()
		c.topics[topic] = bm
	}
	bm.Add(ord)
	c.size++
	return nil
}

// Len returns the number of indexed dialogues
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

// Lookup returns the ordinal registered for id
func (c *Catalog) Lookup(id string) (Ordinal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.ids.Get(id)
	if !ok {
		return 0, false
	}
	return v.(Ordinal), true
}

// WithPrefix returns the ids starting with prefix in lexical order
func (c *Catalog) WithPrefix(prefix string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	c.ids.WalkPrefix(prefix, func(s string, _ interface{}) bool {
		out = append(out, s)
		return false
	})
	return out
}

// Topics returns every topic in sorted order
func (c *Catalog) Topics() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.topics))
	for t := range c.topics {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// TopicCount returns how many dialogues carry topic
func (c *Catalog) TopicCount(topic string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	bm, ok := c.topics[topic]
	if !ok {
		return 0
	}
	return int(bm.GetCardinality())
}

// ByTopics returns the union of the ordinals of every named topic, ascending.
func (c *Catalog) ByTopics(topics ...string) []Ordinal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res := roaring.New()
	for _, t := range topics {
		if bm, ok := c.topics[t]; ok {
			res.Or(bm)
		}
	}
	return res.ToArray()
}
