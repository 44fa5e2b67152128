package resolve

import (
	"strings"

	"github.com/fivec-maps/catalog-import/internal/catalog"
)

// LocationCache remembers location lookups by normalised building name, including misses.
// Entries live for the whole run.
type LocationCache struct {
	Locations map[string]*catalog.Location

	hits   int
	misses int
}

// NewLocationCache creates an empty cache.
func NewLocationCache() *LocationCache {
	return &LocationCache{
		Locations: make(map[string]*catalog.Location),
	}
}

// Get returns the cached lookup for building. found is false when nothing is cached.
// A cached miss returns (nil, true).
func (c *LocationCache) Get(building string) (loc *catalog.Location, found bool) {
	loc, found = c.Locations[cacheKey(building)]
	if !found {
		c.misses++
		return nil, false
	}
	c.hits++
	return loc, true
}

// Set stores the lookup result for building. loc may be nil.
func (c *LocationCache) Set(building string, loc *catalog.Location) {
	c.Locations[cacheKey(building)] = loc
}

// Size returns the number of cached entries
func (c *LocationCache) Size() int {
	return len(c.Locations)
}

// Stats returns the hit and miss counts since creation.
func (c *LocationCache) Stats() (hits, misses int) {
	return c.hits, c.misses
}

// cacheKey lowercases and collapses whitespace so "Seaver  North" and "seaver north"
// share an entry.
func cacheKey(building string) string {
	return strings.Join(strings.Fields(strings.ToLower(building)), " ")
}
