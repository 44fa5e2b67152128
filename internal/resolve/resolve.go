package resolve

import (
	"context"
	"fmt"

	"github.com/fivec-maps/catalog-import/internal/apperrors"
	"github.com/fivec-maps/catalog-import/internal/catalog"
	"github.com/fivec-maps/catalog-import/internal/logger"
)

// Lookup is the read side of the persistence layer the resolver needs.
// Both methods return (nil, nil) when nothing matches.
type Lookup interface {
	FindCollege(ctx context.Context, code string) (*catalog.College, error)
	FindLocationByNameSubstring(ctx context.Context, fragment string) (*catalog.Location, error)
}

// Resolver resolves college codes and building names for one run.
// It is not safe for concurrent use.
type Resolver struct {
	lookup    Lookup
	log       *logger.Logger
	colleges  map[catalog.CollegeCode]*catalog.College
	locations *LocationCache
}

// New creates a Resolver over lookup. A nil log discards events.
func New(lookup Lookup, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		lookup:    lookup,
		log:       log,
		colleges:  make(map[catalog.CollegeCode]*catalog.College),
		locations: NewLocationCache(),
	}
}

// College returns the persisted college for code. Unknown or unseeded codes resolve to
// catalog.DefaultCollege with fallback set. The error is non-nil only when the store fails
// or the default college itself is missing.
func (r *Resolver) College(ctx context.Context, code catalog.CollegeCode) (college *catalog.College, fallback bool, err error) {
	if _, known := catalog.ParseCollegeCode(string(code)); known {
		college, err = r.findCollege(ctx, code)
		if err != nil {
			return nil, false, err
		}
		if college != nil {
			return college, false, nil
		}
	}

	r.log.Info("college resolution fallback", logger.Fields{
		"kind":     apperrors.Kind(apperrors.ErrResolutionFallback),
		"code":     string(code),
		"fallback": string(catalog.DefaultCollege),
	})

	college, err = r.findCollege(ctx, catalog.DefaultCollege)
	if err != nil {
		return nil, true, err
	}
	if college == nil {
		return nil, true, apperrors.Storage("resolving college",
			fmt.Errorf("default college %s: %w", catalog.DefaultCollege, apperrors.ErrNotFound))
	}
	return college, true, nil
}

func (r *Resolver) findCollege(ctx context.Context, code catalog.CollegeCode) (*catalog.College, error) {
	if c, ok := r.colleges[code]; ok {
		return c, nil
	}

	c, err := r.lookup.FindCollege(ctx, string(code))
	if err != nil {
		return nil, apperrors.Storage("finding college "+string(code), err)
	}
	r.colleges[code] = c
	return c, nil
}

// Location returns the first location (lowest id) whose name contains building,
// ignoring case. A nil or empty building, or no match, returns (nil, nil).
func (r *Resolver) Location(ctx context.Context, building *string) (*catalog.Location, error) {
	name := catalog.Deref(building)
	if cacheKey(name) == "" {
		return nil, nil
	}

	if loc, found := r.locations.Get(name); found {
		return loc, nil
	}

	loc, err := r.lookup.FindLocationByNameSubstring(ctx, name)
	if err != nil {
		return nil, apperrors.Storage("finding location "+name, err)
	}
	r.locations.Set(name, loc)

	if loc == nil {
		r.log.Debug("location not found", logger.Fields{
			"kind":     apperrors.Kind(apperrors.ErrResolutionFallback),
			"building": name,
		})
	}
	return loc, nil
}

// CacheStats returns location cache hits, misses and distinct buildings cached.
func (r *Resolver) CacheStats() (hits, misses, entries int) {
	hits, misses = r.locations.Stats()
	return hits, misses, r.locations.Size()
}
