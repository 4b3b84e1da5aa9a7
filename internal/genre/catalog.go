// Package genre holds the process-wide genre catalog and genre slug helpers.
package genre

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/cinematch/cinematch-server/internal/domain"
)

// Unknown is the name reported for ids missing from the catalog.
const Unknown = "Unknown"

// Lister fetches the full genre taxonomy from the catalog provider.
type Lister interface {
	ListGenres(ctx context.Context) ([]domain.Genre, error)
}

// Catalog maps genre ids to names. The taxonomy is fetched once, on first
// use, and kept for the lifetime of the Catalog. A failed fetch leaves the
// catalog empty and is not retried.
type Catalog struct {
	lister Lister
	logger *slog.Logger

	once   sync.Once
	genres []domain.Genre
	names  map[int]string
	slugs  map[string]int
}

// NewCatalog creates a lazily loaded catalog.
func NewCatalog(lister Lister, logger *slog.Logger) *Catalog {
	return &Catalog{
		lister: lister,
		logger: logger,
		names:  map[int]string{},
		slugs:  map[string]int{},
	}
}

// load fetches the taxonomy on the first call. The fetch outlives the
// caller's cancellation since its result is shared by every later caller.
func (c *Catalog) load(ctx context.Context) {
	c.once.Do(func() {
		genres, err := c.lister.ListGenres(context.WithoutCancel(ctx))
		if err != nil {
			c.logger.Warn("genre catalog unavailable, names will be reported as unknown",
				"error", err,
			)
			return
		}

		c.genres = make([]domain.Genre, 0, len(genres))
		for _, g := range genres {
			if _, dup := c.names[g.ID]; dup {
				continue
			}
			c.genres = append(c.genres, g)
			c.names[g.ID] = g.Name
			c.slugs[Slugify(g.Name)] = g.ID
		}

		c.logger.Debug("genre catalog loaded", "count", len(c.genres))
	})
}

// Name returns the name of a genre id, or Unknown.
func (c *Catalog) Name(ctx context.Context, id int) string {
	c.load(ctx)
	if name, ok := c.names[id]; ok {
		return name
	}
	return Unknown
}

// Names maps each id to its name, preserving order.
func (c *Catalog) Names(ctx context.Context, ids []int) []string {
	c.load(ctx)
	out := make([]string, len(ids))
	for i, id := range ids {
		name, ok := c.names[id]
		if !ok {
			name = Unknown
		}
		out[i] = name
	}
	return out
}

// All returns the taxonomy in provider order.
func (c *Catalog) All(ctx context.Context) []domain.Genre {
	c.load(ctx)
	return slices.Clone(c.genres)
}

// Resolve finds a genre by numeric id, name, slug or common alias
// ("42", "Science Fiction", "science-fiction", "sci-fi").
func (c *Catalog) Resolve(ctx context.Context, key string) (domain.Genre, bool) {
	c.load(ctx)

	if id, err := strconv.Atoi(key); err == nil {
		name, ok := c.names[id]
		return domain.Genre{ID: id, Name: name}, ok
	}

	id, ok := c.slugs[canonicalSlug(key)]
	if !ok {
		return domain.Genre{}, false
	}
	return domain.Genre{ID: id, Name: c.names[id]}, true
}
