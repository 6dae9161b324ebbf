// Package catalog owns the static creative format catalog and the matching
// logic over it: resolving a format identifier to a definition and filtering
// the catalog by caller criteria.
package catalog

import (
	"fmt"

	"github.com/patrickwarner/creativeserve/internal/models"
)

// Catalog is the immutable, in-memory collection of format definitions.
// It is built once at startup and may be shared across goroutines without
// locking; no mutation operation exists after construction.
type Catalog struct {
	formats []models.Format
}

// New validates the given declarations and constructs a Catalog. A
// malformed declaration (missing identity, a format that is both template
// and concrete, or duplicate concrete (id,width,height) entries) is a
// construction error; callers treat it as fatal at startup rather than
// serving a partially valid catalog.
func New(formats []models.Format) (*Catalog, error) {
	type concreteKey struct {
		agentURL string
		id       string
		width    int
		height   int
	}
	seen := make(map[concreteKey]string, len(formats))

	for i := range formats {
		f := &formats[i]
		if f.FormatID.ID == "" || f.FormatID.AgentURL == "" {
			return nil, fmt.Errorf("format %d: format_id requires id and agent_url", i)
		}
		if f.Name == "" {
			return nil, fmt.Errorf("format %s: name is required", f.FormatID.ID)
		}
		if f.Type == "" {
			return nil, fmt.Errorf("format %s: type is required", f.FormatID.ID)
		}
		if f.IsTemplate() && len(f.Renders) > 0 {
			return nil, fmt.Errorf("format %s: template formats cannot declare fixed renders", f.FormatID.ID)
		}
		if f.IsTemplate() {
			continue
		}
		key := concreteKey{
			agentURL: f.FormatID.AgentURL,
			id:       f.FormatID.ID,
			width:    f.FormatID.Width,
			height:   f.FormatID.Height,
		}
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate concrete format %s conflicts with %s", f.FormatID, prev)
		}
		seen[key] = f.Name
	}

	out := make([]models.Format, len(formats))
	copy(out, formats)
	return &Catalog{formats: out}, nil
}

// All returns the formats in stable catalog order: category-grouped, then
// declaration order. Callers must not mutate the returned slice elements.
func (c *Catalog) All() []models.Format {
	out := make([]models.Format, len(c.formats))
	copy(out, c.formats)
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.formats)
}
