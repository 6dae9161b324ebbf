package catalog

import "github.com/patrickwarner/creativeserve/internal/models"

// Resolve maps a format identifier to at most one catalog entry. Template
// formats match on base id alone: the identifier's width/height/duration
// parameters describe the requested instantiation and are validated
// downstream against the template's requirements, not against the catalog
// entry. Concrete formats require exact width/height equality, with
// both-absent counting as equal.
//
// A miss is a normal empty result, not an error; callers produce their own
// not-found handling.
func (c *Catalog) Resolve(query models.FormatID) (models.Format, bool) {
	for i := range c.formats {
		f := &c.formats[i]
		if !f.FormatID.BaseEqual(query) {
			continue
		}
		if f.IsTemplate() {
			return *f, true
		}
		if f.FormatID.Width == query.Width && f.FormatID.Height == query.Height {
			return *f, true
		}
	}
	return models.Format{}, false
}
