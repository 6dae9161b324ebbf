package catalog

import (
	"strconv"
	"strings"

	"github.com/patrickwarner/creativeserve/internal/models"
)

// Criteria is a set of optional filter constraints. Omitted fields impose
// no restriction; supplied fields are ANDed together.
type Criteria struct {
	// FormatIDs keeps formats whose base id matches any listed id. When a
	// listed id carries width/height, concrete formats must match those
	// exactly; template formats always match on base id alone.
	FormatIDs []models.FormatID
	// Type keeps exact format type matches.
	Type string
	// AssetTypes keeps formats whose requirement list covers every listed
	// asset type.
	AssetTypes []models.AssetType
	// Dimensions is the legacy "WIDTHxHEIGHT" filter. Malformed strings are
	// ignored rather than rejected.
	Dimensions string
	// Bounds on the first render's dimensions. Dimension-accepting templates
	// always pass; concrete formats without render dimensions are excluded
	// once any bound is set.
	MaxWidth  *int
	MaxHeight *int
	MinWidth  *int
	MinHeight *int
	// IsResponsive keeps formats whose first render does (or does not)
	// declare a responsive axis.
	IsResponsive *bool
	// NameSearch is a case-insensitive substring match against the name.
	NameSearch string
}

// Filter returns the subset of the catalog matching all supplied criteria,
// preserving catalog order.
func (c *Catalog) Filter(crit Criteria) []models.Format {
	var out []models.Format
	for i := range c.formats {
		if matches(&c.formats[i], &crit) {
			out = append(out, c.formats[i])
		}
	}
	return out
}

func matches(f *models.Format, crit *Criteria) bool {
	if len(crit.FormatIDs) > 0 && !matchesAnyID(f, crit.FormatIDs) {
		return false
	}
	if crit.Type != "" && string(f.Type) != crit.Type {
		return false
	}
	if crit.Dimensions != "" {
		if w, h, ok := parseDimensions(crit.Dimensions); ok && !matchesExactDimensions(f, w, h) {
			return false
		}
	}
	if crit.MaxWidth != nil || crit.MaxHeight != nil || crit.MinWidth != nil || crit.MinHeight != nil {
		if !matchesBounds(f, crit) {
			return false
		}
	}
	if crit.IsResponsive != nil && isResponsive(f) != *crit.IsResponsive {
		return false
	}
	if crit.NameSearch != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(crit.NameSearch)) {
		return false
	}
	if len(crit.AssetTypes) > 0 && !coversAssetTypes(f, crit.AssetTypes) {
		return false
	}
	return true
}

func matchesAnyID(f *models.Format, ids []models.FormatID) bool {
	for _, id := range ids {
		if !f.FormatID.BaseEqual(id) {
			continue
		}
		// An id without parameters matches any entry with that base id.
		// With parameters, concrete entries must match exactly while
		// templates satisfy any instantiation of their family.
		if id.Width == 0 && id.Height == 0 {
			return true
		}
		if f.IsTemplate() {
			return true
		}
		if f.FormatID.Width == id.Width && f.FormatID.Height == id.Height {
			return true
		}
	}
	return false
}

// parseDimensions parses a legacy "WIDTHxHEIGHT" string. Malformed input
// returns ok=false and the criterion is skipped entirely.
func parseDimensions(s string) (width, height int, ok bool) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return w, h, true
}

func matchesExactDimensions(f *models.Format, width, height int) bool {
	// Templates that accept dimensions satisfy any requested size.
	if f.AcceptsParameter(models.ParamDimensions) {
		return true
	}
	render, ok := f.PrimaryRender()
	if !ok {
		return false
	}
	d := render.Dimensions
	return d.Width != nil && d.Height != nil &&
		int(*d.Width) == width && int(*d.Height) == height
}

func matchesBounds(f *models.Format, crit *Criteria) bool {
	// Dimension-accepting templates can in principle satisfy any bound.
	if f.AcceptsParameter(models.ParamDimensions) {
		return true
	}
	render, ok := f.PrimaryRender()
	if !ok {
		return false
	}
	d := render.Dimensions
	if d.Width == nil || d.Height == nil {
		return false
	}
	w, h := *d.Width, *d.Height
	if crit.MaxWidth != nil && w > float64(*crit.MaxWidth) {
		return false
	}
	if crit.MaxHeight != nil && h > float64(*crit.MaxHeight) {
		return false
	}
	if crit.MinWidth != nil && w < float64(*crit.MinWidth) {
		return false
	}
	if crit.MinHeight != nil && h < float64(*crit.MinHeight) {
		return false
	}
	return true
}

// isResponsive reports whether the first render declares a responsive axis.
// Missing renders or dimensions count as not-responsive.
func isResponsive(f *models.Format) bool {
	render, ok := f.PrimaryRender()
	if !ok {
		return false
	}
	return render.Dimensions.IsResponsive()
}

// coversAssetTypes reports whether the format requires at least one asset
// of each requested type.
func coversAssetTypes(f *models.Format, types []models.AssetType) bool {
	if len(f.AssetsRequired) == 0 {
		return false
	}
	for _, t := range types {
		found := false
		for _, req := range f.AssetsRequired {
			if req.AssetType == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
