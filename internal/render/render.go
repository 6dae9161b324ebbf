// Package render turns creative manifests into preview HTML. Each renderer
// produces a complete document suitable for iframe embedding; routing is by
// format id with a static image fallback.
package render

import (
	"html"
	"strings"

	"github.com/patrickwarner/creativeserve/internal/models"
)

// Renderer generates preview HTML for one family of formats.
type Renderer interface {
	Render(format *models.Format, manifest *models.CreativeManifest, input models.PreviewInput) string
}

// For selects the renderer for a format. Card formats get their specialized
// renderers; everything else falls back to the image renderer.
func For(format *models.Format) Renderer {
	switch format.FormatID.ID {
	case "product_card_standard", "product_card_detailed":
		return &ProductCardRenderer{}
	case "format_card_standard", "format_card_detailed":
		return &FormatCardRenderer{}
	default:
		return &ImageRenderer{}
	}
}

// dimensions extracts pixel dimensions from the format's primary render,
// defaulting to 300x250 when the format declares none.
func dimensions(format *models.Format) (int, int) {
	width, height := 300, 250
	if r, ok := format.PrimaryRender(); ok {
		if r.Dimensions.Width != nil {
			width = int(*r.Dimensions.Width)
		}
		if r.Dimensions.Height != nil {
			height = int(*r.Dimensions.Height)
		}
	}
	return width, height
}

// findAssetByType returns the first manifest asset whose declared type
// matches, in the format's declaration order so lookup is deterministic.
func findAssetByType(format *models.Format, manifest *models.CreativeManifest, target models.AssetType) (models.Asset, bool) {
	if manifest == nil {
		return models.Asset{}, false
	}
	for _, req := range format.AssetsRequired {
		if req.AssetType != target {
			continue
		}
		if asset, ok := manifest.Assets[req.AssetID]; ok {
			return asset, true
		}
	}
	return models.Asset{}, false
}

// SanitizeURL makes a URL safe for inclusion in HTML attributes. Dangerous
// protocols collapse to "#".
func SanitizeURL(rawURL string) string {
	if rawURL == "" {
		return "#"
	}
	lower := strings.TrimSpace(strings.ToLower(rawURL))
	for _, protocol := range []string{"javascript:", "data:", "vbscript:", "file:"} {
		if strings.HasPrefix(lower, protocol) {
			return "#"
		}
	}
	return html.EscapeString(rawURL)
}

// renderText converts plain or lightly marked-up text into safe HTML: the
// input is escaped first, then paragraph breaks and **bold** spans are
// applied. No raw HTML from the manifest survives into the output.
func renderText(text string) string {
	escaped := html.EscapeString(text)

	var out strings.Builder
	for _, para := range strings.Split(escaped, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		para = strings.ReplaceAll(para, "\n", "<br>")
		para = boldSpans(para)
		out.WriteString("<p>")
		out.WriteString(para)
		out.WriteString("</p>")
	}
	return out.String()
}

// boldSpans rewrites paired ** markers as <strong> tags. Unpaired markers
// are left alone.
func boldSpans(s string) string {
	parts := strings.Split(s, "**")
	if len(parts) < 3 {
		return s
	}
	var out strings.Builder
	for i, part := range parts {
		if i > 0 {
			if i%2 == 1 && i+1 < len(parts) {
				out.WriteString("<strong>")
			} else if i%2 == 0 {
				out.WriteString("</strong>")
			} else {
				out.WriteString("**")
			}
		}
		out.WriteString(part)
	}
	return out.String()
}

func textContent(manifest *models.CreativeManifest, assetID string) string {
	if manifest == nil {
		return ""
	}
	if asset, ok := manifest.Assets[assetID]; ok {
		return asset.Content
	}
	return ""
}

func assetURL(manifest *models.CreativeManifest, assetID string) string {
	if manifest == nil {
		return ""
	}
	if asset, ok := manifest.Assets[assetID]; ok {
		if asset.URL != "" {
			return asset.URL
		}
		return asset.Content
	}
	return ""
}
