package render

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/patrickwarner/creativeserve/internal/models"
)

// FormatCardRenderer handles the format_card_standard and
// format_card_detailed formats, which visualize a creative format
// specification supplied as a text asset.
type FormatCardRenderer struct{}

type formatCardAsset struct {
	ID          string
	Type        string
	Required    bool
	Description string
}

type formatCardData struct {
	Name            string
	Description     string
	Type            string
	Dimensions      string
	AssetsRequired  []formatCardAsset
	SupportedMacros []string
}

func (r *FormatCardRenderer) Render(format *models.Format, manifest *models.CreativeManifest, input models.PreviewInput) string {
	var spec models.Asset
	if asset, ok := findAssetByType(format, manifest, models.AssetText); ok {
		spec = asset
	}
	data := extractFormatCardData(spec)

	if format.FormatID.ID == "format_card_detailed" {
		return r.renderDetailed(format, input, data)
	}
	width, height := dimensions(format)
	return r.renderStandard(format, input, data, width, height)
}

// extractFormatCardData parses the text asset as a format specification.
// JSON content gets a structured card; anything else becomes the card's
// description verbatim.
func extractFormatCardData(asset models.Asset) formatCardData {
	data := formatCardData{
		Name:        "Creative Format",
		Description: "Format description not available",
		Type:        "display",
		Dimensions:  "N/A",
	}

	content := strings.TrimSpace(asset.Content)
	if content == "" {
		return data
	}

	var spec models.Format
	if err := json.Unmarshal([]byte(content), &spec); err != nil || spec.Name == "" {
		data.Description = asset.Content
		return data
	}

	data.Name = spec.Name
	if spec.Description != "" {
		data.Description = spec.Description
	}
	if spec.Type != "" {
		data.Type = string(spec.Type)
	}
	if render, ok := spec.PrimaryRender(); ok {
		d := render.Dimensions
		switch {
		case d.Width != nil && d.Height != nil:
			data.Dimensions = fmt.Sprintf("%dx%d", int(*d.Width), int(*d.Height))
		case d.IsResponsive():
			data.Dimensions = "Responsive"
		}
	}
	for _, req := range spec.AssetsRequired {
		desc := ""
		if v, ok := req.Requirements["description"].(string); ok {
			desc = v
		}
		data.AssetsRequired = append(data.AssetsRequired, formatCardAsset{
			ID:          req.AssetID,
			Type:        string(req.AssetType),
			Required:    req.Required,
			Description: desc,
		})
	}
	data.SupportedMacros = spec.SupportedMacros
	return data
}

func (r *FormatCardRenderer) renderStandard(format *models.Format, input models.PreviewInput, data formatCardData, width, height int) string {
	assetCount := len(data.AssetsRequired)
	macroCount := len(data.SupportedMacros)

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            width: %dpx;
            height: %dpx;
            overflow: hidden;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
        }
        .format-card {
            width: 100%%;
            height: 100%%;
            background: white;
            border: 1px solid #e0e0e0;
            border-radius: 8px;
            overflow: hidden;
            display: flex;
            flex-direction: column;
        }
        .format-header {
            position: relative;
            padding: 20px 16px;
            background: linear-gradient(135deg, #0ea5e9 0%%, #6366f1 100%%);
            color: white;
        }
        .format-name {
            font-size: 18px;
            font-weight: 700;
            margin-bottom: 6px;
        }
        .format-meta {
            display: flex;
            gap: 6px;
        }
        .chip {
            display: inline-block;
            padding: 2px 8px;
            border-radius: 10px;
            font-size: 10px;
            font-weight: 600;
            background: rgba(255,255,255,0.25);
            text-transform: uppercase;
        }
        .format-body {
            padding: 14px 16px;
            flex: 1;
            display: flex;
            flex-direction: column;
        }
        .format-description {
            font-size: 12px;
            color: #555;
            line-height: 1.4;
            flex: 1;
            overflow: hidden;
        }
        .format-stats {
            display: flex;
            gap: 12px;
            margin-top: 10px;
            font-size: 11px;
            color: #333;
        }
        .stat-value {
            font-weight: 700;
        }
        .preview-label {
            position: absolute;
            top: 8px;
            right: 8px;
            background: rgba(0,0,0,0.4);
            color: white;
            padding: 3px 8px;
            font-size: 10px;
            border-radius: 4px;
        }
    </style>
</head>
<body>
    <div class="format-card">
        <div class="format-header">
            <div class="format-name">%s</div>
            <div class="format-meta">
                <span class="chip">%s</span>
                <span class="chip">%s</span>
            </div>
            <div class="preview-label">%s</div>
        </div>
        <div class="format-body">
            <div class="format-description">%s</div>
            <div class="format-stats">
                <div><span class="stat-value">%d</span> assets</div>
                <div><span class="stat-value">%d</span> macros</div>
            </div>
        </div>
    </div>
</body>
</html>`,
		html.EscapeString(format.Name),
		width, height,
		html.EscapeString(data.Name),
		html.EscapeString(data.Type),
		html.EscapeString(data.Dimensions),
		html.EscapeString(input.Name),
		renderText(data.Description),
		assetCount, macroCount)
}

func (r *FormatCardRenderer) renderDetailed(format *models.Format, input models.PreviewInput, data formatCardData) string {
	var assetRows strings.Builder
	for _, a := range data.AssetsRequired {
		required := "optional"
		if a.Required {
			required = "required"
		}
		assetRows.WriteString(fmt.Sprintf(`                <tr>
                    <td class="asset-id">%s</td>
                    <td><span class="chip chip-type">%s</span></td>
                    <td><span class="chip chip-%s">%s</span></td>
                    <td class="asset-desc">%s</td>
                </tr>
`,
			html.EscapeString(a.ID),
			html.EscapeString(a.Type),
			required, required,
			html.EscapeString(a.Description)))
	}
	assetsSection := ""
	if assetRows.Len() > 0 {
		assetsSection = fmt.Sprintf(`            <h2>Required Assets</h2>
            <table class="asset-table">
%s            </table>
`, assetRows.String())
	}

	macrosSection := ""
	if len(data.SupportedMacros) > 0 {
		var chips []string
		for _, m := range data.SupportedMacros {
			chips = append(chips, fmt.Sprintf(`<span class="chip chip-macro">%s</span>`, html.EscapeString(m)))
		}
		macrosSection = fmt.Sprintf(`            <h2>Supported Macros</h2>
            <div class="macro-list">%s</div>
`, strings.Join(chips, ""))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            background: #f9f9f9;
            padding: 20px;
            min-height: 100vh;
        }
        .format-card {
            max-width: 900px;
            margin: 0 auto;
            background: white;
            border-radius: 12px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
            overflow: hidden;
        }
        .format-header {
            position: relative;
            padding: 32px;
            background: linear-gradient(135deg, #0ea5e9 0%%, #6366f1 100%%);
            color: white;
        }
        .format-name {
            font-size: 32px;
            font-weight: 700;
            margin-bottom: 10px;
        }
        .format-meta {
            display: flex;
            gap: 8px;
        }
        .chip {
            display: inline-block;
            padding: 4px 12px;
            border-radius: 12px;
            font-size: 12px;
            font-weight: 600;
            background: rgba(255,255,255,0.25);
            text-transform: uppercase;
        }
        .format-content {
            padding: 32px;
        }
        .format-description {
            font-size: 16px;
            line-height: 1.6;
            color: #333;
            margin-bottom: 24px;
        }
        h2 {
            font-size: 18px;
            color: #111;
            margin-bottom: 12px;
        }
        .asset-table {
            width: 100%%;
            border-collapse: collapse;
            margin-bottom: 24px;
            font-size: 14px;
        }
        .asset-table td {
            padding: 8px 10px;
            border-bottom: 1px solid #eee;
            vertical-align: top;
        }
        .asset-id {
            font-family: monospace;
            font-weight: 600;
        }
        .asset-desc {
            color: #666;
        }
        .chip-type {
            background: #e6f0ff;
            color: #2563eb;
        }
        .chip-required {
            background: #fde8e8;
            color: #b91c1c;
        }
        .chip-optional {
            background: #f1f5f9;
            color: #475569;
        }
        .macro-list {
            display: flex;
            flex-wrap: wrap;
            gap: 8px;
        }
        .chip-macro {
            background: #f1f5f9;
            color: #334155;
            font-family: monospace;
            text-transform: none;
        }
        .preview-label {
            position: absolute;
            top: 16px;
            right: 16px;
            background: rgba(0,0,0,0.4);
            color: white;
            padding: 6px 12px;
            font-size: 12px;
            border-radius: 6px;
        }
    </style>
</head>
<body>
    <div class="format-card">
        <div class="format-header">
            <div class="format-name">%s</div>
            <div class="format-meta">
                <span class="chip">%s</span>
                <span class="chip">%s</span>
            </div>
            <div class="preview-label">%s</div>
        </div>
        <div class="format-content">
            <div class="format-description">%s</div>
%s%s        </div>
    </div>
</body>
</html>`,
		html.EscapeString(format.Name),
		html.EscapeString(data.Name),
		html.EscapeString(data.Type),
		html.EscapeString(data.Dimensions),
		html.EscapeString(input.Name),
		renderText(data.Description),
		assetsSection, macrosSection)
}
