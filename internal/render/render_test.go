package render

import (
	"strings"
	"testing"

	"github.com/patrickwarner/creativeserve/internal/models"
)

func displayFormat() *models.Format {
	w, h := 300.0, 250.0
	return &models.Format{
		FormatID: models.FormatID{AgentURL: "https://creative.test.example", ID: "display_300x250_image"},
		Name:     "Medium Rectangle - Image",
		Type:     models.TypeDisplay,
		Renders: []models.Render{{
			Role:       "primary",
			Dimensions: models.Dimensions{Width: &w, Height: &h, Unit: models.UnitPx},
		}},
		AssetsRequired: []models.AssetRequirement{
			{AssetID: "banner_image", AssetType: models.AssetImage, Required: true},
			{AssetID: "click_url", AssetType: models.AssetURL, Required: true},
		},
	}
}

func TestForRouting(t *testing.T) {
	cases := []struct {
		id   string
		want string
	}{
		{"product_card_standard", "*render.ProductCardRenderer"},
		{"product_card_detailed", "*render.ProductCardRenderer"},
		{"format_card_standard", "*render.FormatCardRenderer"},
		{"format_card_detailed", "*render.FormatCardRenderer"},
		{"display_300x250_image", "*render.ImageRenderer"},
		{"video_1920x1080", "*render.ImageRenderer"},
	}
	for _, tc := range cases {
		f := &models.Format{FormatID: models.FormatID{ID: tc.id}}
		r := For(f)
		var got string
		switch r.(type) {
		case *ProductCardRenderer:
			got = "*render.ProductCardRenderer"
		case *FormatCardRenderer:
			got = "*render.FormatCardRenderer"
		case *ImageRenderer:
			got = "*render.ImageRenderer"
		}
		if got != tc.want {
			t.Errorf("For(%s) = %s, want %s", tc.id, got, tc.want)
		}
	}
}

func TestImageRendererWithAssets(t *testing.T) {
	format := displayFormat()
	manifest := &models.CreativeManifest{
		Assets: map[string]models.Asset{
			"banner_image": {URL: "https://cdn.example.com/banner.png"},
			"click_url":    {URL: "https://example.com/landing"},
		},
	}

	html := (&ImageRenderer{}).Render(format, manifest, models.PreviewInput{Name: "Desktop"})

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<img src="https://cdn.example.com/banner.png"`,
		`window.open("https://example.com/landing", "_blank")`,
		"width: 300px;",
		"height: 250px;",
		`<div class="preview-label">Desktop</div>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered document missing %q", want)
		}
	}
}

func TestImageRendererWithoutAssets(t *testing.T) {
	format := displayFormat()
	html := (&ImageRenderer{}).Render(format, &models.CreativeManifest{Assets: map[string]models.Asset{}}, models.PreviewInput{Name: "Mobile"})

	if !strings.Contains(html, "Medium Rectangle - Image") {
		t.Error("placeholder should carry the format name")
	}
	if !strings.Contains(html, "Click registered - no URL configured") {
		t.Error("missing click fallback")
	}
	if strings.Contains(html, "<img ") {
		t.Error("no image tag expected without an image asset")
	}
}

func TestImageRendererDefaultDimensions(t *testing.T) {
	format := &models.Format{
		FormatID: models.FormatID{ID: "audio_standard_30s"},
		Name:     "Standard Audio - 30 seconds",
		Type:     models.TypeAudio,
	}
	html := (&ImageRenderer{}).Render(format, nil, models.PreviewInput{Name: "Desktop"})
	if !strings.Contains(html, "width: 300px;") || !strings.Contains(html, "height: 250px;") {
		t.Error("formats without renders should fall back to 300x250")
	}
}

func TestImageRendererEscapesContent(t *testing.T) {
	format := displayFormat()
	format.Name = `<script>alert("x")</script>`
	manifest := &models.CreativeManifest{
		Assets: map[string]models.Asset{
			"banner_image": {URL: "javascript:alert(1)"},
		},
	}

	html := (&ImageRenderer{}).Render(format, manifest, models.PreviewInput{Name: "Desktop"})
	if strings.Contains(html, `<script>alert("x")</script>`) {
		t.Error("format name not escaped")
	}
	if strings.Contains(html, "javascript:alert(1)") {
		t.Error("dangerous image URL not neutralized")
	}
	if !strings.Contains(html, `src="#"`) {
		t.Error("dangerous URL should collapse to #")
	}
}

func TestSanitizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "#"},
		{"https://example.com/a?b=1&c=2", "https://example.com/a?b=1&amp;c=2"},
		{"javascript:alert(1)", "#"},
		{"  JAVASCRIPT:alert(1)", "#"},
		{"data:text/html,<b>x</b>", "#"},
		{"vbscript:msgbox(1)", "#"},
		{"file:///etc/passwd", "#"},
	}
	for _, tc := range cases {
		if got := SanitizeURL(tc.in); got != tc.want {
			t.Errorf("SanitizeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"single paragraph", "hello world", "<p>hello world</p>"},
		{"paragraph break", "first\n\nsecond", "<p>first</p><p>second</p>"},
		{"line break", "line one\nline two", "<p>line one<br>line two</p>"},
		{"bold", "a **bold** word", "<p>a <strong>bold</strong> word</p>"},
		{"unpaired bold marker", "broken **marker", "<p>broken **marker</p>"},
		{"raw html escaped", "<b>not bold</b>", "<p>&lt;b&gt;not bold&lt;/b&gt;</p>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := renderText(tc.in); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func productCardFormat(id string) *models.Format {
	f := &models.Format{
		FormatID: models.FormatID{AgentURL: "https://creative.test.example", ID: id},
		Name:     "Product Card",
		Type:     models.TypeDisplay,
		AssetsRequired: []models.AssetRequirement{
			{AssetID: "product_image", AssetType: models.AssetImage, Required: true},
			{AssetID: "product_name", AssetType: models.AssetText, Required: true},
			{AssetID: "product_description", AssetType: models.AssetText, Required: true},
		},
	}
	if id == "product_card_standard" {
		w, h := 300.0, 400.0
		f.Renders = []models.Render{{
			Role:       "primary",
			Dimensions: models.Dimensions{Width: &w, Height: &h, Unit: models.UnitPx},
		}}
	}
	return f
}

func TestProductCardStandard(t *testing.T) {
	manifest := &models.CreativeManifest{
		Assets: map[string]models.Asset{
			"product_name":        {Content: "Homepage Leaderboard"},
			"product_description": {Content: "Premium **above the fold** placement"},
			"product_image":       {URL: "https://cdn.example.com/product.png"},
			"pricing_model":       {Content: "CPM"},
			"pricing_amount":      {Content: "15.00"},
			"delivery_type":       {Content: "guaranteed"},
		},
	}

	html := (&ProductCardRenderer{}).Render(productCardFormat("product_card_standard"), manifest, models.PreviewInput{Name: "Desktop"})

	for _, want := range []string{
		"Homepage Leaderboard",
		"<strong>above the fold</strong>",
		`<img src="https://cdn.example.com/product.png"`,
		`<div class="price">CPM $15.00 USD</div>`,
		`badge-guaranteed`,
		"width: 300px;",
		"height: 400px;",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("standard card missing %q", want)
		}
	}
}

func TestProductCardDefaults(t *testing.T) {
	html := (&ProductCardRenderer{}).Render(productCardFormat("product_card_standard"), &models.CreativeManifest{Assets: map[string]models.Asset{}}, models.PreviewInput{Name: "Desktop"})

	if !strings.Contains(html, "Media Product") {
		t.Error("missing default product name")
	}
	if !strings.Contains(html, "Product description not available") {
		t.Error("missing default description")
	}
	if !strings.Contains(html, "No Image Available") {
		t.Error("missing image placeholder")
	}
	if strings.Contains(html, `class="price"`) {
		t.Error("price line should be omitted without pricing data")
	}
}

func TestProductCardDetailedBiddedBadge(t *testing.T) {
	manifest := &models.CreativeManifest{
		Assets: map[string]models.Asset{
			"product_name":       {Content: "Sidebar Unit"},
			"delivery_type":      {Content: "bidded"},
			"primary_asset_type": {Content: "display"},
		},
	}
	html := (&ProductCardRenderer{}).Render(productCardFormat("product_card_detailed"), manifest, models.PreviewInput{Name: "Desktop"})

	if !strings.Contains(html, "badge-bidded") {
		t.Error("missing bidded badge")
	}
	if !strings.Contains(html, "badge-asset-type") {
		t.Error("missing asset type badge")
	}
	if !strings.Contains(html, "max-width: 900px;") {
		t.Error("detailed card should be responsive, not fixed")
	}
}

func formatCardFormat(id string) *models.Format {
	f := &models.Format{
		FormatID: models.FormatID{AgentURL: "https://creative.test.example", ID: id},
		Name:     "Format Card",
		Type:     models.TypeDisplay,
		AssetsRequired: []models.AssetRequirement{
			{AssetID: "format", AssetType: models.AssetText, Required: true},
		},
	}
	if id == "format_card_standard" {
		w, h := 300.0, 400.0
		f.Renders = []models.Render{{
			Role:       "primary",
			Dimensions: models.Dimensions{Width: &w, Height: &h, Unit: models.UnitPx},
		}}
	}
	return f
}

func TestFormatCardParsesSpec(t *testing.T) {
	spec := `{
		"format_id": {"agent_url": "https://creative.test.example", "id": "display_300x250_image"},
		"name": "Medium Rectangle - Image",
		"type": "display",
		"description": "300x250 static image banner",
		"renders": [{"role": "primary", "dimensions": {"width": 300, "height": 250, "unit": "px"}}],
		"assets_required": [
			{"asset_id": "banner_image", "asset_type": "image", "required": true},
			{"asset_id": "click_url", "asset_type": "url", "required": false}
		],
		"supported_macros": ["CLICK_URL", "CACHEBUSTER"]
	}`
	manifest := &models.CreativeManifest{
		Assets: map[string]models.Asset{"format": {Content: spec}},
	}

	html := (&FormatCardRenderer{}).Render(formatCardFormat("format_card_detailed"), manifest, models.PreviewInput{Name: "Desktop"})

	for _, want := range []string{
		"Medium Rectangle - Image",
		"300x250 static image banner",
		`<span class="chip">300x250</span>`,
		"banner_image",
		"chip-required",
		"chip-optional",
		"CACHEBUSTER",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("detailed format card missing %q", want)
		}
	}
}

func TestFormatCardPlainTextFallback(t *testing.T) {
	manifest := &models.CreativeManifest{
		Assets: map[string]models.Asset{"format": {Content: "just a description"}},
	}
	html := (&FormatCardRenderer{}).Render(formatCardFormat("format_card_standard"), manifest, models.PreviewInput{Name: "Desktop"})

	if !strings.Contains(html, "Creative Format") {
		t.Error("missing default card name")
	}
	if !strings.Contains(html, "just a description") {
		t.Error("plain text content should become the description")
	}
	if !strings.Contains(html, `<span class="chip">N/A</span>`) {
		t.Error("dimensions should fall back to N/A")
	}
}

func TestFormatCardResponsiveDimensions(t *testing.T) {
	spec := `{
		"name": "Responsive Thing",
		"type": "display",
		"renders": [{"role": "primary", "dimensions": {"responsive": {"width": true, "height": true}, "unit": "px"}}]
	}`
	manifest := &models.CreativeManifest{
		Assets: map[string]models.Asset{"format": {Content: spec}},
	}
	html := (&FormatCardRenderer{}).Render(formatCardFormat("format_card_standard"), manifest, models.PreviewInput{Name: "Desktop"})

	if !strings.Contains(html, `<span class="chip">Responsive</span>`) {
		t.Error("responsive spec should render Responsive chip")
	}
}
