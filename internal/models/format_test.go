package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func f64(v float64) *float64 { return &v }

func TestFormatIDString(t *testing.T) {
	tests := []struct {
		name string
		id   FormatID
		want string
	}{
		{"bare", FormatID{ID: "display_image"}, "display_image"},
		{"with dimensions", FormatID{ID: "display_image", Width: 300, Height: 250}, "display_image (300x250)"},
		{"width only", FormatID{ID: "display_image", Width: 970}, "display_image (970x0)"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFormatIDBaseEqual(t *testing.T) {
	a := FormatID{AgentURL: "https://a.example", ID: "display_image", Width: 300, Height: 250}

	if !a.BaseEqual(FormatID{AgentURL: "https://a.example", ID: "display_image", Width: 728, Height: 90}) {
		t.Error("dimensions must not affect base equality")
	}
	if a.BaseEqual(FormatID{AgentURL: "https://b.example", ID: "display_image"}) {
		t.Error("different agent URL must not be base-equal")
	}
	if a.BaseEqual(FormatID{AgentURL: "https://a.example", ID: "display_html"}) {
		t.Error("different id must not be base-equal")
	}
}

func TestDimensionsIsResponsive(t *testing.T) {
	fixed := Dimensions{Width: f64(300), Height: f64(250), Unit: UnitPx}
	if fixed.IsResponsive() {
		t.Error("fixed dimensions reported responsive")
	}

	oneAxis := Dimensions{Width: f64(300), Responsive: Responsive{Height: true}, Unit: UnitPx}
	if !oneAxis.IsResponsive() {
		t.Error("height-responsive dimensions reported fixed")
	}

	full := Dimensions{Responsive: Responsive{Width: true, Height: true}, Unit: UnitPx}
	if !full.IsResponsive() {
		t.Error("fully responsive dimensions reported fixed")
	}
}

func TestFormatShapeHelpers(t *testing.T) {
	template := Format{
		FormatID:          FormatID{ID: "display_image"},
		AcceptsParameters: []Parameter{ParamDimensions},
	}
	if !template.IsTemplate() {
		t.Error("format with accepted parameters should be a template")
	}
	if !template.AcceptsParameter(ParamDimensions) {
		t.Error("template should accept dimensions")
	}
	if template.AcceptsParameter(ParamDuration) {
		t.Error("template should not accept duration")
	}
	if _, ok := template.PrimaryRender(); ok {
		t.Error("template has no renders")
	}

	concrete := Format{
		FormatID: FormatID{ID: "display_300x250_image", Width: 300, Height: 250},
		Renders: []Render{
			{Role: "primary", Dimensions: Dimensions{Width: f64(300), Height: f64(250), Unit: UnitPx}},
		},
	}
	if concrete.IsTemplate() {
		t.Error("concrete format reported as template")
	}
	render, ok := concrete.PrimaryRender()
	if !ok || *render.Dimensions.Width != 300 {
		t.Errorf("PrimaryRender = %+v, %v", render, ok)
	}

	generative := Format{OutputFormatIDs: []FormatID{{ID: "display_300x250_image", Width: 300, Height: 250}}}
	if !generative.IsGenerative() {
		t.Error("format with output formats should be generative")
	}
	if concrete.IsGenerative() {
		t.Error("concrete format reported generative")
	}
}

func TestFormatWireRoundTrip(t *testing.T) {
	// Requirements values use float64 for numbers so a decoded copy
	// compares equal to the declaration.
	formats := []Format{
		{
			FormatID:    FormatID{AgentURL: "https://a.example", ID: "display_300x250_image", Width: 300, Height: 250},
			Name:        "Medium Rectangle - Image",
			Type:        TypeDisplay,
			Description: "Static image banner",
			Renders: []Render{
				{Role: "primary", Dimensions: Dimensions{Width: f64(300), Height: f64(250), Unit: UnitPx}},
			},
			AssetsRequired: []AssetRequirement{
				{AssetID: "banner_image", AssetType: AssetImage, Required: true, Requirements: map[string]any{"width": 300.0, "height": 250.0}},
				{AssetID: "click_url", AssetType: AssetURL, Required: true},
			},
			SupportedMacros: []string{"CLICK_URL", "CACHEBUSTER"},
		},
		{
			FormatID:          FormatID{AgentURL: "https://a.example", ID: "display_image"},
			Name:              "Display Banner - Image",
			Type:              TypeDisplay,
			AcceptsParameters: []Parameter{ParamDimensions},
			OutputFormatIDs:   []FormatID{{AgentURL: "https://a.example", ID: "display_300x250_image", Width: 300, Height: 250}},
		},
	}

	for _, orig := range formats {
		data, err := json.Marshal(orig)
		if err != nil {
			t.Fatalf("%s: marshal: %v", orig.FormatID.ID, err)
		}
		var got Format
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("%s: unmarshal: %v", orig.FormatID.ID, err)
		}
		if !reflect.DeepEqual(orig, got) {
			t.Errorf("%s: round trip changed the format:\n got %+v\nwant %+v", orig.FormatID.ID, got, orig)
		}
	}
}

func TestAssetTypeMap(t *testing.T) {
	f := Format{
		AssetsRequired: []AssetRequirement{
			{AssetID: "banner_image", AssetType: AssetImage, Required: true},
			{AssetID: "click_url", AssetType: AssetURL, Required: true},
		},
	}
	m := f.AssetTypeMap()
	if len(m) != 2 || m["banner_image"] != AssetImage || m["click_url"] != AssetURL {
		t.Errorf("AssetTypeMap = %v", m)
	}
}
