package catalog

import (
	"strings"
	"testing"

	"github.com/patrickwarner/creativeserve/internal/models"
)

const testAgentURL = "https://creative.test.example"

func testFormats() []models.Format {
	w300, h250 := 300.0, 250.0
	w728, h90 := 728.0, 90.0
	return []models.Format{
		{
			FormatID:          models.FormatID{AgentURL: testAgentURL, ID: "display_image"},
			Name:              "Display Banner - Image",
			Type:              models.TypeDisplay,
			AcceptsParameters: []models.Parameter{models.ParamDimensions},
			AssetsRequired: []models.AssetRequirement{
				{AssetID: "banner_image", AssetType: models.AssetImage, Required: true},
				{AssetID: "click_url", AssetType: models.AssetURL, Required: true},
			},
		},
		{
			FormatID: models.FormatID{AgentURL: testAgentURL, ID: "display_300x250_image"},
			Name:     "Medium Rectangle - Image",
			Type:     models.TypeDisplay,
			Renders: []models.Render{{
				Role:       "primary",
				Dimensions: models.Dimensions{Width: &w300, Height: &h250, Unit: models.UnitPx},
			}},
			AssetsRequired: []models.AssetRequirement{
				{AssetID: "banner_image", AssetType: models.AssetImage, Required: true},
				{AssetID: "click_url", AssetType: models.AssetURL, Required: true},
			},
		},
		{
			FormatID: models.FormatID{AgentURL: testAgentURL, ID: "display_728x90_image"},
			Name:     "Leaderboard - Image",
			Type:     models.TypeDisplay,
			Renders: []models.Render{{
				Role:       "primary",
				Dimensions: models.Dimensions{Width: &w728, Height: &h90, Unit: models.UnitPx},
			}},
			AssetsRequired: []models.AssetRequirement{
				{AssetID: "banner_image", AssetType: models.AssetImage, Required: true},
			},
		},
		{
			FormatID: models.FormatID{AgentURL: testAgentURL, ID: "audio_standard_30s"},
			Name:     "Standard Audio - 30 seconds",
			Type:     models.TypeAudio,
			AssetsRequired: []models.AssetRequirement{
				{AssetID: "audio_file", AssetType: models.AssetAudio, Required: true},
			},
		},
		{
			FormatID: models.FormatID{AgentURL: testAgentURL, ID: "responsive_card"},
			Name:     "Responsive Card",
			Type:     models.TypeDisplay,
			Renders: []models.Render{{
				Role: "primary",
				Dimensions: models.Dimensions{
					Responsive: models.Responsive{Width: true, Height: true},
					Unit:       models.UnitPx,
				},
			}},
			AssetsRequired: []models.AssetRequirement{
				{AssetID: "product_name", AssetType: models.AssetText, Required: true},
			},
		},
	}
}

func mustCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(testFormats())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsMissingIdentity(t *testing.T) {
	_, err := New([]models.Format{{Name: "No ID", Type: models.TypeDisplay}})
	if err == nil {
		t.Fatal("expected construction error for format without id")
	}
}

func TestNewRejectsTemplateWithRenders(t *testing.T) {
	w, h := 300.0, 250.0
	_, err := New([]models.Format{{
		FormatID:          models.FormatID{AgentURL: testAgentURL, ID: "bad_template"},
		Name:              "Bad Template",
		Type:              models.TypeDisplay,
		AcceptsParameters: []models.Parameter{models.ParamDimensions},
		Renders: []models.Render{{
			Role:       "primary",
			Dimensions: models.Dimensions{Width: &w, Height: &h},
		}},
	}})
	if err == nil {
		t.Fatal("expected construction error for template with fixed renders")
	}
	if !strings.Contains(err.Error(), "template") {
		t.Errorf("error should mention template, got: %v", err)
	}
}

func TestNewRejectsDuplicateConcrete(t *testing.T) {
	dup := models.Format{
		FormatID: models.FormatID{AgentURL: testAgentURL, ID: "display_300x250_image"},
		Name:     "Duplicate",
		Type:     models.TypeDisplay,
	}
	_, err := New(append(testFormats(), dup))
	if err == nil {
		t.Fatal("expected construction error for duplicate concrete format")
	}
}

func TestResolveConcrete(t *testing.T) {
	c := mustCatalog(t)

	f, ok := c.Resolve(models.FormatID{AgentURL: testAgentURL, ID: "display_300x250_image"})
	if !ok {
		t.Fatal("expected concrete format to resolve")
	}
	if f.Name != "Medium Rectangle - Image" {
		t.Errorf("resolved wrong format: %s", f.Name)
	}
}

func TestResolveTemplateIgnoresParameters(t *testing.T) {
	c := mustCatalog(t)

	f, ok := c.Resolve(models.FormatID{
		AgentURL: testAgentURL,
		ID:       "display_image",
		Width:    555,
		Height:   444,
	})
	if !ok {
		t.Fatal("expected template to resolve for any dimensions")
	}
	if !f.IsTemplate() {
		t.Error("resolved format should be a template")
	}
}

func TestResolveConcreteRequiresExactDimensions(t *testing.T) {
	c := mustCatalog(t)

	_, ok := c.Resolve(models.FormatID{
		AgentURL: testAgentURL,
		ID:       "display_300x250_image",
		Width:    728,
		Height:   90,
	})
	if ok {
		t.Fatal("concrete format must not resolve with mismatched dimensions")
	}
}

func TestResolveMiss(t *testing.T) {
	c := mustCatalog(t)

	f, ok := c.Resolve(models.FormatID{AgentURL: testAgentURL, ID: "no_such_format"})
	if ok {
		t.Fatal("unknown id must not resolve")
	}
	if f.FormatID.ID != "" {
		t.Errorf("miss should return zero format, got %v", f.FormatID)
	}

	// Same id under a different agent URL is a different format family.
	_, ok = c.Resolve(models.FormatID{AgentURL: "https://other.example", ID: "display_image"})
	if ok {
		t.Fatal("id must not resolve under a foreign agent URL")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c := mustCatalog(t)

	all := c.All()
	if len(all) != c.Len() {
		t.Fatalf("All returned %d formats, want %d", len(all), c.Len())
	}
	all[0].Name = "mutated"
	if c.All()[0].Name == "mutated" {
		t.Error("mutating the returned slice must not affect the catalog")
	}
}
