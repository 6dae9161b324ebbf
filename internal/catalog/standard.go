package catalog

import "github.com/patrickwarner/creativeserve/internal/models"

// Capabilities advertised by the agent alongside the catalog.
var AgentCapabilities = []string{"validation", "assembly", "generation", "preview"}

// CommonMacros are supported across all formats.
var CommonMacros = []string{
	"MEDIA_BUY_ID",
	"CREATIVE_ID",
	"CACHEBUSTER",
	"CLICK_URL",
	"IMPRESSION_URL",
	"DEVICE_TYPE",
	"GDPR",
	"GDPR_CONSENT",
	"US_PRIVACY",
	"GPP_STRING",
}

var videoMacros = append(append([]string{}, CommonMacros...), "VIDEO_ID", "POD_POSITION", "CONTENT_GENRE")
var ctvMacros = append(append([]string{}, videoMacros...), "PLAYER_SIZE")
var audioMacros = append(append([]string{}, CommonMacros...), "CONTENT_GENRE")
var doohMacros = append(append([]string{}, CommonMacros...), "SCREEN_ID", "VENUE_TYPE", "VENUE_LAT", "VENUE_LONG")

func formatID(agentURL, id string) models.FormatID {
	return models.FormatID{AgentURL: agentURL, ID: id}
}

// fixedRender builds a primary render with fixed, non-responsive dimensions.
func fixedRender(width, height float64) models.Render {
	return models.Render{
		Role: "primary",
		Dimensions: models.Dimensions{
			Width:      &width,
			Height:     &height,
			Responsive: models.Responsive{Width: false, Height: false},
			Unit:       models.UnitPx,
		},
	}
}

// responsiveRender builds a primary render that adapts to its container on
// both axes.
func responsiveRender() models.Render {
	return models.Render{
		Role: "primary",
		Dimensions: models.Dimensions{
			Responsive: models.Responsive{Width: true, Height: true},
			Unit:       models.UnitPx,
		},
	}
}

func asset(id string, t models.AssetType, required bool, requirements map[string]any) models.AssetRequirement {
	return models.AssetRequirement{
		AssetID:      id,
		AssetType:    t,
		Required:     required,
		Requirements: requirements,
	}
}

// generativeInputs is the asset pair every AI-generated display format takes.
func generativeInputs() []models.AssetRequirement {
	return []models.AssetRequirement{
		asset("promoted_offerings", models.AssetPromotedOfferings, true, map[string]any{
			"description": "Brand manifest and product offerings for AI generation",
		}),
		asset("generation_prompt", models.AssetText, true, map[string]any{
			"description": "Text prompt describing the desired creative",
		}),
	}
}

func bannerImageAssets(width, height int, maxMB float64) []models.AssetRequirement {
	return []models.AssetRequirement{
		asset("banner_image", models.AssetImage, true, map[string]any{
			"width":              width,
			"height":             height,
			"max_file_size_mb":   maxMB,
			"acceptable_formats": []string{"jpg", "png", "gif", "webp"},
		}),
		asset("click_url", models.AssetURL, true, map[string]any{
			"description": "Clickthrough destination URL",
		}),
	}
}

func htmlCreativeAsset(width, height int) []models.AssetRequirement {
	return []models.AssetRequirement{
		asset("html_creative", models.AssetHTML, true, map[string]any{
			"width":            width,
			"height":           height,
			"max_file_size_mb": 0.5,
		}),
	}
}

func videoFileAsset(reqs map[string]any) []models.AssetRequirement {
	return []models.AssetRequirement{
		asset("video_file", models.AssetVideo, true, reqs),
	}
}

// Standard builds the full reference catalog for the given agent URL:
// category-grouped, template entries first within each family, followed by
// the concrete sizes kept for backward compatibility.
func Standard(agentURL string) []models.Format {
	var formats []models.Format
	formats = append(formats, generativeFormats(agentURL)...)
	formats = append(formats, videoFormats(agentURL)...)
	formats = append(formats, displayImageFormats(agentURL)...)
	formats = append(formats, displayHTMLFormats(agentURL)...)
	formats = append(formats, displayJSFormats(agentURL)...)
	formats = append(formats, nativeFormats(agentURL)...)
	formats = append(formats, audioFormats(agentURL)...)
	formats = append(formats, doohFormats(agentURL)...)
	formats = append(formats, infoCardFormats(agentURL)...)
	return formats
}

func generativeFormats(agentURL string) []models.Format {
	concrete := func(id, name, desc string, w, h float64, outputID string) models.Format {
		return models.Format{
			FormatID:        formatID(agentURL, id),
			Name:            name,
			Type:            models.TypeDisplay,
			Description:     desc,
			Renders:         []models.Render{fixedRender(w, h)},
			OutputFormatIDs: []models.FormatID{formatID(agentURL, outputID)},
			SupportedMacros: CommonMacros,
			AssetsRequired:  generativeInputs(),
		}
	}
	return []models.Format{
		{
			FormatID:          formatID(agentURL, "display_generative"),
			Name:              "Display Banner - AI Generated",
			Type:              models.TypeDisplay,
			Description:       "AI-generated display banner from brand context and prompt (supports any dimensions)",
			AcceptsParameters: []models.Parameter{models.ParamDimensions},
			SupportedMacros:   CommonMacros,
			AssetsRequired:    generativeInputs(),
		},
		concrete("display_300x250_generative", "Medium Rectangle - AI Generated",
			"AI-generated 300x250 banner from brand context and prompt", 300, 250, "display_300x250_image"),
		concrete("display_728x90_generative", "Leaderboard - AI Generated",
			"AI-generated 728x90 banner from brand context and prompt", 728, 90, "display_728x90_image"),
		concrete("display_320x50_generative", "Mobile Banner - AI Generated",
			"AI-generated 320x50 mobile banner from brand context and prompt", 320, 50, "display_320x50_image"),
		concrete("display_160x600_generative", "Wide Skyscraper - AI Generated",
			"AI-generated 160x600 wide skyscraper from brand context and prompt", 160, 600, "display_160x600_image"),
		concrete("display_336x280_generative", "Large Rectangle - AI Generated",
			"AI-generated 336x280 large rectangle from brand context and prompt", 336, 280, "display_336x280_image"),
		concrete("display_300x600_generative", "Half Page - AI Generated",
			"AI-generated 300x600 half page from brand context and prompt", 300, 600, "display_300x600_image"),
		concrete("display_970x250_generative", "Billboard - AI Generated",
			"AI-generated 970x250 billboard from brand context and prompt", 970, 250, "display_970x250_image"),
	}
}

func videoFormats(agentURL string) []models.Format {
	sized := func(id, name, desc string, w, h float64) models.Format {
		return models.Format{
			FormatID:        formatID(agentURL, id),
			Name:            name,
			Type:            models.TypeVideo,
			Description:     desc,
			SupportedMacros: videoMacros,
			Renders:         []models.Render{fixedRender(w, h)},
			AssetsRequired: videoFileAsset(map[string]any{
				"width":              int(w),
				"height":             int(h),
				"acceptable_formats": []string{"mp4", "mov", "webm"},
			}),
		}
	}
	return []models.Format{
		{
			FormatID:          formatID(agentURL, "video_standard"),
			Name:              "Standard Video",
			Type:              models.TypeVideo,
			Description:       "Video ad in standard aspect ratios (supports any duration)",
			AcceptsParameters: []models.Parameter{models.ParamDuration},
			SupportedMacros:   videoMacros,
			AssetsRequired: videoFileAsset(map[string]any{
				"acceptable_formats": []string{"mp4", "mov", "webm"},
			}),
		},
		{
			FormatID:          formatID(agentURL, "video_dimensions"),
			Name:              "Video with Dimensions",
			Type:              models.TypeVideo,
			Description:       "Video ad with specific dimensions (supports any size)",
			AcceptsParameters: []models.Parameter{models.ParamDimensions},
			SupportedMacros:   videoMacros,
			AssetsRequired: videoFileAsset(map[string]any{
				"acceptable_formats": []string{"mp4", "mov", "webm"},
			}),
		},
		{
			FormatID:          formatID(agentURL, "video_vast"),
			Name:              "VAST Video",
			Type:              models.TypeVideo,
			Description:       "Video ad via VAST tag (supports any duration)",
			AcceptsParameters: []models.Parameter{models.ParamDuration},
			SupportedMacros:   videoMacros,
			AssetsRequired: []models.AssetRequirement{
				asset("vast_tag", models.AssetVAST, true, nil),
			},
		},
		{
			FormatID:        formatID(agentURL, "video_standard_30s"),
			Name:            "Standard Video - 30 seconds",
			Type:            models.TypeVideo,
			Description:     "30-second video ad in standard aspect ratios",
			SupportedMacros: videoMacros,
			AssetsRequired: videoFileAsset(map[string]any{
				"duration_seconds":   30,
				"acceptable_formats": []string{"mp4", "mov", "webm"},
				"description":        "30-second video file",
			}),
		},
		{
			FormatID:        formatID(agentURL, "video_standard_15s"),
			Name:            "Standard Video - 15 seconds",
			Type:            models.TypeVideo,
			Description:     "15-second video ad in standard aspect ratios",
			SupportedMacros: videoMacros,
			AssetsRequired: videoFileAsset(map[string]any{
				"duration_seconds":   15,
				"acceptable_formats": []string{"mp4", "mov", "webm"},
				"description":        "15-second video file",
			}),
		},
		{
			FormatID:        formatID(agentURL, "video_vast_30s"),
			Name:            "VAST Video - 30 seconds",
			Type:            models.TypeVideo,
			Description:     "30-second video ad via VAST tag",
			SupportedMacros: videoMacros,
			AssetsRequired: []models.AssetRequirement{
				asset("vast_tag", models.AssetVAST, true, map[string]any{
					"description": "VAST 4.x compatible tag",
				}),
			},
		},
		sized("video_1920x1080", "Full HD Video - 1920x1080", "1920x1080 Full HD video (16:9)", 1920, 1080),
		sized("video_1280x720", "HD Video - 1280x720", "1280x720 HD video (16:9)", 1280, 720),
		sized("video_1080x1920", "Vertical Video - 1080x1920", "1080x1920 vertical video (9:16) for mobile stories", 1080, 1920),
		sized("video_1080x1080", "Square Video - 1080x1080", "1080x1080 square video (1:1) for social feeds", 1080, 1080),
		{
			FormatID:        formatID(agentURL, "video_ctv_preroll_30s"),
			Name:            "CTV Pre-Roll - 30 seconds",
			Type:            models.TypeVideo,
			Description:     "30-second pre-roll ad for Connected TV and streaming platforms",
			SupportedMacros: ctvMacros,
			AssetsRequired: videoFileAsset(map[string]any{
				"duration_seconds":   30,
				"acceptable_formats": []string{"mp4", "mov"},
				"description":        "30-second CTV-optimized video file (1920x1080 recommended)",
			}),
		},
		{
			FormatID:        formatID(agentURL, "video_ctv_midroll_30s"),
			Name:            "CTV Mid-Roll - 30 seconds",
			Type:            models.TypeVideo,
			Description:     "30-second mid-roll ad for Connected TV and streaming platforms",
			SupportedMacros: ctvMacros,
			AssetsRequired: videoFileAsset(map[string]any{
				"duration_seconds":   30,
				"acceptable_formats": []string{"mp4", "mov"},
				"description":        "30-second CTV-optimized video file (1920x1080 recommended)",
			}),
		},
	}
}

func displayImageFormats(agentURL string) []models.Format {
	concrete := func(id, name, desc string, w, h int, maxMB float64) models.Format {
		return models.Format{
			FormatID:        formatID(agentURL, id),
			Name:            name,
			Type:            models.TypeDisplay,
			Description:     desc,
			SupportedMacros: CommonMacros,
			Renders:         []models.Render{fixedRender(float64(w), float64(h))},
			AssetsRequired:  bannerImageAssets(w, h, maxMB),
		}
	}
	return []models.Format{
		{
			FormatID:          formatID(agentURL, "display_image"),
			Name:              "Display Banner - Image",
			Type:              models.TypeDisplay,
			Description:       "Static image banner (supports any dimensions)",
			AcceptsParameters: []models.Parameter{models.ParamDimensions},
			SupportedMacros:   CommonMacros,
			AssetsRequired: []models.AssetRequirement{
				asset("banner_image", models.AssetImage, true, map[string]any{
					"acceptable_formats": []string{"jpg", "png", "gif", "webp"},
				}),
				asset("click_url", models.AssetURL, true, map[string]any{
					"description": "Clickthrough destination URL",
				}),
			},
		},
		concrete("display_300x250_image", "Medium Rectangle - Image", "300x250 static image banner", 300, 250, 0.2),
		concrete("display_728x90_image", "Leaderboard - Image", "728x90 static image banner", 728, 90, 0.15),
		concrete("display_320x50_image", "Mobile Banner - Image", "320x50 mobile banner", 320, 50, 0.05),
		concrete("display_160x600_image", "Wide Skyscraper - Image", "160x600 wide skyscraper banner", 160, 600, 0.15),
		concrete("display_336x280_image", "Large Rectangle - Image", "336x280 large rectangle banner", 336, 280, 0.25),
		concrete("display_300x600_image", "Half Page - Image", "300x600 half page banner", 300, 600, 0.3),
		concrete("display_970x250_image", "Billboard - Image", "970x250 billboard banner", 970, 250, 0.4),
	}
}

func displayHTMLFormats(agentURL string) []models.Format {
	concrete := func(id, name, desc string, w, h int) models.Format {
		return models.Format{
			FormatID:        formatID(agentURL, id),
			Name:            name,
			Type:            models.TypeDisplay,
			Description:     desc,
			SupportedMacros: CommonMacros,
			Renders:         []models.Render{fixedRender(float64(w), float64(h))},
			AssetsRequired:  htmlCreativeAsset(w, h),
		}
	}
	return []models.Format{
		{
			FormatID:          formatID(agentURL, "display_html"),
			Name:              "Display Banner - HTML5",
			Type:              models.TypeDisplay,
			Description:       "HTML5 creative (supports any dimensions)",
			AcceptsParameters: []models.Parameter{models.ParamDimensions},
			SupportedMacros:   CommonMacros,
			AssetsRequired: []models.AssetRequirement{
				asset("html_creative", models.AssetHTML, true, map[string]any{
					"max_file_size_mb": 0.5,
				}),
			},
		},
		concrete("display_300x250_html", "Medium Rectangle - HTML5", "300x250 HTML5 creative", 300, 250),
		concrete("display_728x90_html", "Leaderboard - HTML5", "728x90 HTML5 creative", 728, 90),
		concrete("display_160x600_html", "Wide Skyscraper - HTML5", "160x600 HTML5 creative", 160, 600),
		concrete("display_336x280_html", "Large Rectangle - HTML5", "336x280 HTML5 creative", 336, 280),
		concrete("display_300x600_html", "Half Page - HTML5", "300x600 HTML5 creative", 300, 600),
		concrete("display_970x250_html", "Billboard - HTML5", "970x250 HTML5 creative", 970, 250),
	}
}

func displayJSFormats(agentURL string) []models.Format {
	return []models.Format{
		{
			FormatID:          formatID(agentURL, "display_js"),
			Name:              "Display Banner - JavaScript",
			Type:              models.TypeDisplay,
			Description:       "JavaScript-based display ad (supports any dimensions)",
			AcceptsParameters: []models.Parameter{models.ParamDimensions},
			SupportedMacros:   CommonMacros,
			AssetsRequired: []models.AssetRequirement{
				asset("js_creative", models.AssetJavaScript, true, nil),
			},
		},
	}
}

func nativeFormats(agentURL string) []models.Format {
	return []models.Format{
		{
			FormatID:        formatID(agentURL, "native_standard"),
			Name:            "IAB Native Standard",
			Type:            models.TypeNative,
			Description:     "Standard native ad with title, description, image, and CTA",
			SupportedMacros: CommonMacros,
			AssetsRequired: []models.AssetRequirement{
				asset("title", models.AssetText, true, map[string]any{
					"description": "Headline text (25 chars recommended)",
				}),
				asset("description", models.AssetText, true, map[string]any{
					"description": "Body copy (90 chars recommended)",
				}),
				asset("main_image", models.AssetImage, true, map[string]any{
					"description": "Primary image (1200x627 recommended)",
				}),
				asset("icon", models.AssetImage, false, map[string]any{
					"description": "Brand icon (square, 200x200 recommended)",
				}),
				asset("cta_text", models.AssetText, true, map[string]any{
					"description": "Call-to-action text",
				}),
				asset("sponsored_by", models.AssetText, true, map[string]any{
					"description": "Advertiser name for disclosure",
				}),
			},
		},
		{
			FormatID:        formatID(agentURL, "native_content"),
			Name:            "Native Content Placement",
			Type:            models.TypeNative,
			Description:     "In-article native ad with editorial styling",
			SupportedMacros: CommonMacros,
			AssetsRequired: []models.AssetRequirement{
				asset("headline", models.AssetText, true, map[string]any{
					"description": "Editorial-style headline (60 chars recommended)",
				}),
				asset("body", models.AssetText, true, map[string]any{
					"description": "Article-style body copy (200 chars recommended)",
				}),
				asset("thumbnail", models.AssetImage, true, map[string]any{
					"description": "Thumbnail image (square, 300x300 recommended)",
				}),
				asset("author", models.AssetText, false, map[string]any{
					"description": "Author name for editorial context",
				}),
				asset("click_url", models.AssetURL, true, map[string]any{
					"description": "Landing page URL",
				}),
				asset("disclosure", models.AssetText, true, map[string]any{
					"description": "Sponsored content disclosure text",
				}),
			},
		},
	}
}

func audioFormats(agentURL string) []models.Format {
	standard := func(id, name, desc string, seconds int) models.Format {
		return models.Format{
			FormatID:        formatID(agentURL, id),
			Name:            name,
			Type:            models.TypeAudio,
			Description:     desc,
			SupportedMacros: audioMacros,
			AssetsRequired: []models.AssetRequirement{
				asset("audio_file", models.AssetAudio, true, map[string]any{
					"duration_seconds":   seconds,
					"acceptable_formats": []string{"mp3", "aac", "m4a"},
				}),
			},
		}
	}
	return []models.Format{
		standard("audio_standard_15s", "Standard Audio - 15 seconds", "15-second audio ad", 15),
		standard("audio_standard_30s", "Standard Audio - 30 seconds", "30-second audio ad", 30),
		standard("audio_standard_60s", "Standard Audio - 60 seconds", "60-second audio ad", 60),
	}
}

func doohFormats(agentURL string) []models.Format {
	return []models.Format{
		{
			FormatID:        formatID(agentURL, "dooh_billboard_1920x1080"),
			Name:            "Digital Billboard - 1920x1080",
			Type:            models.TypeDOOH,
			Description:     "Full HD digital billboard",
			SupportedMacros: doohMacros,
			Renders:         []models.Render{fixedRender(1920, 1080)},
			AssetsRequired: []models.AssetRequirement{
				asset("billboard_image", models.AssetImage, true, map[string]any{
					"width":              1920,
					"height":             1080,
					"acceptable_formats": []string{"jpg", "png"},
				}),
			},
		},
		{
			FormatID:        formatID(agentURL, "dooh_billboard_landscape"),
			Name:            "Digital Billboard - Landscape",
			Type:            models.TypeDOOH,
			Description:     "Landscape-oriented digital billboard (various sizes)",
			SupportedMacros: doohMacros,
			AssetsRequired: []models.AssetRequirement{
				asset("billboard_image", models.AssetImage, true, map[string]any{
					"acceptable_formats": []string{"jpg", "png"},
					"description":        "Landscape image (1920x1080 or larger)",
				}),
			},
		},
		{
			FormatID:        formatID(agentURL, "dooh_billboard_portrait"),
			Name:            "Digital Billboard - Portrait",
			Type:            models.TypeDOOH,
			Description:     "Portrait-oriented digital billboard (various sizes)",
			SupportedMacros: doohMacros,
			AssetsRequired: []models.AssetRequirement{
				asset("billboard_image", models.AssetImage, true, map[string]any{
					"acceptable_formats": []string{"jpg", "png"},
					"description":        "Portrait image (1080x1920 or similar)",
				}),
			},
		},
		{
			FormatID:        formatID(agentURL, "dooh_transit_screen"),
			Name:            "Transit Screen",
			Type:            models.TypeDOOH,
			Description:     "Transit and subway screen displays",
			SupportedMacros: append(append([]string{}, doohMacros...), "TRANSIT_LINE"),
			Renders:         []models.Render{fixedRender(1920, 1080)},
			AssetsRequired: []models.AssetRequirement{
				asset("screen_image", models.AssetImage, true, map[string]any{
					"width":              1920,
					"height":             1080,
					"acceptable_formats": []string{"jpg", "png"},
					"description":        "Transit screen content",
				}),
			},
		},
	}
}

// infoCardFormats visualize products and formats in user interfaces rather
// than serving as ad slots.
func infoCardFormats(agentURL string) []models.Format {
	productCardAssets := func(detailed bool) []models.AssetRequirement {
		desc := "Short description of the product (supports markdown)"
		if detailed {
			desc = "Detailed description of the product (supports markdown)"
		}
		return []models.AssetRequirement{
			asset("product_image", models.AssetImage, true, map[string]any{
				"description": "Primary product image or placement preview",
			}),
			asset("product_name", models.AssetText, true, map[string]any{
				"description": "Display name of the product (e.g., 'Homepage Leaderboard')",
			}),
			asset("product_description", models.AssetText, true, map[string]any{
				"description": desc,
			}),
			asset("pricing_model", models.AssetText, false, map[string]any{
				"description": "Pricing model (e.g., 'CPM', 'flat_rate', 'CPC')",
			}),
			asset("pricing_amount", models.AssetText, false, map[string]any{
				"description": "Price amount (e.g., '15.00')",
			}),
			asset("pricing_currency", models.AssetText, false, map[string]any{
				"description": "Currency code (e.g., 'USD')",
			}),
			asset("delivery_type", models.AssetText, false, map[string]any{
				"description": "Delivery type: 'guaranteed' or 'bidded'",
			}),
			asset("primary_asset_type", models.AssetText, false, map[string]any{
				"description": "Primary asset type: 'display', 'video', 'audio', 'native'",
			}),
		}
	}
	formatCardAssets := func(detail string) []models.AssetRequirement {
		return []models.AssetRequirement{
			asset("format", models.AssetText, true, map[string]any{
				"description": detail,
			}),
		}
	}
	return []models.Format{
		{
			FormatID:        formatID(agentURL, "product_card_standard"),
			Name:            "Product Card - Standard",
			Type:            models.TypeDisplay,
			Description:     "Standard visual card (300x400px) for displaying ad inventory products",
			SupportedMacros: CommonMacros,
			Renders:         []models.Render{fixedRender(300, 400)},
			AssetsRequired:  productCardAssets(false),
		},
		{
			FormatID:        formatID(agentURL, "product_card_detailed"),
			Name:            "Product Card - Detailed",
			Type:            models.TypeDisplay,
			Description:     "Detailed card with carousel and full specifications for rich product presentation",
			SupportedMacros: CommonMacros,
			Renders:         []models.Render{responsiveRender()},
			AssetsRequired:  productCardAssets(true),
		},
		{
			FormatID:        formatID(agentURL, "format_card_standard"),
			Name:            "Format Card - Standard",
			Type:            models.TypeDisplay,
			Description:     "Standard visual card (300x400px) for displaying creative formats in user interfaces",
			SupportedMacros: CommonMacros,
			Renders:         []models.Render{fixedRender(300, 400)},
			AssetsRequired:  formatCardAssets("Creative format specification to visualize on the card"),
		},
		{
			FormatID:        formatID(agentURL, "format_card_detailed"),
			Name:            "Format Card - Detailed",
			Type:            models.TypeDisplay,
			Description:     "Detailed card with carousel and full specifications for rich format documentation",
			SupportedMacros: CommonMacros,
			Renders:         []models.Render{responsiveRender()},
			AssetsRequired:  formatCardAssets("Creative format specification with full details for detailed card"),
		},
	}
}
