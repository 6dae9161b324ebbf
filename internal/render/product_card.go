package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/patrickwarner/creativeserve/internal/models"
)

// ProductCardRenderer handles the product_card_standard and
// product_card_detailed formats, which visualize ad inventory products.
type ProductCardRenderer struct{}

type productData struct {
	Name             string
	Description      string
	ImageURL         string
	PricingModel     string
	PricingAmount    string
	PricingCurrency  string
	DeliveryType     string
	PrimaryAssetType string
}

func (r *ProductCardRenderer) Render(format *models.Format, manifest *models.CreativeManifest, input models.PreviewInput) string {
	data := extractProductData(manifest)

	if format.FormatID.ID == "product_card_detailed" {
		return r.renderDetailed(format, input, data)
	}
	width, height := dimensions(format)
	return r.renderStandard(format, input, data, width, height)
}

func extractProductData(manifest *models.CreativeManifest) productData {
	data := productData{
		Name:        "Media Product",
		Description: "Product description not available",
	}
	if manifest == nil {
		return data
	}

	if v := textContent(manifest, "product_name"); v != "" {
		data.Name = v
	}
	if v := textContent(manifest, "product_description"); v != "" {
		data.Description = v
	}
	data.ImageURL = assetURL(manifest, "product_image")
	data.PricingModel = textContent(manifest, "pricing_model")
	data.PricingAmount = textContent(manifest, "pricing_amount")
	data.PricingCurrency = textContent(manifest, "pricing_currency")
	if data.PricingCurrency == "" {
		data.PricingCurrency = "USD"
	}
	data.DeliveryType = textContent(manifest, "delivery_type")
	data.PrimaryAssetType = textContent(manifest, "primary_asset_type")
	return data
}

// priceHTML renders the pricing line when both model and amount are present.
func priceHTML(data productData) string {
	if data.PricingModel == "" || data.PricingAmount == "" {
		return ""
	}
	return fmt.Sprintf(`<div class="price">%s $%s %s</div>`,
		html.EscapeString(data.PricingModel),
		html.EscapeString(data.PricingAmount),
		html.EscapeString(data.PricingCurrency))
}

func badgesHTML(data productData) string {
	var badges []string
	if data.DeliveryType != "" {
		badgeClass := "badge-bidded"
		if strings.EqualFold(data.DeliveryType, "guaranteed") {
			badgeClass = "badge-guaranteed"
		}
		badges = append(badges, fmt.Sprintf(`<span class="badge %s">%s</span>`, badgeClass, html.EscapeString(data.DeliveryType)))
	}
	if data.PrimaryAssetType != "" {
		badges = append(badges, fmt.Sprintf(`<span class="badge badge-asset-type">%s</span>`, html.EscapeString(data.PrimaryAssetType)))
	}
	if len(badges) == 0 {
		return ""
	}
	return fmt.Sprintf(`<div class="badges">%s</div>`, strings.Join(badges, ""))
}

func cardImageHTML(imageURL, altText, placeholderText string) string {
	if imageURL != "" {
		return fmt.Sprintf(`            <img src="%s" alt="%s">`, SanitizeURL(imageURL), html.EscapeString(altText))
	}
	return "            " + placeholderText
}

func (r *ProductCardRenderer) renderStandard(format *models.Format, input models.PreviewInput, data productData, width, height int) string {
	placeholderClass := ""
	if data.ImageURL == "" {
		placeholderClass = " placeholder"
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
            width: %dpx;
            height: %dpx;
            overflow: hidden;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
        }
        .product-card {
            width: 100%%;
            height: 100%%;
            background: white;
            border: 1px solid #e0e0e0;
            border-radius: 8px;
            overflow: hidden;
            display: flex;
            flex-direction: column;
        }
        .product-image {
            width: 100%%;
            height: 50%%;
            background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%);
            overflow: hidden;
            position: relative;
            display: flex;
            align-items: center;
            justify-content: center;
        }
        .product-image img {
            width: 100%%;
            height: 100%%;
            object-fit: cover;
        }
        .product-image.placeholder {
            color: rgba(255,255,255,0.7);
            font-size: 12px;
        }
        .product-info {
            padding: 12px;
            flex: 1;
            display: flex;
            flex-direction: column;
        }
        .product-name {
            font-size: 16px;
            font-weight: 600;
            color: #111;
            margin-bottom: 6px;
            overflow: hidden;
            text-overflow: ellipsis;
            white-space: nowrap;
        }
        .badges {
            display: flex;
            gap: 6px;
            margin-bottom: 8px;
            flex-wrap: wrap;
        }
        .badge {
            display: inline-block;
            padding: 3px 8px;
            border-radius: 12px;
            font-size: 10px;
            font-weight: 600;
            text-transform: uppercase;
        }
        .badge-guaranteed {
            background: #e6f7e6;
            color: #2d662d;
        }
        .badge-bidded {
            background: #fff4e6;
            color: #996633;
        }
        .badge-asset-type {
            background: #e6f0ff;
            color: #2563eb;
        }
        .product-description {
            font-size: 11px;
            color: #666;
            line-height: 1.4;
            overflow: hidden;
            display: -webkit-box;
            -webkit-line-clamp: 3;
            -webkit-box-orient: vertical;
            flex: 1;
        }
        .product-description p {
            margin: 0;
        }
        .price {
            font-size: 13px;
            font-weight: 700;
            color: #111;
            margin-top: 8px;
        }
        .preview-label {
            position: absolute;
            top: 8px;
            right: 8px;
            background: rgba(0,0,0,0.7);
            color: white;
            padding: 4px 8px;
            font-size: 10px;
            border-radius: 4px;
            z-index: 10;
        }
    </style>
</head>
<body>
    <div class="product-card">
        <div class="product-image%s">
%s
            <div class="preview-label">%s</div>
        </div>
        <div class="product-info">
            <div class="product-name">%s</div>
            %s
            <div class="product-description">%s</div>
            %s
        </div>
    </div>
</body>
</html>`,
		html.EscapeString(format.Name),
		width, height,
		placeholderClass,
		cardImageHTML(data.ImageURL, data.Name, "No Image Available"),
		html.EscapeString(input.Name),
		html.EscapeString(data.Name),
		badgesHTML(data),
		renderText(data.Description),
		priceHTML(data))
}

func (r *ProductCardRenderer) renderDetailed(format *models.Format, input models.PreviewInput, data productData) string {
	placeholderClass := ""
	if data.ImageURL == "" {
		placeholderClass = " placeholder"
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
        .product-card {
            max-width: 900px;
            margin: 0 auto;
            background: white;
            border-radius: 12px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
            overflow: hidden;
        }
        .product-header {
            position: relative;
            width: 100%%;
            height: 400px;
            background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%);
            overflow: hidden;
            display: flex;
            align-items: center;
            justify-content: center;
        }
        .product-header img {
            width: 100%%;
            height: 100%%;
            object-fit: cover;
        }
        .product-header.placeholder {
            color: rgba(255,255,255,0.7);
            font-size: 16px;
        }
        .product-content {
            padding: 32px;
        }
        .product-title-section {
            display: flex;
            justify-content: space-between;
            align-items: start;
            margin-bottom: 16px;
        }
        .product-name {
            font-size: 32px;
            font-weight: 700;
            color: #111;
        }
        .price {
            font-size: 20px;
            font-weight: 700;
            color: #111;
            white-space: nowrap;
            margin-left: 20px;
        }
        .badges {
            display: flex;
            gap: 8px;
            margin-bottom: 20px;
            flex-wrap: wrap;
        }
        .badge {
            display: inline-block;
            padding: 6px 14px;
            border-radius: 16px;
            font-size: 12px;
            font-weight: 600;
            text-transform: uppercase;
        }
        .badge-guaranteed {
            background: #e6f7e6;
            color: #2d662d;
        }
        .badge-bidded {
            background: #fff4e6;
            color: #996633;
        }
        .badge-asset-type {
            background: #e6f0ff;
            color: #2563eb;
        }
        .product-description {
            font-size: 16px;
            line-height: 1.6;
            color: #333;
        }
        .product-description p {
            margin-bottom: 12px;
        }
        .preview-label {
            position: absolute;
            top: 16px;
            right: 16px;
            background: rgba(0,0,0,0.7);
            color: white;
            padding: 6px 12px;
            font-size: 12px;
            border-radius: 6px;
            z-index: 10;
        }
    </style>
</head>
<body>
    <div class="product-card">
        <div class="product-header%s">
%s
            <div class="preview-label">%s</div>
        </div>
        <div class="product-content">
            <div class="product-title-section">
                <div class="product-name">%s</div>
                %s
            </div>
            %s
            <div class="product-description">%s</div>
        </div>
    </div>
</body>
</html>`,
		html.EscapeString(format.Name),
		placeholderClass,
		cardImageHTML(data.ImageURL, data.Name, "No Image Available"),
		html.EscapeString(input.Name),
		html.EscapeString(data.Name),
		priceHTML(data),
		badgesHTML(data),
		renderText(data.Description))
}
