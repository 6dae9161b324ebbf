package render

import (
	"fmt"
	"html"

	"github.com/patrickwarner/creativeserve/internal/models"
)

// ImageRenderer handles static image display formats and serves as the
// fallback for any format without a specialized renderer.
type ImageRenderer struct{}

func (r *ImageRenderer) Render(format *models.Format, manifest *models.CreativeManifest, input models.PreviewInput) string {
	width, height := dimensions(format)

	var imageURL, clickURL string
	if asset, ok := findAssetByType(format, manifest, models.AssetImage); ok {
		imageURL = asset.URL
	}
	if asset, ok := findAssetByType(format, manifest, models.AssetURL); ok {
		clickURL = asset.URL
	}

	safeName := html.EscapeString(format.Name)
	safeInput := html.EscapeString(input.Name)

	var body string
	if imageURL != "" {
		body = fmt.Sprintf(`        <img src="%s" alt="%s">`, SanitizeURL(imageURL), safeName)
	} else {
		body = fmt.Sprintf(`        <div style="background: #f0f0f0; width: 100%%; height: 100%%; display: flex; align-items: center; justify-content: center; color: #666;">%s</div>`, safeName)
	}

	var clickScript string
	if clickURL != "" {
		clickScript = fmt.Sprintf(`            window.open("%s", "_blank");`, SanitizeURL(clickURL))
	} else {
		clickScript = `            console.log("Click registered - no URL configured");`
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s - %s</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            width: %dpx;
            height: %dpx;
            overflow: hidden;
            font-family: Arial, sans-serif;
        }
        .creative-container {
            width: 100%%;
            height: 100%%;
            position: relative;
            cursor: pointer;
        }
        .creative-container img {
            width: 100%%;
            height: 100%%;
            object-fit: cover;
        }
        .preview-label {
            position: absolute;
            top: 5px;
            left: 5px;
            background: rgba(0,0,0,0.7);
            color: white;
            padding: 2px 6px;
            font-size: 10px;
            border-radius: 3px;
        }
    </style>
</head>
<body>
    <div class="creative-container" onclick="handleClick()">
%s
        <div class="preview-label">%s</div>
    </div>
    <script>
        function handleClick() {
%s
        }
    </script>
</body>
</html>`, safeName, safeInput, width, height, body, safeInput, clickScript)
}
