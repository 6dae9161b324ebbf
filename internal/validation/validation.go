// Package validation checks creative manifest assets against the asset types
// their format declares. Errors are collected exhaustively as user-facing
// strings rather than short-circuiting on the first failure.
package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/patrickwarner/creativeserve/internal/models"
)

const maxDataURIBytes = 10 * 1024 * 1024

var (
	htmlTagRe = regexp.MustCompile(`(?s)<[a-z].*?>`)
	cssRuleRe = regexp.MustCompile(`[^{}]+\{[^{}]*\}`)

	allowedImageMIMEs = []string{
		"image/png", "image/jpeg", "image/jpg", "image/gif", "image/webp", "image/svg+xml",
	}
	allowedImageFormats = []string{"jpg", "jpeg", "png", "gif", "webp", "svg"}
	blockedSchemes      = []string{"javascript:", "vbscript:", "file:", "about:"}
)

// Validator validates creative manifests. The embedded client is used only
// for optional remote MIME verification and carries a bounded timeout.
type Validator struct {
	client *http.Client
}

// New returns a Validator whose remote MIME checks give up after timeout.
func New(timeout time.Duration) *Validator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Validator{client: &http.Client{Timeout: timeout}}
}

// ValidateManifest checks every asset in the manifest against the format's
// declared asset types and returns all problems found. The slice is empty
// when the manifest is valid. Missing required assets are reported first in
// the format's declaration order, then per-asset errors in sorted asset id
// order so output is stable across runs.
func (v *Validator) ValidateManifest(ctx context.Context, manifest *models.CreativeManifest, format *models.Format, checkRemoteMIME bool) []string {
	var errs []string

	if len(manifest.Assets) == 0 {
		return []string{"Manifest must contain assets field"}
	}

	typeMap := map[string]models.AssetType{}
	if format != nil {
		typeMap = format.AssetTypeMap()
		for _, req := range format.AssetsRequired {
			if req.Required {
				if _, ok := manifest.Assets[req.AssetID]; !ok {
					errs = append(errs, fmt.Sprintf("Required asset missing: %s", req.AssetID))
				}
			}
		}
	}

	ids := make([]string, 0, len(manifest.Assets))
	for id := range manifest.Assets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		asset := manifest.Assets[id]
		assetType, ok := typeMap[id]
		if !ok {
			assetType, ok = inferAssetType(asset)
			if !ok {
				errs = append(errs, fmt.Sprintf("Asset '%s': Cannot determine asset type (format not provided or asset_id not in format spec)", id))
				continue
			}
		}
		if err := v.ValidateAsset(ctx, asset, assetType, checkRemoteMIME); err != nil {
			errs = append(errs, fmt.Sprintf("Asset '%s': %s", id, err))
		}
	}

	return errs
}

// inferAssetType guesses a type for assets the format does not declare,
// kept for manifests validated without a format definition. Inference keys
// on field presence, so an empty url or content still picks a type and the
// per-type validator reports the emptiness.
func inferAssetType(a models.Asset) (models.AssetType, bool) {
	switch {
	case a.HasURL() && a.Width != nil && a.Height != nil:
		return models.AssetImage, true
	case a.HasURL() && a.DurationSeconds != nil:
		return models.AssetVideo, true
	case a.HasContent():
		return models.AssetText, true
	case a.HasURL():
		return models.AssetURL, true
	default:
		return "", false
	}
}

// ValidateAsset checks one asset payload against its declared type.
func (v *Validator) ValidateAsset(ctx context.Context, asset models.Asset, assetType models.AssetType, checkRemoteMIME bool) error {
	switch assetType {
	case models.AssetHTML:
		return validateHTMLContent(asset.Content)
	case models.AssetCSS:
		return validateCSSContent(asset.Content)
	case models.AssetJavaScript:
		return validateJavaScriptContent(asset.Content)
	case models.AssetText, models.AssetMarkdown:
		return validateTextContent(asset.Content)
	case models.AssetURL:
		return validateURL(asset.URL)
	case models.AssetImage:
		return v.validateImageAsset(ctx, asset, checkRemoteMIME)
	case models.AssetVideo, models.AssetAudio:
		return validateURL(asset.URL)
	case models.AssetVAST:
		return validateTagAsset(asset, "VAST")
	case models.AssetDAAST:
		return validateTagAsset(asset, "DAAST")
	case models.AssetWebhook:
		if asset.URL == "" {
			return errors.New("Webhook asset must have url")
		}
		return validateURL(asset.URL)
	case models.AssetPromotedOfferings:
		return validatePromotedOfferings(asset)
	default:
		return fmt.Errorf("Unknown asset_type: %s", assetType)
	}
}

func validateHTMLContent(content string) error {
	if content == "" {
		return errors.New("HTML content cannot be empty")
	}
	lower := strings.TrimSpace(strings.ToLower(content))

	hasHTMLTag := strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype html>")
	hasBodyTag := strings.Contains(lower, "<body")

	if !htmlTagRe.MatchString(lower) {
		return errors.New("HTML content must contain valid HTML tags")
	}
	// A full document must carry a body.
	if hasHTMLTag && !hasBodyTag {
		return errors.New("HTML document must contain <body> tag")
	}
	return nil
}

func validateCSSContent(content string) error {
	if content == "" {
		return errors.New("CSS content cannot be empty")
	}
	if !cssRuleRe.MatchString(content) {
		return errors.New("CSS content must contain at least one valid rule")
	}
	return nil
}

func validateJavaScriptContent(content string) error {
	if content == "" {
		return errors.New("JavaScript content cannot be empty")
	}
	if len(strings.TrimSpace(content)) < 5 {
		return errors.New("JavaScript content is too short to be valid")
	}
	return nil
}

func validateTextContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("Text content cannot be empty")
	}
	return nil
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("URL cannot be empty")
	}

	lower := strings.ToLower(rawURL)
	for _, scheme := range blockedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return fmt.Errorf("URL scheme not allowed: %s", strings.SplitN(rawURL, ":", 2)[0])
		}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("Invalid URL format: %v", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		// Data URIs carry payload instead of a host and are allowed for
		// images only.
		if strings.HasPrefix(lower, "data:image/") {
			return validateDataURI(rawURL)
		}
		return errors.New("URL must have scheme and host")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got: %s", parsed.Scheme)
	}
	return nil
}

func validateDataURI(uri string) error {
	if !strings.HasPrefix(uri, "data:") {
		return errors.New("Data URI must start with 'data:'")
	}
	header, data, found := strings.Cut(uri, ",")
	if !found {
		return errors.New("Data URI must contain comma separator")
	}

	mime := strings.TrimPrefix(strings.SplitN(header, ";", 2)[0], "data:")
	allowed := false
	for _, m := range allowedImageMIMEs {
		if mime == m {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("Data URI MIME type not allowed: %s", mime)
	}
	if len(data) > maxDataURIBytes {
		return errors.New("Data URI exceeds 10MB size limit")
	}
	return nil
}

func (v *Validator) validateImageAsset(ctx context.Context, asset models.Asset, checkMIME bool) error {
	if err := v.validateImageURL(ctx, asset.URL, checkMIME); err != nil {
		return err
	}
	if asset.Width != nil && *asset.Width < 1 {
		return errors.New("Image width must be a positive integer")
	}
	if asset.Height != nil && *asset.Height < 1 {
		return errors.New("Image height must be a positive integer")
	}
	if asset.Format != "" {
		allowed := false
		for _, f := range allowedImageFormats {
			if strings.ToLower(asset.Format) == f {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("Image format not allowed: %s", asset.Format)
		}
	}
	return nil
}

func (v *Validator) validateImageURL(ctx context.Context, rawURL string, checkMIME bool) error {
	if strings.HasPrefix(rawURL, "data:") {
		return validateDataURI(rawURL)
	}
	if err := validateURL(rawURL); err != nil {
		return err
	}
	if !checkMIME {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return fmt.Errorf("Error verifying image URL: %v", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return fmt.Errorf("Timeout verifying image URL: %s", rawURL)
		}
		return fmt.Errorf("Error verifying image URL: %v", err)
	}
	defer resp.Body.Close()

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("URL does not return image content-type: %s", contentType)
	}
	return nil
}

// validateTagAsset handles vast and daast assets, which take exactly one of
// url or inline content.
func validateTagAsset(asset models.Asset, kind string) error {
	if asset.URL == "" && asset.Content == "" {
		return fmt.Errorf("%s asset must have either url or content", kind)
	}
	if asset.URL != "" && asset.Content != "" {
		return fmt.Errorf("%s asset must have url or content, not both", kind)
	}
	if asset.URL != "" {
		return validateURL(asset.URL)
	}
	return nil
}

func validatePromotedOfferings(asset models.Asset) error {
	raw := asset.BrandManifest
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var ref string
	if err := json.Unmarshal(raw, &ref); err == nil {
		return validateURL(ref)
	}

	var inline models.BrandManifest
	if err := json.Unmarshal(raw, &inline); err != nil {
		return errors.New("brand_manifest must be a URL string or object")
	}
	if inline.URL == "" && inline.Name == "" {
		return errors.New("Inline brand manifest must have either url or name")
	}
	if inline.URL != "" {
		return validateURL(inline.URL)
	}
	return nil
}
