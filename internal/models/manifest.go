package models

import "encoding/json"

// Asset is one creative asset payload inside a manifest. Which fields are
// meaningful depends on the asset type the format declares for the slot:
// content-bearing types (text, html, css, javascript) use Content,
// url-bearing types (image, video, audio, url, webhook) use URL, and
// vast/daast accept exactly one of the two.
type Asset struct {
	URL             string `json:"url,omitempty"`
	Content         string `json:"content,omitempty"`
	Width           *int   `json:"width,omitempty"`
	Height          *int   `json:"height,omitempty"`
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
	Format          string `json:"format,omitempty"`
	// BrandManifest is either a URL string or an inline object; kept raw so
	// validation can distinguish the two shapes.
	BrandManifest json.RawMessage `json:"brand_manifest,omitempty"`

	urlSet     bool
	contentSet bool
}

// UnmarshalJSON records which keys the payload carried. An empty string in
// url or content is still a present field, and type inference keys on
// presence, not value.
func (a *Asset) UnmarshalJSON(data []byte) error {
	type plain Asset
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*a = Asset(p)
	_, a.urlSet = keys["url"]
	_, a.contentSet = keys["content"]
	return nil
}

// HasURL reports whether the asset carries a url field, counting an
// empty-but-present key from a decoded payload.
func (a Asset) HasURL() bool { return a.urlSet || a.URL != "" }

// HasContent is the content counterpart of HasURL.
func (a Asset) HasContent() bool { return a.contentSet || a.Content != "" }

// BrandManifest is the inline shape of a promoted_offerings brand manifest.
type BrandManifest struct {
	URL         string `json:"url,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Tagline     string `json:"tagline,omitempty"`
}

// CreativeManifest is the caller-supplied bundle of assets being validated
// and rendered against a format. It is constructed per request and never
// persisted by the core.
type CreativeManifest struct {
	FormatID FormatID         `json:"format_id"`
	Assets   map[string]Asset `json:"assets"`
}

// PreviewInput is one input set for preview generation: a variant name plus
// macro values to apply.
type PreviewInput struct {
	Name               string            `json:"name"`
	Macros             map[string]string `json:"macros,omitempty"`
	ContextDescription string            `json:"context_description,omitempty"`
}

// PreviewEmbedding carries security metadata for embedding preview content.
type PreviewEmbedding struct {
	RecommendedSandbox string `json:"recommended_sandbox,omitempty"`
	RequiresHTTPS      bool   `json:"requires_https"`
	SupportsFullscreen bool   `json:"supports_fullscreen"`
}

// PreviewRender is a single rendered preview variant. OutputFormat is the
// discriminator: "url", "html" or "both", matching which of PreviewURL and
// PreviewHTML are populated.
type PreviewRender struct {
	RenderID     string            `json:"render_id"`
	Role         string            `json:"role"`
	OutputFormat string            `json:"output_format"`
	PreviewURL   string            `json:"preview_url,omitempty"`
	PreviewHTML  string            `json:"preview_html,omitempty"`
	Dimensions   *Dimensions       `json:"dimensions,omitempty"`
	Embedding    *PreviewEmbedding `json:"embedding,omitempty"`
}

// Preview is one preview variant: the renders plus an echo of the input
// set that produced them.
type Preview struct {
	PreviewID string          `json:"preview_id"`
	Renders   []PreviewRender `json:"renders"`
	Input     PreviewInput    `json:"input"`
}
