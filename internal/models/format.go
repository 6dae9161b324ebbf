package models

import "fmt"

// Type is the media type of a creative format.
type Type string

const (
	TypeAudio     Type = "audio"
	TypeVideo     Type = "video"
	TypeDisplay   Type = "display"
	TypeNative    Type = "native"
	TypeDOOH      Type = "dooh"
	TypeRichMedia Type = "rich_media"
	TypeUniversal Type = "universal"
)

// AssetType identifies the kind of asset a format slot expects.
type AssetType string

const (
	AssetImage             AssetType = "image"
	AssetVideo             AssetType = "video"
	AssetAudio             AssetType = "audio"
	AssetVAST              AssetType = "vast"
	AssetDAAST             AssetType = "daast"
	AssetText              AssetType = "text"
	AssetMarkdown          AssetType = "markdown"
	AssetHTML              AssetType = "html"
	AssetCSS               AssetType = "css"
	AssetJavaScript        AssetType = "javascript"
	AssetURL               AssetType = "url"
	AssetWebhook           AssetType = "webhook"
	AssetPromotedOfferings AssetType = "promoted_offerings"
)

// Unit is the measurement unit for render dimensions.
type Unit string

const (
	UnitPx     Unit = "px"
	UnitDp     Unit = "dp"
	UnitInches Unit = "inches"
	UnitCm     Unit = "cm"
)

// Parameter is a parameter kind a template format accepts in place of
// fixed values.
type Parameter string

const (
	ParamDimensions Parameter = "dimensions"
	ParamDuration   Parameter = "duration"
)

// FormatID identifies a format definition or request. Width, Height and
// DurationMs are optional parameters; zero means absent.
type FormatID struct {
	AgentURL   string `json:"agent_url"`
	ID         string `json:"id"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	DurationMs int    `json:"duration_ms,omitempty"`
}

// BaseEqual reports whether two format IDs refer to the same catalog entry,
// ignoring any dimension or duration parameters.
func (f FormatID) BaseEqual(other FormatID) bool {
	return f.ID == other.ID && f.AgentURL == other.AgentURL
}

// String renders the ID for log and error messages.
func (f FormatID) String() string {
	if f.Width > 0 || f.Height > 0 {
		return fmt.Sprintf("%s (%dx%d)", f.ID, f.Width, f.Height)
	}
	return f.ID
}

// Responsive flags which axes of a render adapt to the container.
type Responsive struct {
	Width  bool `json:"width"`
	Height bool `json:"height"`
}

// Dimensions is the sizing spec for a render. An axis is fixed when its
// value is present and its responsive flag is false; it is responsive when
// the value is absent and the flag is true.
type Dimensions struct {
	Width      *float64   `json:"width,omitempty"`
	Height     *float64   `json:"height,omitempty"`
	Responsive Responsive `json:"responsive"`
	Unit       Unit       `json:"unit"`
}

// IsResponsive reports whether either axis adapts to the container.
func (d Dimensions) IsResponsive() bool {
	return d.Responsive.Width || d.Responsive.Height
}

// Render is one physical presentation of a format.
type Render struct {
	Role       string     `json:"role"`
	Dimensions Dimensions `json:"dimensions"`
}

// AssetRequirement declares one asset slot a format demands. Requirements
// is an open map of auxiliary constraints (width, height, duration,
// max file size, acceptable formats, description) consumed by validation
// and rendering rather than exhaustively typed.
type AssetRequirement struct {
	AssetID      string         `json:"asset_id"`
	AssetType    AssetType      `json:"asset_type"`
	Required     bool           `json:"required"`
	Requirements map[string]any `json:"requirements,omitempty"`
}

// Format is a catalog entry. A format is either a template
// (AcceptsParameters non-empty, no renders) or concrete (fixed renders,
// no accepted parameters); catalog construction enforces the split.
type Format struct {
	FormatID          FormatID           `json:"format_id"`
	Name              string             `json:"name"`
	Type              Type               `json:"type"`
	Description       string             `json:"description,omitempty"`
	AcceptsParameters []Parameter        `json:"accepts_parameters,omitempty"`
	Renders           []Render           `json:"renders,omitempty"`
	AssetsRequired    []AssetRequirement `json:"assets_required,omitempty"`
	SupportedMacros   []string           `json:"supported_macros,omitempty"`
	OutputFormatIDs   []FormatID         `json:"output_format_ids,omitempty"`
}

// IsTemplate reports whether the format represents an open family of
// concrete variants rather than one fixed instantiation.
func (f *Format) IsTemplate() bool {
	return len(f.AcceptsParameters) > 0
}

// AcceptsParameter reports whether a template format accepts the given
// parameter kind. Always false for concrete formats.
func (f *Format) AcceptsParameter(p Parameter) bool {
	for _, ap := range f.AcceptsParameters {
		if ap == p {
			return true
		}
	}
	return false
}

// IsGenerative reports whether the format produces another concrete format
// via AI generation rather than being rendered directly.
func (f *Format) IsGenerative() bool {
	return len(f.OutputFormatIDs) > 0
}

// PrimaryRender returns the first render spec, which carries the
// authoritative dimensions for matching and preview sizing.
func (f *Format) PrimaryRender() (Render, bool) {
	if len(f.Renders) == 0 {
		return Render{}, false
	}
	return f.Renders[0], true
}

// AssetTypeMap builds an assetId to assetType lookup from the format's
// requirement list.
func (f *Format) AssetTypeMap() map[string]AssetType {
	m := make(map[string]AssetType, len(f.AssetsRequired))
	for _, req := range f.AssetsRequired {
		m[req.AssetID] = req.AssetType
	}
	return m
}
