package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickwarner/creativeserve/internal/macros"
	"github.com/patrickwarner/creativeserve/internal/models"
	"github.com/patrickwarner/creativeserve/internal/render"
	"go.uber.org/zap"
)

// PreviewRequest asks for preview renderings of one creative manifest.
type PreviewRequest struct {
	FormatID     models.FormatID         `json:"format_id"`
	Manifest     models.CreativeManifest `json:"creative_manifest"`
	Inputs       []models.PreviewInput   `json:"inputs,omitempty"`
	TemplateID   string                  `json:"template_id,omitempty"`
	OutputFormat string                  `json:"output_format,omitempty"`
}

// SinglePreviewResult is the preview_creative response for one manifest.
type SinglePreviewResult struct {
	ResponseType   string           `json:"response_type"`
	Previews       []models.Preview `json:"previews"`
	InteractiveURL string           `json:"interactive_url"`
	ExpiresAt      time.Time        `json:"expires_at"`
	Message        string           `json:"-"`
}

// BatchError describes one failed entry in a batch preview response.
type BatchError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchItem is one entry of a batch preview response.
type BatchItem struct {
	Success  bool                 `json:"success"`
	Response *SinglePreviewResult `json:"response,omitempty"`
	Error    *BatchError          `json:"error,omitempty"`
}

// BatchPreviewResult is the preview_creative response in batch mode.
type BatchPreviewResult struct {
	ResponseType string      `json:"response_type"`
	Results      []BatchItem `json:"results"`
	Message      string      `json:"-"`
}

const maxBatchRequests = 50

// defaultPreviewInputs are used when the caller supplies no input sets.
func defaultPreviewInputs() []models.PreviewInput {
	return []models.PreviewInput{
		{Name: "Desktop", Macros: map[string]string{"DEVICE_TYPE": "desktop"}},
		{Name: "Mobile", Macros: map[string]string{"DEVICE_TYPE": "mobile"}},
		{Name: "Tablet", Macros: map[string]string{"DEVICE_TYPE": "tablet"}},
	}
}

// PreviewCreative validates the manifest and renders one preview variant per
// input set. With output format "url" the rendered HTML is persisted and
// addressed by URL; "html" returns the document inline without persisting.
func (s *Service) PreviewCreative(ctx context.Context, req PreviewRequest) (*SinglePreviewResult, error) {
	formatID := s.NormalizeFormatID(req.FormatID)

	format, ok := s.catalog.Resolve(formatID)
	if !ok {
		return nil, &NotFoundError{FormatID: formatID}
	}

	// A manifest that names a format must name the one being previewed.
	if req.Manifest.FormatID.ID != "" {
		manifestID := s.NormalizeFormatID(req.Manifest.FormatID)
		if !manifestID.BaseEqual(formatID) {
			return nil, fmt.Errorf(
				"Manifest format_id (id='%s', agent_url='%s') does not match request format_id (id='%s', agent_url='%s')",
				manifestID.ID, manifestID.AgentURL, formatID.ID, formatID.AgentURL)
		}
	}

	if problems := s.validator.ValidateManifest(ctx, &req.Manifest, &format, s.checkRemoteMIME); len(problems) > 0 {
		s.metrics.IncrementValidationFailures(string(format.Type))
		return nil, &ValidationError{Problems: problems}
	}

	previewID := uuid.New().String()
	inputs := req.Inputs
	if len(inputs) == 0 {
		inputs = defaultPreviewInputs()
	}

	renderer := render.For(&format)
	previews := make([]models.Preview, 0, len(inputs))
	for _, input := range inputs {
		html := renderer.Render(&format, &req.Manifest, input)
		html = s.expandMacros(html, previewID, input)

		variant := variantName(input.Name)

		var previewURL, previewHTML string
		if req.OutputFormat == "html" {
			previewHTML = html
		} else {
			if err := s.store.Put(ctx, previewID, variant, html); err != nil {
				return nil, err
			}
			previewURL = fmt.Sprintf("%s/preview/%s/%s", s.publicBaseURL, previewID, variant)
		}

		previews = append(previews, buildPreview(&format, input, previewID, previewURL, previewHTML))
		s.metrics.IncrementPreviews(string(format.Type))
	}

	plural := "s"
	if len(previews) == 1 {
		plural = ""
	}

	s.logger.Info("Generated preview",
		zap.String("preview_id", previewID),
		zap.String("format_id", formatID.ID),
		zap.Int("variants", len(previews)))

	return &SinglePreviewResult{
		ResponseType:   "single",
		Previews:       previews,
		InteractiveURL: fmt.Sprintf("%s/preview/%s/interactive", s.publicBaseURL, previewID),
		ExpiresAt:      time.Now().UTC().Add(s.previewTTL),
		Message:        fmt.Sprintf("Generated %d preview%s for %s", len(previews), plural, formatID.ID),
	}, nil
}

// PreviewCreativeBatch processes up to 50 preview requests. A failed entry
// never aborts the batch; its error lands in the matching result slot.
func (s *Service) PreviewCreativeBatch(ctx context.Context, reqs []PreviewRequest, defaultOutputFormat string) (*BatchPreviewResult, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("Batch mode requires at least one request")
	}
	if len(reqs) > maxBatchRequests {
		return nil, fmt.Errorf("Batch mode supports maximum %d requests", maxBatchRequests)
	}

	results := make([]BatchItem, 0, len(reqs))
	for _, req := range reqs {
		if req.OutputFormat == "" {
			req.OutputFormat = defaultOutputFormat
		}
		if req.FormatID.ID == "" || len(req.Manifest.Assets) == 0 {
			results = append(results, BatchItem{
				Success: false,
				Error:   &BatchError{Code: "request_error", Message: "Each request must have format_id and creative_manifest"},
			})
			continue
		}

		resp, err := s.PreviewCreative(ctx, req)
		if err != nil {
			results = append(results, BatchItem{
				Success: false,
				Error:   &BatchError{Code: "preview_failed", Message: err.Error()},
			})
			continue
		}
		results = append(results, BatchItem{Success: true, Response: resp})
	}

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}

	return &BatchPreviewResult{
		ResponseType: "batch",
		Results:      results,
		Message: fmt.Sprintf("Processed %d preview requests (%d succeeded, %d failed)",
			len(results), succeeded, len(results)-succeeded),
	}, nil
}

// expandMacros substitutes macro placeholders left in the rendered document.
// Caller-supplied input macros take precedence over defaults.
func (s *Service) expandMacros(html, previewID string, input models.PreviewInput) string {
	if s.expander == nil {
		return html
	}
	expanded, err := s.expander.Expand(html, &macros.ExpansionContext{
		CreativeID: previewID,
		DeviceType: input.Macros["DEVICE_TYPE"],
		Timestamp:  time.Now(),
		Provided:   input.Macros,
	})
	if err != nil {
		s.logger.Warn("macro expansion failed", zap.Error(err))
		return html
	}
	return expanded
}

// variantName converts an input set name into a URL-safe variant slug.
func variantName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

func buildPreview(format *models.Format, input models.PreviewInput, previewID, previewURL, previewHTML string) models.Preview {
	var dims *models.Dimensions
	if r, ok := format.PrimaryRender(); ok {
		if r.Dimensions.Width != nil && r.Dimensions.Height != nil {
			dims = &models.Dimensions{
				Width:  r.Dimensions.Width,
				Height: r.Dimensions.Height,
				Unit:   r.Dimensions.Unit,
			}
		}
	}

	previewRender := models.PreviewRender{
		RenderID:   previewID + "-primary",
		Role:       "primary",
		Dimensions: dims,
		Embedding: &models.PreviewEmbedding{
			RecommendedSandbox: "allow-scripts allow-same-origin",
			RequiresHTTPS:      false,
			SupportsFullscreen: format.Type == models.TypeVideo || format.Type == models.TypeRichMedia,
		},
	}

	switch {
	case previewURL != "" && previewHTML != "":
		previewRender.OutputFormat = "both"
		previewRender.PreviewURL = previewURL
		previewRender.PreviewHTML = previewHTML
	case previewURL != "":
		previewRender.OutputFormat = "url"
		previewRender.PreviewURL = previewURL
	default:
		previewRender.OutputFormat = "html"
		previewRender.PreviewHTML = previewHTML
	}

	if input.Macros == nil {
		input.Macros = map[string]string{}
	}

	return models.Preview{
		PreviewID: previewID,
		Renders:   []models.PreviewRender{previewRender},
		Input:     input,
	}
}
