package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/patrickwarner/creativeserve/internal/models"
	"go.uber.org/zap"
)

// BuildRequest asks for a creative manifest to be assembled or generated
// for a target format.
type BuildRequest struct {
	TargetFormatID models.FormatID          `json:"target_format_id"`
	Manifest       *models.CreativeManifest `json:"creative_manifest,omitempty"`
	Message        string                   `json:"message,omitempty"`
}

// BuildResult is the build_creative response payload.
type BuildResult struct {
	Manifest models.CreativeManifest `json:"creative_manifest"`
	Message  string                  `json:"-"`
}

// GenerationError reports an AI-generated manifest that failed validation
// against its output format.
type GenerationError struct {
	Problems []string
}

func (e *GenerationError) Error() string {
	return "AI-generated creative failed validation"
}

// BuildCreative assembles a manifest for the target format. Generative
// formats go through the AI backend and the result is validated against the
// declared output format before it is returned; everything else echoes the
// caller's manifest with the format id filled in.
func (s *Service) BuildCreative(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	formatID := s.NormalizeFormatID(req.TargetFormatID)

	format, ok := s.catalog.Resolve(formatID)
	if !ok {
		return nil, &NotFoundError{FormatID: formatID}
	}

	manifest := req.Manifest
	if manifest == nil {
		manifest = &models.CreativeManifest{}
	}
	if manifest.FormatID.ID == "" {
		manifest.FormatID = models.FormatID{AgentURL: s.agentURL, ID: formatID.ID}
	}

	if !format.IsGenerative() {
		return &BuildResult{
			Manifest: *manifest,
			Message:  fmt.Sprintf("Creative manifest for %s", format.Name),
		}, nil
	}

	outputID := s.NormalizeFormatID(format.OutputFormatIDs[0])
	outputFormat, ok := s.catalog.Resolve(outputID)
	if !ok {
		return nil, fmt.Errorf("Output format %s not found", outputID)
	}

	if s.generator == nil {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required for generative formats. Get a key at https://ai.google.dev/")
	}

	message := req.Message
	if message == "" {
		if prompt, ok := manifest.Assets["generation_prompt"]; ok {
			message = prompt.Content
		}
	}
	if message == "" {
		return nil, fmt.Errorf("message or generation_prompt asset is required for creative generation")
	}

	prompt := buildGenerationPrompt(&outputFormat, manifest, message)

	raw, err := s.generator.GenerateManifest(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("Creative generation failed: %w", err)
	}

	generated, err := parseGeneratedManifest(raw, outputID)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse AI-generated creative: %w", err)
	}

	if problems := s.validator.ValidateManifest(ctx, generated, &outputFormat, false); len(problems) > 0 {
		s.metrics.IncrementValidationFailures(string(outputFormat.Type))
		return nil, &GenerationError{Problems: problems}
	}

	s.logger.Info("Generated creative",
		zap.String("format_id", formatID.ID),
		zap.String("output_format_id", outputID.ID))

	return &BuildResult{
		Manifest: *generated,
		Message:  fmt.Sprintf("Generated %s creative", outputFormat.Name),
	}, nil
}

// buildGenerationPrompt assembles the prompt sent to the generation model:
// the output format's specification, brand context from promoted_offerings,
// and the caller's request.
func buildGenerationPrompt(outputFormat *models.Format, manifest *models.CreativeManifest, message string) string {
	var spec strings.Builder
	fmt.Fprintf(&spec, "Format: %s\n", outputFormat.Name)
	fmt.Fprintf(&spec, "Type: %s\n", outputFormat.Type)
	fmt.Fprintf(&spec, "Description: %s\n", outputFormat.Description)

	if r, ok := outputFormat.PrimaryRender(); ok {
		if r.Dimensions.Width != nil && r.Dimensions.Height != nil {
			fmt.Fprintf(&spec, "Dimensions: %dx%d\n", int(*r.Dimensions.Width), int(*r.Dimensions.Height))
		}
	}

	spec.WriteString("\nRequired Assets:\n")
	for _, req := range outputFormat.AssetsRequired {
		fmt.Fprintf(&spec, "- %s (%s)\n", req.AssetID, req.AssetType)
	}

	var brand strings.Builder
	if offerings, ok := manifest.Assets["promoted_offerings"]; ok && len(offerings.BrandManifest) > 0 {
		var bm models.BrandManifest
		if err := json.Unmarshal(offerings.BrandManifest, &bm); err == nil {
			brand.WriteString("\n\nBrand Context:\n")
			if bm.Name != "" {
				fmt.Fprintf(&brand, "Brand: %s\n", bm.Name)
			}
			if bm.Description != "" {
				fmt.Fprintf(&brand, "Description: %s\n", bm.Description)
			}
			if bm.Tagline != "" {
				fmt.Fprintf(&brand, "Tagline: %s\n", bm.Tagline)
			}
		}
	}

	return fmt.Sprintf(`You are a creative generation AI for advertising. Generate a creative manifest for the following request:

%s%s

User Request: %s

Generate a JSON creative manifest with the following structure:
{
  "format_id": "%s",
  "assets": {
    // Map each required asset_id to appropriate asset data
    // For text: {"content": "..."}
    // For urls: {"url": "..."}
  }
}

Return ONLY the JSON manifest, no additional text.`, spec.String(), brand.String(), message, outputFormat.FormatID.ID)
}

// parseGeneratedManifest decodes model output, tolerating a format_id that
// arrives as either a bare string or a full object.
func parseGeneratedManifest(raw json.RawMessage, outputID models.FormatID) (*models.CreativeManifest, error) {
	var loose struct {
		FormatID json.RawMessage         `json:"format_id"`
		Assets   map[string]models.Asset `json:"assets"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil, err
	}

	manifest := &models.CreativeManifest{
		FormatID: outputID,
		Assets:   loose.Assets,
	}
	if len(loose.FormatID) > 0 {
		var id models.FormatID
		var idStr string
		if err := json.Unmarshal(loose.FormatID, &idStr); err == nil {
			manifest.FormatID = models.FormatID{AgentURL: outputID.AgentURL, ID: idStr}
		} else if err := json.Unmarshal(loose.FormatID, &id); err == nil && id.ID != "" {
			if id.AgentURL == "" {
				id.AgentURL = outputID.AgentURL
			}
			manifest.FormatID = id
		}
	}
	return manifest, nil
}
