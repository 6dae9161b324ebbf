package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/patrickwarner/creativeserve/internal/agent"
	"github.com/patrickwarner/creativeserve/internal/catalog"
	"github.com/patrickwarner/creativeserve/internal/config"
	"github.com/patrickwarner/creativeserve/internal/gen"
	"github.com/patrickwarner/creativeserve/internal/macros"
	"github.com/patrickwarner/creativeserve/internal/models"
	"github.com/patrickwarner/creativeserve/internal/observability"
	"github.com/patrickwarner/creativeserve/internal/storage"
	"github.com/patrickwarner/creativeserve/internal/validation"
	"go.uber.org/zap"
)

// AdCP Creative Protocol request/response types
type ListFormatsInput struct {
	Type         string   `json:"type,omitempty"`
	FormatIDs    []string `json:"format_ids,omitempty"`
	AssetTypes   []string `json:"asset_types,omitempty"`
	Dimensions   string   `json:"dimensions,omitempty"`
	MaxWidth     *int     `json:"max_width,omitempty"`
	MaxHeight    *int     `json:"max_height,omitempty"`
	MinWidth     *int     `json:"min_width,omitempty"`
	MinHeight    *int     `json:"min_height,omitempty"`
	IsResponsive *bool    `json:"is_responsive,omitempty"`
	NameSearch   string   `json:"name_search,omitempty"`
}

type ListFormatsOutput struct {
	Message        string                    `json:"message"`
	Formats        []models.Format           `json:"formats"`
	CreativeAgents []agent.CreativeAgentInfo `json:"creative_agents"`
}

type PreviewCreativeInput struct {
	FormatID     *models.FormatID         `json:"format_id,omitempty"`
	Manifest     *models.CreativeManifest `json:"creative_manifest,omitempty"`
	Inputs       []models.PreviewInput    `json:"inputs,omitempty"`
	TemplateID   string                   `json:"template_id,omitempty"`
	OutputFormat string                   `json:"output_format,omitempty"`
	Requests     []agent.PreviewRequest   `json:"requests,omitempty"`
}

type SinglePreviewOutput struct {
	Message        string           `json:"message"`
	ResponseType   string           `json:"response_type"`
	Previews       []models.Preview `json:"previews"`
	InteractiveURL string           `json:"interactive_url"`
	ExpiresAt      time.Time        `json:"expires_at"`
}

type PreviewCreativeOutput struct {
	Message        string            `json:"message"`
	ResponseType   string            `json:"response_type"`
	Previews       []models.Preview  `json:"previews,omitempty"`
	InteractiveURL string            `json:"interactive_url,omitempty"`
	ExpiresAt      *time.Time        `json:"expires_at,omitempty"`
	Results        []agent.BatchItem `json:"results,omitempty"`
}

type BuildCreativeInput struct {
	TargetFormatID *models.FormatID         `json:"target_format_id,omitempty"`
	Manifest       *models.CreativeManifest `json:"creative_manifest,omitempty"`
	Message        string                   `json:"message,omitempty"`
}

type BuildCreativeOutput struct {
	Message  string                  `json:"message"`
	Manifest models.CreativeManifest `json:"creative_manifest"`
}

// CreativeServer holds our dependencies
type CreativeServer struct {
	agent   *agent.Service
	logger  *zap.Logger
	metrics observability.MetricsRegistry
}

// ListCreativeFormats implements the AdCP list_creative_formats task
func (s *CreativeServer) ListCreativeFormats(ctx context.Context, req *mcp.CallToolRequest, input ListFormatsInput) (*mcp.CallToolResult, ListFormatsOutput, error) {
	crit := catalog.Criteria{
		Type:         input.Type,
		Dimensions:   input.Dimensions,
		MaxWidth:     input.MaxWidth,
		MaxHeight:    input.MaxHeight,
		MinWidth:     input.MinWidth,
		MinHeight:    input.MinHeight,
		IsResponsive: input.IsResponsive,
		NameSearch:   input.NameSearch,
	}
	for _, id := range input.FormatIDs {
		crit.FormatIDs = append(crit.FormatIDs, models.FormatID{ID: id})
	}
	for _, t := range input.AssetTypes {
		crit.AssetTypes = append(crit.AssetTypes, models.AssetType(t))
	}

	result := s.agent.ListCreativeFormats(crit)
	s.metrics.IncrementToolCalls("list_creative_formats", "success")

	s.logger.Info("Listed creative formats",
		zap.Int("count", len(result.Formats)),
		zap.String("type_filter", input.Type))

	return nil, ListFormatsOutput{
		Message:        result.Message,
		Formats:        result.Formats,
		CreativeAgents: result.CreativeAgents,
	}, nil
}

// PreviewCreative implements the AdCP preview_creative task. A requests
// array switches the call into batch mode.
func (s *CreativeServer) PreviewCreative(ctx context.Context, req *mcp.CallToolRequest, input PreviewCreativeInput) (*mcp.CallToolResult, PreviewCreativeOutput, error) {
	if input.Requests != nil {
		result, err := s.agent.PreviewCreativeBatch(ctx, input.Requests, input.OutputFormat)
		if err != nil {
			s.metrics.IncrementToolCalls("preview_creative", "error")
			return nil, PreviewCreativeOutput{}, err
		}
		s.metrics.IncrementToolCalls("preview_creative", "success")
		return nil, PreviewCreativeOutput{
			Message:      result.Message,
			ResponseType: result.ResponseType,
			Results:      result.Results,
		}, nil
	}

	if input.FormatID == nil || input.Manifest == nil {
		s.metrics.IncrementToolCalls("preview_creative", "error")
		return nil, PreviewCreativeOutput{}, fmt.Errorf("format_id and creative_manifest are required")
	}

	result, err := s.agent.PreviewCreative(ctx, agent.PreviewRequest{
		FormatID:     *input.FormatID,
		Manifest:     *input.Manifest,
		Inputs:       input.Inputs,
		TemplateID:   input.TemplateID,
		OutputFormat: input.OutputFormat,
	})
	if err != nil {
		s.metrics.IncrementToolCalls("preview_creative", "error")
		return nil, PreviewCreativeOutput{}, err
	}
	s.metrics.IncrementToolCalls("preview_creative", "success")

	return nil, PreviewCreativeOutput{
		Message:        result.Message,
		ResponseType:   result.ResponseType,
		Previews:       result.Previews,
		InteractiveURL: result.InteractiveURL,
		ExpiresAt:      &result.ExpiresAt,
	}, nil
}

// BuildCreative implements the AdCP build_creative task
func (s *CreativeServer) BuildCreative(ctx context.Context, req *mcp.CallToolRequest, input BuildCreativeInput) (*mcp.CallToolResult, BuildCreativeOutput, error) {
	if input.TargetFormatID == nil {
		s.metrics.IncrementToolCalls("build_creative", "error")
		return nil, BuildCreativeOutput{}, fmt.Errorf("target_format_id is required")
	}

	result, err := s.agent.BuildCreative(ctx, agent.BuildRequest{
		TargetFormatID: *input.TargetFormatID,
		Manifest:       input.Manifest,
		Message:        input.Message,
	})
	if err != nil {
		s.metrics.IncrementToolCalls("build_creative", "error")
		return nil, BuildCreativeOutput{}, err
	}
	s.metrics.IncrementToolCalls("build_creative", "success")

	return nil, BuildCreativeOutput{
		Message:  result.Message,
		Manifest: result.Manifest,
	}, nil
}

func main() {
	// MCP stdio transport owns stdout, so all logging goes to stderr
	logger, err := observability.InitStdioLogger("creativeserve-mcp")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting CreativeServe MCP Server")

	cfg := config.Load()

	cat, err := catalog.New(catalog.Standard(cfg.AgentURL))
	if err != nil {
		logger.Fatal("Failed to build format catalog", zap.Error(err))
	}
	logger.Info("Format catalog loaded", zap.Int("formats", cat.Len()))

	store, err := storage.InitRedis(cfg.RedisAddr, cfg.PreviewTTL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer store.Close()

	validator := validation.New(cfg.MIMECheckTimeout)
	expander := macros.NewExpander(logger)
	metrics := observability.NewPrometheusRegistry()

	var generator gen.Generator
	if cfg.GeminiAPIKey != "" {
		generator = gen.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout, logger, metrics)
		logger.Info("Gemini generation backend enabled", zap.String("model", cfg.GeminiModel))
	} else {
		logger.Warn("GEMINI_API_KEY not set, generative formats will be unavailable")
	}

	svc := agent.New(agent.Options{
		Catalog:         cat,
		Validator:       validator,
		Store:           store,
		Generator:       generator,
		Expander:        expander,
		Logger:          logger,
		Metrics:         metrics,
		AgentURL:        cfg.AgentURL,
		AgentName:       cfg.AgentName,
		PublicBaseURL:   cfg.PublicBaseURL,
		PreviewTTL:      cfg.PreviewTTL,
		CheckRemoteMIME: cfg.MIMECheckEnabled,
	})

	creativeServer := &CreativeServer{
		agent:   svc,
		logger:  logger,
		metrics: metrics,
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "creativeserve",
		Version: "1.0.0",
	}, nil)

	formatIDSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"agent_url": map[string]interface{}{
				"type":        "string",
				"description": "URL of the agent that owns the format",
			},
			"id": map[string]interface{}{
				"type":        "string",
				"description": "Format identifier",
			},
		},
		"required": []string{"id"},
	}

	manifestSchema := map[string]interface{}{
		"type":        "object",
		"description": "Creative manifest with format_id and an assets map keyed by asset_id",
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_creative_formats",
		Description: "Discover supported creative formats using the AdCP Creative Protocol, with optional filters",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"display", "video", "audio", "native", "dooh", "rich_media", "universal"},
					"description": "Filter by format type",
				},
				"format_ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Return only formats with these ids",
				},
				"asset_types": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Return only formats whose required assets cover all of these types",
				},
				"dimensions": map[string]interface{}{
					"type":        "string",
					"description": "Exact dimensions filter, e.g. 300x250",
				},
				"max_width":  map[string]interface{}{"type": "integer"},
				"max_height": map[string]interface{}{"type": "integer"},
				"min_width":  map[string]interface{}{"type": "integer"},
				"min_height": map[string]interface{}{"type": "integer"},
				"is_responsive": map[string]interface{}{
					"type":        "boolean",
					"description": "Filter for responsive formats",
				},
				"name_search": map[string]interface{}{
					"type":        "string",
					"description": "Case-insensitive substring match on format name and id",
				},
			},
		},
	}, creativeServer.ListCreativeFormats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview_creative",
		Description: "Render preview documents for a creative manifest, one variant per input set",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"format_id":         formatIDSchema,
				"creative_manifest": manifestSchema,
				"inputs": map[string]interface{}{
					"type":        "array",
					"description": "Input sets to render variants for; defaults to desktop, mobile and tablet",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"name": map[string]interface{}{"type": "string"},
							"macros": map[string]interface{}{
								"type":        "object",
								"description": "Macro values applied to this variant",
							},
							"context_description": map[string]interface{}{"type": "string"},
						},
					},
				},
				"template_id": map[string]interface{}{"type": "string"},
				"output_format": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"url", "html", "both"},
					"description": "How rendered previews are returned (default url)",
				},
				"requests": map[string]interface{}{
					"type":        "array",
					"description": "Batch mode: up to 50 preview requests processed independently",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"format_id":         formatIDSchema,
							"creative_manifest": manifestSchema,
						},
						"required": []string{"format_id", "creative_manifest"},
					},
				},
			},
		},
	}, creativeServer.PreviewCreative)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_creative",
		Description: "Assemble a creative manifest for a target format, generating assets with AI for generative formats",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"target_format_id":  formatIDSchema,
				"creative_manifest": manifestSchema,
				"message": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language generation request for generative formats",
				},
			},
			"required": []string{"target_format_id"},
		},
	}, creativeServer.BuildCreative)

	logger.Info("MCP Server running via stdio")

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
