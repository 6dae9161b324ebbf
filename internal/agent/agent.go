// Package agent implements the creative agent's tool operations: catalog
// listing, preview generation and creative assembly. It is transport
// agnostic; the MCP server and the HTTP API both sit on top of it.
package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/patrickwarner/creativeserve/internal/catalog"
	"github.com/patrickwarner/creativeserve/internal/gen"
	"github.com/patrickwarner/creativeserve/internal/macros"
	"github.com/patrickwarner/creativeserve/internal/models"
	"github.com/patrickwarner/creativeserve/internal/observability"
	"github.com/patrickwarner/creativeserve/internal/storage"
	"github.com/patrickwarner/creativeserve/internal/validation"
	"go.uber.org/zap"
)

// Service wires the catalog, validator, renderer stack and preview store
// into the agent's tool operations.
type Service struct {
	catalog   *catalog.Catalog
	validator *validation.Validator
	store     storage.PreviewStore
	generator gen.Generator
	expander  *macros.Expander
	logger    *zap.Logger
	metrics   observability.MetricsRegistry

	agentURL        string
	agentName       string
	publicBaseURL   string
	previewTTL      time.Duration
	checkRemoteMIME bool
}

// Options configures a Service.
type Options struct {
	Catalog   *catalog.Catalog
	Validator *validation.Validator
	Store     storage.PreviewStore
	Generator gen.Generator
	Expander  *macros.Expander
	Logger    *zap.Logger
	Metrics   observability.MetricsRegistry

	AgentURL        string
	AgentName       string
	PublicBaseURL   string
	PreviewTTL      time.Duration
	CheckRemoteMIME bool
}

// New builds a Service. Logger and metrics fall back to no-op
// implementations so tests can construct a Service with just the parts
// they exercise.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewNoOpRegistry()
	}
	ttl := opts.PreviewTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		catalog:         opts.Catalog,
		validator:       opts.Validator,
		store:           opts.Store,
		generator:       opts.Generator,
		expander:        opts.Expander,
		logger:          logger,
		metrics:         metrics,
		agentURL:        strings.TrimSuffix(opts.AgentURL, "/"),
		agentName:       opts.AgentName,
		publicBaseURL:   strings.TrimSuffix(opts.PublicBaseURL, "/"),
		previewTTL:      ttl,
		checkRemoteMIME: opts.CheckRemoteMIME,
	}
}

// Catalog exposes the underlying format catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// AgentURL returns the agent identity URL formats are published under.
func (s *Service) AgentURL() string {
	return s.agentURL
}

// NormalizeFormatID fills in this agent's URL when a caller supplies a bare
// format id string.
func (s *Service) NormalizeFormatID(id models.FormatID) models.FormatID {
	if id.AgentURL == "" {
		id.AgentURL = s.agentURL
	}
	return id
}

// ValidationError carries the full list of problems found in a manifest.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("asset validation failed: %s", strings.Join(e.Problems, "; "))
}

// NotFoundError marks a format id with no catalog entry.
type NotFoundError struct {
	FormatID models.FormatID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Format %s not found", e.FormatID)
}
