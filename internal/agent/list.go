package agent

import (
	"fmt"
	"strings"

	"github.com/patrickwarner/creativeserve/internal/catalog"
	"github.com/patrickwarner/creativeserve/internal/models"
)

// CreativeAgentInfo identifies this agent in catalog responses.
type CreativeAgentInfo struct {
	AgentURL     string   `json:"agent_url"`
	AgentName    string   `json:"agent_name"`
	Capabilities []string `json:"capabilities"`
}

// ListFormatsResult is the list_creative_formats response payload.
type ListFormatsResult struct {
	Formats        []models.Format     `json:"formats"`
	CreativeAgents []CreativeAgentInfo `json:"creative_agents"`
	Message        string              `json:"-"`
}

// ListCreativeFormats filters the catalog and describes the outcome in a
// human-readable message alongside the structured data.
func (s *Service) ListCreativeFormats(crit catalog.Criteria) ListFormatsResult {
	for i := range crit.FormatIDs {
		crit.FormatIDs[i] = s.NormalizeFormatID(crit.FormatIDs[i])
	}

	formats := s.catalog.Filter(crit)
	if formats == nil {
		formats = []models.Format{}
	}

	plural := "s"
	if len(formats) == 1 {
		plural = ""
	}
	message := fmt.Sprintf("Found %d creative format%s", len(formats), plural)
	if desc := describeFilters(crit); desc != "" {
		message += fmt.Sprintf(" matching filters (%s)", desc)
	}

	return ListFormatsResult{
		Formats: formats,
		CreativeAgents: []CreativeAgentInfo{{
			AgentURL:     s.agentURL,
			AgentName:    s.agentName,
			Capabilities: catalog.AgentCapabilities,
		}},
		Message: message,
	}
}

func describeFilters(crit catalog.Criteria) string {
	var parts []string
	if crit.Type != "" {
		parts = append(parts, fmt.Sprintf("type=%s", crit.Type))
	}
	if crit.MaxWidth != nil || crit.MaxHeight != nil {
		w, h := "∞", "∞"
		if crit.MaxWidth != nil {
			w = fmt.Sprintf("%d", *crit.MaxWidth)
		}
		if crit.MaxHeight != nil {
			h = fmt.Sprintf("%d", *crit.MaxHeight)
		}
		parts = append(parts, fmt.Sprintf("dimensions<=%sx%s", w, h))
	}
	return strings.Join(parts, ", ")
}
