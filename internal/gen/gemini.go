// Package gen calls the AI generation backend that produces creative
// manifests for generative formats.
package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/patrickwarner/creativeserve/internal/observability"
	"go.uber.org/zap"
)

// Generator produces raw manifest JSON from a generation prompt.
type Generator interface {
	GenerateManifest(ctx context.Context, prompt string) (json.RawMessage, error)
}

// GeminiClient provides access to the Gemini generateContent API.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    observability.MetricsRegistry
}

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the subset of the generateContent response we consume.
type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

var jsonFenceRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger, metrics observability.MetricsRegistry) *GeminiClient {
	return &GeminiClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// GenerateManifest sends the prompt to Gemini and returns the manifest JSON
// from the response, unwrapping a ```json fence when the model adds one.
func (c *GeminiClient) GenerateManifest(ctx context.Context, prompt string) (json.RawMessage, error) {
	text, err := c.generateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if m := jsonFenceRe.FindStringSubmatch(text); m != nil {
		return json.RawMessage(m[1]), nil
	}
	return json.RawMessage(strings.TrimSpace(text)), nil
}

// generateContent makes the actual HTTP call to the Gemini API.
func (c *GeminiClient) generateContent(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	outcome := "success"
	defer func() {
		c.metrics.RecordGenerationLatency(time.Since(start))
		c.metrics.IncrementGenerationRequests(outcome)
	}()

	reqBody, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		outcome = "failure"
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		outcome = "failure"
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		outcome = "failure"
		return "", fmt.Errorf("http request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil && c.logger != nil {
			c.logger.Warn("failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		outcome = "failure"
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		outcome = "failure"
		return "", fmt.Errorf("decode response: %w", err)
	}

	var text strings.Builder
	for _, candidate := range parsed.Candidates {
		for _, part := range candidate.Content.Parts {
			text.WriteString(part.Text)
		}
		break
	}
	if text.Len() == 0 {
		outcome = "failure"
		return "", fmt.Errorf("empty generation response")
	}
	return text.String(), nil
}

// SetBaseURL sets the base URL for the Gemini API (for testing).
func (c *GeminiClient) SetBaseURL(url string) {
	c.baseURL = url
}
