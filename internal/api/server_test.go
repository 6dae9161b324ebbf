package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/patrickwarner/creativeserve/internal/agent"
	"github.com/patrickwarner/creativeserve/internal/catalog"
	"github.com/patrickwarner/creativeserve/internal/macros"
	"github.com/patrickwarner/creativeserve/internal/models"
	"github.com/patrickwarner/creativeserve/internal/observability"
	"github.com/patrickwarner/creativeserve/internal/storage"
	"github.com/patrickwarner/creativeserve/internal/validation"
	"go.uber.org/zap/zaptest"
)

const testAgentURL = "https://creative.test.example"

const (
	desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	phoneUA   = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
)

type fakeStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (s *fakeStore) Put(ctx context.Context, previewID, variant, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[previewID+"/"+variant] = html
	return nil
}

func (s *fakeStore) Get(ctx context.Context, previewID, variant string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	html, ok := s.data[previewID+"/"+variant]
	if !ok {
		return "", storage.ErrNotFound
	}
	return html, nil
}

func (s *fakeStore) Variants(ctx context.Context, previewID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	// Stable order so device fallback is deterministic.
	for _, variant := range []string{"desktop", "mobile", "tablet"} {
		if _, ok := s.data[previewID+"/"+variant]; ok {
			out = append(out, variant)
		}
	}
	return out, nil
}

func testRouter(t *testing.T) (*mux.Router, *fakeStore) {
	t.Helper()
	logger := zaptest.NewLogger(t)

	cat, err := catalog.New(catalog.Standard(testAgentURL))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	store := newFakeStore()
	svc := agent.New(agent.Options{
		Catalog:       cat,
		Validator:     validation.New(0),
		Store:         store,
		Expander:      macros.NewExpanderForTesting(logger, false),
		Logger:        logger,
		AgentURL:      testAgentURL,
		AgentName:     "Test Creative Agent",
		PublicBaseURL: "http://localhost:8790",
	})

	srv := NewServer(logger, svc, store, observability.NewNoOpRegistry())
	r := mux.NewRouter()
	srv.Routes(r)
	return r, store
}

func imageManifestJSON() string {
	return fmt.Sprintf(`{
		"format_id": {"agent_url": %q, "id": "display_300x250_image"},
		"assets": {
			"banner_image": {"url": "https://cdn.example.com/banner.png"},
			"click_url": {"url": "https://example.com/landing"}
		}
	}`, testAgentURL)
}

func TestFormatsEndpoint(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/formats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Formats        []models.Format `json:"formats"`
		CreativeAgents []struct {
			AgentURL string `json:"agent_url"`
		} `json:"creative_agents"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Formats) != 49 {
		t.Errorf("got %d formats, want 49", len(resp.Formats))
	}
	if len(resp.CreativeAgents) != 1 || resp.CreativeAgents[0].AgentURL != testAgentURL {
		t.Errorf("creative_agents = %+v", resp.CreativeAgents)
	}
}

func TestFormatsEndpointFilters(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/formats?type=audio", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp struct {
		Formats []models.Format `json:"formats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Formats) != 3 {
		t.Errorf("type=audio returned %d formats, want 3", len(resp.Formats))
	}
	for _, f := range resp.Formats {
		if f.Type != models.TypeAudio {
			t.Errorf("non-audio format in response: %s", f.FormatID.ID)
		}
	}
}

func TestPreviewPostSingle(t *testing.T) {
	r, store := testRouter(t)

	body := fmt.Sprintf(`{"format_id": {"id": "display_300x250_image"}, "creative_manifest": %s}`, imageManifestJSON())
	req := httptest.NewRequest(http.MethodPost, "/preview", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		ResponseType string           `json:"response_type"`
		Previews     []models.Preview `json:"previews"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ResponseType != "single" || len(resp.Previews) != 3 {
		t.Errorf("response_type=%s previews=%d", resp.ResponseType, len(resp.Previews))
	}
	if len(store.data) != 3 {
		t.Errorf("store has %d entries, want 3", len(store.data))
	}
}

func TestPreviewPostUnknownFormat(t *testing.T) {
	r, _ := testRouter(t)

	body := fmt.Sprintf(`{"format_id": {"id": "no_such_format"}, "creative_manifest": %s}`, imageManifestJSON())
	req := httptest.NewRequest(http.MethodPost, "/preview", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestPreviewPostValidationErrors(t *testing.T) {
	r, _ := testRouter(t)

	body := `{
		"format_id": {"id": "display_300x250_image"},
		"creative_manifest": {"assets": {"banner_image": {"url": "javascript:alert(1)"}}}
	}`
	req := httptest.NewRequest(http.MethodPost, "/preview", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Error            string   `json:"error"`
		ValidationErrors []string `json:"validation_errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "Asset validation failed" {
		t.Errorf("error = %q", resp.Error)
	}
	if len(resp.ValidationErrors) == 0 {
		t.Error("expected validation_errors in response")
	}
}

func TestPreviewPostInvalidBody(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/preview", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPreviewPostBatch(t *testing.T) {
	r, _ := testRouter(t)

	body := fmt.Sprintf(`{"requests": [
		{"format_id": {"id": "display_300x250_image"}, "creative_manifest": %s},
		{"format_id": {"id": "no_such_format"}, "creative_manifest": %s}
	]}`, imageManifestJSON(), imageManifestJSON())
	req := httptest.NewRequest(http.MethodPost, "/preview", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		ResponseType string `json:"response_type"`
		Results      []struct {
			Success bool `json:"success"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ResponseType != "batch" || len(resp.Results) != 2 {
		t.Fatalf("response = %s", w.Body.String())
	}
	if !resp.Results[0].Success || resp.Results[1].Success {
		t.Errorf("results = %+v", resp.Results)
	}
}

func TestPreviewGetStoredVariant(t *testing.T) {
	r, store := testRouter(t)

	const html = "<!DOCTYPE html><html><body>stored</body></html>"
	_ = store.Put(context.Background(), "p1", "desktop", html)

	req := httptest.NewRequest(http.MethodGet, "/preview/p1/desktop", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content-type = %q", ct)
	}
	if w.Body.String() != html {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestPreviewGetMissing(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/preview/nope/desktop", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestInteractivePreviewDeviceRouting(t *testing.T) {
	r, store := testRouter(t)
	ctx := context.Background()
	_ = store.Put(ctx, "p1", "desktop", "desktop variant")
	_ = store.Put(ctx, "p1", "mobile", "mobile variant")

	cases := []struct {
		ua   string
		want string
	}{
		{desktopUA, "desktop variant"},
		{phoneUA, "mobile variant"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/preview/p1/interactive", nil)
		req.Header.Set("User-Agent", tc.ua)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if w.Body.String() != tc.want {
			t.Errorf("ua %q got %q, want %q", tc.ua, w.Body.String(), tc.want)
		}
	}
}

func TestInteractivePreviewFallsBackToFirstVariant(t *testing.T) {
	r, store := testRouter(t)
	_ = store.Put(context.Background(), "p1", "tablet", "tablet variant")

	req := httptest.NewRequest(http.MethodGet, "/preview/p1/interactive", nil)
	req.Header.Set("User-Agent", desktopUA)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "tablet variant" {
		t.Errorf("status = %d, body = %q", w.Code, w.Body.String())
	}
}

func TestInteractivePreviewMissing(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/preview/nope/interactive", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestBuildPost(t *testing.T) {
	r, _ := testRouter(t)

	body := fmt.Sprintf(`{"target_format_id": {"id": "display_300x250_image"}, "creative_manifest": %s}`, imageManifestJSON())
	req := httptest.NewRequest(http.MethodPost, "/build", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Manifest models.CreativeManifest `json:"creative_manifest"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Manifest.FormatID.ID != "display_300x250_image" {
		t.Errorf("manifest format = %q", resp.Manifest.FormatID.ID)
	}
}

func TestBuildPostUnknownFormat(t *testing.T) {
	r, _ := testRouter(t)

	body := `{"target_format_id": {"id": "no_such_format"}}`
	req := httptest.NewRequest(http.MethodPost, "/build", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != `{"status":"ok"}` {
		t.Errorf("body = %q", w.Body.String())
	}
}
