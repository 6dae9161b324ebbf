package gen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/patrickwarner/creativeserve/internal/observability"
	"go.uber.org/zap/zaptest"
)

func geminiResponseBody(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return string(b)
}

func testClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewGeminiClient(srv.URL, "test-key", "gemini-test", 5*time.Second,
		zaptest.NewLogger(t), observability.NewNoOpRegistry())
	return client
}

func TestGenerateManifestUnwrapsJSONFence(t *testing.T) {
	manifest := `{"format_id": "display_300x250_image", "assets": {}}`
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		if !strings.HasSuffix(r.URL.Path, "/v1beta/models/gemini-test:generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, geminiResponseBody("Here you go:\n```json\n"+manifest+"\n```\nEnjoy!"))
	})

	raw, err := client.GenerateManifest(context.Background(), "make a banner")
	if err != nil {
		t.Fatalf("GenerateManifest: %v", err)
	}
	if string(raw) != manifest {
		t.Errorf("got %q, want %q", raw, manifest)
	}
}

func TestGenerateManifestBareJSON(t *testing.T) {
	manifest := `{"assets": {}}`
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiResponseBody("  "+manifest+"  "))
	})

	raw, err := client.GenerateManifest(context.Background(), "make a banner")
	if err != nil {
		t.Fatalf("GenerateManifest: %v", err)
	}
	if string(raw) != manifest {
		t.Errorf("got %q, want %q", raw, manifest)
	}
}

func TestGenerateManifestHTTPError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.GenerateManifest(context.Background(), "make a banner")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "http 429") {
		t.Errorf("got %v", err)
	}
}

func TestGenerateManifestEmptyResponse(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates": []}`)
	})

	_, err := client.GenerateManifest(context.Background(), "make a banner")
	if err == nil || !strings.Contains(err.Error(), "empty generation response") {
		t.Errorf("got %v", err)
	}
}
