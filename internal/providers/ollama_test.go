package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewOllamaNormalizesHost(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"", "http://localhost:11434/v1/chat/completions"},
		{"http://box:8080", "http://box:8080/v1/chat/completions"},
		{"http://box:8080/", "http://box:8080/v1/chat/completions"},
		{"http://box:8080/v1", "http://box:8080/v1/chat/completions"},
		{"http://box:8080/v1/chat/completions", "http://box:8080/v1/chat/completions"},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			t.Setenv("OLLAMA_HOST", tt.host)
			o, err := NewOllama("llama3.1", "")
			if err != nil {
				t.Fatalf("NewOllama: %v", err)
			}
			if o.baseURL != tt.want {
				t.Errorf("baseURL = %q, want %q", o.baseURL, tt.want)
			}
		})
	}
}

func TestOllama_Review(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("unexpected Authorization header %q without key", got)
		}
		if !strings.HasSuffix(r.URL.Path, "/v1/chat/completions") {
			t.Errorf("path = %q", r.URL.Path)
		}
		resp := openaiResponse{
			Choices: []openaiChoice{{Message: openaiMessage{Content: `{"issues":[]}`}}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	t.Setenv("OLLAMA_HOST", server.URL)
	o, err := NewOllama("llama3.1", "")
	if err != nil {
		t.Fatalf("NewOllama: %v", err)
	}
	o.client = server.Client()

	resp, err := o.Review(context.Background(), ReviewRequest{UserPrompt: "x"})
	if err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if resp.Content != `{"issues":[]}` {
		t.Errorf("Content = %q", resp.Content)
	}
}
