package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gift-advisor/internal/domain/ports/adapter"
)

func TestOpenRouterAdapter_CompleteWithUsage(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Model    string            `json:"model"`
		Messages []adapter.Message `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "A nice scarf."}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
		}`))
	}))
	defer srv.Close()

	o, err := NewOpenRouterAdapter("test-key", srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	msgs := []adapter.Message{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "gift for my sister"},
	}
	reply, usage, err := o.CompleteWithUsage(context.Background(), "test-model", msgs)
	if err != nil {
		t.Fatalf("CompleteWithUsage: %v", err)
	}
	if reply != "A nice scarf." {
		t.Errorf("reply: got %q", reply)
	}
	if usage.TotalTokens != 17 || usage.PromptTokens != 12 || usage.Provider != "openrouter" {
		t.Errorf("usage: got %+v", usage)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header: got %q", gotAuth)
	}
	if gotBody.Model != "test-model" || len(gotBody.Messages) != 2 {
		t.Errorf("request body: got %+v", gotBody)
	}
}

func TestOpenRouterAdapter_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	o, _ := NewOpenRouterAdapter("k", srv.URL)
	if _, _, err := o.CompleteWithUsage(context.Background(), "m", []adapter.Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestOpenRouterAdapter_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	o, _ := NewOpenRouterAdapter("k", srv.URL)
	if _, _, err := o.CompleteWithUsage(context.Background(), "m", []adapter.Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestOpenRouterAdapter_CountTokens(t *testing.T) {
	o, _ := NewOpenRouterAdapter("k", "")
	n, err := o.CountTokens(context.Background(), "m", []adapter.Message{
		{Role: "user", Content: "I need a gift for my sister who loves hiking"},
	})
	if err != nil {
		t.Fatalf("CountTokens: %v", err)
	}
	if n <= 0 {
		t.Errorf("expected positive token count, got %d", n)
	}
}
