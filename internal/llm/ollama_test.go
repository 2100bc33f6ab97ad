package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestOllama_Generate(t *testing.T) {
	var gotReq ollamaGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"response":          `[{"question":"q?","answer":"a"}]`,
			"model":             "llama3",
			"done":              true,
			"done_reason":       "stop",
			"prompt_eval_count": 42,
			"eval_count":        128,
		})
	}))
	defer server.Close()

	p := NewOllamaProvider(OllamaConfig{BaseURL: server.URL, Model: "llama3"}, 5*time.Second)

	resp, err := p.Generate(context.Background(), Request{
		Prompt:      "generate things",
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotReq.Model != "llama3" {
		t.Fatalf("unexpected model in request: %q", gotReq.Model)
	}
	if gotReq.Stream {
		t.Fatal("stream must be false")
	}
	if gotReq.Temperature != 0.7 {
		t.Fatalf("unexpected temperature: %v", gotReq.Temperature)
	}
	if gotReq.Prompt != "generate things" {
		t.Fatalf("unexpected prompt: %q", gotReq.Prompt)
	}

	if !strings.Contains(resp.Text, "question") {
		t.Fatalf("unexpected response text: %q", resp.Text)
	}
	if resp.Usage.TotalTokens != 170 {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Fatalf("unexpected stop reason: %q", resp.StopReason)
	}
}

func TestOllama_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	p := NewOllamaProvider(OllamaConfig{BaseURL: server.URL, Model: "nope"}, 5*time.Second)

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	var httpErr *ErrHTTPStatus
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected ErrHTTPStatus, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", httpErr.StatusCode)
	}
	if !strings.Contains(httpErr.Body, "model not found") {
		t.Fatalf("body not captured: %q", httpErr.Body)
	}
}

func TestOllama_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewOllamaProvider(OllamaConfig{BaseURL: server.URL, Model: "m"}, 5*time.Second)

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T: %v", err, err)
	}
}

func TestOllama_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	p := NewOllamaProvider(OllamaConfig{BaseURL: server.URL, Model: "m"}, 5*time.Second)

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	var unavail *ErrUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrUnavailable, got %T: %v", err, err)
	}
}

func TestOllama_ClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	p := NewOllamaProvider(OllamaConfig{BaseURL: server.URL, Model: "m"}, 50*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	var unavail *ErrUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("a request timeout is a transport failure, got %T: %v", err, err)
	}
	if errors.Is(err, context.Canceled) {
		t.Fatalf("timeout must not look like caller cancellation: %v", err)
	}
}

func TestOllama_ContextCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server watches the connection and
		// notices the client going away.
		_, _ = io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	p := NewOllamaProvider(OllamaConfig{BaseURL: server.URL, Model: "m"}, 30*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := p.Generate(ctx, Request{Prompt: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOllama_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	p := NewOllamaProvider(OllamaConfig{BaseURL: server.URL, Model: "m"}, 5*time.Second)

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T: %v", err, err)
	}
}
