package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OllamaProvider implements Provider against a running Ollama instance
// using the non-streaming generate route (POST /api/generate).
type OllamaProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaProvider creates an OllamaProvider. The timeout bounds each
// generate call; local models can take a while, so it defaults high.
func NewOllamaProvider(cfg OllamaConfig, timeout time.Duration) *OllamaProvider {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaProvider{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type ollamaGenerateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
}

type ollamaGenerateResponse struct {
	Response        string `json:"response"`
	Model           string `json:"model"`
	Done            bool   `json:"done"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Generate performs a non-streaming completion via POST /api/generate.
// Non-2xx statuses map to *ErrHTTPStatus with the body captured;
// transport failures and request timeouts map to *ErrUnavailable. Only
// cancellation of the caller's context passes through as a context error.
func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:       p.model,
		Prompt:      req.Prompt,
		Stream:      false,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, err
	}

	url := p.baseURL + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		// Only a dead parent context is cancellation. A client-timeout
		// error also satisfies errors.Is(err, context.DeadlineExceeded),
		// but that is a per-request transport failure, not a reason to
		// stop the caller's batch.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ErrRateLimit{Err: &ErrHTTPStatus{StatusCode: resp.StatusCode, Body: string(b)}}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ErrHTTPStatus{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("decode generate response: %w", err)}
	}

	model := out.Model
	if model == "" {
		model = p.model
	}

	return &Response{
		Text: out.Response,
		Usage: Usage{
			InputTokens:  out.PromptEvalCount,
			OutputTokens: out.EvalCount,
			TotalTokens:  out.PromptEvalCount + out.EvalCount,
		},
		Model:      model,
		StopReason: mapOllamaStopReason(out.DoneReason),
	}, nil
}

func (p *OllamaProvider) ModelID() string {
	return p.model
}

func mapOllamaStopReason(reason string) string {
	switch reason {
	case "length":
		return "max_tokens"
	default:
		return "end"
	}
}
