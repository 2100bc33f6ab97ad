package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/qaforge/qaforge/internal/store"
)

// LoggingProvider is a decorator that records every generation call as an
// event in the store. Logging failures are warned about, never propagated:
// the pipeline must not lose a seed because the event log hiccuped.
type LoggingProvider struct {
	inner    Provider
	events   store.EventRepo
	provider string
}

// WithLogging wraps a Provider with event logging under the given
// provider name. A nil repo disables logging and the provider becomes a
// passthrough.
func WithLogging(p Provider, events store.EventRepo, provider string) Provider {
	return &LoggingProvider{inner: p, events: events, provider: provider}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if l.events == nil {
		return l.inner.Generate(ctx, req)
	}

	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	data := store.GenerationEventData{
		RunID:       RunIDFrom(ctx),
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: req.Prompt,
	}

	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.ResponseBody = resp.Text
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	if logErr := l.events.Append(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log generation event: %v\n", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
