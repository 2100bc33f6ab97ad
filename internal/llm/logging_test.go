package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/qaforge/qaforge/internal/store"
)

// fakeEventRepo records appended events in memory.
type fakeEventRepo struct {
	events    []store.GenerationEventData
	appendErr error
}

func (f *fakeEventRepo) Append(_ context.Context, data store.GenerationEventData) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.events = append(f.events, data)
	return nil
}

func (f *fakeEventRepo) Query(context.Context, store.QueryOpts) ([]store.GenerationEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) Get(context.Context, int) (*store.GenerationEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) UsageByModel(context.Context) ([]store.ModelUsage, error) {
	return nil, nil
}

func TestLogging_RecordsSuccess(t *testing.T) {
	repo := &fakeEventRepo{}
	mock := NewMockProvider(
		MockResponse{Text: "hello", Usage: Usage{InputTokens: 7, OutputTokens: 13}},
	)
	p := WithLogging(mock, repo, "ollama")

	ctx := WithRunID(WithPurpose(context.Background(), "qa-gen"), "run-42")
	resp, err := p.Generate(ctx, Request{Prompt: "prompt text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "hello" {
		t.Fatalf("unexpected text: %q", resp.Text)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if !e.Success {
		t.Fatal("event should be marked successful")
	}
	if e.RunID != "run-42" || e.Purpose != "qa-gen" {
		t.Fatalf("context values not recorded: %+v", e)
	}
	if e.RequestBody != "prompt text" || e.ResponseBody != "hello" {
		t.Fatalf("bodies not recorded: %+v", e)
	}
	if e.InputTokens != 7 || e.OutputTokens != 13 {
		t.Fatalf("usage not recorded: %+v", e)
	}
	if e.Provider != "ollama" {
		t.Fatalf("provider name not recorded: %q", e.Provider)
	}
	if e.Model == e.Provider {
		t.Fatalf("provider column holds the model id: %q", e.Provider)
	}
}

func TestLogging_RecordsFailure(t *testing.T) {
	repo := &fakeEventRepo{}
	mock := NewMockProvider(
		MockResponse{Err: &ErrHTTPStatus{StatusCode: 500, Body: "boom"}},
	)
	p := WithLogging(mock, repo, "ollama")

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error")
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.Success {
		t.Fatal("event should be marked failed")
	}
	if e.ErrorMessage == "" {
		t.Fatal("error message should be recorded")
	}
}

func TestLogging_AppendFailureDoesNotPropagate(t *testing.T) {
	repo := &fakeEventRepo{appendErr: errors.New("disk full")}
	mock := NewMockProvider(
		MockResponse{Text: "ok"},
	)
	p := WithLogging(mock, repo, "ollama")

	resp, err := p.Generate(context.Background(), Request{Prompt: "x"})
	if err != nil {
		t.Fatalf("logging failure must not fail the call: %v", err)
	}
	if resp.Text != "ok" {
		t.Fatalf("unexpected text: %q", resp.Text)
	}
}

func TestLogging_NilRepoIsPassthrough(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "ok"},
	)
	p := WithLogging(mock, nil, "ollama")

	resp, err := p.Generate(context.Background(), Request{Prompt: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "ok" {
		t.Fatalf("unexpected text: %q", resp.Text)
	}
}
