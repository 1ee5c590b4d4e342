package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ufgtutor/tutoria-backend/internal/clients/hf"
	"github.com/ufgtutor/tutoria-backend/internal/domain"
)

// scriptedClient returns one scripted outcome per call, in order.
type scriptedClient struct {
	replies []string
	errs    []error
	models  []string
}

func (c *scriptedClient) ChatCompletion(ctx context.Context, model string, messages []hf.Message, opts hf.Options) (string, error) {
	i := len(c.models)
	c.models = append(c.models, model)
	if i >= len(c.replies) {
		return "", errors.New("unexpected extra call")
	}
	return c.replies[i], c.errs[i]
}

func candidates(n int) []domain.ModelCandidate {
	names := []domain.ModelCandidate{
		{Model: "modelo/primero", Provider: "novita"},
		{Model: "modelo/segundo", Provider: "novita"},
		{Model: "modelo/tercero", Provider: "featherless-ai"},
	}
	return names[:n]
}

func userTurn(content string) []hf.Message {
	return []hf.Message{{Role: domain.RoleUser, Content: content}}
}

func TestCompleteFallsBackUntilSuccess(t *testing.T) {
	client := &scriptedClient{
		replies: []string{"", "", "42"},
		errs:    []error{errors.New("rate limited"), errors.New("cold start"), nil},
	}
	svc := NewChatService(testLogger(t), client, candidates(3))

	got := svc.Complete(context.Background(), userTurn("¿Qué es una célula?"))

	if got != "42" {
		t.Fatalf("Complete=%q, want %q", got, "42")
	}
	if len(client.models) != 3 {
		t.Fatalf("attempted %d calls, want 3", len(client.models))
	}
	wantOrder := []string{"modelo/primero:novita", "modelo/segundo:novita", "modelo/tercero:featherless-ai"}
	for i, want := range wantOrder {
		if client.models[i] != want {
			t.Fatalf("attempt %d hit %q, want %q", i+1, client.models[i], want)
		}
	}
}

func TestCompleteStopsAtFirstSuccess(t *testing.T) {
	client := &scriptedClient{
		replies: []string{"respuesta inmediata", "", ""},
		errs:    []error{nil, nil, nil},
	}
	svc := NewChatService(testLogger(t), client, candidates(3))

	got := svc.Complete(context.Background(), userTurn("hola"))

	if got != "respuesta inmediata" {
		t.Fatalf("Complete=%q", got)
	}
	if len(client.models) != 1 {
		t.Fatalf("attempted %d calls, want 1", len(client.models))
	}
}

func TestCompleteExhaustionReturnsApology(t *testing.T) {
	client := &scriptedClient{
		replies: []string{"", "", ""},
		errs:    []error{errors.New("500"), errors.New("timeout"), errors.New("429")},
	}
	svc := NewChatService(testLogger(t), client, candidates(3))

	got := svc.Complete(context.Background(), userTurn("hola"))

	if got != ExhaustedReply {
		t.Fatalf("Complete=%q, want the fixed apology", got)
	}
	if len(client.models) != 3 {
		t.Fatalf("attempted %d calls, want exactly 3 with no retries", len(client.models))
	}
}

func TestCompleteTreatsWhitespaceReplyAsFailure(t *testing.T) {
	client := &scriptedClient{
		replies: []string{"   \n\t ", "de verdad"},
		errs:    []error{nil, nil},
	}
	svc := NewChatService(testLogger(t), client, candidates(2))

	got := svc.Complete(context.Background(), userTurn("hola"))

	if got != "de verdad" {
		t.Fatalf("Complete=%q", got)
	}
	if len(client.models) != 2 {
		t.Fatalf("attempted %d calls, want 2", len(client.models))
	}
}

func TestCompleteCancelledContextStillReturnsString(t *testing.T) {
	client := &scriptedClient{replies: []string{""}, errs: []error{nil}}
	svc := NewChatService(testLogger(t), client, candidates(3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := svc.Complete(ctx, userTurn("hola"))

	if got != ExhaustedReply {
		t.Fatalf("Complete=%q, want the fixed apology", got)
	}
	if len(client.models) != 0 {
		t.Fatalf("cancelled context must not issue provider calls, got %d", len(client.models))
	}
}
