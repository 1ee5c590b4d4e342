package services

import (
	"context"
	"strings"
	"time"

	"github.com/ufgtutor/tutoria-backend/internal/clients/hf"
	"github.com/ufgtutor/tutoria-backend/internal/domain"
	"github.com/ufgtutor/tutoria-backend/internal/pkg/logger"
	"github.com/ufgtutor/tutoria-backend/internal/utils"
)

// ExhaustedReply is what the student sees when every candidate failed. The
// diagnostic detail stays in operator logs.
const ExhaustedReply = "Lo siento, el servicio de IA no está disponible en este momento. Por favor intenta más tarde."

// ChatService submits a built context to a priority-ordered candidate list,
// failing over without delay until one returns usable content. Its contract
// is "always returns a displayable string": the caller never handles a hard
// error for this operation.
type ChatService interface {
	Complete(ctx context.Context, messages []hf.Message) string
}

type chatService struct {
	log        *logger.Logger
	client     hf.Client
	candidates []domain.ModelCandidate
	opts       hf.Options
}

func NewChatService(log *logger.Logger, client hf.Client, candidates []domain.ModelCandidate) ChatService {
	slog := log.With("service", "ChatService")
	return &chatService{
		log:        slog,
		client:     client,
		candidates: candidates,
		opts: hf.Options{
			MaxTokens:   utils.GetEnvAsInt("CHAT_MAX_TOKENS", 500, slog),
			Temperature: utils.GetEnvAsFloat("CHAT_TEMPERATURE", 0.7, slog),
		},
	}
}

func (s *chatService) Complete(ctx context.Context, messages []hf.Message) string {
	// Attempts are strictly sequential: the try-then-fallback order is the
	// contract, so no speculative fan-out across candidates.
	for i, cand := range s.candidates {
		if ctx.Err() != nil {
			s.log.Warn("Completion abandoned before exhausting candidates",
				"attempted", i,
				"error", ctx.Err(),
			)
			return ExhaustedReply
		}

		start := time.Now()
		reply, err := s.client.ChatCompletion(ctx, cand.ID(), messages, s.opts)
		if err != nil {
			s.log.Warn("Model candidate failed",
				"candidate", cand.ID(),
				"attempt", i+1,
				"of", len(s.candidates),
				"latency_ms", time.Since(start).Milliseconds(),
				"error", err,
			)
			continue
		}

		reply = strings.TrimSpace(reply)
		if reply == "" {
			s.log.Warn("Model candidate returned empty reply",
				"candidate", cand.ID(),
				"attempt", i+1,
				"of", len(s.candidates),
			)
			continue
		}

		s.log.Info("Completion succeeded",
			"candidate", cand.ID(),
			"attempt", i+1,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return reply
	}

	s.log.Error("All model candidates exhausted", "candidates", len(s.candidates))
	return ExhaustedReply
}
