package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ufgtutor/tutoria-backend/internal/domain"
	"github.com/ufgtutor/tutoria-backend/internal/pkg/logger"
	"github.com/ufgtutor/tutoria-backend/internal/services"
)

// ChatHandler is the Chat Request surface: ordered message history (with
// attachments) plus an optional student profile in, one displayable reply
// string out. Provider failures never surface as an error status here; the
// orchestrator already degrades them to its apology string.
type ChatHandler struct {
	log    *logger.Logger
	prompt *services.PromptBuilder
	chat   services.ChatService
}

func NewChatHandler(log *logger.Logger, prompt *services.PromptBuilder, chat services.ChatService) *ChatHandler {
	return &ChatHandler{
		log:    log.With("handler", "ChatHandler"),
		prompt: prompt,
		chat:   chat,
	}
}

type chatRequest struct {
	Messages []domain.Message       `json:"messages"`
	Profile  *domain.StudentProfile `json:"profile,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if len(req.Messages) == 0 {
		RespondError(c, http.StatusBadRequest, "empty_messages", nil)
		return
	}
	for i, m := range req.Messages {
		switch m.Role {
		case domain.RoleSystem, domain.RoleUser, domain.RoleAssistant:
		default:
			RespondError(c, http.StatusBadRequest, "invalid_role", fmt.Errorf("message %d has role %q", i, m.Role))
			return
		}
	}

	built := h.prompt.Build(req.Messages, req.Profile)
	reply := h.chat.Complete(c.Request.Context(), built)

	RespondOK(c, chatResponse{Reply: reply})
}
