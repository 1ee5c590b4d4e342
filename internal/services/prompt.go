package services

import (
	"fmt"
	"strings"

	"github.com/ufgtutor/tutoria-backend/internal/clients/hf"
	"github.com/ufgtutor/tutoria-backend/internal/domain"
	"github.com/ufgtutor/tutoria-backend/internal/pkg/logger"
)

const (
	basePersona = "Eres un tutor académico útil y amigable de la Universidad Francisco Gavidia (UFG). " +
		"Ayudas a los estudiantes con sus dudas académicas de manera clara y concisa."

	profileClause = "\n\nEstás ayudando a %s, estudiante de %s. Personaliza tus respuestas considerando su área de estudio."

	// The core wires no vision model, so the preamble has to say so or the
	// model will happily invent what it "sees".
	imagesClause = "\n\nEl usuario ha compartido imágenes. Aunque no puedo ver las imágenes directamente, " +
		"puedo ayudarte con preguntas sobre el contexto o el tema relacionado."

	// maxEmbeddedChars bounds each attachment's extracted text inside the
	// provider payload, counted in runes.
	maxEmbeddedChars = 2000
	truncationMarker = "...[texto truncado]"
)

// PromptBuilder folds conversation history, the tutor preamble and per
// attachment extracted text into the provider-agnostic message list. It never
// mutates the input history and emits at most one system message, always
// first.
type PromptBuilder struct {
	log *logger.Logger
}

func NewPromptBuilder(log *logger.Logger) *PromptBuilder {
	return &PromptBuilder{log: log.With("service", "PromptBuilder")}
}

func (b *PromptBuilder) Build(history []domain.Message, profile *domain.StudentProfile) []hf.Message {
	out := make([]hf.Message, 0, len(history)+1)

	// A caller-supplied system message wins; no second preamble is injected.
	if len(history) == 0 || history[0].Role != domain.RoleSystem {
		out = append(out, hf.Message{
			Role:    domain.RoleSystem,
			Content: b.systemPreamble(history, profile),
		})
	}

	for _, msg := range history {
		out = append(out, hf.Message{
			Role:    msg.Role,
			Content: foldAttachments(msg),
		})
	}
	return out
}

func (b *PromptBuilder) systemPreamble(history []domain.Message, profile *domain.StudentProfile) string {
	var sb strings.Builder
	sb.WriteString(basePersona)
	if profile != nil {
		sb.WriteString(fmt.Sprintf(profileClause, profile.Name, profile.Career))
	}
	if anyImageAttachment(history) {
		sb.WriteString(imagesClause)
	}
	return sb.String()
}

func anyImageAttachment(history []domain.Message) bool {
	for _, msg := range history {
		for _, att := range msg.Attachments {
			if strings.HasPrefix(strings.ToLower(att.DeclaredType), "image/") {
				return true
			}
		}
	}
	return false
}

// foldAttachments appends each attachment's readable content to the message
// text: extracted text with an attribution line, bounded by maxEmbeddedChars,
// or a one-line notice when no text is available.
func foldAttachments(msg domain.Message) string {
	if len(msg.Attachments) == 0 {
		return msg.Content
	}

	var sb strings.Builder
	sb.WriteString(msg.Content)
	for _, att := range msg.Attachments {
		if att.HasExtractedText() {
			sb.WriteString(fmt.Sprintf("\n\n[Contenido de %q:\n%s]", att.FileName, truncate(att.ExtractedText)))
			continue
		}
		category := "archivo"
		if strings.HasPrefix(strings.ToLower(att.DeclaredType), "image/") {
			category = "imagen"
		}
		sb.WriteString(fmt.Sprintf("\n\n[El usuario ha adjuntado %s: %s]", category, att.FileName))
	}
	return sb.String()
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxEmbeddedChars {
		return text
	}
	return string(runes[:maxEmbeddedChars]) + truncationMarker
}
