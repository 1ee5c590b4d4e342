package services

import (
	"strings"
	"testing"

	"github.com/ufgtutor/tutoria-backend/internal/domain"
)

func TestBuildSynthesizesSystemPreamble(t *testing.T) {
	b := NewPromptBuilder(testLogger(t))

	history := []domain.Message{
		{Role: domain.RoleUser, Content: "¿Qué es una célula?"},
	}
	out := b.Build(history, nil)

	if len(out) != 2 {
		t.Fatalf("expected [system, user], got %d messages", len(out))
	}
	if out[0].Role != domain.RoleSystem {
		t.Fatalf("first message role=%q, want system", out[0].Role)
	}
	if !strings.Contains(out[0].Content, "tutor académico") {
		t.Fatalf("preamble missing persona: %q", out[0].Content)
	}
	if strings.Contains(out[0].Content, "imágenes") {
		t.Fatalf("image clause should be absent without image attachments: %q", out[0].Content)
	}
	if out[1].Role != domain.RoleUser || out[1].Content != "¿Qué es una célula?" {
		t.Fatalf("user turn altered: %+v", out[1])
	}
}

func TestBuildKeepsCallerSystemMessage(t *testing.T) {
	b := NewPromptBuilder(testLogger(t))

	history := []domain.Message{
		{Role: domain.RoleSystem, Content: "Responde solo en inglés."},
		{Role: domain.RoleUser, Content: "hola"},
	}
	out := b.Build(history, &domain.StudentProfile{Name: "Ana", Career: "Medicina"})

	if len(out) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(out))
	}
	systems := 0
	for _, m := range out {
		if m.Role == domain.RoleSystem {
			systems++
		}
	}
	if systems != 1 {
		t.Fatalf("expected exactly one system message, got %d", systems)
	}
	if out[0].Content != "Responde solo en inglés." {
		t.Fatalf("caller system message replaced: %q", out[0].Content)
	}
}

func TestBuildProfileClause(t *testing.T) {
	b := NewPromptBuilder(testLogger(t))

	out := b.Build(
		[]domain.Message{{Role: domain.RoleUser, Content: "hola"}},
		&domain.StudentProfile{Name: "Carlos", Career: "Ingeniería en Sistemas"},
	)
	preamble := out[0].Content
	if !strings.Contains(preamble, "Carlos") || !strings.Contains(preamble, "Ingeniería en Sistemas") {
		t.Fatalf("profile clause missing learner details: %q", preamble)
	}
}

func TestBuildImageNoticeInPreambleAndMessage(t *testing.T) {
	b := NewPromptBuilder(testLogger(t))

	history := []domain.Message{
		{
			Role:    domain.RoleUser,
			Content: "¿Qué dice la pizarra?",
			Attachments: []domain.Attachment{
				{FileName: "pizarra.png", DeclaredType: "image/png"},
			},
		},
	}
	out := b.Build(history, nil)

	if len(out) != 2 {
		t.Fatalf("expected [system, user], got %d", len(out))
	}
	preamble := out[0].Content
	if !strings.Contains(preamble, "tutor académico") {
		t.Fatalf("preamble missing persona: %q", preamble)
	}
	if !strings.Contains(preamble, "no puedo ver las imágenes directamente") {
		t.Fatalf("preamble missing image disclosure: %q", preamble)
	}
	if !strings.Contains(out[1].Content, "[El usuario ha adjuntado imagen: pizarra.png]") {
		t.Fatalf("user turn missing attachment notice: %q", out[1].Content)
	}
}

func TestBuildEmbedsExtractedTextWithAttribution(t *testing.T) {
	b := NewPromptBuilder(testLogger(t))

	history := []domain.Message{
		{
			Role:    domain.RoleUser,
			Content: "Resúmeme esto",
			Attachments: []domain.Attachment{
				{FileName: "apuntes.txt", DeclaredType: "text/plain", ExtractedText: "la mitosis tiene cuatro fases"},
			},
		},
	}
	out := b.Build(history, nil)

	content := out[1].Content
	if !strings.Contains(content, `[Contenido de "apuntes.txt":`) {
		t.Fatalf("missing attribution line: %q", content)
	}
	if !strings.Contains(content, "la mitosis tiene cuatro fases") {
		t.Fatalf("missing embedded text: %q", content)
	}
	if strings.Contains(content, truncationMarker) {
		t.Fatalf("short text must not carry the truncation marker: %q", content)
	}
}

func TestBuildTruncationBoundary(t *testing.T) {
	b := NewPromptBuilder(testLogger(t))

	cases := []struct {
		name       string
		textLen    int
		wantMarker bool
	}{
		{name: "exactly_at_cap", textLen: maxEmbeddedChars, wantMarker: false},
		{name: "one_over_cap", textLen: maxEmbeddedChars + 1, wantMarker: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text := strings.Repeat("x", tc.textLen)
			history := []domain.Message{
				{
					Role:    domain.RoleUser,
					Content: "lee esto",
					Attachments: []domain.Attachment{
						{FileName: "largo.txt", DeclaredType: "text/plain", ExtractedText: text},
					},
				},
			}
			content := b.Build(history, nil)[1].Content

			hasMarker := strings.Contains(content, truncationMarker)
			if hasMarker != tc.wantMarker {
				t.Fatalf("marker presence=%v, want %v", hasMarker, tc.wantMarker)
			}
			if tc.wantMarker {
				if strings.Contains(content, strings.Repeat("x", maxEmbeddedChars+1)) {
					t.Fatal("embedded text exceeds the cap")
				}
				if !strings.Contains(content, strings.Repeat("x", maxEmbeddedChars)+truncationMarker) {
					t.Fatal("truncated text must be the first 2000 characters plus the marker")
				}
			} else if !strings.Contains(content, text) {
				t.Fatal("text at the cap must be embedded whole")
			}
		})
	}
}

func TestBuildPreservesOrderAndRoles(t *testing.T) {
	b := NewPromptBuilder(testLogger(t))

	history := []domain.Message{
		{Role: domain.RoleUser, Content: "uno"},
		{Role: domain.RoleAssistant, Content: "dos"},
		{Role: domain.RoleUser, Content: "tres"},
	}
	out := b.Build(history, nil)

	wantRoles := []string{domain.RoleSystem, domain.RoleUser, domain.RoleAssistant, domain.RoleUser}
	if len(out) != len(wantRoles) {
		t.Fatalf("got %d messages, want %d", len(out), len(wantRoles))
	}
	for i, want := range wantRoles {
		if out[i].Role != want {
			t.Fatalf("message %d role=%q, want %q", i, out[i].Role, want)
		}
	}
	// Input history untouched.
	if history[0].Content != "uno" || len(history[0].Attachments) != 0 {
		t.Fatalf("builder mutated input history: %+v", history[0])
	}
}
