package domain

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation turn. Messages are immutable once constructed;
// the prompt builder and orchestrator only read them.
type Message struct {
	Role        string       `json:"role"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// StudentProfile carries the optional learner identity used to personalize
// the tutor's system preamble.
type StudentProfile struct {
	Name   string `json:"name"`
	Career string `json:"career"`
}

// ModelCandidate identifies one (provider, model) pair the orchestrator may
// try. Candidates are static; list order encodes priority, most capable first.
type ModelCandidate struct {
	Model    string `json:"model" yaml:"model"`
	Provider string `json:"provider" yaml:"provider"`
}

// ID is the identifier the inference router expects: "model:provider", or the
// bare model name when no provider pin is set.
func (c ModelCandidate) ID() string {
	if c.Provider == "" {
		return c.Model
	}
	return c.Model + ":" + c.Provider
}
