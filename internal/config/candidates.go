package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ufgtutor/tutoria-backend/internal/domain"
	"github.com/ufgtutor/tutoria-backend/internal/pkg/logger"
	"github.com/ufgtutor/tutoria-backend/internal/utils"
)

// defaultCandidates is the built-in fallback order: most capable first, most
// degraded last. Only chat-completion capable deployments belong here.
var defaultCandidates = []domain.ModelCandidate{
	{Model: "deepseek-ai/DeepSeek-V3.2-Exp", Provider: "novita"},
	{Model: "meta-llama/Llama-3.1-8B-Instruct", Provider: "novita"},
	{Model: "mistralai/Mistral-7B-Instruct-v0.2", Provider: "featherless-ai"},
	{Model: "HuggingFaceH4/zephyr-7b-beta", Provider: "featherless-ai"},
}

type candidatesFile struct {
	Candidates []domain.ModelCandidate `yaml:"candidates"`
}

// LoadModelCandidates returns the ordered candidate list. When
// MODEL_CANDIDATES_FILE points at a YAML file its list replaces the built-in
// default; a missing or invalid file is an error, never a silent fallback.
func LoadModelCandidates(log *logger.Logger) ([]domain.ModelCandidate, error) {
	path := strings.TrimSpace(utils.GetEnv("MODEL_CANDIDATES_FILE", "", log))
	if path == "" {
		return defaultCandidates, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model candidates file: %w", err)
	}

	var f candidatesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse model candidates file: %w", err)
	}

	cleaned := make([]domain.ModelCandidate, 0, len(f.Candidates))
	for i, c := range f.Candidates {
		c.Model = strings.TrimSpace(c.Model)
		c.Provider = strings.TrimSpace(c.Provider)
		if c.Model == "" {
			return nil, fmt.Errorf("model candidates file: entry %d has no model", i)
		}
		cleaned = append(cleaned, c)
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("model candidates file %s lists no candidates", path)
	}
	return cleaned, nil
}
