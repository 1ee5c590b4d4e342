package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ufgtutor/tutoria-backend/internal/pkg/logger"
	"github.com/ufgtutor/tutoria-backend/internal/utils"
)

// Client is the chat-completions boundary of the Hugging Face inference
// router. It performs exactly one request per call; failover across model
// candidates is decided above this layer.
type Client interface {
	ChatCompletion(ctx context.Context, model string, messages []Message, opts Options) (string, error)
}

// Message is one role-tagged turn in the provider payload.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Options struct {
	MaxTokens   int
	Temperature float64
}

// HTTPError carries a non-2xx router response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("hf router http %d: %s", e.StatusCode, e.Body)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	slog := log.With("service", "HFClient")

	token := strings.TrimSpace(utils.GetEnv("HF_TOKEN", "", slog))
	if token == "" {
		return nil, fmt.Errorf("missing HF_TOKEN")
	}

	baseURL := strings.TrimRight(utils.GetEnv("HF_BASE_URL", "https://router.huggingface.co/v1", slog), "/")
	timeoutSec := utils.GetEnvAsInt("HF_TIMEOUT_SECONDS", 60, slog)

	return &client{
		log:        slog,
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *client) ChatCompletion(ctx context.Context, model string, messages []Message, opts Options) (string, error) {
	if model == "" {
		return "", fmt.Errorf("model required")
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("messages required")
	}

	body := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	raw, err := c.doOnce(ctx, http.MethodPost, "/chat/completions", body)
	if err != nil {
		return "", err
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("hf router decode: %w; raw=%s", err, string(raw))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("hf router returned no choices for model %s", model)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("hf router returned empty content for model %s", model)
	}
	return content, nil
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}
