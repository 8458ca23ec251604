package merchant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAIChat implements Classifier and Responder over the OpenAI chat
// completions endpoint.
type OpenAIChat struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewOpenAIChat creates a chat completions client.
func NewOpenAIChat(opts ...Option) (*OpenAIChat, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAIBaseURL
	}

	return &OpenAIChat{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  cfg.Logger.With("component", "merchant.openai"),
		baseURL: baseURL,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionsRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// intentPayload is the JSON shape the classifier prompt asks the model for.
// Loose types on purpose: anything that does not parse degrades to unknown.
type intentPayload struct {
	Intent     string   `json:"intent"`
	Item       string   `json:"item"`
	Confidence *float64 `json:"confidence"`
}

// Classify implements Classifier. Model output that cannot be parsed as an
// intent payload yields IntentUnknown, never an error.
func (o *OpenAIChat) Classify(ctx context.Context, system string, history []Turn) (Decision, error) {
	content, err := o.complete(ctx, system, history, &responseFormat{Type: "json_object"})
	if err != nil {
		return Decision{}, err
	}

	var payload intentPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		o.logger.Warn("unparseable intent payload, defaulting to unknown", "content", content)
		return Decision{Intent: IntentUnknown}, nil
	}

	decision := Decision{
		Intent: ParseIntent(payload.Intent),
		Item:   strings.TrimSpace(payload.Item),
	}
	if payload.Confidence != nil {
		decision.Confidence = *payload.Confidence
	}

	o.logger.Debug("intent classified",
		"intent", decision.Intent,
		"item", decision.Item,
		"confidence", decision.Confidence,
	)
	return decision, nil
}

// Reply implements Responder.
func (o *OpenAIChat) Reply(ctx context.Context, system string, history []Turn) (string, error) {
	content, err := o.complete(ctx, system, history, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (o *OpenAIChat) complete(ctx context.Context, system string, history []Turn, format *responseFormat) (string, error) {
	messages := make([]chatMessage, 0, len(history)+1)
	messages = append(messages, chatMessage{Role: "system", Content: system})
	for _, turn := range history {
		role := "user"
		if turn.Role == RoleMerchant {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: turn.Text})
	}

	body, err := json.Marshal(chatCompletionsRequest{
		Model:          o.config.Model,
		Messages:       messages,
		Temperature:    o.config.Temperature,
		ResponseFormat: format,
	})
	if err != nil {
		return "", fmt.Errorf("merchant: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("merchant: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("merchant: chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", NewAPIError(resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("merchant: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", NewAPIError(resp.StatusCode, "empty choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Ensure OpenAIChat implements both provider roles.
var (
	_ Classifier = (*OpenAIChat)(nil)
	_ Responder  = (*OpenAIChat)(nil)
)
