package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client is the LLM client for the OpenRouter-compatible analysis service.
type Client struct {
	config *Config
	http   *http.Client
}

// NewClient creates a new LLM client.
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	config.SetDefaults()

	return &Client{
		config: config,
		http: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// ChatRequest represents a request to the service (OpenAI-compatible).
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []ChatMsg `json:"messages"`
}

// ChatMsg represents a message in the conversation.
type ChatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse represents a response from the service.
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// GenerateStructured generates a structured output from the LLM with
// validation and retry. T is the type of the structured output; validate is
// an optional function that rejects invalid outputs. Validation and parse
// failures are fed back to the model; network, API and timeout errors are
// returned immediately for the caller to decide on retry.
func GenerateStructured[T any](
	client *Client,
	ctx context.Context,
	model string,
	prompt string,
	validate func(*T) error,
) (*T, error) {
	if model == "" {
		model = client.config.DefaultModel
	}

	originalPrompt := prompt
	var lastErr error

	for attempt := 1; attempt <= client.config.MaxRetries; attempt++ {
		slog.Info("LLM generation attempt",
			"attempt", attempt,
			"model", model,
			"prompt_length", len(prompt),
		)

		result, err := callChatCompletions[T](client, ctx, model, prompt)
		if err != nil {
			lastErr = err
			var llmErr *LLMError
			if errors.As(err, &llmErr) && llmErr.Unavailable() {
				return nil, err
			}
			// Parse errors - retry with feedback
			prompt = fmt.Sprintf("%s\n\nPREVIOUS ATTEMPT FAILED:\nError: %v\n\nPlease return valid JSON matching the exact structure requested.", originalPrompt, err)
			continue
		}

		if validate != nil {
			if err := validate(result); err != nil {
				lastErr = NewValidationError(err.Error(), err)
				slog.Warn("LLM output validation failed",
					"attempt", attempt,
					"error", err.Error(),
				)
				// Feed validation error back to the model
				prompt = fmt.Sprintf("%s\n\nPREVIOUS VALIDATION ERROR:\n%v\n\nPlease fix the output to pass validation.", originalPrompt, err)
				continue
			}
		}

		slog.Info("LLM generation succeeded",
			"attempt", attempt,
			"model", model,
		)
		return result, nil
	}

	return nil, fmt.Errorf("validation failed after %d attempts: %w", client.config.MaxRetries, lastErr)
}

// callChatCompletions makes a single HTTP call to the chat completions API.
func callChatCompletions[T any](client *Client, ctx context.Context, model, prompt string) (*T, error) {
	reqBody := ChatRequest{
		Model: model,
		Messages: []ChatMsg{
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := client.config.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+client.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		slog.Error("analysis HTTP request failed",
			"error", err.Error(),
			"duration", duration,
		)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewNetworkError(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Failed to close response body", "error", err)
		}
	}()

	slog.Info("analysis HTTP request completed",
		"status_code", resp.StatusCode,
		"duration", duration,
	)

	if resp.StatusCode != http.StatusOK {
		var errBody bytes.Buffer
		if _, err := errBody.ReadFrom(resp.Body); err != nil {
			slog.Warn("Failed to read error response body", "error", err)
			return nil, NewAPIError(resp.StatusCode, fmt.Sprintf("status %d (failed to read error body)", resp.StatusCode))
		}
		return nil, NewAPIError(resp.StatusCode, errBody.String())
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, NewAPIError(0, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return nil, NewAPIError(0, "no choices in response")
	}

	content := chatResp.Choices[0].Message.Content

	// Some models wrap JSON in ```json...```
	content = cleanMarkdownCodeBlocks(content)

	var result T
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, NewParseError(content, err)
	}

	return &result, nil
}

// cleanMarkdownCodeBlocks removes markdown code block wrappers from JSON.
func cleanMarkdownCodeBlocks(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSpace(content)
	}

	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	return content
}
