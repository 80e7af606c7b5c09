package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/telhawk-systems/telhawk-assist/common/logging"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

const defaultBaseURL = "https://api.openai.com/v1"

// maxErrorBody bounds how much of an error response is echoed into errors.
const maxErrorBody = 512

// Config configures an OpenAIClient.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature *float64
	MaxTokens   int
	// Timeout bounds a single completion request. Zero means no timeout.
	Timeout time.Duration
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature *float64        `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Tools       []openaiTool    `json:"tools,omitempty"`
	ToolChoice  string          `json:"tool_choice,omitempty"`
}

type openaiMessage struct {
	Role       string           `json:"role"`
	Content    string           `json:"content"`
	ToolCalls  []openaiToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

type openaiTool struct {
	Type     string         `json:"type"`
	Function openaiFunction `json:"function"`
}

type openaiFunction struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  interface{} `json:"parameters"`
}

type openaiToolCall struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Function openaiCallFunction `json:"function"`
}

type openaiCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type openaiResponse struct {
	ID      string         `json:"id"`
	Choices []openaiChoice `json:"choices"`
	Error   *openaiError   `json:"error,omitempty"`
}

type openaiChoice struct {
	Index        int           `json:"index"`
	Message      openaiMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openaiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// OpenAIClient implements Engine over the OpenAI chat completions API or
// any server speaking the same wire format.
//
// Thread Safety: OpenAIClient is safe for concurrent use.
type OpenAIClient struct {
	httpClient *http.Client
	cfg        Config
	endpoint   string
	logger     *logging.Logger
}

// NewOpenAIClient creates a client from cfg.
func NewOpenAIClient(cfg Config, logger *logging.Logger) (*OpenAIClient, error) {
	if cfg.Model == "" {
		return nil, errors.New("engine: model is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}

	return &OpenAIClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		endpoint:   base + "/chat/completions",
		logger:     logging.OrDefault(logger),
	}, nil
}

// Complete sends one chat completion request.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	payload := openaiRequest{
		Model:       c.cfg.Model,
		Messages:    toWireMessages(req.Messages),
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	if len(req.Tools) > 0 {
		payload.Tools = make([]openaiTool, 0, len(req.Tools))
		for _, def := range req.Tools {
			payload.Tools = append(payload.Tools, openaiTool{
				Type: def.Type,
				Function: openaiFunction{
					Name:        def.Function.Name,
					Description: def.Function.Description,
					Parameters:  def.Function.Parameters,
				},
			})
		}
		payload.ToolChoice = "auto"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("engine: marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("engine: creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	c.logger.DebugContext(ctx, "engine request",
		"model", c.cfg.Model,
		"messages", len(payload.Messages),
		"tools", len(payload.Tools),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("engine: HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("engine: reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("engine: API returned status %d: %s", resp.StatusCode, truncate(string(respBody), maxErrorBody))
	}

	var apiResp openaiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("engine: parsing response JSON: %w", err)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("engine: API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return nil, errors.New("engine: returned no choices")
	}

	choice := apiResp.Choices[0]
	completion := &Completion{
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
	}
	for _, tc := range choice.Message.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, fromWireToolCall(tc))
	}
	return completion, nil
}

func toWireMessages(messages []Message) []openaiMessage {
	out := make([]openaiMessage, 0, len(messages))
	for _, m := range messages {
		msg := openaiMessage{Role: m.Role, Content: m.Content}
		if m.Role == RoleTool {
			msg.ToolCallID = m.ToolCallID
		}
		if m.Role == RoleAssistant {
			for _, tc := range m.ToolCalls {
				msg.ToolCalls = append(msg.ToolCalls, openaiToolCall{
					ID:   tc.ID,
					Type: "function",
					Function: openaiCallFunction{
						Name:      tc.Name,
						Arguments: argumentsString(tc.Arguments),
					},
				})
			}
		}
		out = append(out, msg)
	}
	return out
}

func fromWireToolCall(tc openaiToolCall) models.ToolCall {
	id := tc.ID
	if id == "" {
		id = "call_" + uuid.NewString()
	}
	args := strings.TrimSpace(tc.Function.Arguments)
	if args == "" {
		args = "{}"
	}
	return models.ToolCall{ID: id, Name: tc.Function.Name, Arguments: json.RawMessage(args)}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
