package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const anthropicAPI = "https://api.anthropic.com/v1/messages"

// anthropicTierModels maps request tiers to model IDs: fast for simple
// questions, balanced for most, powerful for complex ones.
var anthropicTierModels = map[ModelTier]string{
	TierSimple:  "claude-haiku-4-5-20251001",
	TierMedium:  "claude-sonnet-4-5-20250929",
	TierComplex: "claude-opus-4-5-20251101",
}

// AnthropicClient talks to the Anthropic Messages API directly over HTTP.
type AnthropicClient struct {
	apiKey   string
	override string // fixed model; empty means pick by tier
	http     *http.Client
}

func NewAnthropicClient(apiKey, modelOverride string) *AnthropicClient {
	return &AnthropicClient{
		apiKey:   apiKey,
		override: modelOverride,
		http:     &http.Client{},
	}
}

func (c *AnthropicClient) model(tier ModelTier) string {
	if c.override != "" {
		return c.override
	}
	if m, ok := anthropicTierModels[tier]; ok {
		return m
	}
	return anthropicTierModels[TierMedium]
}

// Wire types for the Messages API.

type anthRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    []anthText    `json:"system,omitempty"`
	Messages  []anthMessage `json:"messages"`
	Tools     []anthTool    `json:"tools,omitempty"`
}

type anthText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or []anthBlock
}

type anthBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
}

type anthTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type anthResponse struct {
	Content []anthBlock `json:"content"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *AnthropicClient) Chat(ctx context.Context, req ChatRequest) (*Response, error) {
	body := anthRequest{
		Model:     c.model(req.Tier),
		MaxTokens: 4096,
		Messages:  buildAnthMessages(req.Messages),
		Tools:     buildAnthTools(req.Tools),
	}
	if req.System != "" {
		body.System = []anthText{{Type: "text", Text: req.System}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicAPI, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("anthropic-version", "2023-06-01")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("User-Agent", "disclaude/1.0")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic chat: %s %s", resp.Status, string(respBody))
	}

	var parsed anthResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("anthropic chat: %s: %s", parsed.Error.Type, parsed.Error.Message)
	}

	result := &Response{}
	for _, block := range parsed.Content {
		switch block.Type {
		case "text":
			result.Content += block.Text
		case "tool_use":
			params := map[string]any{}
			_ = json.Unmarshal(block.Input, &params)
			result.ToolCalls = append(result.ToolCalls, ToolCall{
				ID:     block.ID,
				Name:   block.Name,
				Params: params,
			})
		}
	}
	return result, nil
}

func buildAnthTools(tools []Tool) []anthTool {
	out := make([]anthTool, len(tools))
	for i, t := range tools {
		schema := map[string]any{"type": "object"}
		if props, ok := t.Parameters["properties"]; ok {
			schema["properties"] = props
		}
		if req, ok := t.Parameters["required"]; ok {
			schema["required"] = req
		}
		out[i] = anthTool{Name: t.Name, Description: t.Description, InputSchema: schema}
	}
	return out
}

func buildAnthMessages(messages []Message) []anthMessage {
	var out []anthMessage
	for _, m := range messages {
		switch m.Role {
		case "user":
			if m.ToolCallID != "" {
				out = append(out, anthMessage{
					Role: "user",
					Content: []anthBlock{{
						Type:      "tool_result",
						ToolUseID: m.ToolCallID,
						Content:   m.Content,
					}},
				})
			} else {
				out = append(out, anthMessage{Role: "user", Content: m.Content})
			}
		case "assistant":
			if len(m.ToolCalls) == 0 {
				out = append(out, anthMessage{Role: "assistant", Content: m.Content})
				continue
			}
			var blocks []anthBlock
			if m.Content != "" {
				blocks = append(blocks, anthBlock{Type: "text", Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				input, _ := json.Marshal(tc.Params)
				blocks = append(blocks, anthBlock{
					Type:  "tool_use",
					ID:    tc.ID,
					Name:  tc.Name,
					Input: input,
				})
			}
			out = append(out, anthMessage{Role: "assistant", Content: blocks})
		}
	}
	return out
}
