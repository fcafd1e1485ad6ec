// Package llm provides a provider-agnostic chat client with tool calling,
// plus token budgeting helpers for context management.
package llm

import "context"

type Message struct {
	Role       string     `json:"role"` // user, assistant
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // set on tool result messages
}

type ToolCall struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

type Response struct {
	Content   string
	ToolCalls []ToolCall
}

type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// ChatRequest is one model invocation. Tier selects the model within the
// provider's tier table unless the provider was constructed with a fixed
// model override.
type ChatRequest struct {
	System   string
	Messages []Message
	Tools    []Tool
	Tier     ModelTier
}

type Client interface {
	Chat(ctx context.Context, req ChatRequest) (*Response, error)
}
