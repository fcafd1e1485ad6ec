package llm

import "encoding/json"

// charsPerToken approximates English tokenization well enough for context
// budgeting; real tokenizers vary but stay near 4 chars per token.
const charsPerToken = 4

// EstimateTokens returns a rough token count for a string, rounding up.
func EstimateTokens(s string) int {
	if len(s) == 0 {
		return 0
	}
	return (len(s) + charsPerToken - 1) / charsPerToken
}

// EstimateMessageTokens estimates one message including its tool calls and
// per-message framing overhead.
func EstimateMessageTokens(m Message) int {
	tokens := 4 // role and delimiter overhead
	tokens += EstimateTokens(m.Content)
	for _, tc := range m.ToolCalls {
		tokens += EstimateTokens(tc.Name)
		if params, err := json.Marshal(tc.Params); err == nil {
			tokens += EstimateTokens(string(params))
		}
		tokens += 4
	}
	if m.ToolCallID != "" {
		tokens += EstimateTokens(m.ToolCallID) + 2
	}
	return tokens
}

// EstimateMessagesTokens sums EstimateMessageTokens over a slice.
func EstimateMessagesTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateMessageTokens(m)
	}
	return total
}

// EstimateToolsTokens estimates the cost of tool definitions, which are
// serialized into every request.
func EstimateToolsTokens(tools []Tool) int {
	total := 0
	for _, t := range tools {
		total += EstimateTokens(t.Name)
		total += EstimateTokens(t.Description)
		if schema, err := json.Marshal(t.Parameters); err == nil {
			total += EstimateTokens(string(schema))
		}
		total += 10
	}
	return total
}
