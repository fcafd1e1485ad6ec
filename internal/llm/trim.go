package llm

// TrimMessages drops the oldest conversation turns until the rest fits
// within maxTokens. The budget should already exclude the system prompt
// and tool definitions.
//
// Messages are grouped into units that must survive or go together: a
// plain user or assistant message is its own unit, while an assistant
// tool-call message plus its following tool results form one unit (the
// API rejects a tool result without its call). The newest unit is always
// kept, even when it alone exceeds the budget.
func TrimMessages(messages []Message, maxTokens int) []Message {
	if len(messages) == 0 {
		return messages
	}

	groups := groupMessages(messages)

	total := 0
	for _, g := range groups {
		total += g.tokens
	}
	if total <= maxTokens {
		return messages
	}

	kept := total
	dropUntil := 0
	for dropUntil < len(groups)-1 && kept > maxTokens {
		kept -= groups[dropUntil].tokens
		dropUntil++
	}

	var trimmed []Message
	for _, g := range groups[dropUntil:] {
		trimmed = append(trimmed, g.messages...)
	}
	return trimmed
}

type messageGroup struct {
	messages []Message
	tokens   int
}

func groupMessages(messages []Message) []messageGroup {
	var groups []messageGroup
	i := 0
	for i < len(messages) {
		msg := messages[i]

		if msg.Role == "assistant" && len(msg.ToolCalls) > 0 {
			group := messageGroup{
				messages: []Message{msg},
				tokens:   EstimateMessageTokens(msg),
			}
			i++
			for i < len(messages) && messages[i].ToolCallID != "" {
				group.messages = append(group.messages, messages[i])
				group.tokens += EstimateMessageTokens(messages[i])
				i++
			}
			groups = append(groups, group)
			continue
		}

		groups = append(groups, messageGroup{
			messages: []Message{msg},
			tokens:   EstimateMessageTokens(msg),
		})
		i++
	}
	return groups
}
