package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

var openAITierModels = map[ModelTier]string{
	TierSimple:  string(openai.ChatModelGPT4oMini),
	TierMedium:  string(openai.ChatModelGPT4o),
	TierComplex: string(openai.ChatModelGPT4o),
}

// OpenAIClient serves both OpenAI and any OpenAI-compatible endpoint
// (Ollama) via the official SDK.
type OpenAIClient struct {
	client   openai.Client
	override string
}

func NewOpenAIClient(apiKey, modelOverride, baseURL string) *OpenAIClient {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{client: openai.NewClient(opts...), override: modelOverride}
}

func (c *OpenAIClient) model(tier ModelTier) string {
	if c.override != "" {
		return c.override
	}
	if m, ok := openAITierModels[tier]; ok {
		return m
	}
	return openAITierModels[TierMedium]
}

func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (*Response, error) {
	oaiTools := make([]openai.ChatCompletionToolUnionParam, len(req.Tools))
	for i, t := range req.Tools {
		oaiTools[i] = openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  openai.FunctionParameters(t.Parameters),
		})
	}

	oaiMsgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(req.System),
	}
	for _, m := range req.Messages {
		switch m.Role {
		case "user":
			if m.ToolCallID != "" {
				oaiMsgs = append(oaiMsgs, openai.ToolMessage(m.Content, m.ToolCallID))
			} else {
				oaiMsgs = append(oaiMsgs, openai.UserMessage(m.Content))
			}
		case "assistant":
			if len(m.ToolCalls) == 0 {
				oaiMsgs = append(oaiMsgs, openai.AssistantMessage(m.Content))
				continue
			}
			toolCalls := make([]openai.ChatCompletionMessageToolCallUnionParam, len(m.ToolCalls))
			for j, tc := range m.ToolCalls {
				args, _ := json.Marshal(tc.Params)
				toolCalls[j] = openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      tc.Name,
							Arguments: string(args),
						},
					},
				}
			}
			oaiMsgs = append(oaiMsgs, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Content: openai.ChatCompletionAssistantMessageParamContentUnion{
						OfString: param.NewOpt(m.Content),
					},
					ToolCalls: toolCalls,
				},
			})
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model(req.Tier)),
		Messages: oaiMsgs,
		Tools:    oaiTools,
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return &Response{}, nil
	}

	choice := resp.Choices[0]
	result := &Response{Content: choice.Message.Content}
	for _, tc := range choice.Message.ToolCalls {
		ftc := tc.AsFunction()
		params := map[string]any{}
		_ = json.Unmarshal([]byte(ftc.Function.Arguments), &params)
		result.ToolCalls = append(result.ToolCalls, ToolCall{
			ID:     ftc.ID,
			Name:   ftc.Function.Name,
			Params: params,
		})
	}
	return result, nil
}
