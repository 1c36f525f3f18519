package ai

import "github.com/tmc/langchaingo/llms"

// ContentFromRequest converts a Request into langchaingo message content:
// system prompt first, then history oldest-first, then the user prompt.
// Shared by the backend implementations so every backend sees the same
// conversation shape.
func ContentFromRequest(req Request) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(req.History)+2)

	if req.System != "" {
		content = append(content, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.System)},
		})
	}

	for _, msg := range req.History {
		role := llms.ChatMessageTypeHuman
		if msg.Role == RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}

	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(req.Prompt)},
	})

	return content
}

// CallOptions returns the langchaingo call options for a request.
func CallOptions(req Request) []llms.CallOption {
	opts := []llms.CallOption{llms.WithTemperature(0.0)}
	if req.JSONMode {
		opts = append(opts, llms.WithJSONMode())
	}
	return opts
}
