package prompts

import (
	"context"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/llm"
)

// InferenceClient is the one method this package needs from a generation
// backend. go-api-boot's Anthropic and Ollama clients satisfy it; tests
// inject fakes. Keeping the surface this narrow keeps every caller's state
// machine deterministic without a live service.
type InferenceClient interface {
	GenerateInference(
		ctx context.Context,
		messages []llm.Message,
		callback func(chunk string) error,
		opts ...llm.LLMOption,
	) error
}

func runInference(ctx context.Context, client InferenceClient, systemPrompt, userPrompt string, opts ...llm.LLMOption) (string, error) {
	messages := []llm.Message{
		{
			Role:    "user",
			Content: userPrompt,
		},
	}

	var response strings.Builder
	opts = append(opts, llm.WithSystemPrompt(systemPrompt))
	err := client.GenerateInference(ctx, messages, func(chunk string) error {
		response.WriteString(chunk)
		return nil
	}, opts...)

	return response.String(), err
}

// extractJSON pulls the outermost JSON object out of a model response,
// tolerating code fences and surrounding prose.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
