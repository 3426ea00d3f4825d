package prompts

import (
	"context"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/llm"
	"github.com/SaiNageswarS/go-collection-boot/async"
)

// GroundedAnswer answers a learner question strictly from the supplied
// passages. The prompt demands a complete, non-truncated reply; length
// budgets are enforced by the caller via CondenseAnswer, never by cutting.
func GroundedAnswer(ctx context.Context, client InferenceClient, model, language, question string, passages []string, history []llm.Message) <-chan async.Result[string] {
	return async.Go(func() (string, error) {
		systemPrompt, err := loadPrompt("templates/grounded_answer_system.md", map[string]string{
			"LANGUAGE": language,
		})
		if err != nil {
			return "", err
		}

		userPrompt, err := loadPrompt("templates/grounded_answer_user.md", map[string]string{
			"QUESTION": question,
			"PASSAGES": strings.Join(passages, "\n---\n"),
		})
		if err != nil {
			return "", err
		}

		messages := append(append([]llm.Message{}, history...), llm.Message{
			Role:    "user",
			Content: userPrompt,
		})

		var response strings.Builder
		err = client.GenerateInference(ctx, messages, func(chunk string) error {
			response.WriteString(chunk)
			return nil
		}, llm.WithLLMModel(model),
			llm.WithMaxTokens(2000),
			llm.WithTemperature(0.5),
			llm.WithSystemPrompt(systemPrompt),
		)

		return response.String(), err
	})
}

// UngroundedAnswer is the fallback when the tenant's material has nothing
// relevant. The reply must present itself as general knowledge, not as
// grounded in the learner's documents.
func UngroundedAnswer(ctx context.Context, client InferenceClient, model, language, question string, history []llm.Message) <-chan async.Result[string] {
	return async.Go(func() (string, error) {
		systemPrompt, err := loadPrompt("templates/ungrounded_answer_system.md", map[string]string{
			"LANGUAGE": language,
		})
		if err != nil {
			return "", err
		}

		messages := append(append([]llm.Message{}, history...), llm.Message{
			Role:    "user",
			Content: question,
		})

		var response strings.Builder
		err = client.GenerateInference(ctx, messages, func(chunk string) error {
			response.WriteString(chunk)
			return nil
		}, llm.WithLLMModel(model),
			llm.WithMaxTokens(1200),
			llm.WithTemperature(0.5),
			llm.WithSystemPrompt(systemPrompt),
		)

		return response.String(), err
	})
}

// CondenseAnswer re-prompts for a shorter complete version of an answer
// that overflowed its budget.
func CondenseAnswer(ctx context.Context, client InferenceClient, model, language, answer string, maxSentences int) <-chan async.Result[string] {
	return async.Go(func() (string, error) {
		systemPrompt, err := loadPrompt("templates/condense_answer_system.md", map[string]string{
			"LANGUAGE": language,
		})
		if err != nil {
			return "", err
		}

		userPrompt, err := loadPrompt("templates/condense_answer_user.md", map[string]interface{}{
			"ANSWER":        answer,
			"MAX_SENTENCES": maxSentences,
		})
		if err != nil {
			return "", err
		}

		return runInference(ctx, client, systemPrompt, userPrompt,
			llm.WithLLMModel(model),
			llm.WithMaxTokens(800),
			llm.WithTemperature(0.3),
		)
	})
}
