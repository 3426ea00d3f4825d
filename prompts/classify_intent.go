package prompts

import (
	"context"
	"errors"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/llm"
	"github.com/SaiNageswarS/go-collection-boot/async"
)

// ClassifyIntent asks for a single-token label for a learner turn. Only
// ANSWERING, ASKING and BOTH are accepted; any other output is a service
// failure and the caller falls back to its deterministic heuristic.
func ClassifyIntent(ctx context.Context, client InferenceClient, model, activeQuestion, turnText string) <-chan async.Result[string] {
	return async.Go(func() (string, error) {
		systemPrompt, err := loadPrompt("templates/classify_intent_system.md", map[string]string{})
		if err != nil {
			return "", err
		}

		userPrompt, err := loadPrompt("templates/classify_intent_user.md", map[string]string{
			"ACTIVE_QUESTION": activeQuestion,
			"TURN_TEXT":       turnText,
		})
		if err != nil {
			return "", err
		}

		response, err := runInference(ctx, client, systemPrompt, userPrompt,
			llm.WithLLMModel(model),
			llm.WithMaxTokens(8),
			llm.WithTemperature(0.0),
		)
		if err != nil {
			return "", err
		}

		label := strings.ToUpper(strings.TrimSpace(response))
		switch label {
		case "ANSWERING", "ASKING", "BOTH":
			return label, nil
		}

		return "", errors.New("unexpected classification token: " + label)
	})
}
