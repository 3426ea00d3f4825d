package prompts

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/SaiNageswarS/go-api-boot/llm"
	"github.com/SaiNageswarS/go-collection-boot/async"
)

// EvaluationOutcome is the validated result of scoring one answer.
// RewardUnits may be zero when the model omits it; the evaluator then
// derives it from the score.
type EvaluationOutcome struct {
	Score       float64 `json:"score"`
	RewardUnits int     `json:"reward_units"`
	Correct     bool    `json:"correct"`
	Rationale   string  `json:"rationale"`
	Confidence  float64 `json:"confidence"`
}

func (o *EvaluationOutcome) validate() error {
	if o.Score < 0.0 || o.Score > 1.0 {
		return errors.New("score out of range")
	}
	if o.Confidence < 0.0 || o.Confidence > 1.0 {
		return errors.New("confidence out of range")
	}
	if o.RewardUnits < 0 || o.RewardUnits > 100 {
		return errors.New("reward units out of range")
	}
	return nil
}

// EvaluateAnswer scores a learner answer against the expected answer.
// Partial credit is expected for partially correct reasoning.
func EvaluateAnswer(ctx context.Context, client InferenceClient, model, language, question, expectedAnswer, learnerAnswer string) <-chan async.Result[*EvaluationOutcome] {
	return async.Go(func() (*EvaluationOutcome, error) {
		systemPrompt, err := loadPrompt("templates/evaluate_answer_system.md", map[string]string{})
		if err != nil {
			return nil, err
		}

		userPrompt, err := loadPrompt("templates/evaluate_answer_user.md", map[string]string{
			"LANGUAGE":        language,
			"QUESTION":        question,
			"EXPECTED_ANSWER": expectedAnswer,
			"LEARNER_ANSWER":  learnerAnswer,
		})
		if err != nil {
			return nil, err
		}

		response, err := runInference(ctx, client, systemPrompt, userPrompt,
			llm.WithLLMModel(model),
			llm.WithMaxTokens(600),
			llm.WithTemperature(0.2),
		)
		if err != nil {
			return nil, err
		}

		raw := extractJSON(response)
		if raw == "" {
			return nil, errors.New("no JSON object in evaluation response")
		}

		out := &EvaluationOutcome{}
		if err := json.Unmarshal([]byte(raw), out); err != nil {
			return nil, err
		}

		if err := out.validate(); err != nil {
			return nil, err
		}

		return out, nil
	})
}
