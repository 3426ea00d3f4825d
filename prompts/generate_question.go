package prompts

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/llm"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/vishal-24-1/Inzighted-G-sub000/db"
	"go.uber.org/zap"
)

// QuestionDraft is the validated shape of one generated question. Drafts
// carry no ids; the orchestrator materializes QuestionItemModels from them
// per session.
type QuestionDraft struct {
	Question       string `json:"question"`
	Archetype      string `json:"archetype"`
	Difficulty     string `json:"difficulty"`
	ExpectedAnswer string `json:"expected_answer"`
}

func (d *QuestionDraft) validate() error {
	if strings.TrimSpace(d.Question) == "" {
		return errors.New("question text is empty")
	}
	if strings.TrimSpace(d.ExpectedAnswer) == "" {
		return errors.New("expected answer is empty")
	}
	if !db.ValidArchetype(d.Archetype) {
		return errors.New("unknown archetype: " + d.Archetype)
	}
	if !db.ValidDifficulty(d.Difficulty) {
		return errors.New("unknown difficulty: " + d.Difficulty)
	}
	return nil
}

// GenerateQuestion produces one question for a group of chunks. The model
// must return a JSON object; anything that fails schema validation is an
// error the caller replaces with its synthetic fallback.
func GenerateQuestion(ctx context.Context, client InferenceClient, model, language, sectionText string) <-chan async.Result[*QuestionDraft] {
	return async.Go(func() (*QuestionDraft, error) {
		systemPrompt, err := loadPrompt("templates/generate_question_system.md", map[string]string{
			"ARCHETYPES": strings.Join(db.Archetypes, ", "),
		})
		if err != nil {
			logger.Error("Failed to load system prompt", zap.Error(err))
			return nil, err
		}

		userPrompt, err := loadPrompt("templates/generate_question_user.md", map[string]string{
			"LANGUAGE":     language,
			"SECTION_TEXT": sectionText,
		})
		if err != nil {
			return nil, err
		}

		response, err := runInference(ctx, client, systemPrompt, userPrompt,
			llm.WithLLMModel(model),
			llm.WithMaxTokens(1000),
			llm.WithTemperature(0.7),
		)
		if err != nil {
			return nil, err
		}

		raw := extractJSON(response)
		if raw == "" {
			return nil, errors.New("no JSON object in question generation response")
		}

		out := &QuestionDraft{}
		if err := json.Unmarshal([]byte(raw), out); err != nil {
			return nil, err
		}

		if err := out.validate(); err != nil {
			return nil, err
		}

		return out, nil
	})
}
