package prompts

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/llm"
	"github.com/SaiNageswarS/go-collection-boot/async"
)

// ZoneNarrative is one bucket of the session summary: short bullets plus a
// justification referencing concrete evaluation evidence.
type ZoneNarrative struct {
	Bullets       []string `json:"bullets"`
	Justification string   `json:"justification"`
}

func (z *ZoneNarrative) validate() error {
	if len(z.Bullets) == 0 {
		return errors.New("zone narrative has no bullets")
	}
	if strings.TrimSpace(z.Justification) == "" {
		return errors.New("zone narrative has no justification")
	}
	return nil
}

// SynthesizeZone narrates one score bucket of a completed session.
// evidence lines look like "Q3 (application): score 0.40".
func SynthesizeZone(ctx context.Context, client InferenceClient, model, language, zoneName string, evidence []string) <-chan async.Result[*ZoneNarrative] {
	return async.Go(func() (*ZoneNarrative, error) {
		systemPrompt, err := loadPrompt("templates/insight_zone_system.md", map[string]string{})
		if err != nil {
			return nil, err
		}

		userPrompt, err := loadPrompt("templates/insight_zone_user.md", map[string]string{
			"LANGUAGE": language,
			"ZONE":     zoneName,
			"EVIDENCE": strings.Join(evidence, "\n"),
		})
		if err != nil {
			return nil, err
		}

		response, err := runInference(ctx, client, systemPrompt, userPrompt,
			llm.WithLLMModel(model),
			llm.WithMaxTokens(600),
			llm.WithTemperature(0.4),
		)
		if err != nil {
			return nil, err
		}

		raw := extractJSON(response)
		if raw == "" {
			return nil, errors.New("no JSON object in zone narrative response")
		}

		out := &ZoneNarrative{}
		if err := json.Unmarshal([]byte(raw), out); err != nil {
			return nil, err
		}

		if err := out.validate(); err != nil {
			return nil, err
		}

		return out, nil
	})
}
