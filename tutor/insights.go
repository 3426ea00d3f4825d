package tutor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/vishal-24-1/Inzighted-G-sub000/db"
	"github.com/vishal-24-1/Inzighted-G-sub000/prompts"
	"go.uber.org/zap"
)

const (
	weakBelow     = 0.5
	strongAtLeast = 0.8

	zoneWeak   = "weak areas"
	zoneStrong = "strong areas"
	zoneGrowth = "growth potential"
)

// InsightSynthesizer turns a session's evaluations into the three-zone
// summary. Narrative prose comes from the model per zone; if that fails
// the zone degrades to deterministic score-derived bullets, so a summary
// is always produced.
type InsightSynthesizer struct {
	client  prompts.InferenceClient
	model   string
	timeout time.Duration
}

func NewInsightSynthesizer(client prompts.InferenceClient, model string, timeout time.Duration) *InsightSynthesizer {
	return &InsightSynthesizer{client: client, model: model, timeout: timeout}
}

func (s *InsightSynthesizer) Synthesize(ctx context.Context, session *db.SessionModel, questions []db.QuestionItemModel, evals []db.EvaluationModel) *db.SessionSummaryModel {
	byID := make(map[string]db.QuestionItemModel, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	var weak, strong, growth []string
	var totalScore float64
	totalReward := 0
	for _, e := range evals {
		totalScore += e.Score
		totalReward += e.RewardUnits
		line := evidenceLine(byID, e)
		switch {
		case e.Score < weakBelow:
			weak = append(weak, line)
		case e.Score >= strongAtLeast:
			strong = append(strong, line)
		default:
			growth = append(growth, line)
		}
	}

	accuracy := 0.0
	if len(evals) > 0 {
		accuracy = math.Round(totalScore/float64(len(evals))*1000) / 10
	}

	summary := &db.SessionSummaryModel{
		ID:              session.ID,
		WeakAreas:       s.zone(ctx, session.Language, zoneWeak, weak),
		StrongAreas:     s.zone(ctx, session.Language, zoneStrong, strong),
		GrowthPotential: s.zone(ctx, session.Language, zoneGrowth, growth),
		AccuracyPercent: accuracy,
		TotalReward:     totalReward,
		CreatedOn:       time.Now().UnixMilli(),
	}
	return summary
}

func (s *InsightSynthesizer) zone(ctx context.Context, language, name string, evidence []string) db.Zone {
	if len(evidence) == 0 {
		return db.Zone{
			Bullets:       []string{fmt.Sprintf("No %s surfaced in this session.", name)},
			Justification: "No evaluated answers fell in this zone.",
		}
	}

	narrative, err := withRetry(ctx, llmAttempts, func(ctx context.Context) (*prompts.ZoneNarrative, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return async.Await(prompts.SynthesizeZone(callCtx, s.client, s.model, language, name, evidence))
	})
	if err != nil {
		logger.Error("zone narrative failed, using score-derived bullets",
			zap.String("zone", name), zap.Error(err))
		return fallbackZone(name, evidence)
	}
	return db.Zone{Bullets: narrative.Bullets, Justification: narrative.Justification}
}

// fallbackZone lists the strongest evidence directly instead of prose.
func fallbackZone(name string, evidence []string) db.Zone {
	bullets := evidence
	if len(bullets) > 3 {
		bullets = bullets[:3]
	}
	return db.Zone{
		Bullets:       bullets,
		Justification: fmt.Sprintf("Derived from the evaluation scores of %d answer(s) in the %s range.", len(evidence), name),
	}
}

func evidenceLine(byID map[string]db.QuestionItemModel, e db.EvaluationModel) string {
	q, ok := byID[e.QuestionItemID]
	if !ok {
		return fmt.Sprintf("An answer scored %.0f%%.", e.Score*100)
	}
	return fmt.Sprintf("Q%d (%s): %q scored %.0f%%.", q.Order+1, q.Archetype, q.QuestionText, e.Score*100)
}
