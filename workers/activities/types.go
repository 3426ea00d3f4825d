package activities

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/vishal-24-1/Inzighted-G-sub000/tutor"
	"go.uber.org/zap"
)

type Activities struct {
	orch  *tutor.Orchestrator
	batch tutor.BatchSource
}

func ProvideActivities(orch *tutor.Orchestrator, batch tutor.BatchSource) *Activities {
	return &Activities{orch: orch, batch: batch}
}

func (a *Activities) SynthesizeSessionInsights(ctx context.Context, sessionID string) error {
	summary, err := a.orch.SynthesizeInsights(ctx, sessionID)
	if err != nil {
		return err
	}
	logger.Info("session insights synthesized",
		zap.String("sessionId", sessionID),
		zap.Float64("accuracyPercent", summary.AccuracyPercent))
	return nil
}

// PrewarmQuestionBatch generates a batch so it lands in the cache before
// any session asks for it.
func (a *Activities) PrewarmQuestionBatch(ctx context.Context, tenantTag string, docIDs []string, language string, questions int) error {
	_, err := a.batch.Generate(ctx, tenantTag, docIDs, language, questions)
	return err
}
