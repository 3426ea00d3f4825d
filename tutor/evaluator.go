package tutor

import (
	"context"
	"math"
	"time"
	"unicode/utf8"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/vishal-24-1/Inzighted-G-sub000/db"
	"github.com/vishal-24-1/Inzighted-G-sub000/prompts"
	"go.uber.org/zap"
)

const maxRationaleChars = 500

// AnswerEvaluator scores learner answers against the expected answer.
// Evaluation failure never blocks a turn: the neutral default is recorded
// instead so the learner is not punished for service trouble.
type AnswerEvaluator struct {
	client  prompts.InferenceClient
	model   string
	timeout time.Duration
}

func NewAnswerEvaluator(client prompts.InferenceClient, model string, timeout time.Duration) *AnswerEvaluator {
	return &AnswerEvaluator{client: client, model: model, timeout: timeout}
}

func (e *AnswerEvaluator) Evaluate(ctx context.Context, question *db.QuestionItemModel, answerText, language string) prompts.EvaluationOutcome {
	outcome, err := withRetry(ctx, llmAttempts, func(ctx context.Context) (*prompts.EvaluationOutcome, error) {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		return async.Await(prompts.EvaluateAnswer(callCtx, e.client, e.model, language,
			question.QuestionText, question.ExpectedAnswer, answerText))
	})
	if err != nil {
		logger.Error("answer evaluation fell back to neutral default",
			zap.String("questionItemId", question.ID), zap.Error(err))
		return NeutralEvaluation()
	}

	if outcome.RewardUnits == 0 {
		outcome.RewardUnits = RewardFromScore(outcome.Score)
	}
	outcome.Rationale = truncateRationale(outcome.Rationale)
	return *outcome
}

// truncateRationale caps the rationale, backing off to the previous rune
// boundary so multi-byte text is never cut mid-rune.
func truncateRationale(s string) string {
	if len(s) <= maxRationaleChars {
		return s
	}
	cut := maxRationaleChars
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// RewardFromScore maps a [0,1] score onto reward units. Reward is always
// positive so even a wrong attempt earns something.
func RewardFromScore(score float64) int {
	r := int(math.Round(score * 100))
	if r < 1 {
		r = 1
	}
	if r > 100 {
		r = 100
	}
	return r
}

// NeutralEvaluation is recorded when scoring is unavailable. Confidence
// zero marks it as a placeholder rather than a real judgement.
func NeutralEvaluation() prompts.EvaluationOutcome {
	return prompts.EvaluationOutcome{
		Score:       0.5,
		RewardUnits: 50,
		Correct:     false,
		Rationale:   "Automatic scoring was unavailable for this answer, so a neutral score was recorded.",
		Confidence:  0,
	}
}
