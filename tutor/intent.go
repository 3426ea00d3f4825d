package tutor

import (
	"context"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/vishal-24-1/Inzighted-G-sub000/prompts"
	"go.uber.org/zap"
)

// IntentClassifier labels learner turns with a small model, falling back to
// the deterministic heuristic when the call fails. Classification never
// blocks a turn.
type IntentClassifier struct {
	client  prompts.InferenceClient
	model   string
	timeout time.Duration
}

func NewIntentClassifier(client prompts.InferenceClient, model string, timeout time.Duration) *IntentClassifier {
	return &IntentClassifier{client: client, model: model, timeout: timeout}
}

func (c *IntentClassifier) Classify(ctx context.Context, activeQuestion, turnText string) IntentLabel {
	label, err := withRetry(ctx, llmAttempts, func(ctx context.Context) (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return async.Await(prompts.ClassifyIntent(callCtx, c.client, c.model, activeQuestion, turnText))
	})
	if err != nil {
		fallback := ClassifyFallback(turnText)
		logger.Error("intent classification fell back to heuristic",
			zap.Error(err), zap.String("label", string(fallback)))
		return fallback
	}
	return IntentLabel(label)
}

// Interrogative markers matched as whole tokens. Tamil markers cover the
// common question words learners actually type.
var interrogativeMarkers = map[string]bool{
	"what": true, "what's": true, "why": true, "how": true,
	"when": true, "where": true, "which": true, "who": true, "who's": true,
	"என்ன": true, "ஏன்": true, "எப்படி": true, "எப்போது": true,
	"எங்கே": true, "எது": true, "யார்": true,
}

// ClassifyFallback is the deterministic heuristic used when the model
// classifier is unavailable. Same text always gets the same label:
//   - no question mark and no interrogative word: ANSWERING
//   - question present with a declarative clause before it: BOTH
//   - otherwise: ASKING
func ClassifyFallback(turnText string) IntentLabel {
	lower := strings.ToLower(strings.TrimSpace(turnText))
	if lower == "" {
		return IntentAnswering
	}

	questionLike := strings.Contains(lower, "?")
	if !questionLike {
		for _, tok := range tokens(lower) {
			if interrogativeMarkers[tok] {
				questionLike = true
				break
			}
		}
	}
	if !questionLike {
		return IntentAnswering
	}

	for _, clause := range splitClauses(lower) {
		toks := tokens(clause)
		if len(toks) < 2 {
			continue
		}
		declarative := true
		for _, tok := range toks {
			if interrogativeMarkers[tok] {
				declarative = false
				break
			}
		}
		if declarative {
			return IntentBoth
		}
	}
	return IntentAsking
}

func splitClauses(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ',', ';', '.', '?', '!':
			return true
		}
		return false
	})
}

func tokens(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.Trim(f, ".,;:!?\"'()")
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
