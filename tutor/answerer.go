package tutor

import (
	"context"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/llm"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/vishal-24-1/Inzighted-G-sub000/db"
	"go.uber.org/zap"

	"github.com/vishal-24-1/Inzighted-G-sub000/prompts"
)

const (
	retrievePassages = 8

	correctiveMaxChars   = 420
	correctiveSentences  = 3
	educationalMaxChars  = 1400
	educationalSentences = 8
)

// RetrievalAnswerer answers learner questions from their own material.
// Retrieval failure degrades to a general-knowledge reply flagged as
// ungrounded rather than failing the turn.
type RetrievalAnswerer struct {
	client    prompts.InferenceClient
	model     string
	retriever Retriever
	timeout   time.Duration
	window    int
}

func NewRetrievalAnswerer(client prompts.InferenceClient, model string, retriever Retriever, timeout time.Duration, window int) *RetrievalAnswerer {
	return &RetrievalAnswerer{client: client, model: model, retriever: retriever, timeout: timeout, window: window}
}

func (a *RetrievalAnswerer) Answer(ctx context.Context, req *AnswerRequest) (*AnswerReply, error) {
	history := historyMessages(req.History, a.window)

	chunks, err := a.retriever.Retrieve(ctx, req.TenantTag, req.Question, retrievePassages)
	if err != nil {
		logger.Error("retrieval failed, answering ungrounded",
			zap.String("tenantTag", req.TenantTag), zap.Error(err))
		chunks = nil
	}

	var text string
	grounded := len(chunks) > 0
	if grounded {
		text, err = withRetry(ctx, llmAttempts, func(ctx context.Context) (string, error) {
			callCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()
			return async.Await(prompts.GroundedAnswer(callCtx, a.client, a.model, req.Language,
				req.Question, passages(chunks), history))
		})
	} else {
		text, err = withRetry(ctx, llmAttempts, func(ctx context.Context) (string, error) {
			callCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()
			return async.Await(prompts.UngroundedAnswer(callCtx, a.client, a.model, req.Language,
				req.Question, history))
		})
	}
	if err != nil {
		return nil, err
	}

	text = a.fitBudget(ctx, text, req.Budget, req.Language)
	return &AnswerReply{Text: strings.TrimSpace(text), Grounded: grounded}, nil
}

// fitBudget re-prompts for a condensed version when the reply overruns its
// budget. The text is never cut mid-sentence: if condensing fails the
// overlong reply is kept as is.
func (a *RetrievalAnswerer) fitBudget(ctx context.Context, text string, budget AnswerBudget, language string) string {
	maxChars, maxSentences := educationalMaxChars, educationalSentences
	if budget == BudgetCorrective {
		maxChars, maxSentences = correctiveMaxChars, correctiveSentences
	}
	if len(text) <= maxChars {
		return text
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	condensed, err := async.Await(prompts.CondenseAnswer(callCtx, a.client, a.model, language, text, maxSentences))
	if err != nil || strings.TrimSpace(condensed) == "" {
		logger.Error("condensing overlong answer failed, keeping full reply", zap.Error(err))
		return text
	}
	return condensed
}

func passages(chunks []db.ChunkModel) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		body := strings.Join(c.Sentences, " ")
		if c.SectionPath != "" {
			body = c.SectionPath + "\n" + body
		}
		out = append(out, body)
	}
	return out
}

// historyMessages maps the last turns of the conversation onto chat roles,
// bounded by the configured window.
func historyMessages(turns []db.TurnModel, window int) []llm.Message {
	if window > 0 && len(turns) > window {
		turns = turns[len(turns)-window:]
	}
	out := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Author == db.AuthorSystem {
			role = "assistant"
		}
		out = append(out, llm.Message{Role: role, Content: t.Text})
	}
	return out
}
