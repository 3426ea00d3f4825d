package tutor

import (
	"context"

	"github.com/vishal-24-1/Inzighted-G-sub000/db"
	"github.com/vishal-24-1/Inzighted-G-sub000/prompts"
)

// IntentLabel classifies what a learner turn is doing.
type IntentLabel string

const (
	IntentAnswering IntentLabel = "ANSWERING"
	IntentAsking    IntentLabel = "ASKING"
	IntentBoth      IntentLabel = "BOTH"
)

// AnswerBudget selects the reply length target: corrective text stays
// short, substantive educational answers get more room.
type AnswerBudget int

const (
	BudgetEducational AnswerBudget = iota
	BudgetCorrective
)

// Store is the persistence surface the engine needs. db.MongoStore is the
// production implementation; tests use in-memory fakes.
type Store interface {
	GetSession(ctx context.Context, id string) (*db.SessionModel, error)
	SaveSession(ctx context.Context, session *db.SessionModel) error

	SaveQuestion(ctx context.Context, item *db.QuestionItemModel) error
	GetQuestion(ctx context.Context, id string) (*db.QuestionItemModel, error)
	QuestionsBySession(ctx context.Context, sessionID string) ([]db.QuestionItemModel, error)

	SaveTurn(ctx context.Context, turn *db.TurnModel) error
	GetTurn(ctx context.Context, id string) (*db.TurnModel, error)
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]db.TurnModel, error)

	GetEvaluation(ctx context.Context, id string) (*db.EvaluationModel, error)
	SaveEvaluation(ctx context.Context, eval *db.EvaluationModel) error
	EvaluationsBySession(ctx context.Context, sessionID string) ([]db.EvaluationModel, error)

	GetSummary(ctx context.Context, sessionID string) (*db.SessionSummaryModel, error)
	SaveSummary(ctx context.Context, summary *db.SessionSummaryModel) error

	SaveFeedback(ctx context.Context, feedback *db.FeedbackModel) error

	GetDocument(ctx context.Context, tenantTag, docID string) (*db.DocumentModel, error)
	ChunksByDocuments(ctx context.Context, tenantTag string, docIDs []string) ([]db.ChunkModel, error)
}

// Classifier labels a turn. Implementations never fail: when the primary
// path is unavailable they fall back to the deterministic heuristic.
type Classifier interface {
	Classify(ctx context.Context, activeQuestion, turnText string) IntentLabel
}

// Evaluator scores an answer. Implementations never fail: on service
// failure they emit the neutral default so the session always advances.
type Evaluator interface {
	Evaluate(ctx context.Context, question *db.QuestionItemModel, answerText, language string) prompts.EvaluationOutcome
}

// AnswerRequest carries everything the retrieval answerer needs for one
// grounded reply.
type AnswerRequest struct {
	TenantTag      string
	Question       string
	Language       string
	ActiveQuestion *db.QuestionItemModel
	History        []db.TurnModel
	Budget         AnswerBudget
}

// AnswerReply is a single reply to the learner. Grounded is false when the
// answer came from general knowledge instead of the learner's material.
type AnswerReply struct {
	Text     string
	Grounded bool
}

type Answerer interface {
	Answer(ctx context.Context, req *AnswerRequest) (*AnswerReply, error)
}

// Summarizer builds the post-session summary. Implementations never fail:
// malformed narrative output degrades to the deterministic bucket lists.
type Summarizer interface {
	Synthesize(ctx context.Context, session *db.SessionModel, questions []db.QuestionItemModel, evals []db.EvaluationModel) *db.SessionSummaryModel
}

// Retriever returns tenant-scoped grounding passages, best first.
type Retriever interface {
	Retrieve(ctx context.Context, tenantTag, query string, k int) ([]db.ChunkModel, error)
}

// BatchSource produces the pre-generated question batch for a session.
type BatchSource interface {
	Generate(ctx context.Context, tenantTag string, docIDs []string, language string, n int) ([]prompts.QuestionDraft, error)
}

// BatchCache stores generated batches keyed by (tenant tag, document set)
// so restarting a session on the same material does not re-pay generation
// cost. Best effort: misses and errors just regenerate.
type BatchCache interface {
	Get(ctx context.Context, key string) ([]prompts.QuestionDraft, bool)
	Set(ctx context.Context, key string, drafts []prompts.QuestionDraft)
}

// InsightTrigger hands completed sessions off for summary synthesis.
type InsightTrigger interface {
	Trigger(ctx context.Context, sessionID string) error
}
