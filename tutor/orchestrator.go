package tutor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/google/uuid"
	"github.com/vishal-24-1/Inzighted-G-sub000/db"
	"github.com/vishal-24-1/Inzighted-G-sub000/tenant"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// dispatch says what a turn label triggers. Every label advances the
// cursor; the table only varies scoring and replying.
type dispatch struct {
	evaluate bool
	answer   bool
}

var transitions = map[IntentLabel]dispatch{
	IntentAnswering: {evaluate: true},
	IntentAsking:    {answer: true},
	IntentBoth:      {evaluate: true, answer: true},
}

// StartResult is what a newly opened session hands back to the learner.
type StartResult struct {
	Session       *db.SessionModel
	FirstQuestion *db.QuestionItemModel
}

// TurnResult is the engine's full response to one learner turn.
type TurnResult struct {
	TurnID          string
	Intent          IntentLabel
	Evaluation      *db.EvaluationModel
	Reply           *AnswerReply
	NextQuestion    *db.QuestionItemModel
	SessionComplete bool
}

// Orchestrator drives the session state machine: opening sessions with a
// pre-generated question batch, routing each learner turn by intent, and
// closing out with a summary. All turn handling for a session is
// serialized on a per-session lock.
type Orchestrator struct {
	store      Store
	deriver    *tenant.Deriver
	batch      BatchSource
	classifier Classifier
	evaluator  Evaluator
	answerer   Answerer
	summarizer Summarizer
	insights   InsightTrigger

	questionsPerSession int
	turnWindow          int

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock serializes work on one session. refs counts holders and
// waiters so the orchestrator can drop the entry once nobody needs it.
// cancel, when set, aborts the external calls of the in-flight turn.
type sessionLock struct {
	mu   sync.Mutex
	refs int

	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

func (l *sessionLock) setCancel(c context.CancelFunc) {
	l.cancelMu.Lock()
	l.cancel = c
	l.cancelMu.Unlock()
}

func (l *sessionLock) interrupt() {
	l.cancelMu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.cancelMu.Unlock()
}

func NewOrchestrator(store Store, deriver *tenant.Deriver, batch BatchSource, classifier Classifier,
	evaluator Evaluator, answerer Answerer, summarizer Summarizer, insights InsightTrigger,
	questionsPerSession, turnWindow int) *Orchestrator {
	return &Orchestrator{
		store:               store,
		deriver:             deriver,
		batch:               batch,
		classifier:          classifier,
		evaluator:           evaluator,
		answerer:            answerer,
		summarizer:          summarizer,
		insights:            insights,
		questionsPerSession: questionsPerSession,
		turnWindow:          turnWindow,
		locks:               map[string]*sessionLock{},
	}
}

// acquireLock blocks until the caller holds the session's lock. Pair
// with releaseLock, which drops the map entry once the last holder or
// waiter is gone.
func (o *Orchestrator) acquireLock(id string) *sessionLock {
	o.mu.Lock()
	l, ok := o.locks[id]
	if !ok {
		l = &sessionLock{}
		o.locks[id] = l
	}
	l.refs++
	o.mu.Unlock()

	l.mu.Lock()
	return l
}

func (o *Orchestrator) releaseLock(id string, l *sessionLock) {
	l.mu.Unlock()
	o.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(o.locks, id)
	}
	o.mu.Unlock()
}

// interruptSession cancels whatever turn is in flight for the session,
// if any, without waiting for it.
func (o *Orchestrator) interruptSession(id string) {
	o.mu.Lock()
	l, ok := o.locks[id]
	o.mu.Unlock()
	if ok {
		l.interrupt()
	}
}

// StartSession opens a tutoring session over the learner's selected
// documents and delivers the first question.
func (o *Orchestrator) StartSession(ctx context.Context, learnerID string, docIDs []string, language string) (*StartResult, error) {
	if learnerID == "" {
		return nil, status.Error(codes.InvalidArgument, "learner id is required")
	}
	if len(docIDs) == 0 {
		return nil, status.Error(codes.InvalidArgument, "at least one document is required")
	}
	if language == "" {
		language = "english"
	}

	tag, err := o.deriver.Tag(learnerID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	for _, docID := range docIDs {
		doc, err := o.store.GetDocument(ctx, tag, docID)
		if err != nil {
			return nil, err
		}
		if doc == nil || !doc.Ready {
			return nil, status.Error(codes.FailedPrecondition, "document is not ready: "+docID)
		}
	}

	drafts, err := o.batch.Generate(ctx, tag, docIDs, language, o.questionsPerSession)
	if err != nil {
		return nil, err
	}

	session := db.NewSessionModel(tag, docIDs, language)
	items := make([]*db.QuestionItemModel, len(drafts))
	for i, d := range drafts {
		items[i] = &db.QuestionItemModel{
			ID:             uuid.NewString(),
			SessionID:      session.ID,
			Order:          i,
			Archetype:      d.Archetype,
			Difficulty:     d.Difficulty,
			QuestionText:   d.Question,
			ExpectedAnswer: d.ExpectedAnswer,
		}
		session.QuestionIDs = append(session.QuestionIDs, items[i].ID)
	}

	first := items[0]
	first.Asked = true
	for _, item := range items {
		if err := o.store.SaveQuestion(ctx, item); err != nil {
			return nil, err
		}
	}
	if err := o.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	if err := o.store.SaveTurn(ctx, db.NewTurnModel(session.ID, db.AuthorSystem, first.QuestionText)); err != nil {
		return nil, err
	}

	logger.Info("session started",
		zap.String("sessionId", session.ID),
		zap.String("tenantTag", tag),
		zap.Int("questions", len(items)))
	return &StartResult{Session: session, FirstQuestion: first}, nil
}

// SubmitTurn processes one learner turn: classify, score and reply per the
// transition table, then advance to the next question. Resubmitting the
// same turn id replays the stored outcome instead of advancing twice.
func (o *Orchestrator) SubmitTurn(ctx context.Context, sessionID, turnID, text string) (*TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, status.Error(codes.InvalidArgument, "turn text is required")
	}
	l := o.acquireLock(sessionID)
	defer o.releaseLock(sessionID, l)

	// Model calls run on a cancellable context so that EndSession can
	// abandon a turn instead of queueing behind its LLM round-trips.
	turnCtx, cancel := context.WithCancel(ctx)
	l.setCancel(cancel)
	defer func() {
		l.setCancel(nil)
		cancel()
	}()

	session, err := o.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, status.Error(codes.NotFound, "session not found: "+sessionID)
	}

	items, err := o.store.QuestionsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if turnID != "" {
		if prior, err := o.store.GetTurn(ctx, turnID); err != nil {
			return nil, err
		} else if prior != nil {
			return o.replayTurn(ctx, session, items, prior)
		}
	} else {
		turnID = uuid.NewString()
	}

	if session.Status == db.StatusComplete || session.Cursor >= len(items) {
		return &TurnResult{TurnID: turnID, SessionComplete: true}, nil
	}
	active := &items[session.Cursor]

	label := o.classifier.Classify(turnCtx, active.QuestionText, text)
	result := &TurnResult{TurnID: turnID, Intent: label}

	history, err := o.store.RecentTurns(ctx, sessionID, o.turnWindow)
	if err != nil {
		logger.Error("loading turn history failed", zap.Error(err))
		history = nil
	}

	turn := db.NewTurnModel(sessionID, db.AuthorLearner, text)
	turn.ID = turnID
	turn.IntentLabel = string(label)
	if err := o.store.SaveTurn(ctx, turn); err != nil {
		return nil, err
	}

	d := transitions[label]
	if d.evaluate {
		eval, err := o.recordEvaluation(turnCtx, session, active, turn)
		if err != nil {
			return nil, err
		}
		result.Evaluation = eval
	}
	if d.answer {
		budget := BudgetEducational
		if d.evaluate {
			budget = BudgetCorrective
		}
		reply, err := o.answerer.Answer(turnCtx, &AnswerRequest{
			TenantTag:      session.TenantTag,
			Question:       text,
			Language:       session.Language,
			ActiveQuestion: active,
			History:        history,
			Budget:         budget,
		})
		if err != nil {
			logger.Error("answering learner question failed, continuing session",
				zap.String("sessionId", sessionID), zap.Error(err))
		} else {
			result.Reply = reply
			if err := o.store.SaveTurn(ctx, db.NewTurnModel(sessionID, db.AuthorSystem, reply.Text)); err != nil {
				return nil, err
			}
		}
	}

	// An interrupted turn must not advance the session: the ender has
	// already claimed it, so back out before touching the cursor.
	if turnCtx.Err() != nil {
		return nil, status.Error(codes.Aborted, "session ended while turn was in flight")
	}

	// The cursor advances on every turn regardless of what the turn was.
	session.Cursor++
	if session.Cursor < len(items) {
		next := &items[session.Cursor]
		next.Asked = true
		if err := o.store.SaveQuestion(ctx, next); err != nil {
			return nil, err
		}
		if err := o.store.SaveTurn(ctx, db.NewTurnModel(sessionID, db.AuthorSystem, next.QuestionText)); err != nil {
			return nil, err
		}
		result.NextQuestion = next
	} else {
		session.Status = db.StatusComplete
		result.SessionComplete = true
	}
	if err := o.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	if result.SessionComplete {
		o.completeSession(ctx, session, items)
	}
	return result, nil
}

// replayTurn rebuilds the response for a turn that was already processed.
// Nothing advances and no second evaluation is written.
func (o *Orchestrator) replayTurn(ctx context.Context, session *db.SessionModel, items []db.QuestionItemModel, prior *db.TurnModel) (*TurnResult, error) {
	result := &TurnResult{
		TurnID:          prior.ID,
		Intent:          IntentLabel(prior.IntentLabel),
		SessionComplete: session.Status == db.StatusComplete,
	}
	if session.Cursor < len(items) {
		result.NextQuestion = &items[session.Cursor]
	}

	evals, err := o.store.EvaluationsBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	for i := range evals {
		if evals[i].TurnID == prior.ID {
			result.Evaluation = &evals[i]
			break
		}
	}
	return result, nil
}

func (o *Orchestrator) recordEvaluation(ctx context.Context, session *db.SessionModel, active *db.QuestionItemModel, turn *db.TurnModel) (*db.EvaluationModel, error) {
	evalID := db.EvaluationID(turn.ID, active.ID)
	if existing, err := o.store.GetEvaluation(ctx, evalID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	outcome := o.evaluator.Evaluate(ctx, active, turn.Text, session.Language)
	eval := &db.EvaluationModel{
		ID:             evalID,
		SessionID:      session.ID,
		TurnID:         turn.ID,
		QuestionItemID: active.ID,
		Score:          outcome.Score,
		RewardUnits:    outcome.RewardUnits,
		Correct:        outcome.Correct,
		Rationale:      outcome.Rationale,
		Confidence:     outcome.Confidence,
	}
	if err := o.store.SaveEvaluation(ctx, eval); err != nil {
		return nil, err
	}
	return eval, nil
}

// completeSession hands the finished session off for insight synthesis,
// inline when no trigger is wired.
func (o *Orchestrator) completeSession(ctx context.Context, session *db.SessionModel, items []db.QuestionItemModel) {
	if o.insights != nil {
		err := o.insights.Trigger(ctx, session.ID)
		if err == nil {
			return
		}
		logger.Error("insight trigger failed, synthesizing inline",
			zap.String("sessionId", session.ID), zap.Error(err))
	}
	if _, err := o.synthesizeSummary(ctx, session, items); err != nil {
		logger.Error("inline summary synthesis failed", zap.String("sessionId", session.ID), zap.Error(err))
	}
}

func (o *Orchestrator) synthesizeSummary(ctx context.Context, session *db.SessionModel, items []db.QuestionItemModel) (*db.SessionSummaryModel, error) {
	evals, err := o.store.EvaluationsBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	summary := o.summarizer.Synthesize(ctx, session, items, evals)
	if err := o.store.SaveSummary(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// EndSession closes the session if still active and returns its summary,
// synthesizing one on the spot when none is stored yet. Any turn still
// in flight is cancelled rather than waited out.
func (o *Orchestrator) EndSession(ctx context.Context, sessionID string) (*db.SessionSummaryModel, error) {
	o.interruptSession(sessionID)
	l := o.acquireLock(sessionID)
	defer o.releaseLock(sessionID, l)

	session, err := o.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, status.Error(codes.NotFound, "session not found: "+sessionID)
	}

	if session.Status != db.StatusComplete {
		session.Status = db.StatusComplete
		if err := o.store.SaveSession(ctx, session); err != nil {
			return nil, err
		}
	}

	if summary, err := o.store.GetSummary(ctx, sessionID); err != nil {
		return nil, err
	} else if summary != nil {
		return summary, nil
	}

	items, err := o.store.QuestionsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return o.synthesizeSummary(ctx, session, items)
}

// SynthesizeInsights builds and stores the summary for a completed
// session. Used by the background worker path.
func (o *Orchestrator) SynthesizeInsights(ctx context.Context, sessionID string) (*db.SessionSummaryModel, error) {
	session, err := o.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, status.Error(codes.NotFound, "session not found: "+sessionID)
	}
	if summary, err := o.store.GetSummary(ctx, sessionID); err != nil {
		return nil, err
	} else if summary != nil {
		return summary, nil
	}
	items, err := o.store.QuestionsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return o.synthesizeSummary(ctx, session, items)
}

// SubmitFeedback records the learner's rating of a finished session.
// Improvement text is required unless the learner explicitly skipped.
func (o *Orchestrator) SubmitFeedback(ctx context.Context, sessionID string, rating int, liked, improve string, skipped bool) error {
	session, err := o.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return status.Error(codes.NotFound, "session not found: "+sessionID)
	}

	if !skipped {
		if rating < 1 || rating > 5 {
			return status.Error(codes.InvalidArgument, "rating must be between 1 and 5")
		}
		if strings.TrimSpace(improve) == "" {
			return status.Error(codes.InvalidArgument, "improvement feedback is required unless skipped")
		}
	}

	return o.store.SaveFeedback(ctx, &db.FeedbackModel{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Rating:    rating,
		Liked:     liked,
		Improve:   improve,
		Skipped:   skipped,
		CreatedOn: time.Now().UnixMilli(),
	})
}
