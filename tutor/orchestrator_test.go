package tutor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishal-24-1/Inzighted-G-sub000/db"
	"github.com/vishal-24-1/Inzighted-G-sub000/prompts"
	"github.com/vishal-24-1/Inzighted-G-sub000/tenant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type harness struct {
	store      *fakeStore
	classifier *scriptedClassifier
	evaluator  *fixedEvaluator
	answerer   *fixedAnswerer
	summarizer *fixedSummarizer
	orch       *Orchestrator
	tag        string
}

func newHarness(t *testing.T, labels []IntentLabel, questions int) *harness {
	deriver, err := tenant.NewDeriver([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	tag, err := deriver.Tag("learner-1")
	require.NoError(t, err)

	store := newFakeStore()
	store.docs[tag+"/doc1"] = db.DocumentModel{DocID: "doc1", Title: "Physics", Ready: true, ChunkCount: 12}
	seedChunks(store, tag, "doc1", 12)

	classifier := &scriptedClassifier{labels: labels}
	evaluator := &fixedEvaluator{outcome: prompts.EvaluationOutcome{
		Score: 0.9, RewardUnits: 90, Correct: true, Rationale: "Good.", Confidence: 0.8,
	}}
	answerer := &fixedAnswerer{reply: &AnswerReply{Text: "Flux is the field through a surface.", Grounded: true}}
	summarizer := &fixedSummarizer{}

	orch := NewOrchestrator(store, deriver, &draftBatch{}, classifier, evaluator, answerer,
		summarizer, nil, questions, 6)
	return &harness{store: store, classifier: classifier, evaluator: evaluator,
		answerer: answerer, summarizer: summarizer, orch: orch, tag: tag}
}

func TestStartSessionDeliversFirstQuestion(t *testing.T) {
	h := newHarness(t, []IntentLabel{IntentAnswering}, 10)

	res, err := h.orch.StartSession(context.Background(), "learner-1", []string{"doc1"}, "english")
	require.NoError(t, err)

	assert.Equal(t, db.StatusActive, res.Session.Status)
	assert.Equal(t, 0, res.Session.Cursor)
	assert.Len(t, res.Session.QuestionIDs, 10)
	require.NotNil(t, res.FirstQuestion)
	assert.Equal(t, 0, res.FirstQuestion.Order)
	assert.True(t, res.FirstQuestion.Asked)

	items, _ := h.store.QuestionsBySession(context.Background(), res.Session.ID)
	require.Len(t, items, 10)
	for i, item := range items {
		assert.Equal(t, i, item.Order)
		assert.Equal(t, i == 0, item.Asked, "only the first question is delivered at start")
	}
}

func TestStartSessionRejectsUnreadyDocument(t *testing.T) {
	h := newHarness(t, []IntentLabel{IntentAnswering}, 10)
	h.store.docs[h.tag+"/doc2"] = db.DocumentModel{DocID: "doc2", Ready: false}

	_, err := h.orch.StartSession(context.Background(), "learner-1", []string{"doc2"}, "english")
	require.Error(t, err)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = h.orch.StartSession(context.Background(), "learner-1", []string{"missing"}, "english")
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

// Ten questions, ten turns: a plain answer, a pure question, a mixed turn,
// then answers to the end. Checks the transition table, cursor motion and
// completion in one pass.
func TestSessionLifecycle(t *testing.T) {
	labels := []IntentLabel{IntentAnswering, IntentAsking, IntentBoth,
		IntentAnswering, IntentAnswering, IntentAnswering, IntentAnswering,
		IntentAnswering, IntentAnswering, IntentAnswering}
	h := newHarness(t, labels, 10)
	ctx := context.Background()

	res, err := h.orch.StartSession(ctx, "learner-1", []string{"doc1"}, "english")
	require.NoError(t, err)
	sid := res.Session.ID

	// Turn 1: answering. Scored, no reply, cursor 1.
	r1, err := h.orch.SubmitTurn(ctx, sid, "", "the field points radially outward")
	require.NoError(t, err)
	assert.Equal(t, IntentAnswering, r1.Intent)
	require.NotNil(t, r1.Evaluation)
	assert.Nil(t, r1.Reply)
	require.NotNil(t, r1.NextQuestion)
	assert.Equal(t, 1, r1.NextQuestion.Order)

	session, _ := h.store.GetSession(ctx, sid)
	assert.Equal(t, 1, session.Cursor)

	// Turn 2: asking. Reply, no evaluation, cursor 2.
	r2, err := h.orch.SubmitTurn(ctx, sid, "", "what is flux?")
	require.NoError(t, err)
	assert.Equal(t, IntentAsking, r2.Intent)
	assert.Nil(t, r2.Evaluation)
	require.NotNil(t, r2.Reply)
	assert.Equal(t, BudgetEducational, h.answerer.last.Budget)
	assert.Equal(t, 2, r2.NextQuestion.Order)

	// Turn 3: both. Scored and replied with the short budget, cursor 3.
	r3, err := h.orch.SubmitTurn(ctx, sid, "", "it's the flux, but why is it conserved?")
	require.NoError(t, err)
	assert.Equal(t, IntentBoth, r3.Intent)
	require.NotNil(t, r3.Evaluation)
	require.NotNil(t, r3.Reply)
	assert.Equal(t, BudgetCorrective, h.answerer.last.Budget)

	session, _ = h.store.GetSession(ctx, sid)
	assert.Equal(t, 3, session.Cursor)

	// Turns 4..10: plain answers. The tenth closes the session.
	var last *TurnResult
	for i := 4; i <= 10; i++ {
		last, err = h.orch.SubmitTurn(ctx, sid, "", fmt.Sprintf("answer number %d", i))
		require.NoError(t, err)
		if i < 10 {
			require.NotNil(t, last.NextQuestion, "turn %d", i)
			assert.Equal(t, i, last.NextQuestion.Order)
		}
	}
	assert.True(t, last.SessionComplete)
	assert.Nil(t, last.NextQuestion)

	session, _ = h.store.GetSession(ctx, sid)
	assert.Equal(t, db.StatusComplete, session.Status)
	assert.Equal(t, 10, session.Cursor)

	// Completion synthesized the summary inline.
	assert.Equal(t, 1, h.summarizer.calls)
	summary, _ := h.store.GetSummary(ctx, sid)
	require.NotNil(t, summary)
	assert.NotEmpty(t, summary.WeakAreas.Bullets)
	assert.NotEmpty(t, summary.StrongAreas.Bullets)
	assert.NotEmpty(t, summary.GrowthPotential.Bullets)

	// A turn after completion is a no-op.
	after, err := h.orch.SubmitTurn(ctx, sid, "", "one more")
	require.NoError(t, err)
	assert.True(t, after.SessionComplete)
	assert.Nil(t, after.Evaluation)
}

func TestSubmitTurnIdempotentOnRetry(t *testing.T) {
	h := newHarness(t, []IntentLabel{IntentAnswering}, 10)
	ctx := context.Background()

	res, err := h.orch.StartSession(ctx, "learner-1", []string{"doc1"}, "english")
	require.NoError(t, err)
	sid := res.Session.ID

	first, err := h.orch.SubmitTurn(ctx, sid, "turn-1", "the field points outward")
	require.NoError(t, err)
	require.NotNil(t, first.Evaluation)

	evalsBefore, _ := h.store.EvaluationsBySession(ctx, sid)
	sessionBefore, _ := h.store.GetSession(ctx, sid)

	retry, err := h.orch.SubmitTurn(ctx, sid, "turn-1", "the field points outward")
	require.NoError(t, err)

	require.NotNil(t, retry.Evaluation)
	assert.Equal(t, first.Evaluation.ID, retry.Evaluation.ID)

	evalsAfter, _ := h.store.EvaluationsBySession(ctx, sid)
	sessionAfter, _ := h.store.GetSession(ctx, sid)
	assert.Len(t, evalsAfter, len(evalsBefore), "retry writes no second evaluation")
	assert.Equal(t, sessionBefore.Cursor, sessionAfter.Cursor, "retry does not advance the cursor")
	assert.Equal(t, 1, h.evaluator.calls)
}

func TestCursorAdvancesOnEveryLabel(t *testing.T) {
	h := newHarness(t, []IntentLabel{IntentAsking, IntentAsking, IntentBoth}, 10)
	ctx := context.Background()

	res, err := h.orch.StartSession(ctx, "learner-1", []string{"doc1"}, "english")
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		_, err := h.orch.SubmitTurn(ctx, res.Session.ID, "", fmt.Sprintf("what about %d?", i))
		require.NoError(t, err)
		session, _ := h.store.GetSession(ctx, res.Session.ID)
		assert.Equal(t, i, session.Cursor, "cursor moves once per turn, monotonically")
	}
}

func TestSubmitTurnContinuesWhenAnsweringFails(t *testing.T) {
	h := newHarness(t, []IntentLabel{IntentAsking}, 10)
	h.answerer.err = fmt.Errorf("retrieval backend down")
	ctx := context.Background()

	res, err := h.orch.StartSession(ctx, "learner-1", []string{"doc1"}, "english")
	require.NoError(t, err)

	r, err := h.orch.SubmitTurn(ctx, res.Session.ID, "", "what is flux?")
	require.NoError(t, err, "a failed reply never fails the turn")
	assert.Nil(t, r.Reply)
	require.NotNil(t, r.NextQuestion)
	assert.Equal(t, 1, r.NextQuestion.Order)
}

func TestEndSessionAlwaysReturnsSummary(t *testing.T) {
	h := newHarness(t, []IntentLabel{IntentAnswering}, 10)
	ctx := context.Background()

	res, err := h.orch.StartSession(ctx, "learner-1", []string{"doc1"}, "english")
	require.NoError(t, err)

	_, err = h.orch.SubmitTurn(ctx, res.Session.ID, "", "partial answer")
	require.NoError(t, err)

	summary, err := h.orch.EndSession(ctx, res.Session.ID)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.NotEmpty(t, summary.WeakAreas.Bullets)

	session, _ := h.store.GetSession(ctx, res.Session.ID)
	assert.Equal(t, db.StatusComplete, session.Status)

	// Ending again returns the stored summary without re-synthesis.
	again, err := h.orch.EndSession(ctx, res.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, summary.ID, again.ID)
	assert.Equal(t, 1, h.summarizer.calls)
}

// Ending a session must not queue behind a turn stuck in a slow model
// call: the turn is cancelled, returns Aborted, and leaves the cursor
// where it was.
func TestEndSessionCancelsInFlightTurn(t *testing.T) {
	h := newHarness(t, []IntentLabel{IntentAsking}, 10)
	blocker := &blockingAnswerer{started: make(chan struct{})}
	h.orch.answerer = blocker
	ctx := context.Background()

	res, err := h.orch.StartSession(ctx, "learner-1", []string{"doc1"}, "english")
	require.NoError(t, err)
	sid := res.Session.ID

	turnErr := make(chan error, 1)
	go func() {
		_, err := h.orch.SubmitTurn(ctx, sid, "", "what is flux?")
		turnErr <- err
	}()
	<-blocker.started

	endDone := make(chan struct{})
	var summary *db.SessionSummaryModel
	var endErr error
	go func() {
		summary, endErr = h.orch.EndSession(ctx, sid)
		close(endDone)
	}()

	select {
	case <-endDone:
	case <-time.After(2 * time.Second):
		t.Fatal("EndSession waited out the in-flight turn instead of cancelling it")
	}
	require.NoError(t, endErr)
	require.NotNil(t, summary)

	assert.Equal(t, codes.Aborted, status.Code(<-turnErr))

	session, _ := h.store.GetSession(ctx, sid)
	assert.Equal(t, db.StatusComplete, session.Status)
	assert.Equal(t, 0, session.Cursor, "an abandoned turn does not advance the session")
}

func TestSessionLockEntriesPrunedWhenIdle(t *testing.T) {
	h := newHarness(t, []IntentLabel{IntentAnswering}, 10)
	ctx := context.Background()

	res, err := h.orch.StartSession(ctx, "learner-1", []string{"doc1"}, "english")
	require.NoError(t, err)
	sid := res.Session.ID

	for i := 0; i < 3; i++ {
		_, err := h.orch.SubmitTurn(ctx, sid, "", fmt.Sprintf("answer %d", i))
		require.NoError(t, err)
	}
	_, err = h.orch.EndSession(ctx, sid)
	require.NoError(t, err)

	h.orch.mu.Lock()
	entries := len(h.orch.locks)
	h.orch.mu.Unlock()
	assert.Zero(t, entries, "idle sessions keep no lock entries around")
}

func TestEndSessionUnknownSession(t *testing.T) {
	h := newHarness(t, []IntentLabel{IntentAnswering}, 10)
	_, err := h.orch.EndSession(context.Background(), "nope")
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestSubmitFeedbackValidation(t *testing.T) {
	h := newHarness(t, []IntentLabel{IntentAnswering}, 10)
	ctx := context.Background()

	res, err := h.orch.StartSession(ctx, "learner-1", []string{"doc1"}, "english")
	require.NoError(t, err)
	sid := res.Session.ID

	err = h.orch.SubmitFeedback(ctx, sid, 4, "questions were sharp", "", false)
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "improvement text required unless skipped")

	err = h.orch.SubmitFeedback(ctx, sid, 0, "", "", true)
	require.NoError(t, err, "skipping waives the requirement")

	err = h.orch.SubmitFeedback(ctx, sid, 5, "pace", "more numericals", false)
	require.NoError(t, err)
	assert.Len(t, h.store.feedback, 2)
}
