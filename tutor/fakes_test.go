package tutor

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/SaiNageswarS/go-api-boot/llm"
	"github.com/vishal-24-1/Inzighted-G-sub000/db"
	"github.com/vishal-24-1/Inzighted-G-sub000/prompts"
)

// fakeLLM replays scripted responses in order. An empty string scripts a
// failure; an exhausted script always fails.
type fakeLLM struct {
	mu        sync.Mutex
	responses []string
	calls     int
}

func (f *fakeLLM) GenerateInference(ctx context.Context, messages []llm.Message, callback func(string) error, opts ...llm.LLMOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.responses) == 0 {
		return errors.New("inference unavailable")
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	if next == "" {
		return errors.New("inference unavailable")
	}
	return callback(next)
}

type fakeStore struct {
	mu        sync.Mutex
	sessions  map[string]db.SessionModel
	questions map[string]db.QuestionItemModel
	turns     []db.TurnModel
	evals     map[string]db.EvaluationModel
	summaries map[string]db.SessionSummaryModel
	feedback  []db.FeedbackModel
	docs      map[string]db.DocumentModel
	chunks    map[string][]db.ChunkModel
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:  map[string]db.SessionModel{},
		questions: map[string]db.QuestionItemModel{},
		evals:     map[string]db.EvaluationModel{},
		summaries: map[string]db.SessionSummaryModel{},
		docs:      map[string]db.DocumentModel{},
		chunks:    map[string][]db.ChunkModel{},
	}
}

func (s *fakeStore) GetSession(ctx context.Context, id string) (*db.SessionModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.sessions[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *fakeStore) SaveSession(ctx context.Context, session *db.SessionModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *fakeStore) SaveQuestion(ctx context.Context, item *db.QuestionItemModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[item.ID] = *item
	return nil
}

func (s *fakeStore) GetQuestion(ctx context.Context, id string) (*db.QuestionItemModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.questions[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *fakeStore) QuestionsBySession(ctx context.Context, sessionID string) ([]db.QuestionItemModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.QuestionItemModel
	for _, q := range s.questions {
		if q.SessionID == sessionID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *fakeStore) SaveTurn(ctx context.Context, turn *db.TurnModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, *turn)
	return nil
}

func (s *fakeStore) GetTurn(ctx context.Context, id string) (*db.TurnModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.turns {
		if s.turns[i].ID == id {
			t := s.turns[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) RecentTurns(ctx context.Context, sessionID string, limit int) ([]db.TurnModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.TurnModel
	for _, t := range s.turns {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *fakeStore) GetEvaluation(ctx context.Context, id string) (*db.EvaluationModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.evals[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *fakeStore) SaveEvaluation(ctx context.Context, eval *db.EvaluationModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evals[eval.ID] = *eval
	return nil
}

func (s *fakeStore) EvaluationsBySession(ctx context.Context, sessionID string) ([]db.EvaluationModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.EvaluationModel
	for _, e := range s.evals {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) GetSummary(ctx context.Context, sessionID string) (*db.SessionSummaryModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.summaries[sessionID]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *fakeStore) SaveSummary(ctx context.Context, summary *db.SessionSummaryModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[summary.ID] = *summary
	return nil
}

func (s *fakeStore) SaveFeedback(ctx context.Context, feedback *db.FeedbackModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, *feedback)
	return nil
}

func (s *fakeStore) GetDocument(ctx context.Context, tenantTag, docID string) (*db.DocumentModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.docs[tenantTag+"/"+docID]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *fakeStore) ChunksByDocuments(ctx context.Context, tenantTag string, docIDs []string) ([]db.ChunkModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := map[string]bool{}
	for _, id := range docIDs {
		want[id] = true
	}
	var out []db.ChunkModel
	for _, c := range s.chunks[tenantTag] {
		if want[c.DocID] {
			out = append(out, c)
		}
	}
	return out, nil
}

// scriptedClassifier replays labels in order, repeating the last one.
type scriptedClassifier struct {
	labels []IntentLabel
	idx    int
}

func (c *scriptedClassifier) Classify(ctx context.Context, activeQuestion, turnText string) IntentLabel {
	if c.idx >= len(c.labels) {
		return c.labels[len(c.labels)-1]
	}
	l := c.labels[c.idx]
	c.idx++
	return l
}

type fixedEvaluator struct {
	outcome prompts.EvaluationOutcome
	calls   int
}

func (e *fixedEvaluator) Evaluate(ctx context.Context, question *db.QuestionItemModel, answerText, language string) prompts.EvaluationOutcome {
	e.calls++
	return e.outcome
}

type fixedAnswerer struct {
	reply *AnswerReply
	err   error
	calls int
	last  *AnswerRequest
}

func (a *fixedAnswerer) Answer(ctx context.Context, req *AnswerRequest) (*AnswerReply, error) {
	a.calls++
	a.last = req
	if a.err != nil {
		return nil, a.err
	}
	return a.reply, nil
}

// blockingAnswerer signals when a call begins and holds it until the
// call's context is cancelled.
type blockingAnswerer struct {
	started chan struct{}
}

func (a *blockingAnswerer) Answer(ctx context.Context, req *AnswerRequest) (*AnswerReply, error) {
	close(a.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

type fixedSummarizer struct {
	calls int
}

func (s *fixedSummarizer) Synthesize(ctx context.Context, session *db.SessionModel, questions []db.QuestionItemModel, evals []db.EvaluationModel) *db.SessionSummaryModel {
	s.calls++
	return &db.SessionSummaryModel{
		ID:              session.ID,
		WeakAreas:       db.Zone{Bullets: []string{"weak"}, Justification: "weak"},
		StrongAreas:     db.Zone{Bullets: []string{"strong"}, Justification: "strong"},
		GrowthPotential: db.Zone{Bullets: []string{"growth"}, Justification: "growth"},
		AccuracyPercent: 70,
		TotalReward:     len(evals) * 70,
	}
}

type draftBatch struct {
	n     int
	calls int
}

func (b *draftBatch) Generate(ctx context.Context, tenantTag string, docIDs []string, language string, n int) ([]prompts.QuestionDraft, error) {
	b.calls++
	drafts := make([]prompts.QuestionDraft, n)
	archetypes := db.Archetypes
	for i := range drafts {
		drafts[i] = prompts.QuestionDraft{
			Question:       "question " + string(rune('A'+i)),
			Archetype:      archetypes[i%len(archetypes)],
			Difficulty:     db.DifficultyMedium,
			ExpectedAnswer: "expected " + string(rune('A'+i)),
		}
	}
	return drafts, nil
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]prompts.QuestionDraft
	gets    int
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]prompts.QuestionDraft{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]prompts.QuestionDraft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	drafts, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return drafts, ok
}

func (c *memoryCache) Set(ctx context.Context, key string, drafts []prompts.QuestionDraft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = drafts
}
