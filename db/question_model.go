package db

import "github.com/google/uuid"

// Question archetypes. Seven pedagogical styles; generation output is
// rejected unless it names one of these.
const (
	ArchetypeConceptUnfold    = "concept_unfold"
	ArchetypeCriticalReversal = "critical_reversal"
	ArchetypeApplication      = "application"
	ArchetypeProblemSolving   = "problem_solving"
	ArchetypeComparison       = "comparison"
	ArchetypeFactRecall       = "fact_recall"
	ArchetypeReflection       = "reflection"
)

var Archetypes = []string{
	ArchetypeConceptUnfold,
	ArchetypeCriticalReversal,
	ArchetypeApplication,
	ArchetypeProblemSolving,
	ArchetypeComparison,
	ArchetypeFactRecall,
	ArchetypeReflection,
}

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// QuestionItemModel is one slot of a session's pre-generated batch.
// Order, archetype, difficulty and expectedAnswer are immutable after
// creation; Asked flips to true exactly once, when the question is
// delivered to the learner.
type QuestionItemModel struct {
	ID             string `bson:"_id"`
	SessionID      string `bson:"sessionId"`
	Order          int    `bson:"order"`
	Archetype      string `bson:"archetype"`
	Difficulty     string `bson:"difficulty"`
	QuestionText   string `bson:"questionText"`
	ExpectedAnswer string `bson:"expectedAnswer"`
	Asked          bool   `bson:"asked"`
}

func (m QuestionItemModel) Id() string {
	if len(m.ID) == 0 {
		return uuid.New().String()
	}
	return m.ID
}

func (m QuestionItemModel) CollectionName() string { return "question_items" }

func ValidArchetype(a string) bool {
	for _, known := range Archetypes {
		if a == known {
			return true
		}
	}
	return false
}

func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}
