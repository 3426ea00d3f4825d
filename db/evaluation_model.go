package db

// EvaluationModel scores one learner turn against one question item. The
// document id is derived from the (turn, question) pair, so a retried
// submission upserts the same document instead of creating a duplicate.
type EvaluationModel struct {
	ID             string  `bson:"_id"`
	SessionID      string  `bson:"sessionId"`
	TurnID         string  `bson:"turnId"`
	QuestionItemID string  `bson:"questionItemId"`
	Score          float64 `bson:"score"`       // 0.0 - 1.0
	RewardUnits    int     `bson:"rewardUnits"` // 1 - 100, never zero
	Correct        bool    `bson:"correct"`
	Rationale      string  `bson:"rationale"`
	Confidence     float64 `bson:"confidence"` // 0.0 - 1.0
}

func EvaluationID(turnID, questionItemID string) string {
	return turnID + ":" + questionItemID
}

func (m EvaluationModel) Id() string {
	if len(m.ID) == 0 {
		return EvaluationID(m.TurnID, m.QuestionItemID)
	}
	return m.ID
}

func (m EvaluationModel) CollectionName() string { return "evaluations" }
