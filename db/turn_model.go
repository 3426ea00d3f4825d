package db

import (
	"time"

	"github.com/google/uuid"
)

const (
	AuthorLearner = "learner"
	AuthorSystem  = "system"
)

// TurnModel is one utterance in a session. Append-only; never edited
// after creation.
type TurnModel struct {
	ID          string `bson:"_id"`
	SessionID   string `bson:"sessionId"`
	Author      string `bson:"author"`
	Text        string `bson:"text"`
	IntentLabel string `bson:"intentLabel,omitempty"`
	CreatedOn   int64  `bson:"createdOn"`
}

func NewTurnModel(sessionID, author, text string) *TurnModel {
	return &TurnModel{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Author:    author,
		Text:      text,
		CreatedOn: time.Now().UnixMilli(),
	}
}

func (m TurnModel) Id() string {
	if len(m.ID) == 0 {
		return uuid.New().String()
	}
	return m.ID
}

func (m TurnModel) CollectionName() string { return "turns" }
