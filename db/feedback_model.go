package db

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackModel captures end-of-session feedback. Independent of the
// orchestration state machine.
type FeedbackModel struct {
	ID        string `bson:"_id"`
	SessionID string `bson:"sessionId"`
	Rating    int    `bson:"rating,omitempty"`
	Liked     string `bson:"liked,omitempty"`
	Improve   string `bson:"improve,omitempty"`
	Skipped   bool   `bson:"skipped"`
	CreatedOn int64  `bson:"createdOn"`
}

func NewFeedbackModel(sessionID string) *FeedbackModel {
	return &FeedbackModel{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		CreatedOn: time.Now().Unix(),
	}
}

func (m FeedbackModel) Id() string {
	if len(m.ID) == 0 {
		return uuid.New().String()
	}
	return m.ID
}

func (m FeedbackModel) CollectionName() string { return "feedback" }
