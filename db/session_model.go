package db

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusComplete = "complete"
)

// SessionModel is the root entity of one tutoring conversation. Cursor is
// the index of the next unasked question and is monotonically
// non-decreasing; status only ever moves active -> complete.
type SessionModel struct {
	ID          string   `bson:"_id"`
	TenantTag   string   `bson:"tenantTag"`
	DocumentIDs []string `bson:"documentIds"`
	QuestionIDs []string `bson:"questionIds"` // ordered, fixed at creation
	Cursor      int      `bson:"cursor"`
	Status      string   `bson:"status"`
	Language    string   `bson:"language"`
	CreatedOn   int64    `bson:"createdOn"`
}

func NewSessionModel(tenantTag string, documentIDs []string, language string) *SessionModel {
	return &SessionModel{
		ID:          uuid.New().String(),
		TenantTag:   tenantTag,
		DocumentIDs: documentIDs,
		Status:      StatusActive,
		Language:    language,
		CreatedOn:   time.Now().Unix(),
	}
}

func (m SessionModel) Id() string {
	if len(m.ID) == 0 {
		return uuid.New().String()
	}
	return m.ID
}

func (m SessionModel) CollectionName() string { return "sessions" }
