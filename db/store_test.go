package db

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// The driver reports a missing document as mongo.ErrNoDocuments; store
// callers rely on missing reading as (nil, nil). A turn's idempotency
// pre-check, a client-supplied turn id lookup and the end-session summary
// check all hit getters for documents that usually do not exist yet.
func TestMissingDocumentReadsAsNil(t *testing.T) {
	doc, err := missingAsNil[SessionModel](nil, mongo.ErrNoDocuments)
	require.NoError(t, err)
	assert.Nil(t, doc)

	doc, err = missingAsNil[SessionModel](nil, fmt.Errorf("find session: %w", mongo.ErrNoDocuments))
	require.NoError(t, err, "wrapped sentinel is still a miss")
	assert.Nil(t, doc)
}

func TestMissingAsNilPassesThroughRealErrors(t *testing.T) {
	boom := fmt.Errorf("connection reset")
	doc, err := missingAsNil[SessionModel](nil, boom)
	assert.Nil(t, doc)
	assert.Equal(t, boom, err)
}

func TestMissingAsNilPassesThroughFoundDocument(t *testing.T) {
	want := &SessionModel{ID: "s1"}
	doc, err := missingAsNil(want, nil)
	require.NoError(t, err)
	assert.Equal(t, want, doc)
}
