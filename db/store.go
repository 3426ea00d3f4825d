package db

import (
	"context"
	"errors"
	"sort"

	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// missingAsNil maps the driver's no-document sentinel onto the store
// contract: a missing document reads as (nil, nil), never as an error.
func missingAsNil[T any](doc *T, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

// MongoStore is the production persistence layer. The tutor package
// consumes it through its Store interface so the state machine is testable
// with in-memory fakes.
type MongoStore struct {
	mongo *mongo.Client
}

func ProvideMongoStore(mongoClient *mongo.Client) *MongoStore {
	return &MongoStore{mongo: mongoClient}
}

func (s *MongoStore) GetSession(ctx context.Context, id string) (*SessionModel, error) {
	return missingAsNil(async.Await(odm.CollectionOf[SessionModel](s.mongo, CoreDatabase).FindOneByID(ctx, id)))
}

func (s *MongoStore) SaveSession(ctx context.Context, session *SessionModel) error {
	_, err := async.Await(odm.CollectionOf[SessionModel](s.mongo, CoreDatabase).Save(ctx, *session))
	return err
}

func (s *MongoStore) SaveQuestion(ctx context.Context, item *QuestionItemModel) error {
	_, err := async.Await(odm.CollectionOf[QuestionItemModel](s.mongo, CoreDatabase).Save(ctx, *item))
	return err
}

func (s *MongoStore) GetQuestion(ctx context.Context, id string) (*QuestionItemModel, error) {
	return missingAsNil(async.Await(odm.CollectionOf[QuestionItemModel](s.mongo, CoreDatabase).FindOneByID(ctx, id)))
}

func (s *MongoStore) QuestionsBySession(ctx context.Context, sessionID string) ([]QuestionItemModel, error) {
	items, err := async.Await(odm.CollectionOf[QuestionItemModel](s.mongo, CoreDatabase).
		Find(ctx, bson.M{"sessionId": sessionID}, nil, 0, 0))
	if err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	return items, nil
}

func (s *MongoStore) SaveTurn(ctx context.Context, turn *TurnModel) error {
	_, err := async.Await(odm.CollectionOf[TurnModel](s.mongo, CoreDatabase).Save(ctx, *turn))
	return err
}

func (s *MongoStore) GetTurn(ctx context.Context, id string) (*TurnModel, error) {
	return missingAsNil(async.Await(odm.CollectionOf[TurnModel](s.mongo, CoreDatabase).FindOneByID(ctx, id)))
}

// RecentTurns returns up to limit turns of a session, oldest first. Turn
// counts are bounded by the session length, so sorting in memory is fine.
func (s *MongoStore) RecentTurns(ctx context.Context, sessionID string, limit int) ([]TurnModel, error) {
	turns, err := async.Await(odm.CollectionOf[TurnModel](s.mongo, CoreDatabase).
		Find(ctx, bson.M{"sessionId": sessionID}, nil, 0, 0))
	if err != nil {
		return nil, err
	}

	sort.Slice(turns, func(i, j int) bool { return turns[i].CreatedOn < turns[j].CreatedOn })
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

func (s *MongoStore) GetEvaluation(ctx context.Context, id string) (*EvaluationModel, error) {
	return missingAsNil(async.Await(odm.CollectionOf[EvaluationModel](s.mongo, CoreDatabase).FindOneByID(ctx, id)))
}

func (s *MongoStore) SaveEvaluation(ctx context.Context, eval *EvaluationModel) error {
	_, err := async.Await(odm.CollectionOf[EvaluationModel](s.mongo, CoreDatabase).Save(ctx, *eval))
	return err
}

func (s *MongoStore) EvaluationsBySession(ctx context.Context, sessionID string) ([]EvaluationModel, error) {
	return async.Await(odm.CollectionOf[EvaluationModel](s.mongo, CoreDatabase).
		Find(ctx, bson.M{"sessionId": sessionID}, nil, 0, 0))
}

func (s *MongoStore) GetSummary(ctx context.Context, sessionID string) (*SessionSummaryModel, error) {
	return missingAsNil(async.Await(odm.CollectionOf[SessionSummaryModel](s.mongo, CoreDatabase).FindOneByID(ctx, sessionID)))
}

func (s *MongoStore) SaveSummary(ctx context.Context, summary *SessionSummaryModel) error {
	_, err := async.Await(odm.CollectionOf[SessionSummaryModel](s.mongo, CoreDatabase).Save(ctx, *summary))
	return err
}

func (s *MongoStore) SaveFeedback(ctx context.Context, feedback *FeedbackModel) error {
	_, err := async.Await(odm.CollectionOf[FeedbackModel](s.mongo, CoreDatabase).Save(ctx, *feedback))
	return err
}

func (s *MongoStore) GetDocument(ctx context.Context, tenantTag, docID string) (*DocumentModel, error) {
	return missingAsNil(async.Await(odm.CollectionOf[DocumentModel](s.mongo, tenantTag).FindOneByID(ctx, docID)))
}

// ChunksByDocuments returns all chunks of the given documents in reading
// order: (docId, sectionIndex, windowIndex).
func (s *MongoStore) ChunksByDocuments(ctx context.Context, tenantTag string, docIDs []string) ([]ChunkModel, error) {
	chunks, err := async.Await(odm.CollectionOf[ChunkModel](s.mongo, tenantTag).
		Find(ctx, bson.M{"docId": bson.M{"$in": docIDs}}, nil, 0, 0))
	if err != nil {
		return nil, err
	}

	sort.Slice(chunks, func(i, j int) bool {
		ci, cj := chunks[i], chunks[j]
		if ci.DocID != cj.DocID {
			return ci.DocID < cj.DocID
		}
		if ci.SectionIndex != cj.SectionIndex {
			return ci.SectionIndex < cj.SectionIndex
		}
		return ci.WindowIndex < cj.WindowIndex
	})
	return chunks, nil
}
