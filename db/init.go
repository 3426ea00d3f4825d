package db

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/odm"
)

// CoreDatabase holds session-owned entities. Sessions are looked up by id
// alone, so they live in one database with the tenant tag attached to each
// document; grounding chunks stay in per-tenant databases.
const CoreDatabase = "tutorcore"

// InitCoreDB ensures indexes for the session-owned collections.
func InitCoreDB(ctx context.Context, mongo odm.MongoClient) error {
	if err := odm.EnsureIndexes[SessionModel](ctx, mongo, CoreDatabase); err != nil {
		return err
	}

	if err := odm.EnsureIndexes[QuestionItemModel](ctx, mongo, CoreDatabase); err != nil {
		return err
	}

	if err := odm.EnsureIndexes[TurnModel](ctx, mongo, CoreDatabase); err != nil {
		return err
	}

	if err := odm.EnsureIndexes[EvaluationModel](ctx, mongo, CoreDatabase); err != nil {
		return err
	}

	if err := odm.EnsureIndexes[SessionSummaryModel](ctx, mongo, CoreDatabase); err != nil {
		return err
	}

	return odm.EnsureIndexes[FeedbackModel](ctx, mongo, CoreDatabase)
}

// InitTenantDB ensures the search indexes of one tenant's grounding store.
func InitTenantDB(ctx context.Context, mongo odm.MongoClient, tenantTag string) error {
	if err := odm.EnsureIndexes[DocumentModel](ctx, mongo, tenantTag); err != nil {
		return err
	}

	if err := odm.EnsureIndexes[ChunkModel](ctx, mongo, tenantTag); err != nil {
		return err
	}

	return odm.EnsureIndexes[ChunkAnnModel](ctx, mongo, tenantTag)
}
