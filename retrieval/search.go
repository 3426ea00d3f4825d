package retrieval

import (
	"context"
	"slices"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/SaiNageswarS/go-collection-boot/ds"
	"github.com/SaiNageswarS/go-collection-boot/linq"
	"github.com/vishal-24-1/Inzighted-G-sub000/db"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// search parameters.
const (
	rrfK               = 60  // "dampening" constant from the RRF paper
	textSearchWeight   = 1.0 // optional per-engine weights
	vectorSearchWeight = 1.0
	vecK               = 20 // # of hits to keep from each engine
	textK              = 20
)

// SearchStep performs tenant-scoped hybrid retrieval: BM25 term search and
// ANN vector search fused by Reciprocal-Rank Fusion. Every query runs
// against the requesting tenant's own database, and every hit is verified
// against the tenant tag before use.
type SearchStep struct {
	mongo    *mongo.Client
	embedder Embedder
}

func NewSearchStep(mongoClient *mongo.Client, embedder Embedder) *SearchStep {
	return &SearchStep{
		mongo:    mongoClient,
		embedder: embedder,
	}
}

// Retrieve returns up to k grounding passages for a tenant's query, best
// first. Results never include a passage tagged for another tenant.
func (s *SearchStep) Retrieve(ctx context.Context, tenantTag, query string, k int) ([]db.ChunkModel, error) {
	chunkRepo := odm.CollectionOf[db.ChunkModel](s.mongo, tenantTag)
	vectorRepo := odm.CollectionOf[db.ChunkAnnModel](s.mongo, tenantTag)

	// Fire the two independent searches in parallel.
	textTask := chunkRepo.TermSearch(ctx, query, odm.TermSearchParams{
		IndexName: db.TextSearchIndexName,
		Path:      db.TextSearchPaths,
		Limit:     textK,
	})

	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "embed: %v", err)
	}

	vecTask := vectorRepo.VectorSearch(ctx, emb, odm.VectorSearchParams{
		IndexName:     db.VectorIndexName,
		Path:          db.VectorPath,
		K:             vecK,
		NumCandidates: 100,
	})

	// Convert each result list to id->rank (rank is 1-based).
	textRanks := make(map[string]int)
	cache := make(map[string]*db.ChunkModel)

	textHits, err := async.Await(textTask)
	if err != nil {
		logger.Error("text search failed", zap.Error(err))
	}
	for i, h := range textHits {
		id := h.Doc.Id()
		if _, seen := textRanks[id]; !seen { // keep first (best-ranked) hit
			textRanks[id] = i + 1
			doc := h.Doc
			cache[id] = &doc
		}
	}

	vecRanks := make(map[string]int)
	vecHits, err := async.Await(vecTask)
	if err != nil {
		logger.Error("vector search failed", zap.Error(err))
	}
	for i, h := range vecHits {
		id := h.Doc.Id()
		if _, seen := vecRanks[id]; !seen {
			vecRanks[id] = i + 1
		}
	}

	ids := FuseRanks(textRanks, vecRanks, k)
	chunks := s.fetchChunksByIds(ctx, chunkRepo, cache, ids)

	// Hard isolation invariant: drop any hit tagged for another tenant
	// before it reaches a prompt. Not configurable.
	return FilterByTenant(chunks, tenantTag), nil
}

// FuseRanks merges per-engine rank maps with Reciprocal-Rank Fusion:
//
//	score(id) = Σ_e  w_e / (rrfK + rank_e(id))
//
// Rank beats raw score here because BM25 and cosine scores live on
// different scales; relative rank is stable across index rebuilds.
func FuseRanks(textRanks, vecRanks map[string]int, limit int) []string {
	combined := make(map[string]float64)
	for id, r := range textRanks {
		combined[id] = textSearchWeight / float64(rrfK+r)
	}
	for id, r := range vecRanks {
		combined[id] += vectorSearchWeight / float64(rrfK+r)
	}

	// Keep the top-N with a min-heap (higher RRF score = better).
	type pair struct {
		id    string
		score float64
	}

	h := ds.NewMinHeap(func(a, b pair) bool {
		if a.score != b.score {
			return a.score < b.score
		}
		return a.id > b.id // stable order for equal scores
	})
	for id, sc := range combined {
		h.Push(pair{id, sc})
		if h.Len() > limit {
			h.Pop()
		}
	}

	ids := linq.Map(h.ToSortedSlice(), func(p pair) string { return p.id })
	slices.Reverse(ids) // highest score first
	return ids
}

// FilterByTenant drops every chunk whose tag differs from the requesting
// tenant's. A mismatch is an isolation breach: it is logged and the chunk
// is discarded, never surfaced.
func FilterByTenant(chunks []db.ChunkModel, tenantTag string) []db.ChunkModel {
	out := make([]db.ChunkModel, 0, len(chunks))
	for _, c := range chunks {
		if c.TenantTag != tenantTag {
			logger.Error("dropping cross-tenant retrieval hit",
				zap.String("chunkId", c.ChunkID),
				zap.String("wantTenant", tenantTag))
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *SearchStep) fetchChunksByIds(ctx context.Context, chunkRepo odm.OdmCollectionInterface[db.ChunkModel], cache map[string]*db.ChunkModel, rankedIds []string) []db.ChunkModel {
	if len(rankedIds) == 0 {
		return nil
	}

	chunkByID := make(map[string]*db.ChunkModel, len(rankedIds))
	var missing []string

	for _, id := range rankedIds {
		if c, ok := cache[id]; ok {
			chunkByID[id] = c
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		// fetch all missing in one DB round-trip
		dbChunks, err := async.Await(
			chunkRepo.Find(ctx, bson.M{"_id": bson.M{"$in": missing}}, nil, 0, 0),
		)
		if err != nil {
			logger.Error("Failed to fetch chunks from database", zap.Error(err))
			// we still return whatever we already have
		}
		for _, ch := range dbChunks {
			c := ch
			chunkByID[c.ChunkID] = &c
		}
	}

	// assemble slice in ranking order
	ordered := make([]db.ChunkModel, 0, len(rankedIds))
	for _, id := range rankedIds {
		if ch, ok := chunkByID[id]; ok {
			ordered = append(ordered, *ch)
		}
	}

	return ordered
}
