package tutor

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/vishal-24-1/Inzighted-G-sub000/db"
	"github.com/vishal-24-1/Inzighted-G-sub000/prompts"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2s"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const maxGroupChars = 6000

// BatchGenerator produces the fixed question batch for a session by
// partitioning the selected documents' chunks into contiguous groups and
// drafting one question per group. A failed draft is replaced by a
// synthetic question built from the group's text, so the batch always has
// exactly the requested size.
type BatchGenerator struct {
	client  prompts.InferenceClient
	model   string
	store   Store
	cache   BatchCache
	timeout time.Duration
}

func NewBatchGenerator(client prompts.InferenceClient, model string, store Store, cache BatchCache, timeout time.Duration) *BatchGenerator {
	return &BatchGenerator{client: client, model: model, store: store, cache: cache, timeout: timeout}
}

func (g *BatchGenerator) Generate(ctx context.Context, tenantTag string, docIDs []string, language string, n int) ([]prompts.QuestionDraft, error) {
	key := BatchCacheKey(tenantTag, docIDs, language)
	if g.cache != nil {
		if drafts, ok := g.cache.Get(ctx, key); ok && len(drafts) == n {
			logger.Info("question batch served from cache", zap.String("tenantTag", tenantTag))
			return drafts, nil
		}
	}

	chunks, err := g.store.ChunksByDocuments(ctx, tenantTag, docIDs)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, status.Error(codes.FailedPrecondition, "selected documents have no retrievable content")
	}

	groups := partitionChunks(chunks, n)
	drafts := make([]prompts.QuestionDraft, n)
	for i, group := range groups {
		sectionText := groupText(group, maxGroupChars)
		draft, err := withRetry(ctx, llmAttempts, func(ctx context.Context) (*prompts.QuestionDraft, error) {
			callCtx, cancel := context.WithTimeout(ctx, g.timeout)
			defer cancel()
			return async.Await(prompts.GenerateQuestion(callCtx, g.client, g.model, language, sectionText))
		})
		if err != nil {
			logger.Error("question draft failed, using synthetic fallback",
				zap.Int("group", i), zap.Error(err))
			drafts[i] = fallbackDraft(group)
			continue
		}
		drafts[i] = *draft
	}

	shuffleDrafts(drafts)
	if g.cache != nil {
		g.cache.Set(ctx, key, drafts)
	}
	return drafts, nil
}

// BatchCacheKey is stable across document ordering so the same material
// selection always hits the same cache entry.
func BatchCacheKey(tenantTag string, docIDs []string, language string) string {
	sorted := append([]string(nil), docIDs...)
	sort.Strings(sorted)
	sum := blake2s.Sum256([]byte(tenantTag + "|" + language + "|" + strings.Join(sorted, "|")))
	return "qbatch:" + hex.EncodeToString(sum[:])
}

// partitionChunks splits chunks into exactly n contiguous groups so each
// question draws on a distinct region of the material. With fewer chunks
// than groups, chunks are reused round-robin.
func partitionChunks(chunks []db.ChunkModel, n int) [][]db.ChunkModel {
	groups := make([][]db.ChunkModel, n)
	if len(chunks) >= n {
		base, rem := len(chunks)/n, len(chunks)%n
		start := 0
		for i := 0; i < n; i++ {
			size := base
			if i < rem {
				size++
			}
			groups[i] = chunks[start : start+size]
			start += size
		}
		return groups
	}
	for i := 0; i < n; i++ {
		groups[i] = []db.ChunkModel{chunks[i%len(chunks)]}
	}
	return groups
}

func groupText(group []db.ChunkModel, maxChars int) string {
	var sb strings.Builder
	for _, c := range group {
		if c.SectionPath != "" {
			sb.WriteString(c.SectionPath)
			sb.WriteString("\n")
		}
		sb.WriteString(strings.Join(c.Sentences, " "))
		sb.WriteString("\n\n")
		if sb.Len() >= maxChars {
			break
		}
	}
	text := sb.String()
	if len(text) > maxChars {
		text = text[:maxChars]
	}
	return text
}

// fallbackDraft builds a question directly from the group's leading
// sentences when the model cannot produce one.
func fallbackDraft(group []db.ChunkModel) prompts.QuestionDraft {
	var sentences []string
	for _, c := range group {
		sentences = append(sentences, c.Sentences...)
		if len(sentences) >= 3 {
			break
		}
	}
	lead := "this topic"
	if len(sentences) > 0 {
		lead = strings.TrimSpace(sentences[0])
	}
	if len(sentences) > 3 {
		sentences = sentences[:3]
	}
	return prompts.QuestionDraft{
		Question:       fmt.Sprintf("Your material states: %q. Explain this in your own words.", lead),
		Archetype:      db.ArchetypeConceptUnfold,
		Difficulty:     db.DifficultyMedium,
		ExpectedAnswer: strings.Join(sentences, " "),
	}
}

// shuffleDrafts randomizes delivery order and then breaks up runs of the
// same archetype where an alternative exists.
func shuffleDrafts(drafts []prompts.QuestionDraft) {
	rand.Shuffle(len(drafts), func(i, j int) {
		drafts[i], drafts[j] = drafts[j], drafts[i]
	})
	repairAdjacency(drafts)
}

// repairAdjacency swaps a later differing draft into place wherever two
// neighbours share an archetype. Runs are left alone only when no
// alternative draft remains.
func repairAdjacency(drafts []prompts.QuestionDraft) {
	for i := 1; i < len(drafts); i++ {
		if drafts[i].Archetype != drafts[i-1].Archetype {
			continue
		}
		for j := i + 1; j < len(drafts); j++ {
			if drafts[j].Archetype != drafts[i-1].Archetype {
				drafts[i], drafts[j] = drafts[j], drafts[i]
				break
			}
		}
	}
}
