package retrieval

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vishal-24-1/Inzighted-G-sub000/db"
)

func TestFuseRanksPrefersTopRankedHits(t *testing.T) {
	textRanks := map[string]int{"a": 1, "b": 2, "c": 3}
	vecRanks := map[string]int{"b": 1, "d": 2}

	ids := FuseRanks(textRanks, vecRanks, 3)

	assert.Len(t, ids, 3)
	// b appears near the top of both engines, so fusion must rank it first.
	assert.Equal(t, "b", ids[0])
	assert.Contains(t, ids, "a")
}

func TestFuseRanksSingleEngine(t *testing.T) {
	textRanks := map[string]int{"a": 1, "b": 2, "c": 3}

	ids := FuseRanks(textRanks, map[string]int{}, 2)

	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestFuseRanksEmpty(t *testing.T) {
	assert.Empty(t, FuseRanks(map[string]int{}, map[string]int{}, 5))
}

func TestFilterByTenantDropsForeignChunks(t *testing.T) {
	chunks := []db.ChunkModel{
		{ChunkID: "c1", TenantTag: "tenant-a"},
		{ChunkID: "c2", TenantTag: "tenant-b"},
		{ChunkID: "c3", TenantTag: "tenant-a"},
	}

	out := FilterByTenant(chunks, "tenant-a")

	assert.Len(t, out, 2)
	for _, c := range out {
		assert.Equal(t, "tenant-a", c.TenantTag)
	}
}

func TestFilterByTenantFuzz(t *testing.T) {
	// For all tenants A != B, a query scoped to A never yields a B chunk.
	rng := rand.New(rand.NewSource(42))
	tenants := []string{"tenant-a", "tenant-b", "tenant-c", "tenant-d"}

	for i := 0; i < 200; i++ {
		var chunks []db.ChunkModel
		for j := 0; j < rng.Intn(30); j++ {
			chunks = append(chunks, db.ChunkModel{
				ChunkID:   fmt.Sprintf("c%d-%d", i, j),
				TenantTag: tenants[rng.Intn(len(tenants))],
			})
		}

		want := tenants[rng.Intn(len(tenants))]
		for _, c := range FilterByTenant(chunks, want) {
			assert.Equal(t, want, c.TenantTag)
		}
	}
}
