package db

import (
	"github.com/SaiNageswarS/go-api-boot/odm"
)

const (
	TextSearchIndexName = "chunkIndex"
	VectorIndexName     = "chunkEmbeddingIndex"
	VectorPath          = "embedding"
)

var TextSearchPaths = []string{"sentences", "sectionPath", "title"}

// ChunkModel is one retrievable passage of a learner's document. Chunks
// live in the tenant's own database and additionally carry the tenant tag
// so the retrieval path can verify isolation per hit.
type ChunkModel struct {
	ChunkID      string   `json:"chunkId" bson:"_id"`
	TenantTag    string   `json:"tenantTag" bson:"tenantTag"`
	DocID        string   `json:"docId" bson:"docId"`
	Title        string   `json:"title" bson:"title"`
	SectionPath  string   `json:"sectionPath" bson:"sectionPath"`
	SectionIndex int      `json:"sectionIndex" bson:"sectionIndex"`
	WindowIndex  int      `json:"windowIndex" bson:"windowIndex"`
	Sentences    []string `json:"sentences" bson:"sentences"`
}

func (m ChunkModel) Id() string { return m.ChunkID }

func (m ChunkModel) CollectionName() string { return "chunks" }

func (m ChunkModel) TermSearchIndexSpecs() []odm.TermSearchIndexSpec {
	return []odm.TermSearchIndexSpec{
		{
			Name:  TextSearchIndexName,
			Paths: TextSearchPaths,
		},
	}
}
