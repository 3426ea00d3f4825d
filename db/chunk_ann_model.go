package db

import (
	"github.com/SaiNageswarS/go-api-boot/odm"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const EmbeddingDimensions = 768 // nomic-embed-text

type ChunkAnnModel struct {
	ChunkID   string      `json:"chunkId" bson:"_id"`
	Embedding bson.Vector `json:"-" bson:"embedding"`
}

func (m ChunkAnnModel) Id() string { return m.ChunkID }

func (m ChunkAnnModel) CollectionName() string { return "chunk_ann_index" }

func (m ChunkAnnModel) VectorIndexSpecs() []odm.VectorIndexSpec {
	return []odm.VectorIndexSpec{
		{
			Name:          VectorIndexName,
			Path:          VectorPath,
			Type:          "vector",
			NumDimensions: EmbeddingDimensions,
			Similarity:    "cosine",
			Quantization:  "scalar",
		},
	}
}
