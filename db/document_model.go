package db

// DocumentModel is the core's view of an ingested document. Ingestion
// happens out-of-band on a durable task queue; the core only reads the
// Ready flag and never mutates this entity.
type DocumentModel struct {
	DocID      string `bson:"_id"`
	Title      string `bson:"title"`
	Ready      bool   `bson:"ready"`
	ChunkCount int    `bson:"chunkCount"`
	CreatedOn  int64  `bson:"createdOn"`
}

func (m DocumentModel) Id() string { return m.DocID }

func (m DocumentModel) CollectionName() string { return "documents" }
