package commonModels

import "context"

// DocumentStore persists documents and their chunks. Lookups of unknown ids return ErrNotFound.
type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, error)
	ListDocuments(ctx context.Context) ([]Document, error)
	UpdateState(ctx context.Context, id string, state ProcessingState) error
	SaveChunks(ctx context.Context, documentId string, chunks []Chunk) error
	GetChunks(ctx context.Context, documentId string) ([]Chunk, error)
	// DeleteDocument removes the document and its chunks. Deleting an unknown id is not an error.
	DeleteDocument(ctx context.Context, id string) error
}

// DocumentExtractor turns a stored file into raw text plus its page and section structure.
type DocumentExtractor interface {
	Extract(ctx context.Context, path string) (ExtractedDocument, error)
}
