package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/metrics"
	"github.com/akolanti/StudyRAG/internal/rag/vectorDB"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

const (
	fieldDocumentId = "document_id"
	fieldChunkId    = "chunk_id"
	fieldSequence   = "sequence_index"
	fieldStart      = "start_index"
	fieldEnd        = "end_index"
	fieldPage       = "page_number"
	fieldText       = "text"
	fieldModel      = "model_name"
	fieldIngestedAt = "ingested_at"

	// over-fetch so ties at the cut-off are ordered by our rule rather than the server's
	searchOverFetch = 2
)

var logger *logger_i.Logger
var quadrantInstance *qdrant.Client
var initErr error
var once sync.Once

type ClientHolder struct {
	QObj       *qdrant.Client
	collection string
}

// GetQuadrantClient connects once per process and ensures the collection and its document index exist.
func GetQuadrantClient(ctx context.Context, cfg config.QdrantConfig, dimension uint64) (*ClientHolder, error) {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		quadrantInstance, initErr = newClient(ctx, cfg, dimension)
		if initErr == nil {
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil, fmt.Errorf("%w: qdrant: %w", commonModels.ErrStorageUnavailable, initErr)
	}
	return &ClientHolder{
		QObj:       quadrantInstance,
		collection: cfg.Collection,
	}, nil
}

func newClient(ctx context.Context, cfg config.QdrantConfig, dimension uint64) (*qdrant.Client, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		APIKey:   cfg.APIKey,
		UseTLS:   cfg.UseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate", "error", err)
		return nil, err
	}

	setupCtx, cancel := context.WithTimeout(ctx, config.QdrantConnectionTimeout)
	defer cancel()
	if err := createCollection(setupCtx, client, cfg.Collection, dimension); err != nil {
		logger.Error("could not create collection", "collectionName", cfg.Collection, "error", err)
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
}

func (db *ClientHolder) Name() string {
	return config.VectorStoreQdrant
}

func (db *ClientHolder) Upsert(ctx context.Context, records ...vectorDB.Record) error {
	if len(records) == 0 {
		return nil
	}
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("qdrant_upsert", time.Since(start)) }()

	points := make([]*qdrant.PointStruct, len(records))
	for i, r := range records {
		if len(r.Vector) == 0 {
			return fmt.Errorf("%w: empty vector for chunk %s", commonModels.ErrValidation, r.ChunkId)
		}
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(PointID(r.ChunkId)),
			Vectors: qdrant.NewVectors(r.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				fieldChunkId:    r.ChunkId,
				fieldDocumentId: r.Metadata.DocumentId,
				fieldSequence:   r.Metadata.SequenceIndex,
				fieldStart:      r.Metadata.StartIndex,
				fieldEnd:        r.Metadata.EndIndex,
				fieldPage:       r.Metadata.PageNumber,
				fieldText:       r.Metadata.Text,
				fieldModel:      r.Metadata.ModelName,
				fieldIngestedAt: r.Metadata.IngestedAt.Unix(),
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return storageError("upsert", err)
	}
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, vector []float32, k int, documentId string) ([]vectorDB.SimilarityResult, error) {
	if k <= 0 {
		return nil, nil
	}
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("qdrant_search", time.Since(start)) }()

	hits, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(vector...),
		Filter:         searchFilter(documentId),
		Limit:          qdrant.PtrOf(uint64(k * searchOverFetch)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.WithTrace(ctx).Error("Error querying Qdrant", "error", err)
		return nil, storageError("search", err)
	}

	results := make([]vectorDB.SimilarityResult, 0, len(hits))
	for _, hit := range hits {
		md := fromPayload(hit.GetPayload())
		results = append(results, vectorDB.SimilarityResult{
			ChunkId:  hit.GetPayload()[fieldChunkId].GetStringValue(),
			Score:    float64(hit.GetScore()),
			Text:     md.Text,
			Metadata: md,
		})
	}
	return vectorDB.SortResults(results, k), nil
}

func (db *ClientHolder) DeleteByDocument(ctx context.Context, documentId string) (int, error) {
	count, err := db.CountByDocument(ctx, documentId)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	_, err = db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: db.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         qdrant.NewPointsSelectorFilter(documentFilter(documentId)),
	})
	if err != nil {
		return 0, storageError("delete", err)
	}

	remaining, err := db.CountByDocument(ctx, documentId)
	if err != nil {
		return 0, err
	}
	if remaining > 0 {
		return count - remaining, fmt.Errorf("%w: %d vectors of %s survived delete", commonModels.ErrStorageUnavailable, remaining, documentId)
	}
	return count, nil
}

func (db *ClientHolder) CountByDocument(ctx context.Context, documentId string) (int, error) {
	n, err := db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: db.collection,
		Filter:         documentFilter(documentId),
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, storageError("count", err)
	}
	return int(n), nil
}

func (db *ClientHolder) Health(ctx context.Context) error {
	if _, err := db.QObj.HealthCheck(ctx); err != nil {
		return storageError("health", err)
	}
	return nil
}

// PointID derives the stable Qdrant point id for a chunk; Qdrant only accepts UUIDs or integers.
func PointID(chunkId string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(chunkId)).String()
}

func documentFilter(documentId string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{qdrant.NewMatch(fieldDocumentId, documentId)},
	}
}

// searchFilter scopes a query to one document; an empty id searches the whole collection.
func searchFilter(documentId string) *qdrant.Filter {
	if documentId == "" {
		return nil
	}
	return documentFilter(documentId)
}

func fromPayload(p map[string]*qdrant.Value) vectorDB.ChunkMetadata {
	return vectorDB.ChunkMetadata{
		DocumentId:    p[fieldDocumentId].GetStringValue(),
		SequenceIndex: int(p[fieldSequence].GetIntegerValue()),
		StartIndex:    int(p[fieldStart].GetIntegerValue()),
		EndIndex:      int(p[fieldEnd].GetIntegerValue()),
		PageNumber:    int(p[fieldPage].GetIntegerValue()),
		Text:          p[fieldText].GetStringValue(),
		ModelName:     p[fieldModel].GetStringValue(),
		IngestedAt:    time.Unix(p[fieldIngestedAt].GetIntegerValue(), 0).UTC(),
	}
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: qdrant %s: %w", commonModels.ErrStorageUnavailable, op, err)
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string, dimension uint64) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if !exists {
		err = client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: collectionName,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     dimension,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return err
		}
	}

	_, err = client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: collectionName,
		FieldName:      fieldDocumentId,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	return err
}
