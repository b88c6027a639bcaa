// Package sqliteDB is the embedded vector store used when no Qdrant server is reachable.
// Similarity is computed in process over the vectors of one document, or of every document when no filter is given.
package sqliteDB

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/metrics"
	"github.com/akolanti/StudyRAG/internal/rag/vectorDB"
)

//go:embed schema.sql
var schema string

type Store struct {
	db   *sql.DB
	path string
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating vector store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening sqlite: %w", commonModels.ErrStorageUnavailable, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: applying schema: %w", commonModels.ErrStorageUnavailable, err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Name() string {
	return config.VectorStoreSQLite
}

func (s *Store) Upsert(ctx context.Context, records ...vectorDB.Record) error {
	if len(records) == 0 {
		return nil
	}
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("sqlite_upsert", time.Since(start)) }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("begin", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunk_vectors
			(chunk_id, document_id, sequence_index, start_index, end_index, page_number, text, model_name, ingested_at, dimension, vector)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			document_id = excluded.document_id,
			sequence_index = excluded.sequence_index,
			start_index = excluded.start_index,
			end_index = excluded.end_index,
			page_number = excluded.page_number,
			text = excluded.text,
			model_name = excluded.model_name,
			ingested_at = excluded.ingested_at,
			dimension = excluded.dimension,
			vector = excluded.vector`)
	if err != nil {
		return storageError("prepare upsert", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if len(r.Vector) == 0 {
			return fmt.Errorf("%w: empty vector for chunk %s", commonModels.ErrValidation, r.ChunkId)
		}
		md := r.Metadata
		_, err := stmt.ExecContext(ctx, r.ChunkId, md.DocumentId, md.SequenceIndex, md.StartIndex, md.EndIndex,
			md.PageNumber, md.Text, md.ModelName, md.IngestedAt.Unix(), len(r.Vector), float32SliceToBytes(r.Vector))
		if err != nil {
			return storageError("upsert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, k int, documentId string) ([]vectorDB.SimilarityResult, error) {
	if k <= 0 {
		return nil, nil
	}
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("sqlite_search", time.Since(start)) }()

	query := `SELECT chunk_id, document_id, sequence_index, start_index, end_index, page_number, text, model_name, ingested_at, vector
		FROM chunk_vectors`
	var args []any
	if documentId != "" {
		query += ` WHERE document_id = ?`
		args = append(args, documentId)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("search", err)
	}
	defer rows.Close()

	var results []vectorDB.SimilarityResult
	for rows.Next() {
		var (
			r          vectorDB.SimilarityResult
			ingestedAt int64
			blob       []byte
		)
		md := &r.Metadata
		if err := rows.Scan(&r.ChunkId, &md.DocumentId, &md.SequenceIndex, &md.StartIndex, &md.EndIndex,
			&md.PageNumber, &md.Text, &md.ModelName, &ingestedAt, &blob); err != nil {
			return nil, storageError("scan", err)
		}
		md.IngestedAt = time.Unix(ingestedAt, 0).UTC()
		r.Text = md.Text
		r.Score = cosine(vector, bytesToFloat32Slice(blob))
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("search", err)
	}
	return vectorDB.SortResults(results, k), nil
}

func (s *Store) DeleteByDocument(ctx context.Context, documentId string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chunk_vectors WHERE document_id = ?`, documentId)
	if err != nil {
		return 0, storageError("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageError("delete", err)
	}
	return int(n), nil
}

func (s *Store) CountByDocument(ctx context.Context, documentId string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunk_vectors WHERE document_id = ?`, documentId).Scan(&n); err != nil {
		return 0, storageError("count", err)
	}
	return n, nil
}

func (s *Store) Health(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageError("ping", err)
	}
	return nil
}

// cosine returns 0 for mismatched dimensions or zero vectors.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: sqlite %s: %w", commonModels.ErrStorageUnavailable, op, err)
}
