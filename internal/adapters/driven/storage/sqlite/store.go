package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quill-labs/paperdesk/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/quill-labs/paperdesk/internal/core/domain"
	"github.com/quill-labs/paperdesk/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed vector store. Embeddings are computed by the
// configured embedding service and persisted alongside the document.
type Store struct {
	db       *sql.DB
	path     string
	embedder driven.EmbeddingService
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.paperdesk/data/papers.db.
// The embedder may be nil; similarity search is unavailable then.
func NewStore(dataDir string, embedder driven.EmbeddingService) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".paperdesk", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "papers.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:       db,
		path:     dbPath,
		embedder: embedder,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Add inserts or replaces documents. Embeddings are computed in one
// batch before the transaction opens.
func (s *Store) Add(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	var embeddings [][]float32
	if s.embedder != nil {
		texts := make([]string, len(docs))
		for i, doc := range docs {
			texts[i] = doc.Text
		}
		var err error
		embeddings, err = s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var nextPos int64
	row := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), -1) + 1 FROM documents")
	if err := row.Scan(&nextPos); err != nil {
		return fmt.Errorf("getting next position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, content, content_hash, embedding, metadata, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			content_hash = excluded.content_hash,
			embedding = excluded.embedding,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, doc := range docs {
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata for %q: %w", doc.ID, err)
		}

		var blob []byte
		if embeddings != nil {
			blob = float32SliceToBytes(embeddings[i])
		}

		hash, _ := doc.Metadata[domain.MetaContentHash].(string)
		if _, err := stmt.ExecContext(ctx, doc.ID, doc.Text, hash, blob,
			string(metadataJSON), nextPos+int64(i), now, now); err != nil {
			return fmt.Errorf("saving document %q: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves a document by id.
func (s *Store) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, content, metadata FROM documents WHERE id = ?
	`, id)
	return scanDocument(row)
}

// First returns the earliest-inserted document whose metadata matches
// all pairs in where.
func (s *Store) First(ctx context.Context, where map[string]any) (*domain.Document, error) {
	// The dedup lookup is always by content hash; use the indexed
	// column for that case instead of scanning metadata.
	if hash, ok := where[domain.MetaContentHash].(string); ok && len(where) == 1 {
		row := s.db.QueryRowContext(ctx, `
			SELECT id, content, metadata FROM documents
			WHERE content_hash = ? ORDER BY position LIMIT 1
		`, hash)
		return scanDocument(row)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, metadata FROM documents ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		if metadataMatches(doc.Metadata, where) {
			return doc, nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return nil, domain.ErrNotFound
}

// Query embeds text and returns up to n documents by descending cosine
// similarity. Ties keep insertion order.
func (s *Store) Query(ctx context.Context, text string, n int, where map[string]any) ([]domain.Document, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	queryVec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, metadata, embedding, position FROM documents ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	type scored struct {
		doc   domain.Document
		score float64
		pos   int64
	}
	var hits []scored
	for rows.Next() {
		var doc domain.Document
		var metadataJSON string
		var blob []byte
		var pos int64
		if err := rows.Scan(&doc.ID, &doc.Text, &metadataJSON, &blob, &pos); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata for %q: %w", doc.ID, err)
		}
		if !metadataMatches(doc.Metadata, where) {
			continue
		}
		vec := bytesToFloat32Slice(blob)
		if len(vec) == 0 {
			continue
		}
		hits = append(hits, scored{doc: doc, score: cosineSimilarity(queryVec, vec), pos: pos})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})
	if n < len(hits) {
		hits = hits[:n]
	}

	out := make([]domain.Document, len(hits))
	for i, h := range hits {
		out[i] = h.doc
	}
	return out, nil
}

// UpdateMetadata replaces the stored metadata record for id.
func (s *Store) UpdateMetadata(ctx context.Context, id string, metadata map[string]any) error {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	hash, _ := metadata[domain.MetaContentHash].(string)
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET metadata = ?, content_hash = ?, updated_at = ? WHERE id = ?
	`, string(metadataJSON), hash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating metadata for %q: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes documents by id. Missing ids are ignored.
func (s *Store) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id IN ("+placeholders+")", args...); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}
	return nil
}

// ListIDs returns all document ids in insertion order.
func (s *Store) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM documents ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ids: %w", err)
	}
	return ids, nil
}

// Count returns the number of documents in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents")
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON string
	if err := row.Scan(&doc.ID, &doc.Text, &metadataJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata for %q: %w", doc.ID, err)
	}
	return &doc, nil
}

// scanDocumentRows scans the current row of a multi-row result.
func scanDocumentRows(rows *sql.Rows) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON string
	if err := rows.Scan(&doc.ID, &doc.Text, &metadataJSON); err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata for %q: %w", doc.ID, err)
	}
	return &doc, nil
}

// metadataMatches reports whether metadata contains every pair in where.
// Values are compared through their JSON representation since metadata
// round-trips through a JSON column.
func metadataMatches(metadata, where map[string]any) bool {
	for k, want := range where {
		got, ok := metadata[k]
		if !ok {
			return false
		}
		if got != want && !jsonEqual(got, want) {
			return false
		}
	}
	return true
}

// jsonEqual compares two values by JSON encoding, so int 3 matches the
// float64 3 that comes back from the metadata column.
func jsonEqual(a, b any) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(aj) == string(bj)
}

// cosineSimilarity computes the cosine of the angle between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
