package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driven/vectorstore"
	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
	"github.com/Otachiking/Chatbot-RAG/internal/logger"
)

// DatabaseFile is the file name created inside the data directory.
const DatabaseFile = "vectors.db"

var (
	_ driven.VectorStore   = (*Store)(nil)
	_ driven.DocumentStore = (*Store)(nil)
)

// Store is a SQLite vector store and document registry.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database in dataDir and applies migrations.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: data directory is required", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", domain.ErrVectorStoreUnavailable, err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: running migrations: %w", domain.ErrVectorStoreUnavailable, err)
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

// migrate applies every numbered .up.sql file newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		logger.Debug("Applied migration %s", name)
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Vector Store ====================

// Upsert stores chunks in one transaction.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", domain.ErrVectorStoreUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, file_id, chunk_index, filename, page, text, dimensions, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			page = excluded.page,
			text = excluded.text,
			dimensions = excluded.dimensions,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return fmt.Errorf("%w: chunk %s has no embedding", domain.ErrInvalidInput, vectorstore.ChunkID(c.Key))
		}
		if _, err := stmt.ExecContext(ctx, vectorstore.ChunkID(c.Key), c.Key.FileID, c.Key.Index,
			c.Filename, c.PageNumber, c.Text, len(c.Embedding), float32SliceToBytes(c.Embedding)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query scans chunks of matching dimension (optionally one file) and returns
// the q.TopK nearest by cosine distance.
func (s *Store) Query(ctx context.Context, q driven.VectorQuery) ([]driven.VectorMatch, error) {
	if q.TopK <= 0 {
		return nil, nil
	}

	query := `SELECT file_id, chunk_index, filename, page, text, embedding
		FROM chunks WHERE dimensions = ?`
	args := []any{len(q.Embedding)}
	if q.FileID != "" {
		query += " AND file_id = ?"
		args = append(args, q.FileID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks: %w", domain.ErrVectorStoreUnavailable, err)
	}
	defer rows.Close()

	ranker := vectorstore.NewRanker(q.Embedding)
	for rows.Next() {
		var c domain.Chunk
		var blob []byte
		if err := rows.Scan(&c.Key.FileID, &c.Key.Index, &c.Filename, &c.PageNumber, &c.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Embedding = bytesToFloat32Slice(blob)
		ranker.Add(c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return ranker.Top(q.TopK), nil
}

// CountChunks returns the number of stored chunks for fileID, or all
// chunks when fileID is empty.
func (s *Store) CountChunks(ctx context.Context, fileID string) (int, error) {
	var n int
	var err error
	if fileID == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks WHERE file_id = ?", fileID).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// ==================== Document Store ====================

// SaveDocument stores or replaces a document record.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (file_id, filename, type, pages, chunks, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET
			filename = excluded.filename,
			type = excluded.type,
			pages = excluded.pages,
			chunks = excluded.chunks
	`, doc.FileID, doc.Filename, string(doc.Type), doc.PageCount, doc.ChunkCount, doc.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by file ID.
func (s *Store) GetDocument(ctx context.Context, fileID string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT file_id, filename, type, pages, chunks, created_at
		FROM documents WHERE file_id = ?
	`, fileID)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns all documents, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_id, filename, type, pages, chunks, created_at
		FROM documents ORDER BY created_at DESC, file_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var fileType string
	if err := row.Scan(&doc.FileID, &doc.Filename, &fileType, &doc.PageCount, &doc.ChunkCount, &doc.CreatedAt); err != nil {
		return nil, err
	}
	doc.Type = domain.FileType(fileType)
	return &doc, nil
}

// ==================== Helpers ====================

// float32SliceToBytes encodes a vector as little-endian float32 values.
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

// bytesToFloat32Slice decodes a blob written by float32SliceToBytes.
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
