// Package jsonl stores query log entries as one JSON object per line.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
	"github.com/Otachiking/Chatbot-RAG/internal/logger"
)

var (
	_ driven.QueryLogSink   = (*Log)(nil)
	_ driven.QueryLogReader = (*Log)(nil)
)

// maxLineSize bounds one log line when reading.
const maxLineSize = 8 << 20

// Log is an append-only JSONL query log. Appends from one process are
// serialised; each append opens the file so external rotation is safe.
type Log struct {
	mu   sync.Mutex
	path string
}

// New creates a log writing to path. Parent directories are created on
// first append.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes entry as a single line.
func (l *Log) Append(_ context.Context, entry domain.QueryLogEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return fmt.Errorf("open query log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("write query log: %w", err)
	}
	return f.Close()
}

// Read returns all entries in append order. A missing file is an empty
// log; malformed lines are skipped with a warning.
func (l *Log) Read(ctx context.Context) ([]domain.QueryLogEntry, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open query log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []domain.QueryLogEntry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry domain.QueryLogEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			logger.Warn("Skipping malformed query log line %d: %v", lineNo, err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read query log: %w", err)
	}
	return entries, nil
}
