package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
	"github.com/Otachiking/Chatbot-RAG/internal/logger"
)

// PromptWatcher reloads a PromptStore when template files change on disk.
type PromptWatcher struct {
	store   driven.PromptStore
	dir     string
	watcher *fsnotify.Watcher
}

// NewPromptWatcher starts watching dir. The directory is created if missing.
func NewPromptWatcher(store driven.PromptStore, dir string) (*PromptWatcher, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create prompt directory: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &PromptWatcher{store: store, dir: dir, watcher: w}, nil
}

// Run processes events until ctx is cancelled or the watcher is closed.
func (p *PromptWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if p.handleEvent(ev) {
				logger.Info("Prompt %s changed, reloading prompts", filepath.Base(ev.Name))
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Prompt watcher error: %v", err)
		}
	}
}

// Close stops watching.
func (p *PromptWatcher) Close() error {
	return p.watcher.Close()
}

// handleEvent reloads the store for changes to visible .txt templates and
// reports whether it did.
func (p *PromptWatcher) handleEvent(ev fsnotify.Event) bool {
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") || filepath.Ext(name) != ".txt" {
		return false
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	p.store.Reload()
	return true
}
