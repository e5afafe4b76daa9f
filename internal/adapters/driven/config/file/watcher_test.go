package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
)

type countingStore struct {
	driven.PromptStore
	reloads int
}

func (c *countingStore) Reload() {
	c.reloads++
}

func TestPromptWatcher_HandleEvent(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		op       fsnotify.Op
		expected bool
	}{
		{name: "write template", path: "general_system.txt", op: fsnotify.Write, expected: true},
		{name: "create template", path: "apology.txt", op: fsnotify.Create, expected: true},
		{name: "remove template", path: "apology.txt", op: fsnotify.Remove, expected: true},
		{name: "rename template", path: "apology.txt", op: fsnotify.Rename, expected: true},
		{name: "chmod ignored", path: "apology.txt", op: fsnotify.Chmod, expected: false},
		{name: "readme ignored", path: "README.md", op: fsnotify.Write, expected: false},
		{name: "hidden swap file ignored", path: ".apology.txt", op: fsnotify.Write, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &countingStore{}
			w := &PromptWatcher{store: store}

			got := w.handleEvent(fsnotify.Event{Name: filepath.Join("/prompts", tt.path), Op: tt.op})

			assert.Equal(t, tt.expected, got)
			if tt.expected {
				assert.Equal(t, 1, store.reloads)
			} else {
				assert.Zero(t, store.reloads)
			}
		})
	}
}

func TestPromptWatcher_ReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir, LanguageEnglish)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptNotFound)
	require.NoError(t, err)

	w, err := NewPromptWatcher(store, store.Dir())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "not_found.txt"), []byte("Edited."), 0600))

	assert.Eventually(t, func() bool {
		p, err := store.Load(driven.PromptNotFound)
		return err == nil && p == "Edited."
	}, 2*time.Second, 20*time.Millisecond)
}
