package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
	"github.com/Otachiking/Chatbot-RAG/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// Supported prompt languages.
const (
	LanguageEnglish    = "en"
	LanguageIndonesian = "id"
)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	language  string
	defaults  map[string]string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// englishPrompts is the default prompt set.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var englishPrompts = map[string]string{
	driven.PromptGeneralSystem: `You are a helpful AI assistant. Answer the user's question clearly and concisely.`,

	driven.PromptGroundedSystem: `You are a document assistant. Answer using ONLY the source snippets in the context.
Start with a short answer of at most two sentences, then give supporting bullet points.
Cite the page of every fact as (p. X).
If the context does not contain the answer, reply exactly: Not found in the document.`,

	driven.PromptSummarizeSystem: `You are a document summarizer. Write a structured summary of the context as bullet points grouped by topic.
Cover every main point and cite pages as (p. X). Use only the context.`,

	driven.PromptQuizSystem: `You are a quiz writer. Using only the context, write multiple-choice questions with options A, B, C and D.
After the questions, list the answer key with the page each answer comes from as (p. X).`,

	driven.PromptSummarizeQuery: `Give a complete and comprehensive summary of %s. Include the main points of the document.`,

	driven.PromptQuizQuery: `Write 5 multiple-choice quiz questions (A, B, C, D) with an answer key based on the important information in %s.`,

	driven.PromptDocumentNamed: `the document '%s'`,

	driven.PromptDocumentGeneric: `the given document`,

	driven.PromptContextChunk: `[p. %d]: %s`,

	driven.PromptContext: "Context:\n%s",

	driven.PromptQuestion: `Question: %s`,

	driven.PromptHistory: "Conversation so far:\n%s",

	driven.PromptNotFound: `Not found in the document.`,

	driven.PromptApology: `Sorry, something went wrong while answering your question. Please try again later. (Request ID: %s)`,
}

// indonesianPrompts mirrors englishPrompts for Indonesian-language deployments.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var indonesianPrompts = map[string]string{
	driven.PromptGeneralSystem: `Kamu adalah asisten AI yang membantu. Jawab pertanyaan pengguna dengan jelas dan ringkas.`,

	driven.PromptGroundedSystem: `Kamu adalah asisten dokumen. Jawab HANYA berdasarkan cuplikan sumber pada konteks.
Mulai dengan jawaban singkat maksimal dua kalimat, lalu berikan poin-poin pendukung.
Sertakan halaman setiap fakta dalam format (Hal. X).
Jika konteks tidak memuat jawabannya, jawab persis: Tidak ditemukan dalam dokumen.`,

	driven.PromptSummarizeSystem: `Kamu adalah perangkum dokumen. Tulis ringkasan terstruktur dari konteks dalam bentuk poin-poin per topik.
Cakup semua poin utama dan sertakan halaman dalam format (Hal. X). Gunakan hanya konteks.`,

	driven.PromptQuizSystem: `Kamu adalah pembuat kuis. Berdasarkan konteks saja, buat soal pilihan ganda dengan opsi A, B, C, dan D.
Setelah soal, tuliskan kunci jawaban beserta halaman sumbernya dalam format (Hal. X).`,

	driven.PromptSummarizeQuery: `Berikan ringkasan lengkap dan komprehensif %s. Sertakan poin-poin utama dari dokumen tersebut.`,

	driven.PromptQuizQuery: `Buat 5 soal kuis pilihan ganda (A, B, C, D) beserta kunci jawabannya berdasarkan informasi penting %s.`,

	driven.PromptDocumentNamed: `untuk dokumen '%s'`,

	driven.PromptDocumentGeneric: `untuk dokumen yang diberikan`,

	driven.PromptContextChunk: `[Hal. %d]: %s`,

	driven.PromptContext: "Konteks:\n%s",

	driven.PromptQuestion: `Pertanyaan: %s`,

	driven.PromptHistory: "Percakapan sebelumnya:\n%s",

	driven.PromptNotFound: `Tidak ditemukan dalam dokumen.`,

	driven.PromptApology: `Maaf, terjadi kesalahan saat menjawab pertanyaan Anda. Silakan coba lagi nanti. (ID Permintaan: %s)`,
}

// normaliseLanguage maps language to a supported prompt language.
// Unknown languages get English.
func normaliseLanguage(language string) string {
	if strings.EqualFold(strings.TrimSpace(language), LanguageIndonesian) {
		return LanguageIndonesian
	}
	return LanguageEnglish
}

// DefaultPrompts returns the embedded prompt set for language.
// Unknown languages get English.
func DefaultPrompts(language string) map[string]string {
	src := englishPrompts
	if normaliseLanguage(language) == LanguageIndonesian {
		src = indonesianPrompts
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.ragbot/prompts/. Templates live in
// a per-language subdirectory, so <promptDir>/id/ holds the Indonesian set
// and switching language never serves the other language's files.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir, language string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".ragbot", "prompts")
	}

	lang := normaliseLanguage(language)
	return &PromptStore{
		promptDir: filepath.Join(promptDir, lang),
		language:  lang,
		defaults:  DefaultPrompts(lang),
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// A file on disk overrides the embedded default.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := s.defaults[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		if defaultPrompt, ok := s.defaults[name]; ok {
			return defaultPrompt, nil
		}
		if err == nil {
			err = os.ErrNotExist
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	if def, ok := s.defaults[name]; ok && formatVerbs(def) != "" && !sameVerbs(prompt, def) {
		logger.Warn("Prompt %s.txt must use the placeholders %q, using the built-in template",
			name, formatVerbs(def))
		prompt = def
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the directory holding this language's templates.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Language returns the prompt language in use.
func (s *PromptStore) Language() string {
	return s.language
}

// initialise creates the prompt directory and default files.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range s.defaults {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// formatVerbs returns the fmt verbs of tmpl in order, e.g. "%d%s".
// Literal "%%" is not a verb.
func formatVerbs(tmpl string) string {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' {
			continue
		}
		j := i + 1
		for j < len(tmpl) && strings.IndexByte("+-# 0123456789.", tmpl[j]) >= 0 {
			j++
		}
		if j >= len(tmpl) {
			b.WriteByte('%')
			break
		}
		if tmpl[j] != '%' {
			b.WriteByte('%')
			b.WriteByte(tmpl[j])
		}
		i = j
	}
	return b.String()
}

// sameVerbs reports whether a and b take the same arguments in the same order.
func sameVerbs(a, b string) bool {
	return formatVerbs(a) == formatVerbs(b)
}

// loadFromFile reads a prompt from disk. Only surrounding blank lines are
// trimmed so templates may end in meaningful spaces.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.Trim(string(data), "\r\n"), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	names := make([]string, 0, len(s.defaults))
	for name := range s.defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("# ragbot prompts\n\n")
	b.WriteString("This directory contains the " + s.language + " prompt templates used for answering.\n")
	b.WriteString("Each language has its own directory next to this one.\n\n## Files\n\n")
	for _, name := range names {
		b.WriteString("- `" + name + ".txt`\n")
	}
	b.WriteString(`
## Customisation

Edit any file to change answering behaviour. A running server picks up
changes automatically; other commands read them on start.

## Format Placeholders

Some prompts use Go fmt placeholders:
- ` + "`%s`" + ` - String (e.g., the question, filename or request ID)
- ` + "`%d`" + ` - Integer (the page number)

Keep placeholders in the same order when editing, and write a literal
percent sign as ` + "`%%`" + `. A template whose placeholders do not match is
ignored in favour of the built-in one.
`)
	return os.WriteFile(path, []byte(b.String()), 0600)
}
