// Package file provides file-based implementations of driven port interfaces.
// These adapters read user-editable files from the local filesystem.
//
// Adapters:
//   - PromptStore: prompt templates with embedded English and Indonesian defaults
//   - PromptWatcher: reloads the prompt cache when template files change
package file
