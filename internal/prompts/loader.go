// Package prompts holds the text fragments the proposal prompt is built
// from. Each embedded JSON file maps fragment keys to text.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// library maps file name to its fragments. It is parsed once, on first use.
var library = sync.OnceValues(func() (map[string]map[string]string, error) {
	names, err := fs.Glob(promptFiles, "*.json")
	if err != nil {
		return nil, err
	}

	lib := make(map[string]map[string]string, len(names))
	for _, name := range names {
		raw, err := promptFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read prompt file %s: %w", name, err)
		}
		var fragments map[string]string
		if err := json.Unmarshal(raw, &fragments); err != nil {
			return nil, fmt.Errorf("parse prompt file %s: %w", name, err)
		}
		lib[name] = fragments
	}
	return lib, nil
})

// Get returns the fragment called key from the embedded file filename,
// e.g. Get("proposal.json", "role").
func Get(filename, key string) (string, error) {
	lib, err := library()
	if err != nil {
		return "", err
	}
	fragments, ok := lib[filename]
	if !ok {
		return "", fmt.Errorf("prompt file %s is not embedded", filename)
	}
	text, ok := fragments[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return text, nil
}

// MustGet is Get for fragments the binary cannot run without.
func MustGet(filename, key string) string {
	text, err := Get(filename, key)
	if err != nil {
		panic(err)
	}
	return text
}
