package tagging

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Built-in fallbacks, used when the config file is missing or incomplete
const (
	fallbackSequenceDigits = 5
	fallbackSeparator      = ""
	fallbackPrefix         = "TAG"
)

var fallbackDefaults = map[string]string{
	KindAsset:     "ASSET",
	KindComponent: "COMP",
}

// configCache holds the parsed tag_prefixes.toml. The file's mtime is
// checked on every load so edits take effect without restarting the server.
type configCache struct {
	mu     sync.Mutex
	path   string
	doc    map[string]any
	mtime  time.Time
	loaded bool
}

var cache configCache

// SetConfigPath points the sequencer at a prefix document and drops the
// cached copy. Called once at startup, and by tests.
func SetConfigPath(path string) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.path = path
	cache.doc = nil
	cache.loaded = false
}

// ResetCache discards the cached config so the next call re-reads the file
func ResetCache() {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.doc = nil
	cache.loaded = false
	cache.mtime = time.Time{}
}

// loadConfig returns the parsed prefix document, reloading it when the file
// changed on disk. A missing or malformed file yields an empty document so
// every lookup falls back to built-in defaults.
func loadConfig() map[string]any {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	path := cache.path
	if path == "" {
		path = "tag_prefixes.toml"
	}

	info, err := os.Stat(path)
	if err != nil {
		if !cache.loaded {
			slog.Debug("tagging: prefix config not found, using built-in fallbacks", "path", path)
		}
		cache.doc = map[string]any{}
		cache.loaded = true
		cache.mtime = time.Time{}
		return cache.doc
	}

	if cache.loaded && cache.doc != nil && info.ModTime().Equal(cache.mtime) {
		return cache.doc
	}

	raw, readErr := os.ReadFile(path)
	if readErr == nil {
		var doc map[string]any
		if parseErr := toml.Unmarshal(raw, &doc); parseErr == nil {
			cache.doc = doc
			cache.mtime = info.ModTime()
			cache.loaded = true
			slog.Info("tagging: loaded prefix config", "path", path)
			return cache.doc
		} else {
			readErr = parseErr
		}
	}

	slog.Warn("tagging: failed to read prefix config, using built-in fallbacks",
		"path", path, "error", readErr)
	cache.doc = map[string]any{}
	cache.mtime = info.ModTime()
	cache.loaded = true
	return cache.doc
}

// Settings returns the sequence digit count and separator from the
// [tag_settings] section, merged with fallback defaults.
func Settings() (digits int, separator string) {
	digits, separator = fallbackSequenceDigits, fallbackSeparator

	doc := loadConfig()
	section, ok := doc["tag_settings"].(map[string]any)
	if !ok {
		return digits, separator
	}
	if v, ok := toInt(section["sequence_digits"]); ok && v > 0 {
		digits = v
	}
	if v, ok := section["separator"].(string); ok {
		separator = v
	}
	return digits, separator
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func subTable(doc map[string]any, key string) map[string]any {
	t, _ := doc[key].(map[string]any)
	return t
}

func tableString(t map[string]any, key string) (string, bool) {
	if t == nil {
		return "", false
	}
	s, ok := t[key].(string)
	return s, ok && s != ""
}
