// Package assets resolves and caches viewer asset files (models, textures,
// heightmaps) from a list of data directories.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	// ErrNotFound is returned when an asset cannot be located in any data root.
	ErrNotFound = errors.New("asset not found")

	// ErrUnsupported is returned when an asset exists but its format cannot be read.
	ErrUnsupported = errors.New("unsupported asset format")
)

// Manager handles asset lookup across data roots.
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager searching the given roots.
func NewManager(roots ...string) *Manager {
	m := &Manager{
		cache: NewCache(),
	}
	for _, r := range roots {
		m.roots = append(m.roots, filepath.Clean(r))
	}
	return m
}

// AddRoot adds a data directory to the manager.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("data root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data root %s: not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, filepath.Clean(dir))
	m.mu.Unlock()

	return nil
}

// Roots returns the configured data roots in search order.
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.roots))
	for i := len(m.roots) - 1; i >= 0; i-- {
		out = append(out, m.roots[i])
	}
	return out
}

// Resolve returns the on-disk location of an asset.
// Absolute paths are checked as-is; relative paths are tried against every
// root and finally against the working directory.
func (m *Manager) Resolve(path string) (string, error) {
	p := NormalizePath(path)
	if p == "" {
		return "", fmt.Errorf("empty asset path: %w", ErrNotFound)
	}

	if filepath.IsAbs(p) {
		if isFile(p) {
			return p, nil
		}
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	for _, root := range m.Roots() {
		candidate := filepath.Join(root, p)
		if isFile(candidate) {
			return candidate, nil
		}
	}

	if isFile(p) {
		return p, nil
	}

	return "", fmt.Errorf("%s: %w", path, ErrNotFound)
}

// Load reads an asset, serving repeated requests from the cache.
func (m *Manager) Load(path string) ([]byte, error) {
	key := NormalizePath(path)
	if data, ok := m.cache.Get(key); ok {
		return data, nil
	}

	full, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", full, err)
	}

	m.cache.Set(key, data)
	return data, nil
}

// Cache exposes the manager's byte cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close drops cached data and forgets all roots.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roots = nil
	m.cache.Clear()
}

// NormalizePath converts Windows separators and cleans the path.
// Asset lists written for Windows ("Data\Models\jeep.obj") resolve on every OS.
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	p := strings.ReplaceAll(path, "\\", "/")
	return filepath.Clean(filepath.FromSlash(p))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
