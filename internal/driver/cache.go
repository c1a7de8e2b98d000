package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"reef/internal/diag"
)

// Current schema version - increment when CachePayload format changes.
const cacheSchemaVersion uint16 = 1

// ErrCacheMiss is returned when no usable cached run exists for a project.
var ErrCacheMiss = errors.New("no cached run for this project")

// CachePayload is the serialised outcome of one invocation, enough to
// re-render the report without recompiling.
type CachePayload struct {
	Schema     uint16
	Checker    string
	ExitCode   int
	Report     diag.Report
	LineErrors []LineError
}

// Cache stores the most recent run per project directory on disk.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// OpenCache initializes and returns the run cache at the standard location.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// OpenCacheAt returns a cache rooted at an explicit directory.
func OpenCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(projectDir string) string {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		abs = projectDir
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(c.dir, "runs", hex.EncodeToString(sum[:])+".mp")
}

// Put serialises and stores the payload for projectDir, replacing any
// previous run.
func (c *Cache) Put(projectDir string, payload *CachePayload) error {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = cacheSchemaVersion
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode cached run: %w", err)
	}

	path := c.pathFor(projectDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Get loads the cached run for projectDir. A missing file or a payload
// written by an incompatible schema both come back as ErrCacheMiss.
func (c *Cache) Get(projectDir string) (*CachePayload, error) {
	if c == nil {
		return nil, ErrCacheMiss
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(projectDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var payload CachePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, ErrCacheMiss
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, ErrCacheMiss
	}
	return &payload, nil
}
