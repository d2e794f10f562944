package similarity

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"
)

// VectorCache memoizes embedding vectors keyed by model and normalized text,
// so the pairwise scoring loop costs one remote call per distinct text. The
// in-memory tier is always on; OpenVectorCache adds a sqlite tier that
// survives runs. Only text-to-vector pairs are stored, never match outcomes.
type VectorCache struct {
	mu  sync.RWMutex
	mem map[string][]float32
	db  *sql.DB
}

// NewVectorCache creates a memory-only cache.
func NewVectorCache() *VectorCache {
	return &VectorCache{mem: make(map[string][]float32)}
}

// OpenVectorCache creates a cache backed by a sqlite file at path. The file
// and schema are created on first use.
func OpenVectorCache(path string) (*VectorCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector cache %s: %w", path, err)
	}
	schema := `CREATE TABLE IF NOT EXISTS vectors (
		key TEXT PRIMARY KEY,
		dim INTEGER NOT NULL,
		vec BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize vector cache %s: %w", path, err)
	}
	return &VectorCache{mem: make(map[string][]float32), db: db}, nil
}

// CacheKey derives the cache key for a model and text pair.
func CacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "|" + text))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached vector for key, consulting the sqlite tier on a
// memory miss.
func (c *VectorCache) Get(key string) ([]float32, bool) {
	c.mu.RLock()
	vec, ok := c.mem[key]
	c.mu.RUnlock()
	if ok {
		return vec, true
	}
	if c.db == nil {
		return nil, false
	}
	var dim int
	var blob []byte
	if err := c.db.QueryRow(`SELECT dim, vec FROM vectors WHERE key = ?`, key).Scan(&dim, &blob); err != nil {
		return nil, false
	}
	vec, err := decodeVector(dim, blob)
	if err != nil {
		log.Printf("Warning: dropping corrupt vector cache entry %s: %v", key, err)
		return nil, false
	}
	c.mu.Lock()
	c.mem[key] = vec
	c.mu.Unlock()
	return vec, true
}

// Put stores vec under key in both tiers. Persistence failures are logged and
// otherwise ignored; the memory tier still serves the vector for this run.
func (c *VectorCache) Put(key string, vec []float32) {
	c.mu.Lock()
	c.mem[key] = vec
	c.mu.Unlock()
	if c.db == nil {
		return
	}
	_, err := c.db.Exec(`INSERT OR REPLACE INTO vectors (key, dim, vec) VALUES (?, ?, ?)`,
		key, len(vec), encodeVector(vec))
	if err != nil {
		log.Printf("Warning: failed to persist vector cache entry: %v", err)
	}
}

// Close closes the sqlite tier if one is open.
func (c *VectorCache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func encodeVector(vec []float32) []byte {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, vec)
	return buf.Bytes()
}

func decodeVector(dim int, blob []byte) ([]float32, error) {
	if dim < 0 || len(blob) != dim*4 {
		return nil, fmt.Errorf("blob is %d bytes, want %d", len(blob), dim*4)
	}
	vec := make([]float32, dim)
	if err := binary.Read(bytes.NewReader(blob), binary.LittleEndian, vec); err != nil {
		return nil, err
	}
	return vec, nil
}
