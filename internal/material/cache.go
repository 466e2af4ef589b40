package material

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/forgelight/enginecore/internal/asset/mtl"
)

type cacheKey struct {
	path string
	name string
}

type cacheEntry struct {
	material     *Material
	modifiedTime time.Time
	hasMtime     bool
}

// Cache is a thread-safe map from (mtl path, material name) to a loaded
// Material, invalidated by on-disk mtime. Grounded directly on
// original_source's material_cache.rs: its RwLock<HashMap<...>> becomes a
// sync.RWMutex-guarded map, and its Arc<Material> sharing becomes a plain
// Go pointer since the GC already keeps it alive for every holder.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]cacheEntry)}
}

// LoadOrGet returns the cached material for (mtlPath, materialName),
// reloading from disk if the file's mtime is newer than the cached value.
// If the file is missing or its mtime can't be read, the cached entry (if
// any) is used as-is.
func (c *Cache) LoadOrGet(mtlPath, materialName string) (*Material, error) {
	key := cacheKey{mtlPath, materialName}

	if !c.shouldReload(key) {
		c.mu.RLock()
		if e, ok := c.entries[key]; ok {
			c.mu.RUnlock()
			return e.material, nil
		}
		c.mu.RUnlock()
	}

	return c.loadAndStore(mtlPath, materialName)
}

func (c *Cache) shouldReload(key cacheKey) bool {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return true
	}
	if !entry.hasMtime {
		return false
	}
	info, err := os.Stat(key.path)
	if err != nil {
		return false
	}
	return info.ModTime().After(entry.modifiedTime)
}

func (c *Cache) loadAndStore(mtlPath, materialName string) (*Material, error) {
	parsed, err := parseFile(mtlPath)
	if err != nil {
		return nil, err
	}
	data, ok := parsed[materialName]
	if !ok {
		return nil, fmt.Errorf("material %q not found in %s", materialName, mtlPath)
	}
	mat := FromMtl(mtlPath, data)

	modifiedTime, hasMtime := statMtime(mtlPath)
	key := cacheKey{mtlPath, materialName}

	c.mu.Lock()
	c.entries[key] = cacheEntry{material: &mat, modifiedTime: modifiedTime, hasMtime: hasMtime}
	c.mu.Unlock()

	return &mat, nil
}

// LoadAllOrGet bulk-loads every material an MTL file defines, bypassing the
// single-entry reload check (it always re-reads the file, matching
// original_source's "not using cache for bulk load to keep it simple").
func (c *Cache) LoadAllOrGet(mtlPath string) ([]*Material, error) {
	parsed, err := parseFile(mtlPath)
	if err != nil {
		return nil, err
	}
	modifiedTime, hasMtime := statMtime(mtlPath)

	result := make([]*Material, 0, len(parsed))

	c.mu.Lock()
	for name, data := range parsed {
		mat := FromMtl(mtlPath, data)
		c.entries[cacheKey{mtlPath, name}] = cacheEntry{material: &mat, modifiedTime: modifiedTime, hasMtime: hasMtime}
		result = append(result, &mat)
	}
	c.mu.Unlock()

	return result, nil
}

// GetCached returns the cached material without touching disk, or false.
func (c *Cache) GetCached(mtlPath, materialName string) (*Material, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[cacheKey{mtlPath, materialName}]
	if !ok {
		return nil, false
	}
	return e.material, true
}

func (c *Cache) IsCached(mtlPath, materialName string) bool {
	_, ok := c.GetCached(mtlPath, materialName)
	return ok
}

// Reload forces eviction then a fresh read, bypassing the mtime check.
func (c *Cache) Reload(mtlPath, materialName string) (*Material, error) {
	c.mu.Lock()
	delete(c.entries, cacheKey{mtlPath, materialName})
	c.mu.Unlock()
	return c.loadAndStore(mtlPath, materialName)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]cacheEntry)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) IsEmpty() bool {
	return c.Len() == 0
}

// CheckForUpdates reloads every cached entry whose backing file has a newer
// mtime than when it was cached, returning the number reloaded.
func (c *Cache) CheckForUpdates() int {
	type stale struct{ path, name string }
	var toReload []stale

	c.mu.RLock()
	for key, entry := range c.entries {
		if !entry.hasMtime {
			continue
		}
		info, err := os.Stat(key.path)
		if err != nil {
			continue
		}
		if info.ModTime().After(entry.modifiedTime) {
			toReload = append(toReload, stale{key.path, key.name})
		}
	}
	c.mu.RUnlock()

	reloaded := 0
	for _, s := range toReload {
		if _, err := c.Reload(s.path, s.name); err == nil {
			reloaded++
		}
	}
	return reloaded
}

func parseFile(mtlPath string) (map[string]mtl.Data, error) {
	contents, err := os.ReadFile(mtlPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", mtlPath, err)
	}
	return mtl.Parse(string(contents))
}

func statMtime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
