package cache

import (
	"context"
	"sync"
	"time"

	"compliance-service/internal/rbac"

	"github.com/google/uuid"
)

type memoryEntry struct {
	Role       rbac.Role
	ExpiryTime time.Time
}

type generationEntry struct {
	Value      uint64
	ExpiryTime time.Time
}

// MemoryCache provides a thread-safe in-process RoleCache with a fixed TTL.
type MemoryCache struct {
	cache       map[string]memoryEntry
	generations map[string]generationEntry
	mutex       sync.RWMutex
	ttl         time.Duration
	now         func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		cache:       make(map[string]memoryEntry),
		generations: make(map[string]generationEntry),
		ttl:         ttl,
		now:         time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, userID uuid.UUID) (rbac.Role, error) {
	c.mutex.RLock()
	entry, found := c.cache[BuildRoleKey(userID)]
	c.mutex.RUnlock()

	if found && c.now().Before(entry.ExpiryTime) {
		return entry.Role, nil
	}
	return rbac.NoRole, ErrCacheMiss
}

func (c *MemoryCache) Generation(_ context.Context, userID uuid.UUID) (uint64, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.generationLocked(BuildGenerationKey(userID)), nil
}

func (c *MemoryCache) SetIfGeneration(_ context.Context, userID uuid.UUID, role rbac.Role, gen uint64) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.generationLocked(BuildGenerationKey(userID)) != gen {
		return false, nil
	}
	c.cache[BuildRoleKey(userID)] = memoryEntry{
		Role:       role,
		ExpiryTime: c.now().Add(c.ttl),
	}
	return true, nil
}

func (c *MemoryCache) Delete(_ context.Context, userID uuid.UUID) error {
	genKey := BuildGenerationKey(userID)

	c.mutex.Lock()
	delete(c.cache, BuildRoleKey(userID))
	c.generations[genKey] = generationEntry{
		Value:      c.generationLocked(genKey) + 1,
		ExpiryTime: c.now().Add(generationTTL),
	}
	c.mutex.Unlock()
	return nil
}

// generationLocked must be called with the mutex held.
func (c *MemoryCache) generationLocked(key string) uint64 {
	entry, found := c.generations[key]
	if !found || !c.now().Before(entry.ExpiryTime) {
		return 0
	}
	return entry.Value
}

// Clear removes expired roles and generations.
func (c *MemoryCache) Clear() {
	now := c.now()
	c.mutex.Lock()
	for key, entry := range c.cache {
		if now.After(entry.ExpiryTime) {
			delete(c.cache, key)
		}
	}
	for key, entry := range c.generations {
		if now.After(entry.ExpiryTime) {
			delete(c.generations, key)
		}
	}
	c.mutex.Unlock()
}

// Len reports the number of role entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.cache)
}

// StartJanitor clears expired entries every interval until ctx is done.
func (c *MemoryCache) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Clear()
			}
		}
	}()
}
