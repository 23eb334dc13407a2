package dar

import (
	"container/list"
	"sync"

	"github.com/google/uuid"
)

// addressCache is a thread-safe LRU cache of resolved addresses. Lookups
// and bulk fetches consult it before going to the network.
type addressCache struct {
	size      int
	evictList *list.List
	items     map[uuid.UUID]*list.Element
	mu        sync.Mutex
}

// cacheEntry is stored in the cache
type cacheEntry struct {
	key  uuid.UUID
	addr Address
}

// newAddressCache creates a new LRU cache with the given size
func newAddressCache(size int) *addressCache {
	return &addressCache{
		size:      size,
		evictList: list.New(),
		items:     make(map[uuid.UUID]*list.Element),
	}
}

// Get retrieves an address from the cache
func (c *addressCache) Get(key uuid.UUID) (Address, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, exists := c.items[key]
	if !exists {
		return Address{}, false
	}
	c.evictList.MoveToFront(node)
	return node.Value.(*cacheEntry).addr, true
}

// Put adds or updates an address in the cache
func (c *addressCache) Put(key uuid.UUID, addr Address) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, exists := c.items[key]; exists {
		c.evictList.MoveToFront(node)
		node.Value.(*cacheEntry).addr = addr
		return
	}

	ent := &cacheEntry{key: key, addr: addr}
	c.items[key] = c.evictList.PushFront(ent)

	if c.evictList.Len() > c.size {
		c.removeOldest()
	}
}

// removeOldest removes the least recently used item
func (c *addressCache) removeOldest() {
	node := c.evictList.Back()
	if node != nil {
		c.evictList.Remove(node)
		kv := node.Value.(*cacheEntry)
		delete(c.items, kv.key)
	}
}

// Clear removes all items from the cache
func (c *addressCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[uuid.UUID]*list.Element)
	c.evictList.Init()
}

// Size returns the number of items in the cache
func (c *addressCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.evictList.Len()
}
