package document

import (
	"sort"
	"sync"
)

// Collection is the catalog handle for one document's vector collection.
type Collection struct {
	Name       string
	DocumentID string
}

// Catalog maps document ids to their collections. It is a cache of what the
// vector store holds and is safe for concurrent use.
type Catalog struct {
	mu          sync.RWMutex
	collections map[string]Collection
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{collections: make(map[string]Collection)}
}

// Get returns the collection registered for documentID.
func (c *Catalog) Get(documentID string) (Collection, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	col, ok := c.collections[documentID]
	return col, ok
}

// Put registers or replaces a collection.
func (c *Catalog) Put(col Collection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collections[col.DocumentID] = col
}

// Remove drops documentID and reports whether it was present.
func (c *Catalog) Remove(documentID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.collections[documentID]
	delete(c.collections, documentID)
	return ok
}

// IDs returns the registered document ids in sorted order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	ids := make([]string, 0, len(c.collections))
	for id := range c.collections {
		ids = append(ids, id)
	}
	c.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Len returns the number of registered documents.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.collections)
}
