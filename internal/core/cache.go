package core

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"pubwatch/internal/types"
)

// DefaultCacheCapacity bounds how many documents are tracked at once.
const DefaultCacheCapacity = 64

// DocumentCache is the per-document reconciliation state: the revision
// the records were resolved against and one record per package name.
type DocumentCache struct {
	Revision int
	Records  map[string]types.RegistryRecord
}

// ReconciliationCache stores one DocumentCache per document identifier
// in a bounded LRU. Upsert is a read-modify-write, so a single mutex
// serializes all access even though the settling fetches that call it
// run concurrently.
type ReconciliationCache struct {
	mu   sync.Mutex
	docs *lru.Cache[string, *DocumentCache]
}

func NewReconciliationCache(capacity int) *ReconciliationCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	docs, err := lru.New[string, *DocumentCache](capacity)
	if err != nil {
		panic(err)
	}
	return &ReconciliationCache{docs: docs}
}

// ShouldSkip reports whether a reconciliation round can be skipped: an
// entry exists and its stored revision is at least the current one.
func (c *ReconciliationCache) ShouldSkip(docID string, currentRevision int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.docs.Get(docID)
	return ok && entry.Revision >= currentRevision
}

// Get returns a copy of the document's cache state.
func (c *ReconciliationCache) Get(docID string) (DocumentCache, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.docs.Get(docID)
	if !ok {
		return DocumentCache{}, false
	}
	records := make(map[string]types.RegistryRecord, len(entry.Records))
	for name, record := range entry.Records {
		records[name] = record
	}
	return DocumentCache{Revision: entry.Revision, Records: records}, true
}

// Record returns the cached record for one package name.
func (c *ReconciliationCache) Record(docID string, name string) (types.RegistryRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.docs.Get(docID)
	if !ok {
		return types.RegistryRecord{}, false
	}
	record, ok := entry.Records[name]
	return record, ok
}

// Upsert merges a record into the document's per-package slot and bumps
// the stored revision to the current one. The merge is keyed by name
// and field-wise, so out-of-order settles for different packages (or
// partial updates to disjoint fields) converge to the same state
// regardless of arrival order. Returns the merged record.
func (c *ReconciliationCache) Upsert(docID string, currentRevision int, record types.RegistryRecord) types.RegistryRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.docs.Get(docID)
	if !ok {
		entry = &DocumentCache{Records: map[string]types.RegistryRecord{}}
		c.docs.Add(docID, entry)
	}
	if currentRevision > entry.Revision {
		entry.Revision = currentRevision
	}
	merged := mergeRecords(entry.Records[record.Name], record)
	entry.Records[record.Name] = merged
	return merged
}

// Invalidate drops the document's entry entirely, forcing the next
// round to rescan and refetch.
func (c *ReconciliationCache) Invalidate(docID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs.Remove(docID)
}

// mergeRecords overlays the fields present in update onto existing.
// A resolved latest version supersedes a previously recorded fetch
// error: the two fields describe one fetch outcome.
func mergeRecords(existing types.RegistryRecord, update types.RegistryRecord) types.RegistryRecord {
	merged := existing
	if update.Name != "" {
		merged.Name = update.Name
	}
	if update.LatestVersion != "" {
		merged.LatestVersion = update.LatestVersion
		merged.FetchError = nil
	}
	if !update.LatestPublished.IsZero() {
		merged.LatestPublished = update.LatestPublished
	}
	if len(update.Versions) > 0 {
		merged.Versions = update.Versions
	}
	if update.FetchError != nil {
		merged.FetchError = update.FetchError
	}
	return merged
}
