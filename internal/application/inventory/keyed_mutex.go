package inventory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// keyedMutex serializes stock mutations per (product, location) key so the
// check-then-mutate sequence inside the ledger is atomic per key while
// different keys proceed in parallel. Entries are never evicted; the key
// space is bounded by the product-location combinations of the plant.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func stockKey(productID uuid.UUID, location string) string {
	return fmt.Sprintf("%s|%s", productID, location)
}

// Lock acquires the mutex for the key, creating it on first use
func (k *keyedMutex) Lock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
}

// Unlock releases the mutex for the key
func (k *keyedMutex) Unlock(key string) {
	k.mu.Lock()
	m := k.locks[key]
	k.mu.Unlock()

	if m != nil {
		m.Unlock()
	}
}
