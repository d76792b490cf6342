package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	domain "github.com/brandfolio/api/internal/domain"
)

// ErrMalformedCatalog indicates the catalog document could not be decoded.
var ErrMalformedCatalog = errors.New("catalog: malformed document")

// Store holds the loaded catalog and its derived tag universe. Reads return
// snapshots; Replace swaps the whole collection atomically so readers never
// observe a partially updated catalog.
type Store struct {
	mu         sync.RWMutex
	entries    []domain.Product
	byID       map[string]int
	tags       []string
	generation uint64
}

// NewStore constructs an empty catalog store.
func NewStore() *Store {
	return &Store{byID: make(map[string]int)}
}

type catalogDocument struct {
	Products []domain.Product `json:"products"`
}

// Load decodes a catalog document and installs its entries. A document
// without a products field yields an empty catalog, which is a valid steady
// state; only a decode failure is an error.
func (s *Store) Load(raw []byte) error {
	if len(raw) == 0 {
		s.Replace(nil)
		return nil
	}
	var doc catalogDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
	}
	s.Replace(doc.Products)
	return nil
}

// Replace installs a new collection atomically. Duplicate identifiers keep
// the first occurrence so the id-uniqueness invariant holds for lookups.
func (s *Store) Replace(entries []domain.Product) {
	deduped := make([]domain.Product, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, entry := range entries {
		id := strings.TrimSpace(entry.ID)
		if id != "" {
			if _, seen := index[id]; seen {
				continue
			}
			index[id] = len(deduped)
		}
		entry.ID = id
		deduped = append(deduped, entry)
	}
	tags := collectTagUniverse(deduped)

	s.mu.Lock()
	s.entries = deduped
	s.byID = index
	s.tags = tags
	s.generation++
	s.mu.Unlock()
}

// All returns the full catalog in original order.
func (s *Store) All() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get looks up a single entry by id.
func (s *Store) Get(id string) (domain.Product, bool) {
	id = strings.TrimSpace(id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.entries[idx], true
}

// Len reports the number of entries currently loaded.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// TagUniverse returns the sorted set of case-folded tags across all entries,
// computed once per load.
func (s *Store) TagUniverse() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// Generation returns a counter bumped on every Replace. Callers performing
// asynchronous reloads can use it to discard stale results.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func collectTagUniverse(entries []domain.Product) []string {
	seen := make(map[string]struct{})
	for _, entry := range entries {
		for _, tag := range entry.Tags {
			folded := foldTerm(tag)
			if folded == "" {
				continue
			}
			seen[folded] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
