// Package jsonstore implements the default file-backed inventory store.
// State is held in memory and persisted to two JSON documents after every
// mutation; missing or corrupt documents load as empty state.
package jsonstore

import (
	"os"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/k4doshh/bau-tribo/pkg/types"
)

// Store is the JSON-document implementation of types.Store.
// Safe for concurrent use; session deadline timers fire on their own
// goroutines.
type Store struct {
	mu  sync.Mutex
	dir string
	log *logrus.Entry

	categories map[string][]string
	inventory  types.Inventory
}

// Open loads both documents from dataDir, creating the directory if needed.
func Open(dataDir string, log *logrus.Entry) (*Store, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	s := &Store{
		dir:        dataDir,
		log:        log,
		categories: make(map[string][]string),
		inventory:  make(types.Inventory),
	}
	loadDocument(dataDir, categoriesFile, &s.categories, log)
	loadDocument(dataDir, inventoryFile, &s.inventory, log)
	return s, nil
}

// Categories returns all category names, sorted.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.categories))
	for name := range s.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Items returns the item names defined in the category, in insertion order.
func (s *Store) Items(category string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.categories[types.Canonical(category)]
	if !ok {
		return nil, types.ErrNotFound
	}
	out := make([]string, len(items))
	copy(out, items)
	return out, nil
}

// Quantity returns the current stock for the item, or 0 when absent.
func (s *Store) Quantity(category, item string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inventory[types.Canonical(category)][types.Canonical(item)]
}

// CreateCategory registers a new empty category.
func (s *Store) CreateCategory(name string) error {
	cat := types.Canonical(name)
	if cat == "" {
		return types.ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[cat]; ok {
		return types.ErrDuplicateCategory
	}
	s.categories[cat] = []string{}
	s.saveCategories()
	return nil
}

// DeleteCategory removes the category's item list and its inventory entry.
func (s *Store) DeleteCategory(name string) error {
	cat := types.Canonical(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[cat]; !ok {
		return types.ErrNotFound
	}
	delete(s.categories, cat)
	s.saveCategories()

	if _, ok := s.inventory[cat]; ok {
		delete(s.inventory, cat)
		s.saveInventory()
	}
	return nil
}

// AddItem appends an item definition to the category.
func (s *Store) AddItem(category, item string) error {
	cat := types.Canonical(category)
	it := types.Canonical(item)
	if it == "" {
		return types.ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.categories[cat]
	if !ok {
		return types.ErrNotFound
	}
	for _, existing := range items {
		if existing == it {
			return types.ErrDuplicateItem
		}
	}
	s.categories[cat] = append(items, it)
	s.saveCategories()
	return nil
}

// RemoveItem deletes an item definition from the category. Any existing
// inventory stock for the item is left untouched.
func (s *Store) RemoveItem(category, item string) error {
	cat := types.Canonical(category)
	it := types.Canonical(item)

	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.categories[cat]
	if !ok {
		return types.ErrNotFound
	}
	for i, existing := range items {
		if existing == it {
			s.categories[cat] = append(items[:i:i], items[i+1:]...)
			s.saveCategories()
			return nil
		}
	}
	return types.ErrNotFound
}

// AdjustQuantity applies a stock delta for an item defined in the category.
func (s *Store) AdjustQuantity(category, item string, delta int) (int, error) {
	cat := types.Canonical(category)
	it := types.Canonical(item)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.itemDefined(cat, it) {
		return 0, types.ErrNotFound
	}
	if delta == 0 {
		return 0, types.ErrInvalidQuantity
	}

	current := s.inventory[cat][it]
	if delta < 0 && -delta > current {
		return current, types.ErrInsufficientQuantity
	}

	result := current + delta
	if result <= 0 {
		delete(s.inventory[cat], it)
	} else {
		if s.inventory[cat] == nil {
			s.inventory[cat] = make(map[string]int)
		}
		s.inventory[cat][it] = result
	}
	s.saveInventory()
	return result, nil
}

// Snapshot returns a deep copy of the full inventory.
func (s *Store) Snapshot() types.Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := make(types.Inventory, len(s.inventory))
	for cat, items := range s.inventory {
		entry := make(map[string]int, len(items))
		for it, qty := range items {
			entry[it] = qty
		}
		snap[cat] = entry
	}
	return snap
}

// Close is a no-op; every mutation is already persisted.
func (s *Store) Close() error {
	return nil
}

// itemDefined reports whether the item appears in the category's item list.
// The caller must hold s.mu.
func (s *Store) itemDefined(cat, item string) bool {
	items, ok := s.categories[cat]
	if !ok {
		return false
	}
	for _, existing := range items {
		if existing == item {
			return true
		}
	}
	return false
}

// saveCategories persists the categories document. The caller must hold s.mu.
func (s *Store) saveCategories() {
	saveDocument(s.dir, categoriesFile, s.categories, s.log)
}

// saveInventory persists the inventory document. The caller must hold s.mu.
func (s *Store) saveInventory() {
	saveDocument(s.dir, inventoryFile, s.inventory, s.log)
}
