package types

import "errors"

// Action identifies the direction of a quantity change.
type Action string

// Supported inventory actions.
const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Inventory is a full stock snapshot: category → item → quantity.
// Quantities are always ≥ 1; an absent entry means zero stock.
type Inventory map[string]map[string]int

// Store operation errors.
var (
	ErrDuplicateCategory    = errors.New("category already exists")
	ErrDuplicateItem        = errors.New("item already exists in category")
	ErrNotFound             = errors.New("not found")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
)

// Store provides persistent access to the category registry and the
// inventory. All names are canonicalized (see Canonical) before lookup or
// storage. Every mutating call persists immediately; implementations treat
// missing or corrupt backing data as empty rather than failing.
type Store interface {
	// Categories returns all category names in stable order.
	Categories() []string

	// Items returns the item names defined in the category, in insertion
	// order. Returns ErrNotFound if the category does not exist.
	Items(category string) ([]string, error)

	// Quantity returns the current stock for the item, or 0 when no
	// inventory entry exists.
	Quantity(category, item string) int

	// CreateCategory registers a new empty category.
	// Returns ErrDuplicateCategory if it already exists.
	CreateCategory(name string) error

	// DeleteCategory removes the category's item list and its inventory
	// entry as one logical operation. Returns ErrNotFound if absent.
	DeleteCategory(name string) error

	// AddItem appends an item definition to the category.
	// Returns ErrNotFound for an unknown category and ErrDuplicateItem
	// if the item is already defined.
	AddItem(category, item string) error

	// RemoveItem deletes an item definition from the category. Existing
	// inventory stock for the item is left untouched.
	// Returns ErrNotFound for an unknown category or item.
	RemoveItem(category, item string) error

	// AdjustQuantity applies a stock delta for an item defined in the
	// category. A positive delta adds stock; a negative delta removes it
	// and fails with ErrInsufficientQuantity when it exceeds the current
	// stock. A zero delta fails with ErrInvalidQuantity. When the result
	// reaches zero the entry is deleted, never stored as zero.
	// Returns the resulting quantity.
	AdjustQuantity(category, item string, delta int) (int, error)

	// Snapshot returns a deep copy of the full inventory.
	Snapshot() Inventory

	// Close releases backend resources.
	Close() error
}
