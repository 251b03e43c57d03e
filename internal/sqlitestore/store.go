// Package sqlitestore implements the inventory store on SQLite. It is the
// alternate backend behind the same contract as jsonstore, selected with
// "backend: sqlite". The database file is the source of truth; every
// mutation commits before returning.
package sqlitestore

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/k4doshh/bau-tribo/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// dbFileName is the database file created inside the data directory.
const dbFileName = "bautribo.db"

// Store is the SQLite implementation of types.Store.
type Store struct {
	db  *sql.DB
	log *logrus.Entry
}

// Open opens (or creates) the database under dataDir and applies the schema.
func Open(dataDir string, log *logrus.Entry) (*Store, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Categories returns all category names, sorted.
func (s *Store) Categories() []string {
	rows, err := s.db.Query("SELECT name FROM categories ORDER BY name")
	if err != nil {
		s.log.WithError(err).Error("query categories")
		return nil
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			s.log.WithError(err).Error("scan category")
			return nil
		}
		names = append(names, name)
	}
	return names
}

// Items returns the item names defined in the category, in insertion order.
func (s *Store) Items(category string) ([]string, error) {
	cat := types.Canonical(category)
	if !s.categoryExists(cat) {
		return nil, types.ErrNotFound
	}

	rows, err := s.db.Query("SELECT name FROM items WHERE category = ? ORDER BY ordinal", cat)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, name)
	}
	return items, rows.Err()
}

// Quantity returns the current stock for the item, or 0 when absent.
func (s *Store) Quantity(category, item string) int {
	var qty int
	err := s.db.QueryRow(
		"SELECT quantity FROM inventory WHERE category = ? AND item = ?",
		types.Canonical(category), types.Canonical(item),
	).Scan(&qty)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.WithError(err).Error("query quantity")
		}
		return 0
	}
	return qty
}

// CreateCategory registers a new empty category.
func (s *Store) CreateCategory(name string) error {
	cat := types.Canonical(name)
	if cat == "" {
		return types.ErrInvalidName
	}
	if s.categoryExists(cat) {
		return types.ErrDuplicateCategory
	}
	if _, err := s.db.Exec("INSERT INTO categories (name) VALUES (?)", cat); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// DeleteCategory removes the category's item list and its inventory rows in
// one transaction.
func (s *Store) DeleteCategory(name string) error {
	cat := types.Canonical(name)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete category: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM categories WHERE name = ?", cat)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return types.ErrNotFound
	}

	// Items cascade via the foreign key; inventory rows are removed explicitly.
	if _, err := tx.Exec("DELETE FROM inventory WHERE category = ?", cat); err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	return tx.Commit()
}

// AddItem appends an item definition to the category.
func (s *Store) AddItem(category, item string) error {
	cat := types.Canonical(category)
	it := types.Canonical(item)
	if it == "" {
		return types.ErrInvalidName
	}
	if !s.categoryExists(cat) {
		return types.ErrNotFound
	}
	if s.itemDefined(cat, it) {
		return types.ErrDuplicateItem
	}

	_, err := s.db.Exec(
		`INSERT INTO items (category, name, ordinal)
		 VALUES (?, ?, (SELECT COALESCE(MAX(ordinal) + 1, 0) FROM items WHERE category = ?))`,
		cat, it, cat,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// RemoveItem deletes an item definition. Inventory stock is left untouched.
func (s *Store) RemoveItem(category, item string) error {
	cat := types.Canonical(category)
	it := types.Canonical(item)
	if !s.categoryExists(cat) {
		return types.ErrNotFound
	}

	res, err := s.db.Exec("DELETE FROM items WHERE category = ? AND name = ?", cat, it)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return types.ErrNotFound
	}
	return nil
}

// AdjustQuantity applies a stock delta inside a transaction.
func (s *Store) AdjustQuantity(category, item string, delta int) (int, error) {
	cat := types.Canonical(category)
	it := types.Canonical(item)

	if !s.itemDefined(cat, it) {
		return 0, types.ErrNotFound
	}
	if delta == 0 {
		return 0, types.ErrInvalidQuantity
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin adjust: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRow(
		"SELECT quantity FROM inventory WHERE category = ? AND item = ?", cat, it,
	).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("query current quantity: %w", err)
	}

	if delta < 0 && -delta > current {
		return current, types.ErrInsufficientQuantity
	}

	result := current + delta
	if result <= 0 {
		_, err = tx.Exec("DELETE FROM inventory WHERE category = ? AND item = ?", cat, it)
	} else {
		_, err = tx.Exec(
			`INSERT INTO inventory (category, item, quantity) VALUES (?, ?, ?)
			 ON CONFLICT (category, item) DO UPDATE SET quantity = excluded.quantity`,
			cat, it, result,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("write quantity: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return result, nil
}

// Snapshot returns the full inventory.
func (s *Store) Snapshot() types.Inventory {
	rows, err := s.db.Query("SELECT category, item, quantity FROM inventory ORDER BY category, item")
	if err != nil {
		s.log.WithError(err).Error("query snapshot")
		return types.Inventory{}
	}
	defer rows.Close()

	snap := make(types.Inventory)
	for rows.Next() {
		var cat, it string
		var qty int
		if err := rows.Scan(&cat, &it, &qty); err != nil {
			s.log.WithError(err).Error("scan snapshot row")
			return types.Inventory{}
		}
		if snap[cat] == nil {
			snap[cat] = make(map[string]int)
		}
		snap[cat][it] = qty
	}
	return snap
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) categoryExists(cat string) bool {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM categories WHERE name = ?", cat).Scan(&one)
	return err == nil
}

func (s *Store) itemDefined(cat, item string) bool {
	var one int
	err := s.db.QueryRow(
		"SELECT 1 FROM items WHERE category = ? AND name = ?", cat, item,
	).Scan(&one)
	return err == nil
}
