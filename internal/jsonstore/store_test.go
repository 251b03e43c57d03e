package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k4doshh/bau-tribo/internal/logging"
	"github.com/k4doshh/bau-tribo/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), logging.NewLogger("jsonstore-test"))
	require.NoError(t, err)
	return s
}

func TestCreateCategory(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreateCategory("weapons"))
	assert.Equal(t, []string{"WEAPONS"}, s.Categories())

	err := s.CreateCategory("Weapons")
	assert.ErrorIs(t, err, types.ErrDuplicateCategory, "case variants are the same category")

	err = s.CreateCategory("   ")
	assert.ErrorIs(t, err, types.ErrInvalidName)
}

func TestAddItem(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCategory("WEAPONS"))

	require.NoError(t, s.AddItem("weapons", "sword"))
	items, err := s.Items("WEAPONS")
	require.NoError(t, err)
	assert.Equal(t, []string{"SWORD"}, items)

	assert.ErrorIs(t, s.AddItem("WEAPONS", "Sword"), types.ErrDuplicateItem)
	assert.ErrorIs(t, s.AddItem("ARMOR", "SHIELD"), types.ErrNotFound)
	assert.ErrorIs(t, s.AddItem("WEAPONS", ""), types.ErrInvalidName)
}

func TestRemoveItem(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCategory("WEAPONS"))
	require.NoError(t, s.AddItem("WEAPONS", "SWORD"))
	require.NoError(t, s.AddItem("WEAPONS", "BOW"))

	require.NoError(t, s.RemoveItem("WEAPONS", "sword"))
	items, err := s.Items("WEAPONS")
	require.NoError(t, err)
	assert.Equal(t, []string{"BOW"}, items)

	assert.ErrorIs(t, s.RemoveItem("WEAPONS", "SWORD"), types.ErrNotFound)
	assert.ErrorIs(t, s.RemoveItem("ARMOR", "SWORD"), types.ErrNotFound)
}

func TestRemoveItemKeepsInventory(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCategory("WEAPONS"))
	require.NoError(t, s.AddItem("WEAPONS", "SWORD"))
	_, err := s.AdjustQuantity("WEAPONS", "SWORD", 3)
	require.NoError(t, err)

	require.NoError(t, s.RemoveItem("WEAPONS", "SWORD"))

	// Removing the definition does not reconcile existing stock.
	assert.Equal(t, 3, s.Quantity("WEAPONS", "SWORD"))
}

func TestAdjustQuantityScenario(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCategory("WEAPONS"))
	require.NoError(t, s.AddItem("WEAPONS", "SWORD"))

	qty, err := s.AdjustQuantity("WEAPONS", "SWORD", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	qty, err = s.AdjustQuantity("WEAPONS", "SWORD", 3)
	require.NoError(t, err)
	assert.Equal(t, 8, qty)

	_, err = s.AdjustQuantity("WEAPONS", "SWORD", -10)
	assert.ErrorIs(t, err, types.ErrInsufficientQuantity)
	assert.Equal(t, 8, s.Quantity("WEAPONS", "SWORD"), "failed remove must not mutate")

	qty, err = s.AdjustQuantity("WEAPONS", "SWORD", -8)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	// Reaching zero deletes the entry instead of storing zero.
	_, ok := s.Snapshot()["WEAPONS"]["SWORD"]
	assert.False(t, ok)
}

func TestAdjustQuantityErrors(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCategory("WEAPONS"))
	require.NoError(t, s.AddItem("WEAPONS", "SWORD"))

	_, err := s.AdjustQuantity("WEAPONS", "SWORD", 0)
	assert.ErrorIs(t, err, types.ErrInvalidQuantity)

	_, err = s.AdjustQuantity("WEAPONS", "AXE", 1)
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = s.AdjustQuantity("ARMOR", "SWORD", 1)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAdjustQuantityRoundTrip(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCategory("POTIONS"))
	require.NoError(t, s.AddItem("POTIONS", "ELIXIR"))

	for _, qty := range []int{1, 4, 17} {
		_, err := s.AdjustQuantity("POTIONS", "ELIXIR", qty)
		require.NoError(t, err)
		_, err = s.AdjustQuantity("POTIONS", "ELIXIR", -qty)
		require.NoError(t, err)
		assert.Equal(t, 0, s.Quantity("POTIONS", "ELIXIR"))
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCategory("WEAPONS"))
	require.NoError(t, s.AddItem("WEAPONS", "SWORD"))
	_, err := s.AdjustQuantity("WEAPONS", "SWORD", 5)
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory("weapons"))

	assert.Empty(t, s.Categories())
	assert.Empty(t, s.Snapshot())
	_, err = s.Items("WEAPONS")
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.ErrorIs(t, s.DeleteCategory("WEAPONS"), types.ErrNotFound)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	log := logging.NewLogger("jsonstore-test")

	s, err := Open(dir, log)
	require.NoError(t, err)
	require.NoError(t, s.CreateCategory("WEAPONS"))
	require.NoError(t, s.AddItem("WEAPONS", "SWORD"))
	_, err = s.AdjustQuantity("WEAPONS", "SWORD", 7)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(dir, log)
	require.NoError(t, err)
	assert.Equal(t, []string{"WEAPONS"}, reopened.Categories())
	assert.Equal(t, 7, reopened.Quantity("WEAPONS", "SWORD"))
}

func TestOpenToleratesMissingAndCorruptDocuments(t *testing.T) {
	dir := t.TempDir()
	log := logging.NewLogger("jsonstore-test")

	// Missing files: empty state.
	s, err := Open(dir, log)
	require.NoError(t, err)
	assert.Empty(t, s.Categories())

	// Corrupt files: also empty state, never an error.
	require.NoError(t, os.WriteFile(filepath.Join(dir, categoriesFile), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, inventoryFile), []byte("[]"), 0o644))
	s, err = Open(dir, log)
	require.NoError(t, err)
	assert.Empty(t, s.Categories())
	assert.Empty(t, s.Snapshot())
}

func TestDocumentLayoutOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, logging.NewLogger("jsonstore-test"))
	require.NoError(t, err)

	require.NoError(t, s.CreateCategory("WEAPONS"))
	require.NoError(t, s.AddItem("WEAPONS", "SWORD"))
	_, err = s.AdjustQuantity("WEAPONS", "SWORD", 2)
	require.NoError(t, err)

	var cats map[string][]string
	data, err := os.ReadFile(filepath.Join(dir, categoriesFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &cats))
	assert.Equal(t, map[string][]string{"WEAPONS": {"SWORD"}}, cats)

	var inv map[string]map[string]int
	data, err = os.ReadFile(filepath.Join(dir, inventoryFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &inv))
	assert.Equal(t, map[string]map[string]int{"WEAPONS": {"SWORD": 2}}, inv)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCategory("WEAPONS"))
	require.NoError(t, s.AddItem("WEAPONS", "SWORD"))
	_, err := s.AdjustQuantity("WEAPONS", "SWORD", 2)
	require.NoError(t, err)

	snap := s.Snapshot()
	snap["WEAPONS"]["SWORD"] = 99

	assert.Equal(t, 2, s.Quantity("WEAPONS", "SWORD"))
}
