package sqlitestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k4doshh/bau-tribo/internal/logging"
	"github.com/k4doshh/bau-tribo/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), logging.NewLogger("sqlitestore-test"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCategoryLifecycle(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreateCategory("weapons"))
	require.NoError(t, s.CreateCategory("ARMOR"))
	assert.Equal(t, []string{"ARMOR", "WEAPONS"}, s.Categories())

	assert.ErrorIs(t, s.CreateCategory("Weapons"), types.ErrDuplicateCategory)
	assert.ErrorIs(t, s.CreateCategory(" "), types.ErrInvalidName)

	require.NoError(t, s.DeleteCategory("ARMOR"))
	assert.Equal(t, []string{"WEAPONS"}, s.Categories())
	assert.ErrorIs(t, s.DeleteCategory("ARMOR"), types.ErrNotFound)
}

func TestItemDefinitions(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCategory("WEAPONS"))

	require.NoError(t, s.AddItem("WEAPONS", "sword"))
	require.NoError(t, s.AddItem("WEAPONS", "BOW"))
	items, err := s.Items("weapons")
	require.NoError(t, err)
	assert.Equal(t, []string{"SWORD", "BOW"}, items, "insertion order preserved")

	assert.ErrorIs(t, s.AddItem("WEAPONS", "Sword"), types.ErrDuplicateItem)
	assert.ErrorIs(t, s.AddItem("ARMOR", "SHIELD"), types.ErrNotFound)

	require.NoError(t, s.RemoveItem("WEAPONS", "SWORD"))
	assert.ErrorIs(t, s.RemoveItem("WEAPONS", "SWORD"), types.ErrNotFound)

	_, err = s.Items("ARMOR")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAdjustQuantity(t *testing.T) {
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
	assert.Equal(t, 8, s.Quantity("WEAPONS", "SWORD"))

	qty, err = s.AdjustQuantity("WEAPONS", "SWORD", -8)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
	assert.Empty(t, s.Snapshot(), "zero stock rows are deleted")

	_, err = s.AdjustQuantity("WEAPONS", "SWORD", 0)
	assert.ErrorIs(t, err, types.ErrInvalidQuantity)
	_, err = s.AdjustQuantity("WEAPONS", "AXE", 1)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDeleteCategoryCascades(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateCategory("WEAPONS"))
	require.NoError(t, s.AddItem("WEAPONS", "SWORD"))
	_, err := s.AdjustQuantity("WEAPONS", "SWORD", 4)
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory("WEAPONS"))

	assert.Empty(t, s.Categories())
	assert.Empty(t, s.Snapshot())
	assert.Equal(t, 0, s.Quantity("WEAPONS", "SWORD"))
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	log := logging.NewLogger("sqlitestore-test")

	s, err := Open(dir, log)
	require.NoError(t, err)
	require.NoError(t, s.CreateCategory("WEAPONS"))
	require.NoError(t, s.AddItem("WEAPONS", "SWORD"))
	_, err = s.AdjustQuantity("WEAPONS", "SWORD", 9)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(dir, log)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 9, reopened.Quantity("WEAPONS", "SWORD"))
}
