package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mvc-is/portal/internal/database"
	"github.com/mvc-is/portal/internal/inventory"
	"github.com/mvc-is/portal/internal/models"
)

const (
	ownerU1 = "11111111-1111-1111-1111-111111111111"
	ownerU2 = "22222222-2222-2222-2222-222222222222"
)

func testStore(t *testing.T) (*inventory.Store, *gorm.DB) {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return inventory.NewStore(db, nil, nil), db
}

func monitor() map[string]any {
	return map[string]any{"item_name": "Monitor", "quantity": 3, "status": "New"}
}

func TestStore_ComputerPartsScenario(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, inventory.ComputerParts, ownerU1, monitor())
	require.NoError(t, err)

	items, err := store.List(ctx, inventory.ComputerParts, ownerU1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	part, ok := items[0].(*models.ComputerPart)
	require.True(t, ok, "expected *models.ComputerPart, got %T", items[0])
	assert.Equal(t, "Monitor", part.ItemName)
	assert.Equal(t, 3, part.Quantity)
	assert.Equal(t, "New", part.Status)
	assert.Equal(t, ownerU1, part.OwnerID)
	assert.Equal(t, created.Common().ID, part.ID)
	assert.NotEmpty(t, part.ID)
	assert.False(t, part.CreatedAt.IsZero())

	other, err := store.List(ctx, inventory.ComputerParts, ownerU2)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestStore_ListNeverReturnsOtherOwners(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	for _, cat := range []inventory.Category{inventory.ComputerParts, inventory.WiresCables} {
		fields := map[string]any{"status": "In Stock", "quantity": 1}
		if cat == inventory.ComputerParts {
			fields["item_name"] = "SSD"
		} else {
			fields["cable_type"] = "CAT6"
		}
		_, err := store.Create(ctx, cat, ownerU2, fields)
		require.NoError(t, err)
	}
	_, err := store.Create(ctx, inventory.ComputerParts, ownerU1, monitor())
	require.NoError(t, err)

	for _, cat := range inventory.Categories() {
		items, err := store.List(ctx, cat, ownerU1)
		require.NoError(t, err)
		for _, it := range items {
			assert.Equal(t, ownerU1, it.Common().OwnerID, "category %s leaked a foreign record", cat)
		}
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, inventory.Documents, ownerU1, map[string]any{"title": "Network Map"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := store.Create(ctx, inventory.Documents, ownerU1, map[string]any{"title": "Volume License"})
	require.NoError(t, err)

	items, err := store.List(ctx, inventory.Documents, ownerU1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.Common().ID, items[0].Common().ID)
	assert.Equal(t, first.Common().ID, items[1].Common().ID)
}

func TestStore_UpdateRoundTrip(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	target, err := store.Create(ctx, inventory.ComputerParts, ownerU1, monitor())
	require.NoError(t, err)
	bystander, err := store.Create(ctx, inventory.ComputerParts, ownerU1,
		map[string]any{"item_name": "Keyboard", "quantity": 12, "status": "In Stock"})
	require.NoError(t, err)

	updated, err := store.Update(ctx, inventory.ComputerParts, ownerU1, target.Common().ID,
		map[string]any{"item_name": "Monitor 27in", "quantity": 0, "status": "Low Stock"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Monitor 27in", updated.(*models.ComputerPart).ItemName)

	items, err := store.List(ctx, inventory.ComputerParts, ownerU1)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byID := map[string]*models.ComputerPart{}
	for _, it := range items {
		byID[it.Common().ID] = it.(*models.ComputerPart)
	}
	got := byID[target.Common().ID]
	require.NotNil(t, got)
	assert.Equal(t, "Monitor 27in", got.ItemName)
	assert.Equal(t, 0, got.Quantity)
	assert.Equal(t, "Low Stock", got.Status)
	assert.Equal(t, ownerU1, got.OwnerID)

	kept := byID[bystander.Common().ID]
	require.NotNil(t, kept)
	assert.Equal(t, "Keyboard", kept.ItemName)
	assert.Equal(t, 12, kept.Quantity)
}

func TestStore_UpdateWrongOwnerTouchesNothing(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	rec, err := store.Create(ctx, inventory.ComputerParts, ownerU1, monitor())
	require.NoError(t, err)

	updated, err := store.Update(ctx, inventory.ComputerParts, ownerU2, rec.Common().ID,
		map[string]any{"item_name": "Stolen", "quantity": 1, "status": "New"})
	require.NoError(t, err)
	assert.Nil(t, updated)

	items, err := store.List(ctx, inventory.ComputerParts, ownerU1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Monitor", items[0].(*models.ComputerPart).ItemName)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	rec, err := store.Create(ctx, inventory.ComputerParts, ownerU1, monitor())
	require.NoError(t, err)
	id := rec.Common().ID

	require.NoError(t, store.Delete(ctx, inventory.ComputerParts, ownerU1, id))
	require.NoError(t, store.Delete(ctx, inventory.ComputerParts, ownerU1, id))

	items, err := store.List(ctx, inventory.ComputerParts, ownerU1)
	require.NoError(t, err)
	for _, it := range items {
		assert.NotEqual(t, id, it.Common().ID)
	}
}

func TestStore_DeleteWrongOwnerKeepsRecord(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	rec, err := store.Create(ctx, inventory.ComputerParts, ownerU1, monitor())
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, inventory.ComputerParts, ownerU2, rec.Common().ID))

	items, err := store.List(ctx, inventory.ComputerParts, ownerU1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestStore_DocumentsUseDefaultTable(t *testing.T) {
	store, db := testStore(t)
	ctx := context.Background()

	kind, err := inventory.Lookup(inventory.Documents)
	require.NoError(t, err)
	assert.Equal(t, inventory.DefaultTable, kind.Table)
	assert.True(t, db.Migrator().HasTable(inventory.DefaultTable))

	_, err = store.Create(ctx, inventory.Documents, ownerU1, map[string]any{
		"title":         "Microsoft Volume Licensing 2026",
		"document_type": "Software License",
		"date_issued":   "2026-01-10",
		"holder":        "MIS Manager",
	})
	require.NoError(t, err)

	var rows int64
	require.NoError(t, db.Table(inventory.DefaultTable).Where("owner_id = ?", ownerU1).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	items, err := store.List(ctx, inventory.Documents, ownerU1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	doc := items[0].(*models.Document)
	assert.Equal(t, "Microsoft Volume Licensing 2026", doc.Title)
	assert.Equal(t, "2026-01-10", doc.DateIssued)
}

func TestStore_CreateValidation(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, inventory.ComputerParts, ownerU1, map[string]any{"quantity": 3, "status": "New"})
	var verr *inventory.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "item_name", verr.Field)

	items, err := store.List(ctx, inventory.ComputerParts, ownerU1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_RejectsMistypedValues(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	for _, fields := range []map[string]any{
		{"item_name": "Monitor", "quantity": 3.7, "status": "New"},
		{"item_name": "Monitor", "quantity": true, "status": "New"},
		{"item_name": "Monitor", "quantity": "", "status": "New"},
		{"item_name": "Monitor", "quantity": 1e30, "status": "New"},
		{"item_name": "Monitor", "quantity": 3, "status": true},
	} {
		_, err := store.Create(ctx, inventory.ComputerParts, ownerU1, fields)
		var verr *inventory.ValidationError
		require.True(t, errors.As(err, &verr), "%v: got %v", fields, err)
	}

	items, err := store.List(ctx, inventory.ComputerParts, ownerU1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_UnknownCategory(t *testing.T) {
	store, _ := testStore(t)

	items, err := store.List(context.Background(), inventory.Category("Furniture"), ownerU1)
	var verr *inventory.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestStore_BackendFailureIsStoreError(t *testing.T) {
	store, db := testStore(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	items, err := store.List(context.Background(), inventory.ComputerParts, ownerU1)
	var serr *inventory.StoreError
	require.True(t, errors.As(err, &serr), "got %v", err)
	assert.Equal(t, "list", serr.Op)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, err = store.Create(context.Background(), inventory.ComputerParts, ownerU1, monitor())
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "create", serr.Op)
}

func TestStore_CountsAndLowStock(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, inventory.ComputerParts, ownerU1, monitor())
	require.NoError(t, err)
	_, err = store.Create(ctx, inventory.WiresCables, ownerU1,
		map[string]any{"cable_type": "HDMI 2.1", "quantity": 45, "status": "In Stock"})
	require.NoError(t, err)
	_, err = store.Create(ctx, inventory.PersonalComputer, ownerU1,
		map[string]any{"user_full_name": "Maria Santos", "ip_address": "192.168.2.44"})
	require.NoError(t, err)
	_, err = store.Create(ctx, inventory.ComputerParts, ownerU2, monitor())
	require.NoError(t, err)

	counts, err := store.Counts(ctx, ownerU1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[inventory.ComputerParts])
	assert.Equal(t, int64(1), counts[inventory.WiresCables])
	assert.Equal(t, int64(1), counts[inventory.PersonalComputer])
	assert.Equal(t, int64(0), counts[inventory.Documents])

	low, err := store.LowStock(ctx, ownerU1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), low)
}
