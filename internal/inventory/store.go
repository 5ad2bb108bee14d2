package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mvc-is/portal/internal/logger"
	"github.com/mvc-is/portal/internal/metrics"
	"github.com/mvc-is/portal/internal/models"
)

// LowStockThreshold is the quantity under which a stock entry needs attention.
const LowStockThreshold = 10

// Store performs owner-scoped CRUD over the category tables.
type Store struct {
	db      *gorm.DB
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewStore wraps a gorm connection. log and m may be nil.
func NewStore(db *gorm.DB, log *zap.Logger, m *metrics.Metrics) *Store {
	return &Store{db: db, log: logger.OrNop(log), metrics: m}
}

// Migrate creates or updates every category table.
func Migrate(db *gorm.DB) error {
	for _, k := range kinds {
		if err := db.Table(k.Table).AutoMigrate(k.newRecord()); err != nil {
			return &StoreError{Op: "migrate", Category: k.Category, Err: err}
		}
	}
	return nil
}

func (s *Store) table(ctx context.Context, k Kind) *gorm.DB {
	return s.db.WithContext(ctx).Table(k.Table)
}

func (s *Store) fail(op string, k Kind, ownerID string, err error) error {
	s.metrics.ObserveStore(op, k.Slug, err)
	s.log.Error("inventory store failure",
		zap.String("op", op),
		zap.String("category", string(k.Category)),
		zap.String("table", k.Table),
		zap.String("owner", ownerID),
		zap.Error(err),
	)
	return &StoreError{Op: op, Category: k.Category, Err: err}
}

// List returns the owner's records of a category, newest first.
// On failure the slice is empty (never nil) and the error is a *StoreError.
func (s *Store) List(ctx context.Context, cat Category, ownerID string) ([]models.InventoryRecord, error) {
	k, err := Lookup(cat)
	if err != nil {
		return []models.InventoryRecord{}, err
	}

	list := k.newList()
	if err := s.table(ctx, k).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(list).Error; err != nil {
		return []models.InventoryRecord{}, s.fail("list", k, ownerID, err)
	}

	s.metrics.ObserveStore("list", k.Slug, nil)
	return k.unpack(list), nil
}

// Create validates fields against the category schema and inserts a new
// record owned by ownerID. The returned record carries its generated id and
// timestamps.
func (s *Store) Create(ctx context.Context, cat Category, ownerID string, fields map[string]any) (models.InventoryRecord, error) {
	// 1. --- Resolve Category & Validate ---
	k, err := Lookup(cat)
	if err != nil {
		return nil, err
	}
	rec, err := k.Decode(fields)
	if err != nil {
		return nil, err
	}

	// 2. --- Stamp System Columns ---
	now := time.Now().UTC()
	base := rec.Common()
	base.ID = uuid.NewString()
	base.OwnerID = ownerID
	base.CreatedAt = now
	base.UpdatedAt = now

	// 3. --- Insert ---
	if err := s.table(ctx, k).Create(rec).Error; err != nil {
		return nil, s.fail("create", k, ownerID, err)
	}

	s.metrics.ObserveStore("create", k.Slug, nil)
	s.log.Debug("inventory record created", zap.String("category", string(cat)), zap.String("id", base.ID))
	return rec, nil
}

// Update replaces the schema fields of the record matching both id and
// ownerID. When no such record exists nothing is written and the returned
// record is nil; that is not an error.
func (s *Store) Update(ctx context.Context, cat Category, ownerID, id string, fields map[string]any) (models.InventoryRecord, error) {
	k, err := Lookup(cat)
	if err != nil {
		return nil, err
	}
	rec, err := k.Decode(fields)
	if err != nil {
		return nil, err
	}
	rec.Common().UpdatedAt = time.Now().UTC()

	cols := append(k.columns(), "updated_at")
	if err := s.table(ctx, k).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Select(cols).
		Updates(rec).Error; err != nil {
		return nil, s.fail("update", k, ownerID, err)
	}

	// Re-read instead of trusting RowsAffected: MySQL reports 0 for unchanged rows.
	out := k.newRecord()
	err = s.table(ctx, k).Where("id = ? AND owner_id = ?", id, ownerID).Take(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.metrics.ObserveStore("update", k.Slug, nil)
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("update", k, ownerID, err)
	}

	s.metrics.ObserveStore("update", k.Slug, nil)
	return out, nil
}

// Delete removes the record matching both id and ownerID.
// Deleting a record that does not exist is not an error.
func (s *Store) Delete(ctx context.Context, cat Category, ownerID, id string) error {
	k, err := Lookup(cat)
	if err != nil {
		return err
	}
	if err := s.table(ctx, k).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(k.newRecord()).Error; err != nil {
		return s.fail("delete", k, ownerID, err)
	}
	s.metrics.ObserveStore("delete", k.Slug, nil)
	return nil
}

// Counts returns the number of records the owner holds in each category.
func (s *Store) Counts(ctx context.Context, ownerID string) (map[Category]int64, error) {
	counts := make(map[Category]int64, len(kinds))
	for _, k := range kinds {
		var n int64
		if err := s.table(ctx, k).Where("owner_id = ?", ownerID).Count(&n).Error; err != nil {
			return counts, s.fail("count", k, ownerID, err)
		}
		counts[k.Category] = n
	}
	return counts, nil
}

// LowStock counts the owner's stock entries (categories with a quantity field)
// below LowStockThreshold.
func (s *Store) LowStock(ctx context.Context, ownerID string) (int64, error) {
	var total int64
	for _, k := range kinds {
		if !k.HasField("quantity") {
			continue
		}
		var n int64
		if err := s.table(ctx, k).
			Where("owner_id = ? AND quantity < ?", ownerID, LowStockThreshold).
			Count(&n).Error; err != nil {
			return total, s.fail("count", k, ownerID, err)
		}
		total += n
	}
	return total, nil
}
