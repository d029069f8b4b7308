package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// store holds the CRUD plumbing shared by every gorm-backed repository.
// T is a model type; parent/ordinal columns are passed by name.
type store[T any] struct {
	db *gorm.DB
}

func (s store[T]) create(ctx context.Context, v *T) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error
}

func (s store[T]) save(ctx context.Context, v *T) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error
}

func (s store[T]) findByID(ctx context.Context, id uint, preloads ...string) (*T, error) {
	var v T
	q := s.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (s store[T]) listByParent(ctx context.Context, parentColumn string, parentID uint, order string, preloads ...string) ([]T, error) {
	var out []T
	q := s.db.WithContext(ctx).Where(parentColumn+" = ?", parentID)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.Order(order).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// nextOrder returns 1 + the highest sort_order under the parent, or 1 if none.
func (s store[T]) nextOrder(ctx context.Context, parentColumn string, parentID uint) (int, error) {
	var v T
	var highest int
	err := s.db.WithContext(ctx).Model(&v).
		Where(parentColumn+" = ?", parentID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&highest).Error
	if err != nil {
		return 0, err
	}
	return highest + 1, nil
}

// ordinalTaken reports whether a sibling other than excludeID already uses value.
func (s store[T]) ordinalTaken(ctx context.Context, parentColumn string, parentID uint, ordinalColumn string, value int, excludeID uint) (bool, error) {
	var v T
	var count int64
	q := s.db.WithContext(ctx).Model(&v).
		Where(parentColumn+" = ? AND "+ordinalColumn+" = ?", parentID, value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// lockRow takes a row lock on table.id for the rest of the transaction.
// SQLite has no row locks and serializes writers, so the clause is skipped there.
func lockRow(ctx context.Context, db *gorm.DB, table string, id uint) error {
	q := db.WithContext(ctx).Table(table).Where("id = ?", id)
	if db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var ids []uint
	if err := q.Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// pluckOwner resolves a single owner id through the given join chain.
func pluckOwner(ctx context.Context, db *gorm.DB, table, ownerColumn string, joins []string, id uint) (uint, error) {
	q := db.WithContext(ctx).Table(table)
	for _, j := range joins {
		q = q.Joins(j)
	}
	var owners []uint
	if err := q.Where(table+".id = ?", id).Pluck(ownerColumn, &owners).Error; err != nil {
		return 0, err
	}
	if len(owners) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return owners[0], nil
}
