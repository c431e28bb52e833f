package persistence

import (
	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertRoot inserts or fully replaces an aggregate row without touching its
// associations. The conflict target is the primary key.
func upsertRoot(tx *gorm.DB, model any) error {
	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// replaceChildren deletes every child row of parentID and inserts rows.
func replaceChildren[T any](tx *gorm.DB, parentColumn string, parentID uuid.UUID, rows []T) error {
	var zero T
	if err := tx.Where(parentColumn+" = ?", parentID).Delete(&zero).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func byLineNo(db *gorm.DB) *gorm.DB {
	return db.Order("line_no ASC")
}

// paginate scopes a query to the filter's page
func paginate(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(filter.Offset()).Limit(filter.Limit())
	}
}
