package persistence

import (
	"context"

	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements audit.Repository using GORM.
// There is no update or delete path.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Append stores entries with sequence numbers following the current maximum.
// Writers are serialised by the ledger service; the primary key rejects a
// sequence taken by another process.
func (r *GormAuditLogRepository) Append(ctx context.Context, entries []audit.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&models.AuditLogEntryModel{}).
			Select("COALESCE(MAX(sequence), 0)").
			Scan(&last).Error; err != nil {
			return err
		}
		rows := make([]models.AuditLogEntryModel, len(entries))
		for i, e := range entries {
			e.Sequence = last + int64(i) + 1
			rows[i] = models.AuditLogEntryModelFromDomain(e)
		}
		return tx.Create(&rows).Error
	})
}

// List returns entries newest first
func (r *GormAuditLogRepository) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Action != "" {
			db = db.Where("action = ?", string(filter.Action))
		}
		if filter.ActorID != "" {
			db = db.Where("actor_id = ?", filter.ActorID)
		}
		if filter.EntityID != "" {
			db = db.Where("entity_id = ?", filter.EntityID)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.AuditLogEntryModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AuditLogEntryModel
	if err := r.db.WithContext(ctx).
		Scopes(scope, paginate(filter.Filter)).
		Order("sequence DESC").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	entries := make([]audit.Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, total, nil
}

// Ensure GormAuditLogRepository implements audit.Repository
var _ audit.Repository = (*GormAuditLogRepository)(nil)
