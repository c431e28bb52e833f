package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hms/backend/internal/domain/requisition"
)

// RequisitionModel is the persistence model for the Requisition aggregate root.
type RequisitionModel struct {
	AggregateModel
	Department      string    `gorm:"type:varchar(100);not null;index"`
	RequestedByID   string    `gorm:"type:varchar(64);not null"`
	RequestedByName string    `gorm:"type:varchar(200)"`
	RequestDate     time.Time `gorm:"not null"`
	Status          string    `gorm:"type:varchar(20);not null;index"`
	DecidedByID     string    `gorm:"type:varchar(64)"`
	DecidedByName   string    `gorm:"type:varchar(200)"`
	DecidedAt       *time.Time
	// Associations
	Items []RequisitionItemModel `gorm:"foreignKey:RequisitionID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (RequisitionModel) TableName() string {
	return "requisitions"
}

// ToDomain converts the persistence model to a domain Requisition.
func (m *RequisitionModel) ToDomain() *requisition.Requisition {
	r := &requisition.Requisition{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Department:        m.Department,
		RequestedByID:     m.RequestedByID,
		RequestedByName:   m.RequestedByName,
		RequestDate:       m.RequestDate,
		Items:             make([]requisition.Item, len(m.Items)),
		Status:            requisition.Status(m.Status),
		DecidedByID:       m.DecidedByID,
		DecidedByName:     m.DecidedByName,
		DecidedAt:         m.DecidedAt,
	}
	for i, it := range m.Items {
		r.Items[i] = requisition.Item{
			ItemCode:          it.ItemCode,
			ItemName:          it.ItemName,
			Quantity:          it.Quantity,
			FulfilledQuantity: it.FulfilledQuantity,
		}
	}
	return r
}

// FromDomain populates the persistence model from a domain Requisition.
func (m *RequisitionModel) FromDomain(r *requisition.Requisition) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Department = r.Department
	m.RequestedByID = r.RequestedByID
	m.RequestedByName = r.RequestedByName
	m.RequestDate = r.RequestDate
	m.Status = string(r.Status)
	m.DecidedByID = r.DecidedByID
	m.DecidedByName = r.DecidedByName
	m.DecidedAt = r.DecidedAt
	m.Items = make([]RequisitionItemModel, len(r.Items))
	for i, it := range r.Items {
		m.Items[i] = RequisitionItemModel{
			RequisitionID:     r.ID,
			Position:          i,
			ItemCode:          it.ItemCode,
			ItemName:          it.ItemName,
			Quantity:          it.Quantity,
			FulfilledQuantity: it.FulfilledQuantity,
		}
	}
}

// RequisitionModelFromDomain creates a new persistence model from a domain Requisition.
func RequisitionModelFromDomain(r *requisition.Requisition) *RequisitionModel {
	m := &RequisitionModel{}
	m.FromDomain(r)
	return m
}

// RequisitionItemModel is the persistence model for a requested line
type RequisitionItemModel struct {
	RequisitionID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position          int       `gorm:"primaryKey"`
	ItemCode          string    `gorm:"type:varchar(64);not null"`
	ItemName          string    `gorm:"type:varchar(200)"`
	Quantity          int64     `gorm:"not null"`
	FulfilledQuantity int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (RequisitionItemModel) TableName() string {
	return "requisition_items"
}
