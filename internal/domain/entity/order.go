package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/pedidos-api/pkg/orderview"
)

// Order is a stored purchase order ("pedido"). Money columns are numeric with
// two decimals.
type Order struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderLabel   string          `gorm:"size:100;index"`
	Customer     string          `gorm:"size:255;index"`
	Store        string          `gorm:"size:255"`
	Description  string          `gorm:"type:text"`
	Status       string          `gorm:"size:100"`
	Cost         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ShippingCost decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	PurchaseCost decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedBy    uuid.UUID       `gorm:"type:uuid;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "pedidos"
}

// Record converts the stored order into the engine's record
func (o *Order) Record() orderview.Record {
	return orderview.Record{
		ID:           o.ID.String(),
		OrderLabel:   o.OrderLabel,
		Customer:     o.Customer,
		Store:        o.Store,
		Description:  o.Description,
		Status:       o.Status,
		Cost:         o.Cost.InexactFloat64(),
		ShippingCost: o.ShippingCost.InexactFloat64(),
		PurchaseCost: o.PurchaseCost.InexactFloat64(),
	}
}

// Apply overwrites every editable field with r. Amounts are rounded to cents.
func (o *Order) Apply(r orderview.Record) {
	r = r.Sanitized()
	o.OrderLabel = r.OrderLabel
	o.Customer = r.Customer
	o.Store = r.Store
	o.Description = r.Description
	o.Status = r.Status
	o.Cost = Money(r.Cost)
	o.ShippingCost = Money(r.ShippingCost)
	o.PurchaseCost = Money(r.PurchaseCost)
}

// Money rounds an engine amount to the two decimals stored in the database
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
