package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/pedidos-api/pkg/orderview"
)

// Summary is an immutable snapshot of one aggregation pass ("resumen")
type Summary struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedBy uuid.UUID `gorm:"type:uuid;index"`

	Commission        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ImportTaxCustomer decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ImportTaxSupplier decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ShippingManual    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Deposit           decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Discounts         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	SubtotalSales     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalShipping     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalPurchaseCost decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CustomerTotal     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	FinalTotal        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	SupplierTotal     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Profit            decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	CreatedAt time.Time

	// Relationships
	Details []SummaryDetail `gorm:"foreignKey:SummaryID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate generates a UUID before creating a new summary
func (s *Summary) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Summary model
func (Summary) TableName() string {
	return "resumenes"
}

// SummaryDetail is one order line of a Summary
type SummaryDetail struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	SummaryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position   int             `gorm:"not null;default:0"`
	OrderLabel string          `gorm:"size:100"`
	Customer   string          `gorm:"size:255"`
	Sale       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Cost       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Shipping   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
}

// BeforeCreate generates a UUID before creating a new summary detail
func (d *SummaryDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SummaryDetail model
func (SummaryDetail) TableName() string {
	return "resumen_detalles"
}

// NewSummary builds the row for a payload. ID and CreatedAt are left for the
// repository to assign.
func NewSummary(p orderview.SavedSummary, createdBy uuid.UUID) *Summary {
	adj := p.Adjustments.Sanitized()
	s := &Summary{
		CreatedBy:         createdBy,
		Commission:        Money(adj.Commission),
		ImportTaxCustomer: Money(adj.ImportTaxCustomer),
		ImportTaxSupplier: Money(adj.ImportTaxSupplier),
		ShippingManual:    Money(adj.ShippingManual),
		Deposit:           Money(adj.Deposit),
		Discounts:         Money(adj.Discounts),
		SubtotalSales:     Money(p.SubtotalSales),
		TotalShipping:     Money(p.TotalShipping),
		TotalPurchaseCost: Money(p.TotalPurchaseCost),
		CustomerTotal:     Money(p.CustomerTotal),
		FinalTotal:        Money(p.FinalTotal),
		SupplierTotal:     Money(p.SupplierTotal),
		Profit:            Money(p.Profit),
		Details:           make([]SummaryDetail, 0, len(p.Details)),
	}
	for i, d := range p.Details {
		s.Details = append(s.Details, SummaryDetail{
			Position:   i,
			OrderLabel: d.OrderLabel,
			Customer:   d.Customer,
			Sale:       Money(d.Sale),
			Cost:       Money(d.Cost),
			Shipping:   Money(d.Shipping),
		})
	}
	return s
}

// Saved converts the stored summary back to the engine's payload
func (s *Summary) Saved() orderview.SavedSummary {
	created := s.CreatedAt
	out := orderview.SavedSummary{
		ID:        s.ID.String(),
		CreatedAt: &created,
		Adjustments: orderview.Adjustments{
			Commission:        s.Commission.InexactFloat64(),
			ImportTaxCustomer: s.ImportTaxCustomer.InexactFloat64(),
			ImportTaxSupplier: s.ImportTaxSupplier.InexactFloat64(),
			ShippingManual:    s.ShippingManual.InexactFloat64(),
			Deposit:           s.Deposit.InexactFloat64(),
			Discounts:         s.Discounts.InexactFloat64(),
		},
		Totals: orderview.Totals{
			SubtotalSales:     s.SubtotalSales.InexactFloat64(),
			TotalShipping:     s.TotalShipping.InexactFloat64(),
			TotalPurchaseCost: s.TotalPurchaseCost.InexactFloat64(),
			CustomerTotal:     s.CustomerTotal.InexactFloat64(),
			FinalTotal:        s.FinalTotal.InexactFloat64(),
			SupplierTotal:     s.SupplierTotal.InexactFloat64(),
			Profit:            s.Profit.InexactFloat64(),
		},
		Details: make([]orderview.SummaryDetail, 0, len(s.Details)),
	}
	for _, d := range s.Details {
		out.Details = append(out.Details, orderview.SummaryDetail{
			OrderLabel: d.OrderLabel,
			Customer:   d.Customer,
			Sale:       d.Sale.InexactFloat64(),
			Cost:       d.Cost.InexactFloat64(),
			Shipping:   d.Shipping.InexactFloat64(),
		})
	}
	return out
}
