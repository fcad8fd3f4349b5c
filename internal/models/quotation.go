package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const QuotationDraft = "draft"

// Quotation is a lab's proposed cost and duration for a calibration request.
type Quotation struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	RequestID uint `gorm:"index"`

	Cost         decimal.Decimal `gorm:"type:numeric(16,2);not null"`
	DurationDays int
	Status       string `gorm:"size:20;not null"` // "draft"
}
