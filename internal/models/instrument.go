package models

import "time"

const InstrumentActive = "active"

type Instrument struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	ClientID uint `gorm:"index"`

	Name         string `gorm:"size:255;not null"`
	SerialNumber string `gorm:"size:100"`
	Status       string `gorm:"size:50;not null"` // free-form, "active" on creation
	LastCertDate *time.Time
}
