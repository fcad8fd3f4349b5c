package models

import "time"

type RequestStatus string

const (
	RequestPending RequestStatus = "pending"
	RequestQuoted  RequestStatus = "quoted"
)

// CalibrationRequest is a client's ask that a lab calibrate one instrument.
type CalibrationRequest struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	ClientID     uint
	LabID        uint
	InstrumentID uint

	Status RequestStatus `gorm:"type:varchar(20);not null"`
}
