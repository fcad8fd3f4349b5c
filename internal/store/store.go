// Package store holds the application state: users, instruments,
// calibration requests and quotations.
package store

import (
	"context"
	"errors"

	"kalibracloud/internal/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrNotPending = errors.New("request is not pending")
)

// RequestFilter narrows ListRequests. Zero fields match everything.
type RequestFilter struct {
	ClientID uint
	LabID    uint
}

func (f RequestFilter) match(r models.CalibrationRequest) bool {
	if f.ClientID != 0 && r.ClientID != f.ClientID {
		return false
	}
	if f.LabID != 0 && r.LabID != f.LabID {
		return false
	}
	return true
}

// Store is implemented by Memory and Gorm. Lists are returned in
// insertion order. Create methods assign ID (and CreatedAt when zero).
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, role models.UserRole) ([]models.User, error)

	CreateInstrument(ctx context.Context, in *models.Instrument) error
	ListInstruments(ctx context.Context, clientID uint) ([]models.Instrument, error)

	CreateRequest(ctx context.Context, r *models.CalibrationRequest) error
	GetRequest(ctx context.Context, id uint) (*models.CalibrationRequest, error)
	ListRequests(ctx context.Context, f RequestFilter) ([]models.CalibrationRequest, error)

	// CreateQuotation stores q and marks its request quoted in one step.
	// The request must exist and still be pending.
	CreateQuotation(ctx context.Context, q *models.Quotation) error
	ListQuotations(ctx context.Context) ([]models.Quotation, error)
}
