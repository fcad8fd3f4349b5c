// Package service implements the KalibraCloud actions: authentication,
// instrument registration, calibration requests and quotations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kalibracloud/internal/auth"
	"kalibracloud/internal/logging"
	"kalibracloud/internal/models"
	"kalibracloud/internal/store"

	"go.uber.org/zap"
)

type Service struct {
	store store.Store
	pw    auth.PasswordVerifier
	log   *zap.Logger
	now   func() time.Time
}

func New(st store.Store, pw auth.PasswordVerifier, log *zap.Logger) *Service {
	return &Service{store: st, pw: pw, log: log, now: time.Now}
}

// CurrentUser resolves the session user id.
func (s *Service) CurrentUser(ctx context.Context, id uint) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	u, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		s.log.Info("login failed", logging.Email(email), zap.String("reason", "unknown email"))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := s.pw.Verify(u.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrMismatch) {
			s.log.Error("password verification failed", logging.Email(email), zap.Error(err))
		} else {
			s.log.Info("login failed", logging.Email(email), zap.String("reason", "password mismatch"))
		}
		return nil, ErrInvalidCredentials
	}

	s.log.Info("login", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Role        string
	CompanyName string
}

// Register creates a client or lab account. Any role other than "lab"
// registers a client.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)

	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailRegistered
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.pw.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	u := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleClient,
	}
	if models.UserRole(in.Role) == models.RoleLab {
		u.Role = models.RoleLab
	} else {
		u.CompanyName = strings.TrimSpace(in.CompanyName)
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, ErrEmailRegistered
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.audit(u.ID, "user.register", u.ID)
	return u, nil
}

func (s *Service) AddInstrument(ctx context.Context, client *models.User, name, serialNumber string) (*models.Instrument, error) {
	if _, ok := client.Profile().(models.ClientProfile); !ok {
		return nil, ErrForbidden
	}

	in := &models.Instrument{
		Name:         strings.TrimSpace(name),
		SerialNumber: strings.TrimSpace(serialNumber),
		ClientID:     client.ID,
		Status:       models.InstrumentActive,
	}
	if err := s.store.CreateInstrument(ctx, in); err != nil {
		return nil, fmt.Errorf("add instrument: %w", err)
	}

	s.audit(client.ID, "instrument.create", in.ID)
	return in, nil
}

// CreateRequest files a pending calibration request. Instrument ownership
// and the lab's role are not checked.
func (s *Service) CreateRequest(ctx context.Context, client *models.User, instrumentID, labID uint) (*models.CalibrationRequest, error) {
	if _, ok := client.Profile().(models.ClientProfile); !ok {
		return nil, ErrForbidden
	}

	r := &models.CalibrationRequest{
		ClientID:     client.ID,
		LabID:        labID,
		InstrumentID: instrumentID,
		Status:       models.RequestPending,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateRequest(ctx, r); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.audit(client.ID, "request.create", r.ID)
	return r, nil
}

// CreateQuotation answers a pending request addressed to lab and marks the
// request quoted.
func (s *Service) CreateQuotation(ctx context.Context, lab *models.User, requestID uint, cost, duration string) (*models.Quotation, error) {
	if _, ok := lab.Profile().(models.LabProfile); !ok {
		return nil, ErrForbidden
	}

	r, err := s.store.GetRequest(ctx, requestID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}
	if r.LabID != lab.ID {
		return nil, ErrForbidden
	}
	if r.Status != models.RequestPending {
		return nil, ErrAlreadyQuoted
	}

	q := &models.Quotation{
		RequestID:    r.ID,
		Cost:         ParseCost(cost),
		DurationDays: ParseDuration(duration),
		Status:       models.QuotationDraft,
		CreatedAt:    s.now(),
	}
	switch err := s.store.CreateQuotation(ctx, q); {
	case errors.Is(err, store.ErrNotPending):
		return nil, ErrAlreadyQuoted
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrRequestNotFound
	case err != nil:
		return nil, fmt.Errorf("create quotation: %w", err)
	}

	s.audit(lab.ID, "quotation.create", q.ID, zap.Uint("request_id", r.ID))
	return q, nil
}

func (s *Service) audit(userID uint, action string, entityID uint, extra ...zap.Field) {
	fields := append([]zap.Field{
		zap.Uint("user_id", userID),
		zap.String("action", action),
		zap.Uint("entity_id", entityID),
	}, extra...)
	s.log.Info("audit", fields...)
}
