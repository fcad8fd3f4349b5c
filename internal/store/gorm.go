package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kalibracloud/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var _ Store = (*Gorm)(nil)

// Gorm is the relational Store, used when a DSN is configured.
type Gorm struct {
	db *gorm.DB
}

// OpenPostgres connects with retries (the database container may still be
// starting) and migrates the schema.
func OpenPostgres(ctx context.Context, dsn string, log *zap.Logger) (*Gorm, error) {
	const maxAttempts = 10

	var (
		db  *gorm.DB
		err error
	)
	for i := 1; i <= maxAttempts; i++ {
		log.Info("connecting to database", zap.Int("attempt", i), zap.Int("max_attempts", maxAttempts))

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		log.Warn("database connection failed", zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect after %d attempts: %w", maxAttempts, err)
	}

	return NewGorm(db)
}

// NewGorm wraps an open connection and runs migrations.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Instrument{},
		&models.CalibrationRequest{},
		&models.Quotation{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Gorm{db: db}, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (g *Gorm) CreateUser(ctx context.Context, u *models.User) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("create user %q: %w", u.Email, ErrEmailTaken)
		}
		return tx.Create(u).Error
	})
}

func (g *Gorm) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("user %d", id))
	}
	return &u, nil
}

func (g *Gorm) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("user %q", email))
	}
	return &u, nil
}

func (g *Gorm) ListUsers(ctx context.Context, role models.UserRole) ([]models.User, error) {
	q := g.db.WithContext(ctx).Order("id asc")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (g *Gorm) CreateInstrument(ctx context.Context, in *models.Instrument) error {
	return g.db.WithContext(ctx).Create(in).Error
}

func (g *Gorm) ListInstruments(ctx context.Context, clientID uint) ([]models.Instrument, error) {
	q := g.db.WithContext(ctx).Order("id asc")
	if clientID != 0 {
		q = q.Where("client_id = ?", clientID)
	}
	var out []models.Instrument
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gorm) CreateRequest(ctx context.Context, r *models.CalibrationRequest) error {
	return g.db.WithContext(ctx).Create(r).Error
}

func (g *Gorm) GetRequest(ctx context.Context, id uint) (*models.CalibrationRequest, error) {
	var r models.CalibrationRequest
	if err := g.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("request %d", id))
	}
	return &r, nil
}

func (g *Gorm) ListRequests(ctx context.Context, f RequestFilter) ([]models.CalibrationRequest, error) {
	q := g.db.WithContext(ctx).Order("id asc")
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.LabID != 0 {
		q = q.Where("lab_id = ?", f.LabID)
	}
	var out []models.CalibrationRequest
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gorm) CreateQuotation(ctx context.Context, q *models.Quotation) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.CalibrationRequest
		if err := tx.First(&r, q.RequestID).Error; err != nil {
			return notFound(err, fmt.Sprintf("request %d", q.RequestID))
		}

		// only one concurrent quotation can win the pending -> quoted flip
		res := tx.Model(&models.CalibrationRequest{}).
			Where("id = ? AND status = ?", q.RequestID, models.RequestPending).
			Update("status", models.RequestQuoted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("request %d: %w", q.RequestID, ErrNotPending)
		}
		return tx.Create(q).Error
	})
}

func (g *Gorm) ListQuotations(ctx context.Context) ([]models.Quotation, error) {
	var out []models.Quotation
	if err := g.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
