// Package seed loads the demo dataset into a store.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"kalibracloud/internal/auth"
	"kalibracloud/internal/models"
	"kalibracloud/internal/store"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultDataset []byte

const dateLayout = "2006-01-02"

type User struct {
	Name            string          `yaml:"name"`
	Email           string          `yaml:"email"`
	Password        string          `yaml:"password"`
	Role            models.UserRole `yaml:"role"`
	CompanyName     string          `yaml:"company_name"`
	AccreditationNo string          `yaml:"accreditation_no"`
}

type Instrument struct {
	Name         string `yaml:"name"`
	SerialNumber string `yaml:"serial_number"`
	Owner        string `yaml:"owner"` // email of the owning client
	Status       string `yaml:"status"`
	LastCertDate string `yaml:"last_cert_date"`
}

type Dataset struct {
	Users       []User       `yaml:"users"`
	Instruments []Instrument `yaml:"instruments"`
}

// Load parses the dataset at path, or the embedded one when path is empty.
func Load(path string) (*Dataset, error) {
	data := defaultDataset
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}
	return Parse(data)
}

func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i, u := range ds.Users {
		if !u.Role.Valid() {
			return nil, fmt.Errorf("seed user %d (%s): unknown role %q", i, u.Email, u.Role)
		}
	}
	for i, in := range ds.Instruments {
		if in.LastCertDate == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, in.LastCertDate); err != nil {
			return nil, fmt.Errorf("seed instrument %d (%s): %w", i, in.Name, err)
		}
	}
	return &ds, nil
}

// Apply inserts the dataset. Users whose email already exists are skipped,
// so applying to a persistent store twice is harmless. Instruments are only
// inserted for users created by this call.
func Apply(ctx context.Context, ds *Dataset, st store.Store, pw auth.PasswordVerifier, log *zap.Logger) error {
	created := map[string]uint{}

	for _, su := range ds.Users {
		hash, err := pw.Hash(su.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", su.Email, err)
		}
		u := &models.User{
			Name:         su.Name,
			Email:        su.Email,
			PasswordHash: hash,
			Role:         su.Role,
		}
		switch su.Role {
		case models.RoleClient:
			u.CompanyName = su.CompanyName
		case models.RoleLab:
			u.AccreditationNo = su.AccreditationNo
		}

		err = st.CreateUser(ctx, u)
		if errors.Is(err, store.ErrEmailTaken) {
			log.Debug("seed user exists, skipping", zap.String("email", su.Email))
			continue
		}
		if err != nil {
			return fmt.Errorf("seed user %s: %w", su.Email, err)
		}
		created[u.Email] = u.ID
		log.Info("created seed user", zap.String("email", u.Email), zap.String("role", string(u.Role)))
	}

	for _, si := range ds.Instruments {
		owner, ok := created[si.Owner]
		if !ok {
			continue
		}
		in := &models.Instrument{
			Name:         si.Name,
			SerialNumber: si.SerialNumber,
			ClientID:     owner,
			Status:       si.Status,
		}
		if in.Status == "" {
			in.Status = models.InstrumentActive
		}
		if si.LastCertDate != "" {
			t, err := time.Parse(dateLayout, si.LastCertDate)
			if err != nil {
				return fmt.Errorf("seed instrument %s: %w", si.Name, err)
			}
			in.LastCertDate = &t
		}
		if err := st.CreateInstrument(ctx, in); err != nil {
			return fmt.Errorf("seed instrument %s: %w", si.Name, err)
		}
	}

	return nil
}
