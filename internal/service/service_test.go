package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"kalibracloud/internal/auth"
	"kalibracloud/internal/models"
	"kalibracloud/internal/seed"
	"kalibracloud/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)

func newSeeded(t *testing.T) (*Service, *store.Memory) {
	t.Helper()

	ds, err := seed.Load("")
	require.NoError(t, err)

	st := store.NewMemory()
	pw := auth.NewBcrypt(bcrypt.MinCost)
	require.NoError(t, seed.Apply(context.Background(), ds, st, pw, zap.NewNop()))

	svc := New(st, pw, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, st
}

func mustLogin(t *testing.T, svc *Service, email string) *models.User {
	t.Helper()
	u, err := svc.Login(context.Background(), email, "123456")
	require.NoError(t, err)
	return u
}

func TestLogin(t *testing.T) {
	svc, _ := newSeeded(t)
	ctx := context.Background()

	t.Run("admin", func(t *testing.T) {
		u, err := svc.Login(ctx, "admin@kalibracloud.com", "123456")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, u.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		u, err := svc.Login(ctx, "admin@kalibracloud.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, u)
		assert.Equal(t, "Email atau password salah", Message(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost@kalibracloud.com", "123456")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("email is case sensitive", func(t *testing.T) {
		_, err := svc.Login(ctx, "Admin@kalibracloud.com", "123456")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRegister(t *testing.T) {
	svc, st := newSeeded(t)
	ctx := context.Background()

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Name: "X", Email: "client@kalibracloud.com", Password: "pw"})
		assert.ErrorIs(t, err, ErrEmailRegistered)
		assert.Equal(t, "Email sudah terdaftar", Message(err))

		users, _ := st.ListUsers(ctx, "")
		assert.Len(t, users, 3)
	})

	t.Run("new client", func(t *testing.T) {
		u, err := svc.Register(ctx, RegisterInput{
			Name:        "Budi",
			Email:       "budi@pabrik.co.id",
			Password:    "rahasia",
			Role:        "client",
			CompanyName: "PT Pabrik Baja",
		})
		require.NoError(t, err)
		assert.Equal(t, uint(4), u.ID)
		assert.Equal(t, models.RoleClient, u.Role)
		assert.Equal(t, models.ClientProfile{CompanyName: "PT Pabrik Baja"}, u.Profile())

		users, _ := st.ListUsers(ctx, "")
		assert.Len(t, users, 4)

		logged, err := svc.Login(ctx, "budi@pabrik.co.id", "rahasia")
		require.NoError(t, err)
		assert.Equal(t, u.ID, logged.ID)
	})

	t.Run("lab drops company name", func(t *testing.T) {
		u, err := svc.Register(ctx, RegisterInput{Email: "lab2@kal.id", Password: "pw", Role: "lab", CompanyName: "ignored"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleLab, u.Role)
		assert.Empty(t, u.CompanyName)
	})

	t.Run("role defaults to client", func(t *testing.T) {
		for _, role := range []string{"", "admin", "superuser"} {
			u, err := svc.Register(ctx, RegisterInput{Email: "r-" + role + "@kal.id", Password: "pw", Role: role})
			require.NoError(t, err)
			assert.Equal(t, models.RoleClient, u.Role, role)
		}
	})

	t.Run("password longer than 72 bytes", func(t *testing.T) {
		long := strings.Repeat("a", 80)
		u, err := svc.Register(ctx, RegisterInput{Name: "Panjang", Email: "long@kal.id", Password: long, Role: "client"})
		require.NoError(t, err)

		logged, err := svc.Login(ctx, "long@kal.id", long)
		require.NoError(t, err)
		assert.Equal(t, u.ID, logged.ID)

		_, err = svc.Login(ctx, "long@kal.id", long[:72])
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAddInstrument(t *testing.T) {
	svc, st := newSeeded(t)
	ctx := context.Background()
	client := mustLogin(t, svc, "client@kalibracloud.com")

	before, _ := st.ListInstruments(ctx, 0)

	in, err := svc.AddInstrument(ctx, client, " Caliper ", "CL-003")
	require.NoError(t, err)
	assert.Equal(t, client.ID, in.ClientID)
	assert.Equal(t, models.InstrumentActive, in.Status)
	assert.Equal(t, "Caliper", in.Name)
	assert.Nil(t, in.LastCertDate)

	after, _ := st.ListInstruments(ctx, 0)
	assert.Len(t, after, len(before)+1)

	t.Run("empty fields are accepted", func(t *testing.T) {
		_, err := svc.AddInstrument(ctx, client, "", "")
		assert.NoError(t, err)
	})

	t.Run("lab cannot add", func(t *testing.T) {
		lab := mustLogin(t, svc, "lab@kalibracloud.com")
		_, err := svc.AddInstrument(ctx, lab, "Gauge", "G-1")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestRequestQuotationFlow(t *testing.T) {
	svc, st := newSeeded(t)
	ctx := context.Background()
	client := mustLogin(t, svc, "client@kalibracloud.com")
	lab := mustLogin(t, svc, "lab@kalibracloud.com")

	first, err := svc.CreateRequest(ctx, client, 1, lab.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, first.Status)
	assert.Equal(t, fixedNow, first.CreatedAt)

	second, err := svc.CreateRequest(ctx, client, 2, lab.ID)
	require.NoError(t, err)

	q, err := svc.CreateQuotation(ctx, lab, first.ID, "1500000", "7")
	require.NoError(t, err)
	assert.Equal(t, first.ID, q.RequestID)
	assert.True(t, decimal.NewFromInt(1500000).Equal(q.Cost))
	assert.Equal(t, 7, q.DurationDays)
	assert.Equal(t, models.QuotationDraft, q.Status)

	got, _ := st.GetRequest(ctx, first.ID)
	assert.Equal(t, models.RequestQuoted, got.Status)
	other, _ := st.GetRequest(ctx, second.ID)
	assert.Equal(t, models.RequestPending, other.Status)

	quotes, _ := st.ListQuotations(ctx)
	assert.Len(t, quotes, 1)

	t.Run("second quotation is rejected", func(t *testing.T) {
		_, err := svc.CreateQuotation(ctx, lab, first.ID, "1", "1")
		assert.ErrorIs(t, err, ErrAlreadyQuoted)
		quotes, _ := st.ListQuotations(ctx)
		assert.Len(t, quotes, 1)
	})

	t.Run("non-numeric input becomes zero", func(t *testing.T) {
		q, err := svc.CreateQuotation(ctx, lab, second.ID, "mahal", "lama")
		require.NoError(t, err)
		assert.True(t, q.Cost.IsZero())
		assert.Zero(t, q.DurationDays)
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := svc.CreateQuotation(ctx, lab, 99, "1", "1")
		assert.ErrorIs(t, err, ErrRequestNotFound)
	})

	t.Run("request addressed to another lab", func(t *testing.T) {
		other, err := svc.Register(ctx, RegisterInput{Name: "Lab Bandung", Email: "bdg@lab.id", Password: "pw", Role: "lab"})
		require.NoError(t, err)
		r, err := svc.CreateRequest(ctx, client, 1, other.ID)
		require.NoError(t, err)

		_, err = svc.CreateQuotation(ctx, lab, r.ID, "1", "1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("client cannot quote", func(t *testing.T) {
		_, err := svc.CreateQuotation(ctx, client, second.ID, "1", "1")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestCreateRequestIsUnchecked(t *testing.T) {
	svc, _ := newSeeded(t)
	ctx := context.Background()
	client := mustLogin(t, svc, "client@kalibracloud.com")

	// instrument and lab ids are taken as given
	r, err := svc.CreateRequest(ctx, client, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, r.Status)

	admin := mustLogin(t, svc, "admin@kalibracloud.com")
	_, err = svc.CreateRequest(ctx, admin, 1, 3)
	assert.ErrorIs(t, err, ErrForbidden)
}
