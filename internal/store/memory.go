package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kalibracloud/internal/models"
)

var _ Store = (*Memory)(nil)

// Memory keeps everything in process memory. State is lost on restart.
type Memory struct {
	mu  sync.RWMutex
	now func() time.Time

	users       []models.User
	instruments []models.Instrument
	requests    []models.CalibrationRequest
	quotations  []models.Quotation

	// last assigned id per collection; ids are never reused
	userSeq, instrumentSeq, requestSeq, quotationSeq uint
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) stamp(t *time.Time) {
	if t.IsZero() {
		*t = m.now()
	}
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user %q: %w", u.Email, ErrEmailTaken)
		}
	}

	m.userSeq++
	u.ID = m.userSeq
	m.stamp(&u.CreatedAt)
	m.users = append(m.users, *u)
	return nil
}

func (m *Memory) GetUser(_ context.Context, id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
}

func (m *Memory) ListUsers(_ context.Context, role models.UserRole) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *Memory) CreateInstrument(_ context.Context, in *models.Instrument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.instrumentSeq++
	in.ID = m.instrumentSeq
	m.stamp(&in.CreatedAt)
	m.instruments = append(m.instruments, *in)
	return nil
}

func (m *Memory) ListInstruments(_ context.Context, clientID uint) ([]models.Instrument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Instrument, 0, len(m.instruments))
	for _, in := range m.instruments {
		if clientID == 0 || in.ClientID == clientID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (m *Memory) CreateRequest(_ context.Context, r *models.CalibrationRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requestSeq++
	r.ID = m.requestSeq
	m.stamp(&r.CreatedAt)
	m.requests = append(m.requests, *r)
	return nil
}

func (m *Memory) GetRequest(_ context.Context, id uint) (*models.CalibrationRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.requests {
		if m.requests[i].ID == id {
			r := m.requests[i]
			return &r, nil
		}
	}
	return nil, fmt.Errorf("request %d: %w", id, ErrNotFound)
}

func (m *Memory) ListRequests(_ context.Context, f RequestFilter) ([]models.CalibrationRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.CalibrationRequest, 0, len(m.requests))
	for _, r := range m.requests {
		if f.match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) CreateQuotation(_ context.Context, q *models.Quotation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i := range m.requests {
		if m.requests[i].ID == q.RequestID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("request %d: %w", q.RequestID, ErrNotFound)
	}
	if m.requests[idx].Status != models.RequestPending {
		return fmt.Errorf("request %d: %w", q.RequestID, ErrNotPending)
	}

	m.quotationSeq++
	q.ID = m.quotationSeq
	m.stamp(&q.CreatedAt)
	m.quotations = append(m.quotations, *q)
	m.requests[idx].Status = models.RequestQuoted
	return nil
}

func (m *Memory) ListQuotations(_ context.Context) ([]models.Quotation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Quotation, len(m.quotations))
	copy(out, m.quotations)
	return out, nil
}
