package service

import (
	"context"
	"fmt"

	"kalibracloud/internal/models"
	"kalibracloud/internal/store"
)

// RequestRow is a calibration request joined with the names shown next to it.
type RequestRow struct {
	models.CalibrationRequest

	InstrumentName string
	SerialNumber   string
	ClientName     string
	LabName        string
	HasQuotation   bool
}

// CanQuote reports whether the lab may still answer the request.
func (r RequestRow) CanQuote() bool {
	return !r.HasQuotation && r.Status == models.RequestPending
}

type QuotationRow struct {
	models.Quotation

	InstrumentName string
	ClientName     string
}

// Dashboard is one of AdminDashboard, ClientDashboard or LabDashboard.
type Dashboard interface {
	isDashboard()
}

type AdminDashboard struct {
	TotalUsers       int
	TotalInstruments int
	TotalRequests    int
	TotalQuotations  int

	Users  []models.User
	Orders []RequestRow
}

type ClientDashboard struct {
	Instruments []models.Instrument
	Requests    []RequestRow
	Labs        []models.User
}

type LabDashboard struct {
	Pending    int
	Requests   []RequestRow
	Quotations []QuotationRow
}

func (AdminDashboard) isDashboard()  {}
func (ClientDashboard) isDashboard() {}
func (LabDashboard) isDashboard()    {}

// Quotable returns the addressed request with id when it can still be quoted.
func (d LabDashboard) Quotable(id uint) *RequestRow {
	for i := range d.Requests {
		if d.Requests[i].ID == id && d.Requests[i].CanQuote() {
			return &d.Requests[i]
		}
	}
	return nil
}

// snapshot is everything a dashboard joins against, read once per render.
type snapshot struct {
	userList    []models.User
	users       map[uint]models.User
	instruments map[uint]models.Instrument
	quoted      map[uint]bool
	quotations  []models.Quotation
}

func (s *Service) snapshot(ctx context.Context) (*snapshot, error) {
	users, err := s.store.ListUsers(ctx, "")
	if err != nil {
		return nil, err
	}
	instruments, err := s.store.ListInstruments(ctx, 0)
	if err != nil {
		return nil, err
	}
	quotations, err := s.store.ListQuotations(ctx)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		userList:    users,
		users:       make(map[uint]models.User, len(users)),
		instruments: make(map[uint]models.Instrument, len(instruments)),
		quoted:      make(map[uint]bool, len(quotations)),
		quotations:  quotations,
	}
	for _, u := range users {
		snap.users[u.ID] = u
	}
	for _, in := range instruments {
		snap.instruments[in.ID] = in
	}
	for _, q := range quotations {
		snap.quoted[q.RequestID] = true
	}
	return snap, nil
}

func (snap *snapshot) row(r models.CalibrationRequest) RequestRow {
	row := RequestRow{CalibrationRequest: r, HasQuotation: snap.quoted[r.ID]}
	if in, ok := snap.instruments[r.InstrumentID]; ok {
		row.InstrumentName = in.Name
		row.SerialNumber = in.SerialNumber
	}
	if u, ok := snap.users[r.ClientID]; ok {
		row.ClientName = u.Name
	}
	if u, ok := snap.users[r.LabID]; ok {
		row.LabName = u.Name
	}
	return row
}

func (snap *snapshot) rows(reqs []models.CalibrationRequest) []RequestRow {
	out := make([]RequestRow, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, snap.row(r))
	}
	return out
}

// Dashboard builds the view for u's role.
func (s *Service) Dashboard(ctx context.Context, u *models.User) (Dashboard, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	switch u.Profile().(type) {
	case models.AdminProfile:
		return s.adminDashboard(ctx, snap)
	case models.ClientProfile:
		return s.clientDashboard(ctx, u, snap)
	case models.LabProfile:
		return s.labDashboard(ctx, u, snap)
	default:
		return nil, fmt.Errorf("dashboard for %q: %w", u.Role, ErrUnknownRole)
	}
}

func (s *Service) adminDashboard(ctx context.Context, snap *snapshot) (Dashboard, error) {
	reqs, err := s.store.ListRequests(ctx, store.RequestFilter{})
	if err != nil {
		return nil, err
	}
	return &AdminDashboard{
		TotalUsers:       len(snap.userList),
		TotalInstruments: len(snap.instruments),
		TotalRequests:    len(reqs),
		TotalQuotations:  len(snap.quotations),
		Users:            snap.userList,
		Orders:           snap.rows(reqs),
	}, nil
}

func (s *Service) clientDashboard(ctx context.Context, u *models.User, snap *snapshot) (Dashboard, error) {
	instruments, err := s.store.ListInstruments(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	reqs, err := s.store.ListRequests(ctx, store.RequestFilter{ClientID: u.ID})
	if err != nil {
		return nil, err
	}
	labs, err := s.store.ListUsers(ctx, models.RoleLab)
	if err != nil {
		return nil, err
	}
	return &ClientDashboard{
		Instruments: instruments,
		Requests:    snap.rows(reqs),
		Labs:        labs,
	}, nil
}

func (s *Service) labDashboard(ctx context.Context, u *models.User, snap *snapshot) (Dashboard, error) {
	reqs, err := s.store.ListRequests(ctx, store.RequestFilter{LabID: u.ID})
	if err != nil {
		return nil, err
	}

	d := &LabDashboard{Requests: snap.rows(reqs)}
	addressed := make(map[uint]RequestRow, len(d.Requests))
	for _, r := range d.Requests {
		addressed[r.ID] = r
		if r.Status == models.RequestPending {
			d.Pending++
		}
	}
	for _, q := range snap.quotations {
		r, ok := addressed[q.RequestID]
		if !ok {
			continue
		}
		d.Quotations = append(d.Quotations, QuotationRow{
			Quotation:      q,
			InstrumentName: r.InstrumentName,
			ClientName:     r.ClientName,
		})
	}
	return d, nil
}
