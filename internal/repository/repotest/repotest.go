// Package repotest provides in-memory repositories for service and handler tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	"github.com/carnage999-max/ultimate-app-manager/internal/repository"
)

var uniqueViolation = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}

// Store bundles the in-memory repositories over one shared user table.
type Store struct {
	Users    *UserStore
	Leases   *LeaseStore
	Tickets  *TicketStore
	Payments *PaymentStore
}

// NewStore returns empty repositories.
func NewStore() *Store {
	users := &UserStore{byID: map[string]domain.User{}}
	return &Store{
		Users:    users,
		Leases:   &LeaseStore{users: users, byID: map[string]domain.Lease{}},
		Tickets:  &TicketStore{users: users, byID: map[string]domain.MaintenanceTicket{}},
		Payments: &PaymentStore{byID: map[string]domain.Payment{}},
	}
}

// UserStore implements repository.UserRepository.
type UserStore struct {
	mu   sync.RWMutex
	byID map[string]domain.User
}

var _ repository.UserRepository = (*UserStore)(nil)

func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Email == user.Email {
			return uniqueViolation
		}
	}
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.byID[user.ID] = *user
	return nil
}

func (s *UserStore) Update(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range s.byID {
		if id != user.ID && existing.Email == user.Email {
			return uniqueViolation
		}
	}
	user.UpdatedAt = time.Now().UTC()
	s.byID[user.ID] = *user
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.byID {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *UserStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]domain.User, 0, len(s.byID))
	for _, user := range s.byID {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

// Delete removes a user, simulating an account that vanished after a token was issued.
func (s *UserStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

func (s *UserStore) summary(id string) *domain.UserSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byID[id]
	if !ok {
		return nil
	}
	return &domain.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email}
}

// LeaseStore implements repository.LeaseRepository.
type LeaseStore struct {
	mu    sync.RWMutex
	users *UserStore
	byID  map[string]domain.Lease
}

var _ repository.LeaseRepository = (*LeaseStore)(nil)

func (s *LeaseStore) Create(_ context.Context, lease *domain.Lease) error {
	if s.users.summary(lease.TenantID) == nil {
		return pgx.ErrNoRows
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	lease.ID = uuid.NewString()
	lease.CreatedAt = now
	lease.UpdatedAt = now
	stored := *lease
	stored.Tenant = nil
	s.byID[lease.ID] = stored
	return nil
}

func (s *LeaseStore) Update(_ context.Context, lease *domain.Lease) error {
	if s.users.summary(lease.TenantID) == nil {
		return pgx.ErrNoRows
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[lease.ID]; !ok {
		return pgx.ErrNoRows
	}
	lease.UpdatedAt = time.Now().UTC()
	stored := *lease
	stored.Tenant = nil
	s.byID[lease.ID] = stored
	return nil
}

func (s *LeaseStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.byID, id)
	return nil
}

func (s *LeaseStore) GetByID(_ context.Context, id string) (*domain.Lease, error) {
	s.mu.RLock()
	lease, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	lease.Tenant = s.users.summary(lease.TenantID)
	return &lease, nil
}

func (s *LeaseStore) List(_ context.Context, filter repository.LeaseFilter) ([]domain.Lease, error) {
	s.mu.RLock()
	leases := []domain.Lease{}
	for _, lease := range s.byID {
		if filter.TenantID != nil && lease.TenantID != *filter.TenantID {
			continue
		}
		leases = append(leases, lease)
	}
	s.mu.RUnlock()

	for i := range leases {
		leases[i].Tenant = s.users.summary(leases[i].TenantID)
	}
	sort.Slice(leases, func(i, j int) bool { return leases[i].CreatedAt.After(leases[j].CreatedAt) })
	return leases, nil
}

// TicketStore implements repository.TicketRepository.
type TicketStore struct {
	mu    sync.RWMutex
	users *UserStore
	byID  map[string]domain.MaintenanceTicket
}

var _ repository.TicketRepository = (*TicketStore)(nil)

func (s *TicketStore) Create(_ context.Context, ticket *domain.MaintenanceTicket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	s.byID[ticket.ID] = cloneTicket(*ticket)
	return nil
}

func (s *TicketStore) Update(_ context.Context, ticket *domain.MaintenanceTicket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now().UTC()
	s.byID[ticket.ID] = cloneTicket(*ticket)
	return nil
}

func (s *TicketStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.byID, id)
	return nil
}

func (s *TicketStore) GetByID(_ context.Context, id string) (*domain.MaintenanceTicket, error) {
	s.mu.RLock()
	ticket, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket = cloneTicket(ticket)
	ticket.Tenant = s.users.summary(ticket.TenantID)
	return &ticket, nil
}

func (s *TicketStore) List(_ context.Context, filter repository.TicketFilter) ([]domain.MaintenanceTicket, error) {
	s.mu.RLock()
	tickets := []domain.MaintenanceTicket{}
	for _, ticket := range s.byID {
		if filter.TenantID != nil && ticket.TenantID != *filter.TenantID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		tickets = append(tickets, cloneTicket(ticket))
	}
	s.mu.RUnlock()

	for i := range tickets {
		tickets[i].Tenant = s.users.summary(tickets[i].TenantID)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].CreatedAt.After(tickets[j].CreatedAt) })
	return tickets, nil
}

func cloneTicket(t domain.MaintenanceTicket) domain.MaintenanceTicket {
	t.Attachments = append([]string{}, t.Attachments...)
	t.Tenant = nil
	return t
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// PaymentStore implements repository.PaymentRepository.
type PaymentStore struct {
	mu   sync.RWMutex
	byID map[string]domain.Payment
}

var _ repository.PaymentRepository = (*PaymentStore)(nil)

func (s *PaymentStore) Create(_ context.Context, payment *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.IntentID == payment.IntentID {
			return uniqueViolation
		}
	}
	now := time.Now().UTC()
	payment.ID = uuid.NewString()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	s.byID[payment.ID] = *payment
	return nil
}

func (s *PaymentStore) UpdateStatusByIntent(_ context.Context, intentID string, status domain.PaymentStatus) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, payment := range s.byID {
		if payment.IntentID == intentID {
			payment.Status = status
			payment.UpdatedAt = time.Now().UTC()
			s.byID[id] = payment
			return &payment, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *PaymentStore) List(_ context.Context, userID *string) ([]domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payments := []domain.Payment{}
	for _, payment := range s.byID {
		if userID != nil && payment.UserID != *userID {
			continue
		}
		payments = append(payments, payment)
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].CreatedAt.After(payments[j].CreatedAt) })
	return payments, nil
}
