// Package memory keeps every repository in process memory. It backs
// DB_DRIVER=memory for local runs and the service and handler tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/pedidos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pedidos-api/internal/domain/repository"
)

// ErrDuplicate is returned when a unique key is already taken
var ErrDuplicate = errors.New("duplicate key")

// Store is the shared state behind the in-memory repositories
type Store struct {
	mu sync.RWMutex

	now func() time.Time
	seq int64

	orders      map[uuid.UUID]orderRow
	summaries   map[uuid.UUID]summaryRow
	users       map[uuid.UUID]entity.User
	idempotency map[uuid.UUID]entity.IdempotencyKey
}

type orderRow struct {
	seq   int64
	order entity.Order
}

type summaryRow struct {
	seq     int64
	summary entity.Summary
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		now:         time.Now,
		orders:      make(map[uuid.UUID]orderRow),
		summaries:   make(map[uuid.UUID]summaryRow),
		users:       make(map[uuid.UUID]entity.User),
		idempotency: make(map[uuid.UUID]entity.IdempotencyKey),
	}
}

// Orders returns the order repository view of the store
func (s *Store) Orders() domainRepo.OrderRepository { return &orderRepository{s} }

// Summaries returns the summary repository view of the store
func (s *Store) Summaries() domainRepo.SummaryRepository { return &summaryRepository{s} }

// Users returns the user repository view of the store
func (s *Store) Users() domainRepo.UserRepository { return &userRepository{s} }

// Idempotency returns the idempotency repository view of the store
func (s *Store) Idempotency() domainRepo.IdempotencyRepository { return &idempotencyRepository{s} }

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

type orderRepository struct{ s *Store }

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := order.BeforeCreate(nil); err != nil {
		return err
	}
	if _, ok := r.s.orders[order.ID]; ok {
		return ErrDuplicate
	}
	now := r.s.now()
	order.CreatedAt, order.UpdatedAt = now, now
	r.s.orders[order.ID] = orderRow{seq: r.s.next(), order: *order}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	order := row.order
	return &order, nil
}

func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.orders[order.ID]
	if !ok {
		return errors.New("order not found")
	}
	order.CreatedAt = row.order.CreatedAt
	order.UpdatedAt = r.s.now()
	row.order = *order
	r.s.orders[order.ID] = row
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.orders, id)
	return nil
}

func (r *orderRepository) List(ctx context.Context) ([]entity.Order, error) {
	r.s.mu.RLock()
	rows := make([]orderRow, 0, len(r.s.orders))
	for _, row := range r.s.orders {
		rows = append(rows, row)
	}
	r.s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	orders := make([]entity.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.order)
	}
	return orders, nil
}

type summaryRepository struct{ s *Store }

func (r *summaryRepository) Create(ctx context.Context, summary *entity.Summary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := summary.BeforeCreate(nil); err != nil {
		return err
	}
	if _, ok := r.s.summaries[summary.ID]; ok {
		return ErrDuplicate
	}
	summary.CreatedAt = r.s.now()
	for i := range summary.Details {
		if err := summary.Details[i].BeforeCreate(nil); err != nil {
			return err
		}
		summary.Details[i].SummaryID = summary.ID
	}
	r.s.summaries[summary.ID] = summaryRow{seq: r.s.next(), summary: copySummary(*summary)}
	return nil
}

func (r *summaryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Summary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.summaries[id]
	if !ok {
		return nil, nil
	}
	summary := copySummary(row.summary)
	return &summary, nil
}

func (r *summaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.summaries, id)
	return nil
}

func (r *summaryRepository) List(ctx context.Context) ([]entity.Summary, error) {
	r.s.mu.RLock()
	rows := make([]summaryRow, 0, len(r.s.summaries))
	for _, row := range r.s.summaries {
		rows = append(rows, row)
	}
	r.s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	summaries := make([]entity.Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, copySummary(row.summary))
	}
	return summaries, nil
}

func copySummary(s entity.Summary) entity.Summary {
	s.Details = append([]entity.SummaryDetail(nil), s.Details...)
	return s
}

type userRepository struct{ s *Store }

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return ErrDuplicate
		}
	}
	if err := user.BeforeCreate(nil); err != nil {
		return err
	}
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

type idempotencyRepository struct{ s *Store }

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, k := range r.s.idempotency {
		if k.Key == key && k.UserID == userID {
			return &k, nil
		}
	}
	return nil, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, k := range r.s.idempotency {
		if k.Key == ikey.Key && k.UserID == ikey.UserID {
			return ErrDuplicate
		}
	}
	if err := ikey.BeforeCreate(nil); err != nil {
		return err
	}
	ikey.CreatedAt = r.s.now()
	r.s.idempotency[ikey.ID] = *ikey
	return nil
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, k := range r.s.idempotency {
		if k.IsExpired(now) {
			delete(r.s.idempotency, id)
		}
	}
	return nil
}
