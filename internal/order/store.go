package order

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store defines the interface for order persistence.
type Store interface {
	CreateOrder(ctx context.Context, o *Order) error
	ListOrders(ctx context.Context, email string) ([]Order, error)
}

// PostgresStore implements Store for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(dataSourceName string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		user_email TEXT,
		kit_id TEXT NOT NULL,
		kit_title TEXT NOT NULL,
		price INTEGER NOT NULL,
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL,
		address TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT ''
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create orders table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// CreateOrder inserts o and fills in its id and creation time.
func (s *PostgresStore) CreateOrder(ctx context.Context, o *Order) error {
	o.CreatedAt = time.Now().UTC().Truncate(time.Second)
	err := s.db.QueryRowxContext(ctx,
		"INSERT INTO orders (created_at, user_email, kit_id, kit_title, price, full_name, phone, address, notes) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id",
		o.CreatedAt,
		o.UserEmail,
		o.KitID,
		o.KitTitle,
		o.Price,
		o.FullName,
		o.Phone,
		o.Address,
		o.Notes,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

// ListOrders returns orders newest first, filtered by email when it is set.
func (s *PostgresStore) ListOrders(ctx context.Context, email string) ([]Order, error) {
	query := "SELECT id, created_at, user_email, kit_id, kit_title, price, full_name, phone, address, notes FROM orders"
	var args []interface{}
	if email != "" {
		query += " WHERE user_email = $1"
		args = append(args, email)
	}
	query += " ORDER BY id DESC"

	orders := []Order{}
	if err := s.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// MemoryStore keeps orders in process memory. It is used when no database is
// configured.
type MemoryStore struct {
	mu     sync.Mutex
	orders []Order
	nextID int64
	now    func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, now: time.Now}
}

// CreateOrder stores a copy of o and fills in its id and creation time.
func (s *MemoryStore) CreateOrder(ctx context.Context, o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = s.nextID
	o.CreatedAt = s.now().UTC().Truncate(time.Second)
	s.nextID++
	s.orders = append(s.orders, *o)
	return nil
}

// ListOrders returns orders newest first, filtered by email when it is set.
func (s *MemoryStore) ListOrders(ctx context.Context, email string) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Order{}
	for _, o := range s.orders {
		if email != "" && (o.UserEmail == nil || *o.UserEmail != email) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
