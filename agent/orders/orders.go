package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	contractx "github.com/robocare/support-agent/agent/contract"
)

// Status labels written by the store. The column is free text; nothing else
// is modeled (no shipped/delivered lifecycle).
const (
	StatusCreated   = "created"
	StatusCancelled = "cancelled"
)

// orderIDLength is the length of the opaque identifier handed to customers.
const orderIDLength = 8

// maxCreateAttempts bounds id regeneration on a primary-key collision.
const maxCreateAttempts = 5

var (
	ErrEmptyUsername = errors.New("username is empty")
	ErrEmptyItem     = errors.New("item is empty")
)

type Config struct {
	Path        string        `envconfig:"DB_PATH" split_words:"true" default:"orders.db"`
	BusyTimeout time.Duration `envconfig:"BUSY_TIMEOUT" split_words:"true" default:"5s"`
}

// Order is the only persistent entity. Rows are never physically deleted.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	OrderID  string `bun:"order_id,pk,type:text" json:"order_id"`
	Username string `bun:"username,notnull,type:text" json:"username"`
	Item     string `bun:"item,notnull,type:text" json:"item"`
	Quantity int64  `bun:"quantity,notnull,type:integer" json:"quantity"`
	Status   string `bun:"status,notnull,type:text" json:"status"`
}

// Store is the durable record of customer orders, keyed by an opaque
// identifier and scoped per username. Safe for concurrent use; each public
// operation is its own unit of work.
type Store struct {
	db *bun.DB
}

func New(cfg Config) (*Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("orders database path is required")
	}

	busyTimeout := cfg.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		path, busyTimeout.Milliseconds())

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open orders database: %w", err)
	}

	return &Store{db: bun.NewDB(sqldb, sqlitedialect.New())}, nil
}

func MustNew(cfg Config) *Store {
	store, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return store
}

// Init creates the orders table if it does not exist. Idempotent; called on
// first use.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*Order)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: create orders table: %v", contractx.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new order with a freshly generated identifier and status
// "created". Quantity is persisted as given; bounds checks belong to the
// tool boundary.
func (s *Store) Create(ctx context.Context, username, item string, quantity int64) (Order, error) {
	if strings.TrimSpace(username) == "" {
		return Order{}, fmt.Errorf("%w: %v", contractx.ErrValidation, ErrEmptyUsername)
	}
	if strings.TrimSpace(item) == "" {
		return Order{}, fmt.Errorf("%w: %v", contractx.ErrValidation, ErrEmptyItem)
	}

	var lastErr error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		order := Order{
			OrderID:  newOrderID(),
			Username: username,
			Item:     item,
			Quantity: quantity,
			Status:   StatusCreated,
		}

		_, err := s.db.NewInsert().Model(&order).Exec(ctx)
		if err == nil {
			return order, nil
		}
		if !isUniqueViolation(err) {
			return Order{}, fmt.Errorf("%w: insert order: %v", contractx.ErrStorageUnavailable, err)
		}
		lastErr = err
	}

	return Order{}, fmt.Errorf("%w: order id collision persisted after %d attempts: %v",
		contractx.ErrStorageUnavailable, maxCreateAttempts, lastErr)
}

// Get looks up the row matching both order id and username exactly. Absence
// is reported as found=false, never as an error.
func (s *Store) Get(ctx context.Context, orderID, username string) (Order, bool, error) {
	var order Order
	err := s.db.NewSelect().
		Model(&order).
		Where("order_id = ?", orderID).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, false, nil
		}
		return Order{}, false, fmt.Errorf("%w: select order: %v", contractx.ErrStorageUnavailable, err)
	}
	return order, true, nil
}

// Cancel sets status to "cancelled" iff a row matches both order id and
// username. The match-then-update is a single conditional UPDATE, so two
// concurrent cancels cannot interleave a read with a write. Returns whether
// any row matched.
func (s *Store) Cancel(ctx context.Context, orderID, username string) (bool, error) {
	res, err := s.db.NewUpdate().
		Model((*Order)(nil)).
		Set("status = ?", StatusCancelled).
		Where("order_id = ?", orderID).
		Where("username = ?", username).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: update order: %v", contractx.ErrStorageUnavailable, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: rows affected: %v", contractx.ErrStorageUnavailable, err)
	}
	return affected > 0, nil
}

func newOrderID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:orderIDLength]
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
