package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/sri-maddineni/college-shortlister/config"
	"github.com/sri-maddineni/college-shortlister/model"
)

// ErrRecordNotFound is returned when no record has the requested id
var ErrRecordNotFound = errors.New("record not found")

// Storage defines the interface that all database implementations must satisfy
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// Record methods. ListRecords returns records in insertion order.
	ListRecords(ctx context.Context) ([]model.Record, error)
	GetRecord(ctx context.Context, id string) (*model.Record, error)
	CreateRecord(ctx context.Context, record *model.Record) error
	UpdateRecord(ctx context.Context, record *model.Record) error
	DeleteRecord(ctx context.Context, id string) error
}

// Driver names accepted in DB_DRIVER
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverGORM     = "gorm"
)

// SQLStore keeps records through database/sql, either in a local SQLite file or in
// PostgreSQL via lib/pq.
type SQLStore struct {
	db     *sql.DB
	driver string
	clock  insertClock
}

// Start opens the database/sql store selected by the configured driver
func Start(getEnv *config.EnviornmentVariable) (*SQLStore, error) {
	var driver, connectStr string
	switch getEnv.DB_DRIVER {
	case DriverPostgres:
		driver = DriverPostgres
		connectStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			getEnv.DB_HOST, getEnv.DB_PORT, getEnv.DB_USER_NAME, getEnv.DB_PASSWORD, getEnv.DB_NAME, getEnv.DB_SSL_MODE)
	case DriverSQLite, "":
		driver = DriverSQLite
		connectStr = getEnv.DB_PATH
	default:
		return nil, fmt.Errorf("unsupported database driver %q", getEnv.DB_DRIVER)
	}

	store, err := OpenSQL(driver, connectStr)
	if err != nil {
		return nil, err
	}
	log.Printf("Successfully connected to %s database.", driver)
	return store, nil
}

// OpenSQL opens a store on an explicit driver and data source
func OpenSQL(driver, dataSource string) (*SQLStore, error) {
	db, err := sql.Open(driver, dataSource)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// a single connection serialises writers on the database file
		db.SetMaxOpenConns(1)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

func (s *SQLStore) Init() error {
	log.Printf("Initializing %s database.", s.driver)
	return s.Initialize()
}

func (s *SQLStore) Close() error {
	log.Printf("Closing %s database.", s.driver)
	return s.db.Close()
}

// HealthCheck verifies the database connection is alive
func (s *SQLStore) HealthCheck() error {
	return s.db.Ping()
}

// rebind rewrites '?' placeholders to the numbered form PostgreSQL expects
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// insertClock hands out strictly increasing creation times at microsecond
// precision, so that ordering by created_at keeps insertion order.
type insertClock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *insertClock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(c.last) {
		now = c.last.Add(time.Microsecond)
	}
	c.last = now
	return now
}
