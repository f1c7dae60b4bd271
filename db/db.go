package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fintrack/backend/logger"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options configure the connection pool. Zero values get sensible defaults.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// QueryTimeout bounds every statement, including the wait for a free
	// connection when the pool is exhausted.
	QueryTimeout time.Duration
	Logger       *logger.Logger
}

// Storage is the relational store behind every component. It is safe for
// concurrent use.
type Storage struct {
	DB *sql.DB

	driver       string
	queryTimeout time.Duration
	log          *logger.Logger
}

// NewStorage opens the database, applies pending migrations and returns a
// ready store. The caller owns the store and must Close it.
func NewStorage(ctx context.Context, opts Options) (*Storage, error) {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 5 * time.Second
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	dsn := opts.DSN
	switch opts.Driver {
	case DriverPostgres:
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", opts.Driver)
	}

	conn, err := sql.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}

	if opts.Driver == DriverSQLite {
		// SQLite allows a single writer, and an in-memory database lives
		// exactly as long as its one connection.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
	} else {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
		conn.SetMaxIdleConns(opts.MaxIdleConns)
		conn.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	s := &Storage{
		DB:           conn,
		driver:       opts.Driver,
		queryTimeout: opts.QueryTimeout,
		log:          opts.Logger.WithComponent(logger.ComponentStorage),
	}

	if err := s.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(opts.Driver, opts.DSN, conn); err != nil {
		conn.Close()
		return nil, err
	}

	s.log.Info("database ready", "driver", opts.Driver, "max_open_conns", opts.MaxOpenConns, "query_timeout", opts.QueryTimeout.String())
	return s, nil
}

// Close releases the connection pool.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// Ping checks that the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.DB.PingContext(ctx)
}

// Driver returns the name of the SQL driver in use.
func (s *Storage) Driver() string {
	return s.driver
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

// rebind rewrites ? placeholders into the driver's native form.
func (s *Storage) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// monthOf returns the SQL expression formatting a DATE column as YYYY-MM.
func (s *Storage) monthOf(column string) string {
	if s.driver == DriverSQLite {
		return "strftime('%Y-%m', " + column + ")"
	}
	return "to_char(" + column + ", 'YYYY-MM')"
}

func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
