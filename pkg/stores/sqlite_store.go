package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a load does not exist.
var ErrNotFound = errors.New("load not found")

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	config Config
}

// Config holds SQLite store configuration
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// Set defaults
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 4
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 2
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}
	// Each connection to :memory: is a separate database.
	if cfg.Path == ":memory:" {
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
		cfg.ConnMaxLifetime = 0
	}

	return &SQLiteStore{config: cfg}, nil
}

// Open creates, initializes and migrates a store at path.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	store, err := NewSQLiteStore(Config{Path: path})
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Init opens the database connection and enables WAL mode.
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate", s.config.Path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(s.config.MaxOpenConns)
	db.SetMaxIdleConns(s.config.MaxIdleConns)
	db.SetConnMaxLifetime(s.config.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// CreateLoad records a load and its issues in one transaction.
func (s *SQLiteStore) CreateLoad(ctx context.Context, load *Load, issues []*Issue) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if load.CreatedAt.IsZero() {
		load.CreatedAt = time.Now()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO loads (id, source, board, fallback, status, features, issue_count, duration_us, error, derived, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		load.ID,
		load.Source,
		load.Board,
		load.Fallback,
		load.Status,
		load.Features,
		len(issues),
		load.Duration.Microseconds(),
		load.Error,
		load.Derived,
		load.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("failed to create load: %w", err)
	}
	load.IssueCount = len(issues)

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO load_issues (load_id, phase, class, reason, line, key, token, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare issue insert: %w", err)
	}
	defer stmt.Close()

	for _, issue := range issues {
		issue.LoadID = load.ID
		result, err := stmt.ExecContext(ctx,
			issue.LoadID,
			issue.Phase,
			issue.Class,
			issue.Reason,
			issue.Line,
			issue.Key,
			issue.Token,
			issue.Message,
		)
		if err != nil {
			return fmt.Errorf("failed to create issue: %w", err)
		}
		if issue.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get issue id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit load: %w", err)
	}
	return nil
}

const loadColumns = `id, source, board, fallback, status, features, issue_count, duration_us, error, derived, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanLoad(row scanner) (*Load, error) {
	load := &Load{}
	var durationUS, createdUS int64
	err := row.Scan(
		&load.ID,
		&load.Source,
		&load.Board,
		&load.Fallback,
		&load.Status,
		&load.Features,
		&load.IssueCount,
		&durationUS,
		&load.Error,
		&load.Derived,
		&createdUS,
	)
	if err != nil {
		return nil, err
	}
	load.Duration = time.Duration(durationUS) * time.Microsecond
	load.CreatedAt = time.UnixMicro(createdUS)
	return load, nil
}

// GetLoad retrieves a load by ID
func (s *SQLiteStore) GetLoad(ctx context.Context, id string) (*Load, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+loadColumns+` FROM loads WHERE id = ?`, id)

	load, err := scanLoad(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get load: %w", err)
	}
	return load, nil
}

// ListLoads lists loads, newest first.
func (s *SQLiteStore) ListLoads(ctx context.Context, opts ListOptions) ([]*Load, error) {
	query := `SELECT ` + loadColumns + ` FROM loads WHERE 1=1`
	var args []any
	if opts.Source != "" {
		query += ` AND source = ?`
		args = append(args, opts.Source)
	}
	if opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, opts.Status)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list loads: %w", err)
	}
	defer rows.Close()

	loads := []*Load{}
	for rows.Next() {
		load, err := scanLoad(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan load: %w", err)
		}
		loads = append(loads, load)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loads: %w", err)
	}

	return loads, nil
}

// ListIssues lists the issues of a load in line order.
func (s *SQLiteStore) ListIssues(ctx context.Context, loadID string) ([]*Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, load_id, phase, class, reason, line, key, token, message
		FROM load_issues
		WHERE load_id = ?
		ORDER BY id ASC
	`, loadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	issues := []*Issue{}
	for rows.Next() {
		issue := &Issue{}
		err := rows.Scan(
			&issue.ID,
			&issue.LoadID,
			&issue.Phase,
			&issue.Class,
			&issue.Reason,
			&issue.Line,
			&issue.Key,
			&issue.Token,
			&issue.Message,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, issue)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issues: %w", err)
	}

	return issues, nil
}

// DeleteLoad deletes a load and its issues.
func (s *SQLiteStore) DeleteLoad(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM loads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete load: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

// PruneLoads deletes loads recorded before the given time and returns how
// many were removed.
func (s *SQLiteStore) PruneLoads(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM loads WHERE created_at < ?`, before.UnixMicro())
	if err != nil {
		return 0, fmt.Errorf("failed to prune loads: %w", err)
	}
	return result.RowsAffected()
}

// HealthCheck verifies the database connection is healthy
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	return s.db.PingContext(ctx)
}
