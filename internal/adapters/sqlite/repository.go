package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"auditdesk/internal/domain"
	"auditdesk/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// overrideKey is the fixed key of the singleton override snapshot row.
const overrideKey = "default"

// Repository implements the ports.FillStore and ports.OverrideStore
// interfaces using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/auditdesk.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Open database connection
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000") // WAL mode for better concurrency
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close() // Close the connection if ping fails
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Set connection pool settings (important for SQLite)
	db.SetMaxOpenConns(1) // SQLite handles concurrency internally, but Go driver benefits from limiting connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Database schema initialized/verified", map[string]interface{}{"path": dbPath})

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
// NOTE: This is a basic approach. A proper migration tool is recommended for production.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS fills (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		logged_at TIMESTAMP NOT NULL,
		strategy TEXT NOT NULL,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		size TEXT NOT NULL,
		price REAL NOT NULL,
		status TEXT NOT NULL,
		pnl REAL DEFAULT NULL,
		r_multiple REAL DEFAULT NULL,
		win INTEGER DEFAULT NULL,
		entry_time TIMESTAMP DEFAULT NULL,
		exit_time TIMESTAMP DEFAULT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_override (
		key TEXT PRIMARY KEY,
		document TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	-- Add indexes for common lookups
	CREATE INDEX IF NOT EXISTS idx_fills_logged_at ON fills (logged_at);
	CREATE INDEX IF NOT EXISTS idx_fills_status ON fills (status);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// --- FillStore Implementation ---

// InsertFill saves a new fill record and returns its assigned ID.
// Used by the ingestion/seeding tools; the audit engine itself never writes fills.
func (r *Repository) InsertFill(ctx context.Context, fill *domain.TradeFill) (int64, error) {
	const query = `
	INSERT INTO fills (logged_at, strategy, symbol, direction, size, price, status,
	                   pnl, r_multiple, win, entry_time, exit_time)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		fill.Time, fill.Strategy, fill.Symbol, fill.Direction, fill.Size, fill.Price, fill.Status,
		nullFloat(fill.PNL), nullFloat(fill.RMultiple), nullBool(fill.Win),
		nullTime(fill.EntryTime), nullTime(fill.ExitTime))
	if err != nil {
		return 0, fmt.Errorf("failed to insert fill for symbol %s: %w: %w", fill.Symbol, ports.ErrUpdateFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for fill %s: %w", fill.Symbol, err)
	}
	fill.ID = id // Update the domain object with the ID
	r.logger.Debug(ctx, "Fill recorded", map[string]interface{}{"fillID": id, "symbol": fill.Symbol, "status": fill.Status})
	return id, nil
}

// Query retrieves fills matching q.
func (r *Repository) Query(ctx context.Context, q ports.FillQuery) ([]*domain.TradeFill, error) {
	var sb strings.Builder
	sb.WriteString(`
	SELECT id, logged_at, strategy, symbol, direction, size, price, status,
	       pnl, r_multiple, win, entry_time, exit_time
	FROM fills`)

	var conds []string
	var args []interface{}
	if !q.From.IsZero() {
		conds = append(conds, "logged_at >= ?")
		args = append(args, q.From)
	}
	if q.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, q.Status)
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	if q.SortDesc {
		sb.WriteString(" ORDER BY logged_at DESC")
	} else {
		sb.WriteString(" ORDER BY logged_at ASC")
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fills: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	fills := make([]*domain.TradeFill, 0)
	for rows.Next() {
		fill, err := scanFill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fill during Query: %w", err)
		}
		fills = append(fills, fill)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fill rows: %w", err)
	}
	return fills, nil
}

// CountByStatus counts fills with the given status over the full history.
func (r *Repository) CountByStatus(ctx context.Context, status domain.FillStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM fills WHERE status = ?`
	var count int
	err := r.db.QueryRowContext(ctx, query, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count fills with status %s: %w: %w", status, ports.ErrQueryFailed, err)
	}
	return count, nil
}

// --- OverrideStore Implementation ---

// Get retrieves the singleton override snapshot, or nil, nil if none is saved.
// A snapshot whose document is unreadable is treated as absent; a document
// with individually malformed fields keeps its well-formed fields (the
// operator edits this data freely, so it is decoded leniently).
func (r *Repository) Get(ctx context.Context) (*domain.AuditReport, error) {
	const query = `SELECT document FROM audit_override WHERE key = ?`

	var doc string
	err := r.db.QueryRowContext(ctx, query, overrideKey).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not an error, just not found
		}
		return nil, fmt.Errorf("failed to query override snapshot: %w: %w", ports.ErrQueryFailed, err)
	}

	report := &domain.AuditReport{}
	if err := json.Unmarshal([]byte(doc), report); err != nil {
		// A type mismatch on one field leaves the rest decoded; keep those.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			r.logger.Warn(ctx, "Override snapshot field malformed, using defaults for it",
				map[string]interface{}{"field": typeErr.Field, "value": typeErr.Value})
			return report, nil
		}
		r.logger.Warn(ctx, "Override snapshot document unreadable, treating as absent",
			map[string]interface{}{"error": err.Error()})
		return nil, nil
	}
	return report, nil
}

// Upsert replaces the singleton override snapshot wholesale.
func (r *Repository) Upsert(ctx context.Context, report *domain.AuditReport) error {
	doc, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal override snapshot: %w", err)
	}

	const query = `
	INSERT INTO audit_override (key, document, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, query, overrideKey, string(doc), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert override snapshot: %w: %w", ports.ErrUpdateFailed, err)
	}
	r.logger.Debug(ctx, "Override snapshot replaced")
	return nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanFill scans a row into a domain.TradeFill struct.
func scanFill(s scanner) (*domain.TradeFill, error) {
	f := &domain.TradeFill{}
	var direction, status string
	var pnl, rMultiple sql.NullFloat64
	var win sql.NullBool
	var entryTime, exitTime sql.NullTime
	err := s.Scan(
		&f.ID, &f.Time, &f.Strategy, &f.Symbol, &direction, &f.Size, &f.Price, &status,
		&pnl, &rMultiple, &win, &entryTime, &exitTime)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	f.Direction = domain.Direction(direction)
	f.Status = domain.FillStatus(status)
	if pnl.Valid {
		f.PNL = &pnl.Float64
	}
	if rMultiple.Valid {
		f.RMultiple = &rMultiple.Float64
	}
	if win.Valid {
		f.Win = &win.Bool
	}
	if entryTime.Valid {
		f.EntryTime = &entryTime.Time
	}
	if exitTime.Valid {
		f.ExitTime = &exitTime.Time
	}
	return f, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}
