// Package runlog keeps a local sqlite history of completed mold runs. The
// schema is managed by golang-migrate over the embedded migration files,
// so opening a database always brings it to the current version.
package runlog

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/moldforge/internal/monitoring"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Run is one recorded pipeline invocation.
type Run struct {
	ID         int64
	JobID      string
	InputPath  string
	OutputPath string
	Tris       int
	Verts      int
	DimMMX     float64
	DimMMY     float64
	DimMMZ     float64
	Duration   time.Duration
	Outcome    string
	CreatedAt  time.Time
}

// DB is an open run-history database.
type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the run-history database at path and
// applies any pending migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log %s: %w", path, err)
	}

	rl := &DB{db}
	if err := rl.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return rl, nil
}

// migrateUp applies all pending embedded migrations. Already-current
// databases are a no-op.
func (db *DB) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// Not closing m: that would close the underlying DB connection.
	m.Log = &migrateLogger{}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// migrateLogger forwards golang-migrate output to the package logger.
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	monitoring.Logf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }

// InsertRun records a completed (or partially completed) run.
func (db *DB) InsertRun(r Run) error {
	_, err := db.Exec(`
		INSERT INTO runs (job_id, input_path, output_path, tris, verts,
			dim_mm_x, dim_mm_y, dim_mm_z, duration_ms, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.JobID, r.InputPath, r.OutputPath, r.Tris, r.Verts,
		r.DimMMX, r.DimMMY, r.DimMMZ, r.Duration.Milliseconds(), r.Outcome,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first, up to limit.
func (db *DB) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT run_id, job_id, input_path, output_path, tris, verts,
			dim_mm_x, dim_mm_y, dim_mm_z, duration_ms, outcome, created_at
		FROM runs
		ORDER BY run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		if err := rows.Scan(&r.ID, &r.JobID, &r.InputPath, &r.OutputPath,
			&r.Tris, &r.Verts, &r.DimMMX, &r.DimMMY, &r.DimMMZ,
			&durationMS, &r.Outcome, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
