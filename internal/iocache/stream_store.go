// Package iocache is for persisting readings and the files derived from them.
package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// streamTables maps each stream to its table.
var streamTables = map[schema.Stream]string{
	schema.RawStream:   "sensor_readings",
	schema.LSTMStream:  "lstm_readings",
	schema.ARIMAStream: "arima_readings",
}

// tableNamePattern allows only simple identifiers as table names.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// StreamStoreImpl persists the three streams in a SQL database.
type StreamStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.StreamStore = &StreamStoreImpl{} // Compile-time check

// openDB opens and verifies a connection for the backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql or postgresql", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// NewStreamStore initializes and returns a new StreamStore based on the backend type.
// The none backend keeps readings in memory for the lifetime of the process.
func NewStreamStore(backend schema.DatabaseBackend, connStr string) (contract.StreamStore, error) {
	if backend == schema.NoneBackend {
		return NewMemoryStore(), nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Create the table schema
	for _, st := range schema.AllStreams {
		table := streamTables[st]
		if _, err := db.Exec(getCreateTableQuery(table, backend)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}

	return &StreamStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// getCreateTableQuery returns the CREATE TABLE query for the given backend.
func getCreateTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				datetime VARCHAR(32) NOT NULL,
				temperature DOUBLE NULL,
				humidity DOUBLE NULL,
				heat_index DOUBLE NULL
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				datetime TEXT NOT NULL,
				temperature DOUBLE PRECISION,
				humidity DOUBLE PRECISION,
				heat_index DOUBLE PRECISION
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				datetime TEXT NOT NULL,
				temperature REAL,
				humidity REAL,
				heat_index REAL
			);
		`, quoted)
	}
}

// validateTableName rejects identifiers that are not safe to interpolate.
func validateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

// quoteTableName quotes a table name for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + name + "`"
	default:
		return `"` + name + `"`
	}
}

// tableFor returns the quoted table of a stream.
func (s *StreamStoreImpl) tableFor(stream schema.Stream) (string, error) {
	table, ok := streamTables[stream]
	if !ok {
		return "", fmt.Errorf("unknown stream %q", stream)
	}
	if err := validateTableName(table); err != nil {
		return "", err
	}
	return quoteTableName(table, s.backend), nil
}

// placeholders returns n parameter placeholders for the backend, starting at $1 on PostgreSQL.
func (s *StreamStoreImpl) placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		if s.backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

// nullable maps an unavailable reading's numbers to NULL.
func nullable(r schema.Reading, v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !r.Unavailable}
}

// insert appends one reading inside tx and returns its new ID.
func (s *StreamStoreImpl) insert(ctx context.Context, tx *sql.Tx, stream schema.Stream, r schema.Reading) (int64, error) {
	table, err := s.tableFor(stream)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`INSERT INTO %s (datetime, temperature, humidity, heat_index) VALUES (%s)`,
		table, strings.Join(s.placeholders(4), ", "))
	args := []any{r.DateTime, nullable(r, r.Temperature), nullable(r, r.Humidity), nullable(r, r.HeatIndex)}

	// PostgreSQL has no LastInsertId, so ask for the ID directly
	if s.backend == schema.PostgreSQLBackend {
		var id int64
		if err := tx.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AppendCycle inserts the three rows of a cycle in one transaction.
func (s *StreamStoreImpl) AppendCycle(ctx context.Context, cycle schema.Cycle) (schema.Cycle, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return cycle, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows := []*schema.Reading{&cycle.Raw, &cycle.LSTM, &cycle.ARIMA}
	for i, st := range schema.AllStreams {
		id, err := s.insert(ctx, tx, st, *rows[i])
		if err != nil {
			return cycle, fmt.Errorf("failed to insert %s reading: %w", st, err)
		}
		rows[i].ID = id
	}

	if err := tx.Commit(); err != nil {
		return cycle, fmt.Errorf("failed to commit cycle: %w", err)
	}
	return cycle, nil
}

// scanReadings reads rows of (id, datetime, temperature, humidity, heat_index).
func scanReadings(rows *sql.Rows) ([]schema.Reading, error) {
	defer func() { _ = rows.Close() }()

	var out []schema.Reading
	for rows.Next() {
		var r schema.Reading
		var temp, hum, heat sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.DateTime, &temp, &hum, &heat); err != nil {
			return nil, err
		}
		r.Temperature, r.Humidity, r.HeatIndex = temp.Float64, hum.Float64, heat.Float64
		r.Unavailable = !temp.Valid || !hum.Valid || !heat.Valid
		out = append(out, r)
	}
	return out, rows.Err()
}

// All returns every row of a stream in ascending ID order.
func (s *StreamStoreImpl) All(ctx context.Context, stream schema.Stream) ([]schema.Reading, error) {
	table, err := s.tableFor(stream)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, datetime, temperature, humidity, heat_index FROM %s ORDER BY id ASC`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s stream: %w", stream, err)
	}
	return scanReadings(rows)
}

// Tail returns the last n rows of a stream in ascending ID order.
func (s *StreamStoreImpl) Tail(ctx context.Context, stream schema.Stream, n int) ([]schema.Reading, error) {
	if n <= 0 {
		return nil, nil
	}
	table, err := s.tableFor(stream)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, datetime, temperature, humidity, heat_index FROM %s ORDER BY id DESC LIMIT %s`,
		table, s.placeholders(1)[0])
	rows, err := s.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s stream: %w", stream, err)
	}
	out, err := scanReadings(rows)
	if err != nil {
		return nil, err
	}
	// Restore ascending order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Delete removes a single row from a stream.
func (s *StreamStoreImpl) Delete(ctx context.Context, stream schema.Stream, id int64) error {
	table, err := s.tableFor(stream)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = %s`, table, s.placeholders(1)[0])
	_, err = s.db.ExecContext(ctx, query, id)
	return err
}

// PruneToLatest deletes every row of each stream except that stream's newest row.
// Each stream uses its own maximum ID.
func (s *StreamStoreImpl) PruneToLatest(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, st := range schema.AllStreams {
		table, err := s.tableFor(st)
		if err != nil {
			return err
		}
		// MySQL cannot delete from a table it selects from in a subquery, so read the max first
		var maxID sql.NullInt64
		if err := tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT MAX(id) FROM %s`, table)).Scan(&maxID); err != nil {
			return fmt.Errorf("failed to read latest %s id: %w", st, err)
		}
		if !maxID.Valid {
			continue
		}
		query := fmt.Sprintf(`DELETE FROM %s WHERE id < %s`, table, s.placeholders(1)[0])
		if _, err := tx.ExecContext(ctx, query, maxID.Int64); err != nil {
			return fmt.Errorf("failed to prune %s stream: %w", st, err)
		}
	}
	return tx.Commit()
}

// GetStatus returns status information about the stream store.
func (s *StreamStoreImpl) GetStatus() (schema.StreamStatus, error) {
	status := schema.StreamStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
		RowCounts: make(map[schema.Stream]int64, len(schema.AllStreams)),
		LastIDs:   make(map[schema.Stream]int64, len(schema.AllStreams)),
	}
	if s.db == nil {
		return status, nil
	}

	for _, st := range schema.AllStreams {
		table, err := s.tableFor(st)
		if err != nil {
			return status, err
		}
		var count int64
		var lastID sql.NullInt64
		row := s.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*), MAX(id) FROM %s`, table))
		if err := row.Scan(&count, &lastID); err != nil {
			return status, fmt.Errorf("failed to get %s row count: %w", st, err)
		}
		status.RowCounts[st] = count
		status.LastIDs[st] = lastID.Int64
	}

	if status.LastIDs[schema.RawStream] > 0 {
		table, _ := s.tableFor(schema.RawStream)
		query := fmt.Sprintf(`SELECT datetime FROM %s WHERE id = %s`, table, s.placeholders(1)[0])
		if err := s.db.QueryRow(query, status.LastIDs[schema.RawStream]).Scan(&status.LastDateTime); err != nil {
			return status, fmt.Errorf("failed to get last reading time: %w", err)
		}
	}
	return status, nil
}

// DatabaseName returns the database a connection string points at, without credentials.
func DatabaseName(backend schema.DatabaseBackend, connStr string) string {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			return contract.GetDBFilePath()
		}
		return connStr
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return ""
		}
		return cfg.DBName
	case schema.PostgreSQLBackend:
		for field := range strings.FieldsSeq(connStr) {
			if name, ok := strings.CutPrefix(field, "dbname="); ok {
				return name
			}
		}
	}
	return ""
}

// Close closes the underlying DB connection.
func (s *StreamStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
