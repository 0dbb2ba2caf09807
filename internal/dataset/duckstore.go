package dataset

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/marcboeker/go-duckdb"
)

// DuckStore keeps dataset rows in a temporary DuckDB file so previews of
// large uploads do not have to materialize row maps per request. Close may
// race with readers: a closed store returns errors from Page, never panics.
type DuckStore struct {
	mu        sync.Mutex
	db        *sql.DB
	closed    bool
	dbPath    string
	columns   []string
	rowCount  int
	batchSize int
	batch     [][]string
	lastError error
}

// NewDuckStore creates a row store for a dataset in the given temp directory.
func NewDuckStore(tempDir, datasetID string, columns []string) (*DuckStore, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("dataset has no columns")
	}

	dbPath := filepath.Join(tempDir, fmt.Sprintf("dataset_%s.duckdb", datasetID))

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='512MB'",
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	cols := make([]string, 0, len(columns)+1)
	cols = append(cols, "row_id INTEGER PRIMARY KEY")
	for i := range columns {
		cols = append(cols, fmt.Sprintf("c%d VARCHAR", i))
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE rows (%s)", strings.Join(cols, ", "))); err != nil {
		db.Close()
		os.Remove(dbPath)
		return nil, fmt.Errorf("creating rows table: %w", err)
	}

	return &DuckStore{
		db:        db,
		dbPath:    dbPath,
		columns:   append([]string(nil), columns...),
		batchSize: 10000,
		batch:     make([][]string, 0, 10000),
	}, nil
}

// IngestFrame loads every row of a frame into the store.
func (ds *DuckStore) IngestFrame(f *Frame) error {
	rows, _ := f.Shape()
	for i := 0; i < rows; i++ {
		ds.AddRow(f.Row(i))
	}
	if err := ds.Finalize(); err != nil {
		return err
	}
	return ds.lastError
}

// AddRow appends one row. Rows are batched for efficient insertion.
func (ds *DuckStore) AddRow(cells []string) {
	ds.batch = append(ds.batch, cells)
	ds.rowCount++
	if len(ds.batch) >= ds.batchSize {
		if err := ds.flushBatch(); err != nil {
			ds.lastError = err
		}
	}
}

// Finalize flushes any pending batch.
func (ds *DuckStore) Finalize() error {
	return ds.flushBatch()
}

// flushBatch writes the current batch through the native Appender API.
func (ds *DuckStore) flushBatch() error {
	if len(ds.batch) == 0 {
		return nil
	}

	conn, err := ds.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("getting connection: %w", err)
	}
	defer conn.Close()

	err = conn.Raw(func(driverConn interface{}) error {
		dConn, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection type %T", driverConn)
		}

		appender, err := duckdb.NewAppenderFromConn(dConn, "", "rows")
		if err != nil {
			return fmt.Errorf("creating appender: %w", err)
		}
		defer appender.Close()

		baseID := ds.rowCount - len(ds.batch)
		args := make([]driver.Value, len(ds.columns)+1)
		for i, row := range ds.batch {
			args[0] = int32(baseID + i)
			for j := range ds.columns {
				if j < len(row) {
					args[j+1] = row[j]
				} else {
					args[j+1] = ""
				}
			}
			if err := appender.AppendRow(args...); err != nil {
				return fmt.Errorf("appending row %d: %w", baseID+i, err)
			}
		}
		return appender.Flush()
	})
	if err != nil {
		return fmt.Errorf("appender error: %w", err)
	}

	ds.batch = ds.batch[:0]
	return nil
}

// Len returns the number of stored rows.
func (ds *DuckStore) Len() int {
	return ds.rowCount
}

// Columns returns the column names in file order.
func (ds *DuckStore) Columns() []string {
	return ds.columns
}

// Page returns rows [offset, offset+limit) in insertion order.
func (ds *DuckStore) Page(ctx context.Context, offset, limit int) ([][]string, error) {
	if limit <= 0 {
		return [][]string{}, nil
	}

	ds.mu.Lock()
	if ds.closed {
		ds.mu.Unlock()
		return nil, fmt.Errorf("row store is closed")
	}
	db := ds.db
	ds.mu.Unlock()

	sel := make([]string, len(ds.columns))
	for i := range ds.columns {
		sel[i] = fmt.Sprintf("c%d", i)
	}
	query := fmt.Sprintf(
		"SELECT %s FROM rows ORDER BY row_id LIMIT %d OFFSET %d",
		strings.Join(sel, ", "), limit, offset,
	)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying rows: %w", err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		cells := make([]string, len(ds.columns))
		ptrs := make([]interface{}, len(cells))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

// Closed reports whether the store has been released.
func (ds *DuckStore) Closed() bool {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.closed
}

// Close releases the database and removes its backing file. Close is
// idempotent. The db handle is kept so an in-flight Page gets an error
// from the closed *sql.DB instead of a nil dereference.
func (ds *DuckStore) Close() error {
	ds.mu.Lock()
	if ds.closed {
		ds.mu.Unlock()
		return nil
	}
	ds.closed = true
	ds.mu.Unlock()

	err := ds.db.Close()
	if ds.dbPath != "" {
		os.Remove(ds.dbPath)
	}
	return err
}
