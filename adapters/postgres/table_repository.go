package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"merchhold/domain/table"
	"merchhold/internal/errors"
	"merchhold/ports"
)

// tableRepository implements the TableStore interface over Postgres.
// Rows are persisted as JSON; tables keep their load order via a
// sequence column.
type tableRepository struct {
	db *sqlx.DB
}

// NewTableRepository creates a new table repository
func NewTableRepository(db *sqlx.DB) ports.TableStore {
	return &tableRepository{db: db}
}

// rowDoc is the persisted shape of one record: column name to display
// string, with column order carried separately.
type rowDoc struct {
	Order []string          `json:"order"`
	Cells map[string]string `json:"cells"`
}

// List returns all tables in load order
func (r *tableRepository) List(ctx context.Context) ([]*table.Table, error) {
	query := `SELECT name FROM loaded_tables ORDER BY position`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make([]*table.Table, 0, len(names))
	for _, name := range names {
		t, err := r.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Get returns one table by name
func (r *tableRepository) Get(ctx context.Context, name string) (*table.Table, error) {
	query := `SELECT columns, rows FROM loaded_tables WHERE name = $1`

	var columnsJSON, rowsJSON []byte
	err := r.db.QueryRowContext(ctx, query, name).Scan(&columnsJSON, &rowsJSON)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("table " + name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}

	var columns []string
	if err := json.Unmarshal(columnsJSON, &columns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal columns: %w", err)
	}
	var docs []rowDoc
	if err := json.Unmarshal(rowsJSON, &docs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rows: %w", err)
	}

	t := table.NewTable(name, columns)
	for _, doc := range docs {
		rec := table.NewRecord()
		for _, col := range doc.Order {
			rec.Set(col, table.Text(doc.Cells[col]))
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// Put inserts or replaces a table
func (r *tableRepository) Put(ctx context.Context, t *table.Table) error {
	columnsJSON, err := json.Marshal(t.Columns)
	if err != nil {
		return fmt.Errorf("failed to marshal columns: %w", err)
	}

	docs := make([]rowDoc, 0, len(t.Rows))
	for _, row := range t.Rows {
		doc := rowDoc{Order: row.Columns(), Cells: make(map[string]string, row.Len())}
		for _, col := range doc.Order {
			doc.Cells[col] = row.Value(col).String()
		}
		docs = append(docs, doc)
	}
	rowsJSON, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}

	query := `INSERT INTO loaded_tables (name, columns, rows)
	VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE SET
		columns = EXCLUDED.columns,
		rows = EXCLUDED.rows`

	if _, err := r.db.ExecContext(ctx, query, t.Name, columnsJSON, rowsJSON); err != nil {
		return fmt.Errorf("failed to put table: %w", err)
	}
	return nil
}
