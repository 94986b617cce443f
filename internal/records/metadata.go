package records

import (
	"context"
	"sync"

	pkgerrors "github.com/lopeshyago/fusionbackapp/pkg/errors"
	"github.com/lopeshyago/fusionbackapp/pkg/schema"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const columnsQuery = `SELECT name FROM pragma_table_info(?) ORDER BY cid`

// Metadata caches the live column list of each table. Entries stay valid until
// Invalidate or InvalidateAll is called, typically after migrations run.
type Metadata struct {
	db *gorm.DB

	mu      sync.RWMutex
	columns map[string][]string
	group   singleflight.Group
}

// NewMetadata builds a cache that probes through db. db must not be a
// transaction handle: probes run on the shared connection.
func NewMetadata(db *gorm.DB) *Metadata {
	return &Metadata{db: db, columns: map[string][]string{}}
}

// Columns returns the table's columns in declared order.
func (m *Metadata) Columns(ctx context.Context, table string) ([]string, error) {
	if !schema.ValidIdentifier(table) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid table name")
	}

	m.mu.RLock()
	cached, ok := m.columns[table]
	m.mu.RUnlock()
	if ok {
		return cloneColumns(cached), nil
	}

	v, err, _ := m.group.Do(table, func() (any, error) {
		cols, err := m.probe(ctx, table)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.columns[table] = cols
		m.mu.Unlock()
		return cols, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneColumns(v.([]string)), nil
}

// Invalidate drops the cached entry for table.
func (m *Metadata) Invalidate(table string) {
	m.mu.Lock()
	delete(m.columns, table)
	m.mu.Unlock()
}

// InvalidateAll clears every cached entry.
func (m *Metadata) InvalidateAll() {
	m.mu.Lock()
	m.columns = map[string][]string{}
	m.mu.Unlock()
}

func (m *Metadata) probe(ctx context.Context, table string) ([]string, error) {
	rows, err := m.db.WithContext(ctx).Raw(columnsQuery, table).Rows()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read table columns")
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "scan table columns")
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read table columns")
	}
	if len(cols) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown table")
	}
	return cols, nil
}

func cloneColumns(cols []string) []string {
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}
