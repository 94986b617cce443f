package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// columnAddition is one additive change for databases created by older builds,
// where CREATE TABLE IF NOT EXISTS left a narrower table in place.
type columnAddition struct {
	Table      string
	Column     string
	Definition string
}

const legacyColumnsVersion int64 = 20240101000300

var legacyColumns = []columnAddition{
	{Table: "users", Column: "user_type", Definition: "TEXT"},
	{Table: "users", Column: "phone", Definition: "TEXT"},
	{Table: "users", Column: "cpf", Definition: "TEXT"},
	{Table: "users", Column: "address", Definition: "TEXT"},
	{Table: "users", Column: "plan_status", Definition: "TEXT NOT NULL DEFAULT 'inactive'"},
	{Table: "users", Column: "questionnaire_completed", Definition: "INTEGER NOT NULL DEFAULT 0"},
	{Table: "users", Column: "has_risk", Definition: "INTEGER NOT NULL DEFAULT 0"},
	{Table: "users", Column: "is_blocked", Definition: "INTEGER NOT NULL DEFAULT 0"},
	{Table: "users", Column: "condominium_id", Definition: "INTEGER REFERENCES condominiums(id) ON DELETE SET NULL"},
	{Table: "users", Column: "created_at", Definition: "DATETIME"},

	{Table: "profiles", Column: "full_name", Definition: "TEXT"},
	{Table: "profiles", Column: "avatar_url", Definition: "TEXT"},
	{Table: "profiles", Column: "role", Definition: "TEXT"},
	{Table: "profiles", Column: "gender", Definition: "TEXT"},

	{Table: "condominiums", Column: "invite_code", Definition: "TEXT"},
	{Table: "condominiums", Column: "areas", Definition: "TEXT NOT NULL DEFAULT '[]'"},
	{Table: "condominiums", Column: "address", Definition: "TEXT"},
	{Table: "condominiums", Column: "is_active", Definition: "INTEGER NOT NULL DEFAULT 1"},

	{Table: "instructor_invites", Column: "used_by", Definition: "INTEGER REFERENCES users(id) ON DELETE SET NULL"},
	{Table: "instructor_invites", Column: "used_at", Definition: "DATETIME"},

	{Table: "notices", Column: "type", Definition: "TEXT NOT NULL DEFAULT 'info'"},
	{Table: "notices", Column: "is_active", Definition: "INTEGER NOT NULL DEFAULT 1"},
	{Table: "notices", Column: "date", Definition: "TEXT"},
	{Table: "notices", Column: "condominium_id", Definition: "INTEGER REFERENCES condominiums(id) ON DELETE CASCADE"},
	{Table: "notices", Column: "author_id", Definition: "INTEGER REFERENCES users(id) ON DELETE SET NULL"},

	{Table: "weekly_schedules", Column: "condominium_id", Definition: "INTEGER REFERENCES condominiums(id) ON DELETE CASCADE"},
	{Table: "weekly_schedules", Column: "color", Definition: "TEXT"},

	{Table: "posts", Column: "image_url", Definition: "TEXT"},
	{Table: "posts", Column: "likes", Definition: "INTEGER NOT NULL DEFAULT 0"},

	{Table: "maintenance_requests", Column: "area", Definition: "TEXT"},
	{Table: "maintenance_requests", Column: "status", Definition: "TEXT NOT NULL DEFAULT 'open'"},

	{Table: "messages", Column: "is_read", Definition: "INTEGER NOT NULL DEFAULT 0"},
}

func goMigrations() []*goose.Migration {
	return []*goose.Migration{
		goose.NewGoMigration(legacyColumnsVersion, &goose.GoFunc{RunTx: addLegacyColumns}, nil),
	}
}

func addLegacyColumns(ctx context.Context, tx *sql.Tx) error {
	return applyColumnAdditions(ctx, tx, legacyColumns)
}

// applyColumnAdditions issues ADD COLUMN only for columns the live table lacks.
// Each probe reads the table fresh so additions are order-insensitive.
func applyColumnAdditions(ctx context.Context, tx *sql.Tx, additions []columnAddition) error {
	for _, add := range additions {
		cols, err := liveColumns(ctx, tx, add.Table)
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			return fmt.Errorf("table %s missing before adding %s", add.Table, add.Column)
		}
		if _, ok := cols[add.Column]; ok {
			continue
		}
		stmt := fmt.Sprintf(`ALTER TABLE %q ADD COLUMN %q %s`, add.Table, add.Column, add.Definition)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("add column %s.%s: %w", add.Table, add.Column, err)
		}
	}
	return nil
}

func liveColumns(ctx context.Context, tx *sql.Tx, table string) (map[string]struct{}, error) {
	rows, err := tx.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("probe columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column of %s: %w", table, err)
		}
		cols[name] = struct{}{}
	}
	return cols, rows.Err()
}
