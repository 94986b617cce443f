// Package records serves generic create/read/update/delete against the tables
// in the schema registry.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lopeshyago/fusionbackapp/internal/accounts"
	"github.com/lopeshyago/fusionbackapp/internal/invites"
	"github.com/lopeshyago/fusionbackapp/pkg/coerce"
	"github.com/lopeshyago/fusionbackapp/pkg/db"
	"github.com/lopeshyago/fusionbackapp/pkg/enums"
	pkgerrors "github.com/lopeshyago/fusionbackapp/pkg/errors"
	"github.com/lopeshyago/fusionbackapp/pkg/schema"
)

// Record is one row keyed by column name.
type Record map[string]any

// CreateResult is returned by Create. Invite is set when the table routes to
// the invite flow.
type CreateResult struct {
	ID     int64              `json:"id"`
	Invite *invites.InviteDTO `json:"invite,omitempty"`
}

// UpdateResult is returned by Update. Account is set for users rows.
type UpdateResult struct {
	ID      int64                `json:"id"`
	Account *accounts.AccountDTO `json:"account,omitempty"`
}

// Service is the generic dispatcher behind /api/{table}.
type Service interface {
	List(ctx context.Context, actor accounts.Actor, table string) ([]Record, error)
	Create(ctx context.Context, actor accounts.Actor, table string, payload map[string]any) (*CreateResult, error)
	Update(ctx context.Context, actor accounts.Actor, table string, id int64, payload map[string]any) (*UpdateResult, error)
	Delete(ctx context.Context, actor accounts.Actor, table string, id int64) error
}

// ServiceParams bundles the dependencies required to build a records service.
type ServiceParams struct {
	DB       *db.Client
	Metadata *Metadata
	Accounts accounts.Service
	Invites  invites.Service
	Now      func() time.Time
}

type service struct {
	db       *db.Client
	meta     *Metadata
	accounts accounts.Service
	invites  invites.Service
	now      func() time.Time
}

// NewService constructs the dispatcher.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Accounts == nil {
		return nil, fmt.Errorf("accounts service required")
	}
	if params.Invites == nil {
		return nil, fmt.Errorf("invite service required")
	}
	if params.Metadata == nil {
		params.Metadata = NewMetadata(params.DB.DB())
	}
	if params.Now == nil {
		params.Now = db.Now
	}
	return &service{
		db:       params.DB,
		meta:     params.Metadata,
		accounts: params.Accounts,
		invites:  params.Invites,
		now:      params.Now,
	}, nil
}

func lookup(table string) (schema.Table, error) {
	if !schema.ValidIdentifier(table) {
		return schema.Table{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid table name")
	}
	t, ok := schema.Lookup(table)
	if !ok {
		return schema.Table{}, pkgerrors.New(pkgerrors.CodeNotFound, "unknown table")
	}
	return t, nil
}

func authorizeWrite(actor accounts.Actor, t schema.Table) error {
	if actor.ID <= 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if !t.CanWrite(actor.Role) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role for "+t.Name)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}

// List returns every row of the table ordered by id.
func (s *service) List(ctx context.Context, actor accounts.Actor, table string) ([]Record, error) {
	t, err := lookup(table)
	if err != nil {
		return nil, err
	}
	if actor.ID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if _, err := s.meta.Columns(ctx, t.Name); err != nil {
		return nil, err
	}

	var rows []map[string]any
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY %s", quoteIdent(t.Name), quoteIdent(schema.ColumnID))
	if err := s.db.Raw(ctx, query).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list "+t.Name)
	}

	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, normalizeRow(t, row))
	}
	return out, nil
}

func normalizeRow(t schema.Table, row map[string]any) Record {
	for _, col := range t.Hidden {
		delete(row, col)
	}
	for col, v := range row {
		if b, ok := v.([]byte); ok {
			row[col] = string(b)
		}
	}
	for _, col := range t.Structured {
		if _, ok := row[col]; ok {
			row[col] = coerce.ParseAreas(row[col])
		}
	}
	return Record(row)
}

// Create inserts one row built from payload, table defaults and the owner column.
func (s *service) Create(ctx context.Context, actor accounts.Actor, table string, payload map[string]any) (*CreateResult, error) {
	t, err := lookup(table)
	if err != nil {
		return nil, err
	}
	if err := authorizeWrite(actor, t); err != nil {
		return nil, err
	}
	if t.Invite {
		return s.createInvite(ctx, actor, t, payload)
	}
	if !t.Creatable {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, t.Name+" rows are created through registration")
	}

	cols, err := s.meta.Columns(ctx, t.Name)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]any, len(payload))
	for k, v := range schema.DefaultsFor(t.Name, payload, s.now()) {
		merged[k] = v
	}
	for k, v := range payload {
		merged[k] = v
	}
	if t.OwnerColumn != "" {
		if _, present := payload[t.OwnerColumn]; !present {
			merged[t.OwnerColumn] = actor.ID
		}
	}

	names, args, err := writeSet(cols, merged)
	if err != nil {
		return nil, err
	}

	var query string
	if len(names) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", quoteIdent(t.Name), quoteIdent(schema.ColumnID))
	} else {
		quoted := make([]string, len(names))
		for i, n := range names {
			quoted[i] = quoteIdent(n)
		}
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			quoteIdent(t.Name),
			strings.Join(quoted, ", "),
			strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", "),
			quoteIdent(schema.ColumnID),
		)
	}

	var id int64
	if err := s.db.Raw(ctx, query, args...).Scan(&id).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert into "+t.Name)
	}
	return &CreateResult{ID: id}, nil
}

// writeSet intersects the live columns with values, skipping the id and the
// creation timestamp, and coerces every value to a storable form.
func writeSet(cols []string, values map[string]any) ([]string, []any, error) {
	var (
		names []string
		args  []any
	)
	for _, col := range cols {
		if col == schema.ColumnID || col == schema.ColumnCreatedAt {
			continue
		}
		v, ok := values[col]
		if !ok {
			continue
		}
		stored, err := coerce.ToStorable(v)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid value for "+col)
		}
		names = append(names, col)
		args = append(args, stored)
	}
	return names, args, nil
}

func (s *service) createInvite(ctx context.Context, actor accounts.Actor, t schema.Table, payload map[string]any) (*CreateResult, error) {
	kind, ok := enums.InviteKindForTable(t.Name)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "invite table without kind")
	}

	params := invites.CreateParams{Kind: kind, IssuerID: actor.ID}
	if raw, ok := payload["role"]; ok && raw != nil {
		str, isString := raw.(string)
		role, err := enums.ParseRole(strings.TrimSpace(str))
		if !isString || err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		params.Role = role
	}
	if raw, ok := payload["ttl_days"]; ok && raw != nil {
		days, err := intValue(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ttl_days must be an integer")
		}
		params.TTLDays = days
	}

	invite, err := s.invites.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	return &CreateResult{ID: invite.ID, Invite: invite}, nil
}

func intValue(raw any) (int, error) {
	switch v := raw.(type) {
	case json.Number:
		n, err := v.Int64()
		return int(n), err
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}

// Update writes the payload columns of one row. users rows go through the
// account service so the profile split and allow-lists apply.
func (s *service) Update(ctx context.Context, actor accounts.Actor, table string, id int64, payload map[string]any) (*UpdateResult, error) {
	t, err := lookup(table)
	if err != nil {
		return nil, err
	}
	if t.Name == "users" {
		account, err := s.accounts.Update(ctx, actor, id, payload)
		if err != nil {
			return nil, err
		}
		return &UpdateResult{ID: id, Account: account}, nil
	}
	if err := authorizeWrite(actor, t); err != nil {
		return nil, err
	}

	cols, err := s.meta.Columns(ctx, t.Name)
	if err != nil {
		return nil, err
	}
	names, args, err := writeSet(cols, payload)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updatable fields")
	}

	assignments := make([]string, len(names))
	for i, n := range names {
		assignments[i] = quoteIdent(n) + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", quoteIdent(t.Name), strings.Join(assignments, ", "), quoteIdent(schema.ColumnID))
	res := s.db.Exec(ctx, query, append(args, id)...)
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "update "+t.Name)
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
	}
	return &UpdateResult{ID: id}, nil
}

// Delete removes one row by id; foreign-key cascades apply.
func (s *service) Delete(ctx context.Context, actor accounts.Actor, table string, id int64) error {
	t, err := lookup(table)
	if err != nil {
		return err
	}
	if err := authorizeWrite(actor, t); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quoteIdent(t.Name), quoteIdent(schema.ColumnID))
	res := s.db.Exec(ctx, query, id)
	if res.Error != nil {
		if db.IsNoSuchTable(res.Error) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "unknown table")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "delete from "+t.Name)
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
	}
	return nil
}
