// Package schema is the closed catalog of tables the generic record handlers
// may touch, together with their per-table write rules.
package schema

import (
	"regexp"
	"sort"

	"github.com/lopeshyago/fusionbackapp/pkg/enums"
)

const (
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is safe to interpolate as a quoted SQL identifier.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// Table describes how generic handlers treat one managed table.
type Table struct {
	Name string
	// OwnerColumn is filled with the caller's account id on create when absent.
	OwnerColumn string
	// WriteRoles restricts create/update/delete; empty means any authenticated caller.
	WriteRoles []enums.Role
	// Creatable is false for tables populated only by dedicated flows.
	Creatable bool
	// Invite routes creates to the invite flow instead of a literal insert.
	Invite bool
	// Structured lists text columns holding serialized lists, parsed back on read.
	Structured []string
	// Hidden columns are stripped from list responses.
	Hidden []string
}

// CanWrite reports whether role may mutate rows of the table.
func (t Table) CanWrite(role enums.Role) bool {
	if len(t.WriteRoles) == 0 {
		return true
	}
	for _, allowed := range t.WriteRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

var adminOnly = []enums.Role{enums.RoleAdmin}

var registry = map[string]Table{
	"users":                {Name: "users", Creatable: false, WriteRoles: adminOnly, Hidden: []string{"password"}},
	"profiles":             {Name: "profiles", Creatable: false, WriteRoles: adminOnly},
	"condominiums":         {Name: "condominiums", Creatable: true, WriteRoles: adminOnly, Structured: []string{"areas"}},
	"instructor_invites":   {Name: "instructor_invites", Creatable: true, Invite: true, WriteRoles: adminOnly},
	"invites":              {Name: "invites", Creatable: true, Invite: true, WriteRoles: adminOnly},
	"notices":              {Name: "notices", Creatable: true, OwnerColumn: "author_id"},
	"weekly_schedules":     {Name: "weekly_schedules", Creatable: true, OwnerColumn: "user_id"},
	"workouts":             {Name: "workouts", Creatable: true, OwnerColumn: "instructor_id"},
	"assessments":          {Name: "assessments", Creatable: true, OwnerColumn: "instructor_id"},
	"posts":                {Name: "posts", Creatable: true, OwnerColumn: "user_id"},
	"maintenance_requests": {Name: "maintenance_requests", Creatable: true, OwnerColumn: "user_id"},
	"messages":             {Name: "messages", Creatable: true, OwnerColumn: "sender_id"},
}

// Lookup returns the registered table definition.
func Lookup(name string) (Table, bool) {
	t, ok := registry[name]
	return t, ok
}

// Names returns every registered table, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
