package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

const sqlTemplate = `-- +goose Up
-- %s
-- Additive changes only: CREATE ... IF NOT EXISTS or ALTER TABLE ... ADD COLUMN.

-- +goose Down
-- Schema changes are never rolled back.
`

// slug lowercases name and collapses every other run of characters to "_".
func slug(name string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// CreateSQLMigration writes an empty migration named <version>_<slug>.sql into
// dir. The version is now in UTC, moved past the newest file already in dir so
// versions keep increasing even when the clock does not.
func CreateSQLMigration(dir string, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	s := slug(name)
	if s == "" {
		return "", fmt.Errorf("name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", dir, err)
	}
	version, _ := strconv.ParseInt(now.UTC().Format(versionLayout), 10, 64)
	for _, e := range entries {
		m := sqlFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if strings.TrimSuffix(strings.TrimPrefix(e.Name(), m[1]+"_"), ".sql") == s {
			return "", fmt.Errorf("migration %q already exists as %s", s, e.Name())
		}
		if v, _ := strconv.ParseInt(m[1], 10, 64); v >= version {
			version = v + 1
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("%d_%s.sql", version, s))
	if err := os.WriteFile(path, []byte(fmt.Sprintf(sqlTemplate, s)), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", path, err)
	}
	return path, nil
}
