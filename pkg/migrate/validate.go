package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

var (
	sqlFileRe     = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
	destructiveRe = regexp.MustCompile(`(?i)\b(DROP\s+(TABLE|COLUMN|INDEX|VIEW|TRIGGER)|RENAME\s+(TO|COLUMN))\b`)
)

// ValidateDir validates the migration files in dir on disk.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	return ValidateFS(os.DirFS(dir))
}

// ValidateFS checks filenames, goose annotations, version uniqueness and that
// no Up section drops or renames anything. Every problem found is returned.
func ValidateFS(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	var errs error
	seen := map[string]string{} // version -> filename
	goVersion := fmt.Sprintf("%d", legacyColumnsVersion)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name))
			continue
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			errs = multierr.Append(errs, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name))
		}
		if version == goVersion {
			errs = multierr.Append(errs, fmt.Errorf("migration %q collides with go migration %s", name, goVersion))
		}
		seen[version] = name

		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("read file %q: %w", name, err))
			continue
		}
		errs = multierr.Append(errs, validateContent(name, string(b)))
	}

	return errs
}

func validateContent(name, txt string) error {
	upIdx := strings.Index(txt, "-- +goose Up")
	downIdx := strings.Index(txt, "-- +goose Down")

	var errs error
	if upIdx < 0 {
		errs = multierr.Append(errs, fmt.Errorf("migration %q missing \"-- +goose Up\"", name))
	}
	if downIdx < 0 {
		errs = multierr.Append(errs, fmt.Errorf("migration %q missing \"-- +goose Down\"", name))
	}
	if errs != nil {
		return errs
	}

	up := txt[upIdx:]
	if downIdx > upIdx {
		up = txt[upIdx:downIdx]
	}
	if loc := destructiveRe.FindString(up); loc != "" {
		errs = multierr.Append(errs, fmt.Errorf("migration %q is not additive: found %q in Up section", name, loc))
	}
	return errs
}
