package errors

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// LogFields flattens err into structured log fields: the rendered message,
// the outermost code, the wrapped types from outside in, the innermost cause
// and any SQLite result codes.
func LogFields(err error) map[string]any {
	if err == nil {
		return map[string]any{}
	}
	fields := map[string]any{"error": err.Error()}
	if te := As(err); te != nil {
		fields["error_code"] = te.Code()
	}

	var chain []string
	root := err
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T", e))
		root = e
	}
	fields["error_chain"] = chain
	if root != err {
		fields["error_root"] = root.Error()
	}

	var lite sqlite3.Error
	if errors.As(err, &lite) {
		fields["sqlite_code"] = int(lite.Code)
		fields["sqlite_extended_code"] = int(lite.ExtendedCode)
	}
	return fields
}
