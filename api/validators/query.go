package validators

import (
	"strconv"
	"strings"

	pkgerrors "github.com/lopeshyago/fusionbackapp/pkg/errors"
)

// ParseID parses a positive integer path parameter.
func ParseID(raw, field string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a positive integer").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}
