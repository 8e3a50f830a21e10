package utils

import (
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseID parses a positive numeric path or query id.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, NewValidationError("invalid id")
	}
	return uint(id), nil
}

// OptionalID parses an optional id; empty input yields nil.
func OptionalID(raw string) (*uint, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := ParseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseDate parses an optional YYYY-MM-DD date in loc; empty input yields nil.
func ParseDate(raw string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return nil, NewValidationError("invalid date " + raw + ", use YYYY-MM-DD")
	}
	return &t, nil
}

// Pagination reads limit/offset with sane bounds.
func Pagination(limitRaw, offsetRaw string) (limit, offset int) {
	limit = 50
	if n, err := strconv.Atoi(limitRaw); err == nil && n > 0 && n <= 500 {
		limit = n
	}
	if n, err := strconv.Atoi(offsetRaw); err == nil && n > 0 {
		offset = n
	}
	return limit, offset
}
