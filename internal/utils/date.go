package utils

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")

// ParseDate accepts a calendar date or a full RFC3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDate
}
