package utils

import (
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseFloat returns nil for an empty or malformed value.
func ParseFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &result
}

// ParseBool returns nil for an empty or malformed value.
func ParseBool(value string) *bool {
	if value == "" {
		return nil
	}
	result, err := strconv.ParseBool(value)
	if err != nil {
		return nil
	}
	return &result
}

// ParseDate accepts either a plain date or an RFC3339 timestamp and
// returns the UTC calendar day at midnight.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
