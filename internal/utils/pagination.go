package utils

import (
	"fmt"
	"strconv"
)

// Default page window for article listings
const (
	DefaultLimit  = 20
	DefaultOffset = 0
)

// ParseLimitOffset reads limit and offset query values. Empty values fall
// back to the defaults; anything that is not a non-negative integer is an error.
func ParseLimitOffset(limitStr, offsetStr string) (int, int, error) {
	limit, err := parseNonNegative("limit", limitStr, DefaultLimit)
	if err != nil {
		return 0, 0, err
	}
	offset, err := parseNonNegative("offset", offsetStr, DefaultOffset)
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func parseNonNegative(name, value string, defaultVal int) (int, error) {
	if value == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative", name)
	}
	return n, nil
}
