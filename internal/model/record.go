package model

import (
	"strconv"
	"strings"
)

// Record is one row of an auxiliary table, keyed by the table's case-folded
// header names. The shape is whatever the header row declares; nothing
// beyond the documented defaults is hard-coded.
type Record map[string]string

// NumberOr returns the record's value for key as a number, falling back
// when the cell is missing or non-numeric.
func (r Record) NumberOr(key string, fallback float64) float64 {
	v, ok := r[key]
	if !ok {
		return fallback
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fallback
	}
	return n
}
