package models

import (
	"strconv"
	"strings"
)

// ParseTimeControl parses the "M+I" time control string described in
// section 6: base minutes, per-move increment seconds, both non-negative
// integers. A malformed string falls back to DefaultTimeControl.
func ParseTimeControl(spec string) TimeControl {
	parts := strings.SplitN(strings.TrimSpace(spec), "+", 2)
	if len(parts) != 2 {
		return DefaultTimeControl
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || minutes < 0 {
		return DefaultTimeControl
	}
	incSeconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || incSeconds < 0 {
		return DefaultTimeControl
	}
	return TimeControl{
		BaseMs:      int64(minutes) * 60_000,
		IncrementMs: int64(incSeconds) * 1_000,
	}
}

// String renders the time control back to its "M+I" form.
func (tc TimeControl) String() string {
	minutes := tc.BaseMs / 60_000
	incSeconds := tc.IncrementMs / 1_000
	return strconv.FormatInt(minutes, 10) + "+" + strconv.FormatInt(incSeconds, 10)
}
