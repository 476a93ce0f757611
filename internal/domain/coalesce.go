package domain

import "time"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// TimeFromPtrWithDefault returns the first non-nil *time.Time value, or the fallback.
func TimeFromPtrWithDefault(fallback time.Time, ptrs ...*time.Time) time.Time {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}
