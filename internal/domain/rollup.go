package domain

import "math"

// CompletionRatio returns approved/total clamped to [0,1]. An empty set is 0.
func CompletionRatio(approved, total int) float64 {
	if total <= 0 || approved <= 0 {
		return 0
	}
	r := float64(approved) / float64(total)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Min(r, 1)
}

// TaskCompletion is 1 for an approved task and 0 otherwise.
func TaskCompletion(status TaskStatus) float64 {
	if status == TaskApproved {
		return 1
	}
	return 0
}

// ModuleComplete reports whether a module with the given task counts is done.
// A module without tasks is never complete.
func ModuleComplete(approved, total int) bool {
	return total > 0 && approved == total
}
