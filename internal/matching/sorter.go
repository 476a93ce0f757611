package matching

import "sort"

// CanonicalSort orders candidates deterministically:
// 1. Score: higher first
// 2. Open tasks: fewer first
// 3. Developer ID: lexical ascending
func CanonicalSort(candidates []ScoredCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Input.OpenTasks != b.Input.OpenTasks {
			return a.Input.OpenTasks < b.Input.OpenTasks
		}
		return a.Input.DeveloperID < b.Input.DeveloperID
	})
}
