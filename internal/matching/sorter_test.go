package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeCandidate(id string, score float64, open int) ScoredCandidate {
	return ScoredCandidate{
		Input: ScoringInput{DeveloperID: id, OpenTasks: open},
		Score: score,
	}
}

func ids(cs []ScoredCandidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Input.DeveloperID
	}
	return out
}

func TestCanonicalSort_ScoreFirst(t *testing.T) {
	cs := []ScoredCandidate{
		makeCandidate("a", 0.5, 0),
		makeCandidate("b", 1.0, 2),
		makeCandidate("c", 0.8, 1),
	}
	CanonicalSort(cs)
	assert.Equal(t, []string{"b", "c", "a"}, ids(cs))
}

func TestCanonicalSort_OpenTasksTiebreak(t *testing.T) {
	cs := []ScoredCandidate{
		makeCandidate("a", 1.0, 2),
		makeCandidate("b", 1.0, 0),
		makeCandidate("c", 1.0, 1),
	}
	CanonicalSort(cs)
	assert.Equal(t, []string{"b", "c", "a"}, ids(cs))
}

func TestCanonicalSort_IDTiebreak(t *testing.T) {
	cs := []ScoredCandidate{
		makeCandidate("zed", 0.6, 1),
		makeCandidate("amy", 0.6, 1),
		makeCandidate("kim", 0.6, 1),
	}
	CanonicalSort(cs)
	assert.Equal(t, []string{"amy", "kim", "zed"}, ids(cs))
}

func TestCanonicalSort_Deterministic(t *testing.T) {
	base := []ScoredCandidate{
		makeCandidate("d", 0.9, 0),
		makeCandidate("a", 0.9, 0),
		makeCandidate("c", 1.0, 3),
		makeCandidate("b", 0.1, 0),
	}
	first := append([]ScoredCandidate(nil), base...)
	CanonicalSort(first)

	for i := 0; i < 10; i++ {
		shuffled := []ScoredCandidate{base[2], base[0], base[3], base[1]}
		CanonicalSort(shuffled)
		assert.Equal(t, ids(first), ids(shuffled))
	}
}
