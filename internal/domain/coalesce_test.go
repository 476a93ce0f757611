package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoalesceStr(t *testing.T) {
	assert.Equal(t, "b", CoalesceStr("", "b", "c"))
	assert.Empty(t, CoalesceStr("", ""))
}

func TestTimeFromPtrWithDefault(t *testing.T) {
	fallback := time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)
	set := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, fallback, TimeFromPtrWithDefault(fallback))
	assert.Equal(t, fallback, TimeFromPtrWithDefault(fallback, nil))
	assert.Equal(t, set, TimeFromPtrWithDefault(fallback, nil, &set))
	assert.True(t, TimeFromPtrWithDefault(time.Time{}, nil).IsZero())
}
