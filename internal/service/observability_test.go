package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver_WritesFailures(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "assignment.assign",
		Duration: 12 * time.Millisecond,
		Err:      app.Conflict("AssignTask", "lost the race"),
		Fields:   map[string]any{"task_id": "t-1"},
	})

	out := buf.String()
	assert.Contains(t, out, "use_case=assignment.assign")
	assert.Contains(t, out, "error_code=CONFLICT")
	assert.Contains(t, out, "task_id=t-1")
	assert.Contains(t, out, "duration_ms=12")
}

func TestLogUseCaseObserver_SuccessIsDebug(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "project.create", Success: true})
	assert.Empty(t, buf.String(), "info-level logger drops successful use cases")
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))

	a, b := &recordingObserver{}, &recordingObserver{}
	assert.Same(t, a, useCaseObserverOrNoop([]UseCaseObserver{nil, a}))

	multi := useCaseObserverOrNoop([]UseCaseObserver{a, b})
	multi.ObserveUseCase(context.Background(), UseCaseEvent{Name: "x", Err: errors.New("boom")})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}
