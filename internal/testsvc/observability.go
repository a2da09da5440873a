package testsvc

import (
	"fmt"
	"io"
	"time"
)

// CallEvent records metadata about a single Test Service call.
type CallEvent struct {
	CorrelationID string
	Operation     string
	LatencyMs     int64
	Success       bool
	StatusCode    int
}

// Observer receives events about remote calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to an io.Writer.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	status := "ok"
	if !event.Success {
		status = fmt.Sprintf("err:%d", event.StatusCode)
	}
	fmt.Fprintf(o.w, "[%s] api_call id=%s op=%s latency_ms=%d status=%s\n",
		ts, event.CorrelationID, event.Operation, event.LatencyMs, status)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
