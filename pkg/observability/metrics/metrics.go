package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
)

var (
	recordsMapped       atomic.Int64
	recordsPublished    atomic.Int64
	recordsFailed       atomic.Int64
	recordsForwarded    atomic.Int64
	recordsDeadLettered atomic.Int64
)

type Snapshot struct {
	Mapped       int64 `json:"mapped"`
	Published    int64 `json:"published"`
	Failed       int64 `json:"failed"`
	Forwarded    int64 `json:"forwarded"`
	DeadLettered int64 `json:"dead_lettered"`
}

func IncMapped()       { recordsMapped.Add(1) }
func IncPublished()    { recordsPublished.Add(1) }
func IncFailed()       { recordsFailed.Add(1) }
func IncForwarded()    { recordsForwarded.Add(1) }
func IncDeadLettered() { recordsDeadLettered.Add(1) }

func Current() Snapshot {
	return Snapshot{
		Mapped:       recordsMapped.Load(),
		Published:    recordsPublished.Load(),
		Failed:       recordsFailed.Load(),
		Forwarded:    recordsForwarded.Load(),
		DeadLettered: recordsDeadLettered.Load(),
	}
}

func Reset() {
	recordsMapped.Store(0)
	recordsPublished.Store(0)
	recordsFailed.Store(0)
	recordsForwarded.Store(0)
	recordsDeadLettered.Store(0)
}

func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	WritePrometheus(w)
}

func WritePrometheus(w io.Writer) {
	s := Current()
	writeCounter(w, "requestmapping_records_mapped_total", "Number of intake records mapped.", s.Mapped)
	writeCounter(w, "requestmapping_records_published_total", "Number of appointment requests published.", s.Published)
	writeCounter(w, "requestmapping_records_failed_total", "Number of mappings that failed to persist or publish.", s.Failed)
	writeCounter(w, "requestmapping_records_forwarded_total", "Number of appointment requests forwarded to the backend.", s.Forwarded)
	writeCounter(w, "requestmapping_records_dead_lettered_total", "Number of appointment requests sent to the DLQ.", s.DeadLettered)
}

func writeCounter(w io.Writer, name, help string, value int64) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s counter\n", name)
	fmt.Fprintf(w, "%s %d\n", name, value)
}
