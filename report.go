package mqbackup

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Operations reported.
const (
	OperationDrain  = "drain"
	OperationReplay = "replay"
)

// Reporter receives the report once a run has finished.
type Reporter interface {
	Report(ctx context.Context, r *Report)
}

// QueueReport holds the counters of a single queue.
type QueueReport struct {
	Queue string `json:"queue"`
	// Processed messages: drained and acknowledged, or replayed.
	Processed int `json:"processed"`
	// Skipped messages that could not be decoded.
	Skipped int `json:"skipped"`
	// Failed messages that could not be acknowledged or published.
	Failed int `json:"failed"`
	// Bytes of processed bodies.
	Bytes int64 `json:"bytes"`
	// Err is the error that aborted the queue, if any.
	Err error `json:"-"`
}

// Report defines the result of a drain or replay run.
type Report struct {
	RunID     string
	Operation string
	StartTime time.Time
	EndTime   time.Time
	// Malformed counts record file lines that could not be attributed to any queue.
	Malformed int

	mu     sync.Mutex
	queues map[string]*QueueReport
	order  []string
	runErr error
}

// NewReport returns an empty report of the operation, with a new run id when empty.
func NewReport(op, runID string) *Report {
	if runID == "" {
		runID = uuid.NewString()
	}

	return &Report{
		RunID:     runID,
		Operation: op,
		StartTime: time.Now(),
		queues:    make(map[string]*QueueReport),
	}
}

// queue returns the report of the given queue, must be called with the lock held.
func (r *Report) queue(name string) *QueueReport {
	q, ok := r.queues[name]
	if !ok {
		q = &QueueReport{Queue: name}
		r.queues[name] = q
		r.order = append(r.order, name)
	}

	return q
}

func (r *Report) track(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queue(name)
}

func (r *Report) processed(name string, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := r.queue(name)
	q.Processed++
	q.Bytes += int64(size)
}

func (r *Report) skipped(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		r.Malformed++
		return
	}
	r.queue(name).Skipped++
}

func (r *Report) failed(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queue(name).Failed++
}

func (r *Report) abort(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queue(name).Err = err
}

// Fail records the error that stopped the whole run.
func (r *Report) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runErr = err
	if r.EndTime.IsZero() {
		r.EndTime = time.Now()
	}
}

// RunErr returns the error recorded with Fail.
func (r *Report) RunErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.runErr
}

func (r *Report) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.EndTime = time.Now()
}

// Queues returns a copy of the per queue reports in the order they were first seen.
func (r *Report) Queues() []QueueReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]QueueReport, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.queues[name])
	}

	return out
}

// Queue returns the report of the given queue.
func (r *Report) Queue(name string) (QueueReport, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.queues[name]
	if !ok {
		return QueueReport{Queue: name}, false
	}

	return *q, true
}

// Processed returns the total processed messages.
func (r *Report) Processed() int {
	return r.sum(func(q *QueueReport) int { return q.Processed })
}

// Skipped returns the total skipped messages, including malformed lines.
func (r *Report) Skipped() int {
	r.mu.Lock()
	malformed := r.Malformed
	r.mu.Unlock()

	return malformed + r.sum(func(q *QueueReport) int { return q.Skipped })
}

// Failed returns the total failed messages.
func (r *Report) Failed() int {
	return r.sum(func(q *QueueReport) int { return q.Failed })
}

// Err returns the error that failed the run and the errors that aborted queues, joined.
func (r *Report) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errs := make([]error, 0, 1)
	if r.runErr != nil {
		errs = append(errs, r.runErr)
	}
	for _, name := range r.order {
		if err := r.queues[name].Err; err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Success returns true when every message was processed, no queue was aborted and the
// run did not fail.
func (r *Report) Success() bool {
	return r.Skipped() == 0 && r.Failed() == 0 && r.Err() == nil
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}

	return r.EndTime.Sub(r.StartTime)
}

func (r *Report) sum(f func(*QueueReport) int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, q := range r.queues {
		total += f(q)
	}

	return total
}

// QueueNames returns the queue names sorted.
func (r *Report) QueueNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := slices.Clone(r.order)
	slices.Sort(names)

	return names
}
