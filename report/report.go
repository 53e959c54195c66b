// Package report renders the result of drain and replay runs.
package report

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/x4b1/mqbackup"
)

var (
	_ mqbackup.Reporter = (*Summary)(nil)
	_ mqbackup.Reporter = (*Log)(nil)
	_ mqbackup.Reporter = Noop{}
	_ mqbackup.Reporter = Multi{}
)

// NewSummary returns a reporter printing a table per queue to w.
func NewSummary(w io.Writer) *Summary {
	return &Summary{w: w}
}

// Summary prints the report as a table.
type Summary struct {
	w io.Writer
}

// Report implements mqbackup.Reporter.
func (s *Summary) Report(_ context.Context, r *mqbackup.Report) {
	_ = Write(s.w, r)
}

// Write renders the report as a table per queue followed by the totals.
func Write(w io.Writer, r *mqbackup.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s run %s took %s\n", r.Operation, r.RunID, r.Duration().Round(1e6))
	fmt.Fprintln(tw, "QUEUE\tPROCESSED\tSKIPPED\tFAILED\tBYTES\tERROR")
	for _, q := range r.Queues() {
		errMsg := ""
		if q.Err != nil {
			errMsg = q.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n", q.Queue, q.Processed, q.Skipped, q.Failed, q.Bytes, errMsg)
	}
	if r.Malformed > 0 {
		fmt.Fprintf(tw, "(malformed)\t0\t%d\t0\t0\t\n", r.Malformed)
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%d\t%d\t\n", r.Processed(), r.Skipped(), r.Failed(), totalBytes(r))
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := r.RunErr(); err != nil {
		_, werr := fmt.Fprintf(w, "run failed: %s\n", err)
		return werr
	}

	return nil
}

// NewLog returns a reporter logging the report through the logger.
func NewLog(l *zap.Logger) *Log {
	return &Log{l: l}
}

// Log logs one entry per queue and one with the totals.
type Log struct {
	l *zap.Logger
}

// Report implements mqbackup.Reporter.
func (l *Log) Report(_ context.Context, r *mqbackup.Report) {
	for _, q := range r.Queues() {
		fields := []zap.Field{
			zap.String("run_id", r.RunID),
			zap.String("operation", r.Operation),
			zap.String("queue", q.Queue),
			zap.Int("processed", q.Processed),
			zap.Int("skipped", q.Skipped),
			zap.Int("failed", q.Failed),
			zap.Int64("bytes", q.Bytes),
		}
		if q.Err != nil {
			l.l.Error("queue aborted", append(fields, zap.Error(q.Err))...)
			continue
		}
		l.l.Info("queue report", fields...)
	}

	l.l.Info("run report",
		zap.String("run_id", r.RunID),
		zap.String("operation", r.Operation),
		zap.Int("processed", r.Processed()),
		zap.Int("skipped", r.Skipped()),
		zap.Int("failed", r.Failed()),
		zap.Int("malformed", r.Malformed),
		zap.Duration("duration", r.Duration()),
		zap.Bool("success", r.Success()),
	)
}

// Noop is a reporter that does nothing.
type Noop struct{}

// Report implements mqbackup.Reporter.
func (Noop) Report(context.Context, *mqbackup.Report) {}

// Multi reports to every reporter in order.
type Multi []mqbackup.Reporter

// Report implements mqbackup.Reporter.
func (m Multi) Report(ctx context.Context, r *mqbackup.Report) {
	for _, rep := range m {
		rep.Report(ctx, r)
	}
}

func totalBytes(r *mqbackup.Report) int64 {
	var total int64
	for _, q := range r.Queues() {
		total += q.Bytes
	}

	return total
}
