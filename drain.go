package mqbackup

import (
	"context"
	"errors"
	"fmt"

	"github.com/x4b1/mqbackup/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RecordWriter is the interface that wraps the append only record output.
type RecordWriter interface {
	// Append persists the record, it returns once the record is durable.
	Append(ctx context.Context, r Record) error
}

// NewDrainer returns a `Drainer` instance with defaults.
//   - Workers: 1, queues are drained one after the other.
//   - No limit of messages per queue.
//   - Default zap error logger.
func NewDrainer(b Broker, w RecordWriter, opts ...DrainerOption) *Drainer {
	d := Drainer{
		broker:     b,
		writer:     w,
		workers:    1,
		errHandler: log.NewDefault(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt.applyDrainer(&d)
	}

	return &d
}

// Drainer moves the messages of a set of queues from a broker into a record output.
type Drainer struct {
	broker Broker
	writer RecordWriter

	runID       string
	workers     int
	maxPerQueue int

	errHandler ErrorHandler
	logger     *zap.Logger
}

// Drain fetches every available message of the given queues, appends one record per
// message and acknowledges the message once the record is durable.
// A broker failure aborts only the affected queue, it is reported in the queue report.
// The returned error is not nil when the run could not complete: invalid queues,
// record output failure or context cancellation.
func (d *Drainer) Drain(ctx context.Context, queues []string) (*Report, error) {
	rep := NewReport(OperationDrain, d.runID)
	defer rep.finish()

	queues, err := uniqueQueues(queues)
	if err != nil {
		return rep, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for _, q := range queues {
		rep.track(q)
		g.Go(func() error {
			err := d.drainQueue(gctx, q, rep)
			switch {
			case err == nil:
				return nil
			case IsFatal(err), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				rep.abort(q, err)
				return err
			default:
				rep.abort(q, err)
				d.errHandler.Error(gctx, err)
				return nil
			}
		})
	}

	if err := g.Wait(); err != nil {
		return rep, err
	}

	return rep, ctx.Err()
}

func (d *Drainer) drainQueue(ctx context.Context, queue string, rep *Report) error {
	d.logger.Info("draining queue", zap.String("queue", queue))

	drained := 0
	for d.maxPerQueue <= 0 || drained < d.maxPerQueue {
		if err := ctx.Err(); err != nil {
			return err
		}

		dlv, err := d.broker.Fetch(ctx, queue)
		if err != nil {
			var decodeErr *DecodeError
			switch {
			case errors.Is(err, ErrQueueEmpty):
				d.logger.Info("queue drained", zap.String("queue", queue), zap.Int("messages", drained))
				return nil
			case ctx.Err() != nil:
				// in flight fetch is abandoned, the message stays in the broker.
				return ctx.Err()
			case errors.As(err, &decodeErr):
				rep.skipped(queue)
				d.errHandler.Error(ctx, err)
				continue
			default:
				return fmt.Errorf("draining %s: %w", queue, err)
			}
		}

		rec := dlv.Record()
		if rec.Properties, err = rec.Properties.Normalize(); err != nil {
			// left in the broker, like any other undecodable message.
			rep.skipped(queue)
			d.errHandler.Error(ctx, &DecodeError{Queue: queue, ID: dlv.ID, Err: err})
			continue
		}

		// once fetched the record is written and acknowledged even if the run is cancelled.
		wctx := context.WithoutCancel(ctx)
		if err := d.writer.Append(wctx, rec); err != nil {
			return &fatalError{fmt.Errorf("writing record from %s: %w", queue, err)}
		}

		if err := d.broker.Ack(wctx, dlv); err != nil {
			rep.failed(queue)
			d.errHandler.Error(ctx, &AckError{Queue: queue, Err: err})
			continue
		}

		rep.processed(queue, len(dlv.Body))
		drained++
	}

	d.logger.Info("queue limit reached", zap.String("queue", queue), zap.Int("messages", drained))

	return nil
}

func uniqueQueues(queues []string) ([]string, error) {
	if len(queues) == 0 {
		return nil, &ConfigurationError{Err: errors.New("no queues to drain")}
	}

	seen := make(map[string]struct{}, len(queues))
	out := make([]string, 0, len(queues))
	for _, q := range queues {
		if err := ValidateQueueName(q); err != nil {
			return nil, &ConfigurationError{Queue: q, Err: err}
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}

	return out, nil
}
