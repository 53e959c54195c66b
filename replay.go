package mqbackup

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/x4b1/mqbackup/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultRetries        = 3
	defaultBackoffInitial = 200 * time.Millisecond
	defaultBackoffMax     = 5 * time.Second
	laneBuffer            = 64
)

// RecordReader is the interface that wraps the sequential record input.
type RecordReader interface {
	// Next returns the next record in order, io.EOF when there are no more records.
	// A *DecodeError is returned for unreadable records, the reader can continue after it.
	Next() (Record, error)
}

// NewReplayer returns a `Replayer` instance with defaults.
//   - Retries: 3, exponential backoff from 200ms up to 5s.
//   - Skip and continue on publish failures.
//   - Queues not pre declared are created durable and not auto delete.
//   - Default zap error logger.
func NewReplayer(b Broker, opts ...ReplayerOption) *Replayer {
	r := Replayer{
		broker:         b,
		workers:        1,
		retries:        defaultRetries,
		backoffInitial: defaultBackoffInitial,
		backoffMax:     defaultBackoffMax,
		defaultOpts:    DefaultQueueOptions(),
		mapping:        make(map[string]string),
		errHandler:     log.NewDefault(),
		logger:         zap.NewNop(),
		declared:       make(map[string]QueueOptions),
	}
	for _, opt := range opts {
		opt.applyReplayer(&r)
	}
	if r.rate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(r.rate), 1)
	}

	return &r
}

// Replayer republishes records into a broker, keeping the order of each queue.
type Replayer struct {
	broker Broker

	runID          string
	workers        int
	retries        int
	backoffInitial time.Duration
	backoffMax     time.Duration
	failFast       bool
	rate           float64
	limiter        *rate.Limiter

	mapping      map[string]string
	declarations []QueueDeclaration
	defaultOpts  QueueOptions

	errHandler ErrorHandler
	logger     *zap.Logger

	mu       sync.Mutex
	declared map[string]QueueOptions
	prepared bool
}

// Prepare declares the operator queues in the broker. Conflicting declarations return
// a ConfigurationError. It is called by Replay if it was not called before.
func (r *Replayer) Prepare(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.prepared {
		return nil
	}

	wanted := make(map[string]QueueOptions, len(r.declarations))
	order := make([]string, 0, len(r.declarations))
	for _, decl := range r.declarations {
		if err := ValidateQueueName(decl.Name); err != nil {
			return &ConfigurationError{Queue: decl.Name, Err: err}
		}
		if prev, ok := wanted[decl.Name]; ok {
			if prev != decl.Options {
				return &ConfigurationError{
					Queue: decl.Name,
					Err:   fmt.Errorf("%w: declared as %+v and %+v", ErrQueueMismatch, prev, decl.Options),
				}
			}
			continue
		}
		wanted[decl.Name] = decl.Options
		order = append(order, decl.Name)
	}

	for _, name := range order {
		if err := r.declare(ctx, name, wanted[name]); err != nil {
			return err
		}
	}
	r.prepared = true

	return nil
}

// Replay publishes every record of the reader. Records of the same queue are published
// in reader order, there is no order guarantee between queues.
// Unreadable records are skipped and records failing to publish are counted as failed,
// unless fail fast is enabled, in which case the first failure stops the run.
func (r *Replayer) Replay(ctx context.Context, src RecordReader) (*Report, error) {
	rep := NewReport(OperationReplay, r.runID)
	defer rep.finish()

	if err := r.Prepare(ctx); err != nil {
		return rep, err
	}

	if r.workers <= 1 {
		return rep, r.replaySequential(ctx, src, rep)
	}

	return rep, r.replayLanes(ctx, src, rep)
}

func (r *Replayer) replaySequential(ctx context.Context, src RecordReader, rep *Report) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, ok, err := r.next(ctx, src, rep)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if err := r.replayRecord(ctx, rec, rep); err != nil {
			return err
		}
	}
}

// replayLanes dispatches each record to a lane picked by queue name, so a queue is
// always published by the same goroutine.
func (r *Replayer) replayLanes(ctx context.Context, src RecordReader, rep *Report) error {
	g, gctx := errgroup.WithContext(ctx)

	lanes := make([]chan Record, r.workers)
	for i := range lanes {
		lane := make(chan Record, laneBuffer)
		lanes[i] = lane
		g.Go(func() error {
			for rec := range lane {
				if err := r.replayRecord(gctx, rec, rep); err != nil {
					// keep draining the lane so the dispatcher never blocks.
					for range lane {
					}
					return err
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, lane := range lanes {
				close(lane)
			}
		}()

		for {
			if err := gctx.Err(); err != nil {
				return err
			}

			rec, ok, err := r.next(gctx, src, rep)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			select {
			case lanes[laneFor(rec.Queue, len(lanes))] <- rec:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// next returns the next valid record, skipping unreadable ones.
func (r *Replayer) next(ctx context.Context, src RecordReader, rep *Report) (Record, bool, error) {
	for {
		rec, err := src.Next()
		if err == nil {
			if verr := rec.Validate(); verr != nil {
				err = &DecodeError{Queue: rec.Queue, Err: verr}
			}
		}

		var decodeErr *DecodeError
		switch {
		case err == nil:
			return rec, true, nil
		case errors.Is(err, io.EOF):
			return Record{}, false, nil
		case errors.As(err, &decodeErr):
			if decodeErr.Queue != "" {
				// counted where its readable siblings are published.
				rep.skipped(r.target(decodeErr.Queue))
			} else {
				rep.skipped("")
			}
			r.errHandler.Error(ctx, err)
		default:
			return Record{}, false, &fatalError{fmt.Errorf("reading records: %w", err)}
		}
	}
}

func (r *Replayer) replayRecord(ctx context.Context, rec Record, rep *Report) error {
	queue := r.target(rec.Queue)
	rep.track(queue)

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	attempts := 0
	operation := func() error {
		attempts++
		err := r.ensureQueue(ctx, queue)
		if err == nil {
			err = r.broker.Publish(ctx, queue, rec.Body, rec.Properties)
		}
		if IsFatal(err) || errors.Is(err, ErrInvalidQueueName) || errors.Is(err, ErrUnsupportedProperty) {
			return backoff.Permanent(err)
		}

		return err
	}
	notify := func(err error, next time.Duration) {
		r.logger.Warn("publish failed, retrying",
			zap.String("queue", queue),
			zap.Int("attempt", attempts),
			zap.Duration("backoff", next),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, r.newBackOff(ctx), notify); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if IsFatal(err) {
			return err
		}

		return r.publishFailed(ctx, rep, &PublishError{Queue: queue, Attempts: attempts, Err: err})
	}

	rep.processed(queue, len(rec.Body))

	return nil
}

func (r *Replayer) publishFailed(ctx context.Context, rep *Report, err *PublishError) error {
	rep.failed(err.Queue)
	if r.failFast {
		return &fatalError{err}
	}
	r.errHandler.Error(ctx, err)

	return nil
}

func (r *Replayer) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.backoffInitial
	b.MaxInterval = r.backoffMax
	b.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.retries)), ctx)
}

// target returns the queue name where the record is published.
func (r *Replayer) target(queue string) string {
	if t, ok := r.mapping[queue]; ok && t != "" {
		return t
	}

	return queue
}

// ensureQueue declares the queue on first use with the default options.
func (r *Replayer) ensureQueue(ctx context.Context, queue string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.declared[queue]; ok {
		return nil
	}

	return r.declare(ctx, queue, r.defaultOpts)
}

// declare must be called with the lock held.
func (r *Replayer) declare(ctx context.Context, queue string, opts QueueOptions) error {
	if err := r.broker.Declare(ctx, queue, opts); err != nil {
		if errors.Is(err, ErrQueueMismatch) {
			return &ConfigurationError{Queue: queue, Err: err}
		}

		return fmt.Errorf("declaring %s: %w", queue, err)
	}
	r.declared[queue] = opts
	r.logger.Debug("queue declared",
		zap.String("queue", queue),
		zap.Bool("durable", opts.Durable),
		zap.Bool("auto_delete", opts.AutoDelete),
	)

	return nil
}

func laneFor(queue string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(queue))

	return int(h.Sum32() % uint32(n))
}
