package mqbackup

import (
	"time"

	"go.uber.org/zap"
)

// DrainerOption defines the optional parameters for Drainer.
type DrainerOption interface {
	applyDrainer(*Drainer)
}

// ReplayerOption defines the optional parameters for Replayer.
type ReplayerOption interface {
	applyReplayer(*Replayer)
}

// WithErrorHandler replaces the default error logger of a Drainer or Replayer.
func WithErrorHandler(h ErrorHandler) ErrorHandlerOption {
	return ErrorHandlerOption{h}
}

// ErrorHandlerOption is an option type for setting the error handler.
type ErrorHandlerOption struct{ h ErrorHandler }

func (o ErrorHandlerOption) applyDrainer(d *Drainer)   { d.errHandler = o.h }
func (o ErrorHandlerOption) applyReplayer(r *Replayer) { r.errHandler = o.h }

// WithLogger sets the logger for progress messages. By default nothing is logged.
func WithLogger(l *zap.Logger) LoggerOption {
	return LoggerOption{l}
}

// LoggerOption is an option type for setting the logger.
type LoggerOption struct{ l *zap.Logger }

func (o LoggerOption) applyDrainer(d *Drainer)   { d.logger = o.l }
func (o LoggerOption) applyReplayer(r *Replayer) { r.logger = o.l }

// WithRunID sets the identifier of the run report, a new uuid by default.
func WithRunID(id string) RunIDOption {
	return RunIDOption(id)
}

// RunIDOption is an option type for setting the run identifier.
type RunIDOption string

func (o RunIDOption) applyDrainer(d *Drainer)   { d.runID = string(o) }
func (o RunIDOption) applyReplayer(r *Replayer) { r.runID = string(o) }

// WithWorkers sets how many queues are processed at the same time.
// Values lower than 1 are ignored.
func WithWorkers(n int) WorkersOption {
	return WorkersOption(n)
}

// WorkersOption is an option type for setting the number of workers.
type WorkersOption int

func (o WorkersOption) applyDrainer(d *Drainer) {
	if o > 0 {
		d.workers = int(o)
	}
}

func (o WorkersOption) applyReplayer(r *Replayer) {
	if o > 0 {
		r.workers = int(o)
	}
}

// WithMaxPerQueue limits the number of messages drained from each queue, 0 means no limit.
func WithMaxPerQueue(n int) MaxPerQueueOption {
	return MaxPerQueueOption(n)
}

// MaxPerQueueOption is an option type for limiting the drained messages per queue.
type MaxPerQueueOption int

func (o MaxPerQueueOption) applyDrainer(d *Drainer) { d.maxPerQueue = int(o) }

// WithRetries sets how many times a failed publish is retried.
func WithRetries(n int) RetriesOption {
	return RetriesOption(n)
}

// RetriesOption is an option type for setting the publish retries.
type RetriesOption int

func (o RetriesOption) applyReplayer(r *Replayer) {
	if o >= 0 {
		r.retries = int(o)
	}
}

// WithBackoff sets the initial and max interval between publish retries.
func WithBackoff(initial, maxInterval time.Duration) BackoffOption {
	return BackoffOption{initial, maxInterval}
}

// BackoffOption is an option type for setting the publish retry intervals.
type BackoffOption struct {
	initial time.Duration
	max     time.Duration
}

func (o BackoffOption) applyReplayer(r *Replayer) {
	r.backoffInitial = o.initial
	r.backoffMax = o.max
}

// WithFailFast stops the replay at the first record that could not be published.
func WithFailFast(ff bool) FailFastOption {
	return FailFastOption(ff)
}

// FailFastOption is an option type for enabling fail fast mode.
type FailFastOption bool

func (o FailFastOption) applyReplayer(r *Replayer) { r.failFast = bool(o) }

// WithRateLimit limits the published messages per second, 0 means no limit.
func WithRateLimit(perSecond float64) RateLimitOption {
	return RateLimitOption(perSecond)
}

// RateLimitOption is an option type for limiting the publish rate.
type RateLimitOption float64

func (o RateLimitOption) applyReplayer(r *Replayer) { r.rate = float64(o) }

// WithQueueMapping renames queues on replay, keys are the drained queue names.
func WithQueueMapping(m map[string]string) QueueMappingOption {
	return QueueMappingOption(m)
}

// QueueMappingOption is an option type for renaming queues.
type QueueMappingOption map[string]string

func (o QueueMappingOption) applyReplayer(r *Replayer) {
	for k, v := range o {
		r.mapping[k] = v
	}
}

// QueueDeclaration is a queue declared by the operator before replaying.
type QueueDeclaration struct {
	Name    string
	Options QueueOptions
}

// WithDeclarations sets the queues declared before any record is replayed.
func WithDeclarations(decls ...QueueDeclaration) DeclarationsOption {
	return DeclarationsOption(decls)
}

// DeclarationsOption is an option type for pre declared queues.
type DeclarationsOption []QueueDeclaration

func (o DeclarationsOption) applyReplayer(r *Replayer) {
	r.declarations = append(r.declarations, o...)
}

// WithDefaultQueueOptions replaces the options used to create queues not pre declared.
func WithDefaultQueueOptions(opts QueueOptions) DefaultQueueOptionsOption {
	return DefaultQueueOptionsOption(opts)
}

// DefaultQueueOptionsOption is an option type for the default queue policy.
type DefaultQueueOptionsOption QueueOptions

func (o DefaultQueueOptionsOption) applyReplayer(r *Replayer) { r.defaultOpts = QueueOptions(o) }
