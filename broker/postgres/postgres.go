// Package postgres implements mqbackup.Broker with queues stored in PostgreSQL tables.
// Messages of durable queues are stored in a logged table, messages of non durable
// queues in an UNLOGGED table that is emptied if the server crashes.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/x4b1/mqbackup"
)

// errors.
var (
	ErrMissingSchemaName = errors.New("missing schema name")
	// ErrNoRows must be returned by Instance wrappers when a single row query has no result.
	ErrNoRows = errors.New("no rows in result set")
)

const (
	// DefaultTablePrefix is the prefix used if no other provided.
	DefaultTablePrefix = "mqbackup_"

	defaultVisibility = 30 * time.Second
)

var _ mqbackup.Broker = (*Broker)(nil)

// New returns a postgres broker initialised with the given connection instance and config.
// The broker tables are created if they do not exist.
func New(ctx context.Context, db Instance, opts ...Option) (*Broker, error) {
	if err := db.Ping(ctx); err != nil {
		return nil, err
	}

	b := Broker{
		db:         db,
		prefix:     DefaultTablePrefix,
		visibility: defaultVisibility,
		queues:     make(map[string]mqbackup.QueueOptions),
		autoDelete: make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(&b)
	}

	var err error
	if b.schema == "" {
		if b.schema, err = currentSchema(ctx, db); err != nil {
			return nil, err
		}
		if b.schema == "" {
			return nil, ErrMissingSchemaName
		}
	}

	if err := b.ensureTables(ctx); err != nil {
		return nil, err
	}

	return &b, nil
}

// Broker is the implementation of mqbackup.Broker for postgres.
type Broker struct {
	db Instance

	schema     string
	prefix     string
	visibility time.Duration

	mu         sync.Mutex
	queues     map[string]mqbackup.QueueOptions
	autoDelete map[string]struct{}
}

type handle struct {
	table string
	seq   int64
}

// Declare implements mqbackup.Broker.
func (b *Broker) Declare(ctx context.Context, name string, opts mqbackup.QueueOptions) error {
	if err := b.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (name, durable, auto_delete) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING`,
			b.table(queuesTable)),
		name, opts.Durable, opts.AutoDelete,
	); err != nil {
		return fmt.Errorf("declaring queue %s: %w", name, err)
	}

	current, err := b.queueOptions(ctx, name)
	if err != nil {
		return err
	}
	if current != opts {
		return fmt.Errorf("%s: %w", name, mqbackup.ErrQueueMismatch)
	}

	if opts.AutoDelete {
		b.mu.Lock()
		b.autoDelete[name] = struct{}{}
		b.mu.Unlock()
	}

	return nil
}

// Fetch implements mqbackup.Broker. The oldest visible message is hidden for the
// visibility timeout, if it is not acknowledged meanwhile it is fetched again.
func (b *Broker) Fetch(ctx context.Context, name string) (*mqbackup.Delivery, error) {
	opts, err := b.queueOptions(ctx, name)
	if err != nil {
		return nil, err
	}
	table := b.messagesTable(opts)

	row := b.db.QueryRow(ctx,
		fmt.Sprintf(`UPDATE %[1]s SET locked_until = NOW() + make_interval(secs => $2)
			WHERE seq = (
				SELECT seq FROM %[1]s
				WHERE queue = $1 AND (locked_until IS NULL OR locked_until < NOW())
				ORDER BY seq ASC
				LIMIT 1
				FOR UPDATE SKIP LOCKED
			)
			RETURNING seq, id::text, properties, body`, table),
		name, b.visibility.Seconds(),
	)

	var (
		seq   int64
		id    string
		props []byte
		body  []byte
	)
	if err := row.Scan(&seq, &id, &props, &body); err != nil {
		if isNoRows(err) {
			return nil, mqbackup.ErrQueueEmpty
		}

		return nil, fmt.Errorf("fetching message from %s: %w", name, err)
	}

	d := mqbackup.Delivery{
		Queue:  name,
		ID:     id,
		Body:   body,
		Handle: handle{table: table, seq: seq},
	}
	if d.Body == nil {
		d.Body = []byte{}
	}
	if err := d.Properties.Scan(props); err != nil {
		return nil, &mqbackup.DecodeError{Queue: name, ID: d.ID, Err: err}
	}

	return &d, nil
}

// Ack implements mqbackup.Broker deleting the message.
func (b *Broker) Ack(ctx context.Context, d *mqbackup.Delivery) error {
	h, ok := d.Handle.(handle)
	if !ok {
		return fmt.Errorf("unexpected delivery handle %T", d.Handle)
	}

	if err := b.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE seq = $1`, h.table), h.seq); err != nil {
		return fmt.Errorf("deleting message %s: %w", d.ID, err)
	}

	return nil
}

// Publish implements mqbackup.Broker.
func (b *Broker) Publish(ctx context.Context, name string, body []byte, props mqbackup.Properties) error {
	opts, err := b.queueOptions(ctx, name)
	if err != nil {
		return err
	}

	if props == nil {
		props = mqbackup.Properties{}
	}
	if body == nil {
		body = []byte{}
	}

	if err := b.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (queue, id, properties, body) VALUES ($1, $2, $3, $4)`, b.messagesTable(opts)),
		name, uuid.NewString(), props, body,
	); err != nil {
		return fmt.Errorf("publishing message: %w", err)
	}

	return nil
}

// Close removes the empty auto delete queues declared by this broker.
func (b *Broker) Close() error {
	b.mu.Lock()
	names := make([]string, 0, len(b.autoDelete))
	for name := range b.autoDelete {
		names = append(names, name)
	}
	clear(b.autoDelete)
	b.mu.Unlock()

	ctx := context.Background()
	errs := make([]error, 0)
	for _, name := range names {
		if err := b.db.Exec(ctx,
			fmt.Sprintf(`DELETE FROM %s q WHERE q.name = $1 AND q.auto_delete
				AND NOT EXISTS (SELECT 1 FROM %s m WHERE m.queue = q.name)
				AND NOT EXISTS (SELECT 1 FROM %s m WHERE m.queue = q.name)`,
				b.table(queuesTable), b.table(durableTable), b.table(transientTable)),
			name,
		); err != nil {
			errs = append(errs, fmt.Errorf("deleting queue %s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// Depth returns the number of messages of the queue, visible or not.
func (b *Broker) Depth(ctx context.Context, name string) (int, error) {
	opts, err := b.queueOptions(ctx, name)
	if err != nil {
		return 0, err
	}

	var count int
	if err := b.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE queue = $1`, b.messagesTable(opts)),
		name,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}

	return count, nil
}

// Queues implements mqbackup.QueueLister.
func (b *Broker) Queues(ctx context.Context) ([]string, error) {
	rows, err := b.db.Query(ctx, fmt.Sprintf(`SELECT name FROM %s ORDER BY name`, b.table(queuesTable)))
	if err != nil {
		return nil, fmt.Errorf("listing queues: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning queue: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func (b *Broker) queueOptions(ctx context.Context, name string) (mqbackup.QueueOptions, error) {
	b.mu.Lock()
	opts, ok := b.queues[name]
	b.mu.Unlock()
	if ok {
		return opts, nil
	}

	if err := b.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT durable, auto_delete FROM %s WHERE name = $1`, b.table(queuesTable)),
		name,
	).Scan(&opts.Durable, &opts.AutoDelete); err != nil {
		if isNoRows(err) {
			return opts, fmt.Errorf("%s: %w", name, mqbackup.ErrQueueNotFound)
		}

		return opts, fmt.Errorf("getting queue %s: %w", name, err)
	}

	b.mu.Lock()
	b.queues[name] = opts
	b.mu.Unlock()

	return opts, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, ErrNoRows)
}
