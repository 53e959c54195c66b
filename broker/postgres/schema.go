package postgres

import (
	"context"
	"fmt"

	"github.com/x4b1/mqbackup"
)

const (
	queuesTable    = "queues"
	durableTable   = "messages"
	transientTable = "messages_transient"
)

func (b *Broker) table(name string) string {
	return fmt.Sprintf("%q.%q", b.schema, b.prefix+name)
}

func (b *Broker) messagesTable(opts mqbackup.QueueOptions) string {
	if opts.Durable {
		return b.table(durableTable)
	}

	return b.table(transientTable)
}

// ensureTables creates if not exists the broker tables.
func (b *Broker) ensureTables(ctx context.Context) error {
	for _, t := range []struct {
		name string
		ddl  string
	}{
		{
			name: queuesTable,
			ddl: `CREATE TABLE IF NOT EXISTS %s (
				name TEXT PRIMARY KEY,
				durable BOOLEAN NOT NULL,
				auto_delete BOOLEAN NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		},
		{name: durableTable, ddl: `CREATE TABLE IF NOT EXISTS %s` + messagesColumns},
		{name: transientTable, ddl: `CREATE UNLOGGED TABLE IF NOT EXISTS %s` + messagesColumns},
	} {
		// Check if table already exists, we cannot use `CREATE TABLE IF NOT EXISTS`,
		// maybe the user does not have permissions to CREATE and it will fail
		exists, err := b.tableExists(ctx, b.prefix+t.name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		if err := b.db.Exec(ctx, fmt.Sprintf(t.ddl, b.table(t.name))); err != nil {
			return fmt.Errorf("creating table %s: %w", t.name, err)
		}
		if t.name == queuesTable {
			continue
		}
		if err := b.db.Exec(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %s (queue, seq)`,
			b.prefix+t.name+"_queue_seq", b.table(t.name))); err != nil {
			return fmt.Errorf("creating index on %s: %w", t.name, err)
		}
	}

	return nil
}

const messagesColumns = ` (
	seq BIGSERIAL PRIMARY KEY,
	queue TEXT NOT NULL,
	id UUID NOT NULL,
	properties JSONB NOT NULL,
	body BYTEA NOT NULL,
	locked_until TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func (b *Broker) tableExists(ctx context.Context, table string) (bool, error) {
	row := b.db.QueryRow(
		ctx,
		`SELECT COUNT(1) FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2 LIMIT 1`,
		b.schema,
		table,
	)

	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("ensuring table %s exists: %w", table, err)
	}

	return count == 1, nil
}

// currentSchema returns the connection schema is using.
func currentSchema(ctx context.Context, db Instance) (string, error) {
	var schemaName string
	if err := db.QueryRow(ctx, `SELECT CURRENT_SCHEMA()`).Scan(&schemaName); err != nil {
		return "", fmt.Errorf("getting current schema: %w", err)
	}

	return schemaName, nil
}
