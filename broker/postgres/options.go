package postgres

import "time"

// Option is a function to set options to Broker.
type Option func(*Broker)

// WithSchema setups schema name, by default the connection current schema.
func WithSchema(s string) Option {
	return func(b *Broker) {
		b.schema = s
	}
}

// WithTablePrefix setups the prefix of the broker tables.
func WithTablePrefix(p string) Option {
	return func(b *Broker) {
		b.prefix = p
	}
}

// WithVisibilityTimeout setups how long a fetched message stays hidden before it can be
// fetched again if it is not acknowledged.
func WithVisibilityTimeout(d time.Duration) Option {
	return func(b *Broker) {
		b.visibility = d
	}
}
