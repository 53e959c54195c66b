package broker

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/x4b1/mqbackup"
)

// Opener connects to a broker.
type Opener func(ctx context.Context, cfg Config, logger *zap.Logger) (mqbackup.Broker, error)

// DefaultMux opens every supported driver.
var DefaultMux = NewMux() //nolint:gochecknoglobals // registry of the built in drivers

func init() {
	registerDrivers(DefaultMux)
}

// NewMux returns an empty Mux.
func NewMux() *Mux {
	return &Mux{openers: map[string]Opener{}}
}

// Mux routes the connection to the opener registered for the config driver.
type Mux struct {
	mu      sync.RWMutex
	openers map[string]Opener
}

// Register sets the opener of the driver, replacing the previous one.
func (m *Mux) Register(driver string, o Opener) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.openers[driver] = o
}

// Drivers returns the registered drivers sorted.
func (m *Mux) Drivers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.openers))
}

// Open connects to the broker and checks the connection when the broker is a Pinger.
// An unknown driver returns a mqbackup.ConfigurationError, a failing connection a
// mqbackup.ConnectionError.
func (m *Mux) Open(ctx context.Context, cfg Config, logger *zap.Logger) (mqbackup.Broker, error) {
	m.mu.RLock()
	o, ok := m.openers[cfg.Driver]
	m.mu.RUnlock()
	if !ok {
		return nil, &mqbackup.ConfigurationError{Err: fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	b, err := o(ctx, cfg, logger)
	if err != nil {
		return nil, &mqbackup.ConnectionError{Driver: cfg.Driver, Addr: cfg.Addr(), Err: err}
	}

	if p, ok := b.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			_ = b.Close()
			return nil, &mqbackup.ConnectionError{Driver: cfg.Driver, Addr: cfg.Addr(), Err: err}
		}
	}

	logger.Info("broker connected", zap.String("driver", cfg.Driver), zap.String("addr", cfg.Addr()))

	return b, nil
}
