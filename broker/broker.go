// Package broker connects to the supported message brokers by driver name.
package broker

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/x4b1/mqbackup"
)

// ErrUnknownDriver is returned when no broker is registered for the driver.
var ErrUnknownDriver = errors.New("unknown broker driver")

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverSQS      = "sqs"
	DriverSNS      = "sns"
	DriverPostgres = "postgres"
	DriverKafka    = "kafka"
	DriverPubSub   = "pubsub"
)

// Config defines the broker connection parameters. VHost means the database for postgres,
// the consumer group for kafka, the project for pubsub and the region for SQS and SNS.
type Config struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
	// Endpoint overrides the service endpoint or connection string.
	Endpoint string `yaml:"endpoint"`
	// Schema is the postgres schema holding the queue tables.
	Schema string `yaml:"schema"`
	TLS    bool   `yaml:"tls"`
}

// Addr returns the broker address used in errors and logs, without credentials.
func (c Config) Addr() string {
	switch {
	case c.Host != "" && c.Port > 0 && !strings.Contains(c.Host, ","):
		return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	case c.Host != "":
		return c.Host
	case c.Endpoint != "" && c.Driver != DriverPostgres:
		return c.Endpoint
	default:
		return c.VHost
	}
}

// Pinger is implemented by brokers able to check the connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Open connects to the broker of the configured driver with the default mux.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (mqbackup.Broker, error) {
	return DefaultMux.Open(ctx, cfg, logger)
}
