package broker

import (
	"context"
	"crypto/tls"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/broker/kafka"
	"github.com/x4b1/mqbackup/broker/memory"
	"github.com/x4b1/mqbackup/broker/postgres"
	"github.com/x4b1/mqbackup/broker/postgres/pgx"
	"github.com/x4b1/mqbackup/broker/pubsub"
	"github.com/x4b1/mqbackup/broker/sns"
	"github.com/x4b1/mqbackup/broker/sqs"
	"github.com/x4b1/mqbackup/internal/awsconfig"
)

const (
	defaultPostgresPort = 5432
	defaultKafkaPort    = 9092
)

func registerDrivers(m *Mux) {
	m.Register(DriverMemory, openMemory)
	m.Register(DriverSQS, openSQS)
	m.Register(DriverSNS, openSNS)
	m.Register(DriverPostgres, openPostgres)
	m.Register(DriverKafka, openKafka)
	m.Register(DriverPubSub, openPubSub)
}

func openMemory(context.Context, Config, *zap.Logger) (mqbackup.Broker, error) {
	return memory.New(), nil
}

func openSQS(ctx context.Context, cfg Config, _ *zap.Logger) (mqbackup.Broker, error) {
	return sqs.Open(ctx, AWSParams(cfg))
}

func openSNS(ctx context.Context, cfg Config, _ *zap.Logger) (mqbackup.Broker, error) {
	return sns.Open(ctx, AWSParams(cfg))
}

func openPostgres(ctx context.Context, cfg Config, _ *zap.Logger) (mqbackup.Broker, error) {
	var opts []postgres.Option
	if cfg.Schema != "" {
		opts = append(opts, postgres.WithSchema(cfg.Schema))
	}

	return pgx.Open(ctx, PostgresConnString(cfg), opts...)
}

func openKafka(ctx context.Context, cfg Config, logger *zap.Logger) (mqbackup.Broker, error) {
	var opts []kgo.Opt
	if cfg.TLS {
		opts = append(opts, kgo.DialTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}))
	}
	if cfg.User != "" {
		opts = append(opts, kgo.SASL(plain.Auth{User: cfg.User, Pass: cfg.Password}.AsMechanism()))
	}

	return kafka.Open(ctx, kafka.Config{
		Brokers: KafkaSeeds(cfg),
		Group:   cfg.VHost,
		Opts:    opts,
	}, logger)
}

func openPubSub(ctx context.Context, cfg Config, _ *zap.Logger) (mqbackup.Broker, error) {
	var opts []option.ClientOption
	switch {
	case cfg.Host != "":
		// emulator
		opts = append(opts,
			option.WithEndpoint(cfg.Addr()),
			option.WithoutAuthentication(),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	case cfg.Endpoint != "":
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	return pubsub.Open(ctx, cfg.VHost, opts)
}

// AWSParams returns the aws overrides of the config: VHost is the region, User and
// Password the static credentials. Host and Port build the endpoint when Endpoint is empty.
func AWSParams(cfg Config) awsconfig.Params {
	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.Host != "" {
		scheme := "http"
		if cfg.TLS {
			scheme = "https"
		}
		endpoint = scheme + "://" + cfg.Addr()
	}

	return awsconfig.Params{
		Region:    cfg.VHost,
		Endpoint:  endpoint,
		AccessKey: cfg.User,
		SecretKey: cfg.Password,
	}
}

// PostgresConnString returns the Endpoint when set, otherwise builds the connection url.
func PostgresConnString(cfg Config) string {
	if cfg.Endpoint != "" {
		return cfg.Endpoint
	}

	port := cfg.Port
	if port == 0 {
		port = defaultPostgresPort
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:   "/" + cfg.VHost,
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	if !cfg.TLS {
		u.RawQuery = url.Values{"sslmode": []string{"disable"}}.Encode()
	}

	return u.String()
}

// KafkaSeeds returns the seed brokers from the comma separated hosts, the port is added
// to the hosts without one.
func KafkaSeeds(cfg Config) []string {
	port := cfg.Port
	if port == 0 {
		port = defaultKafkaPort
	}

	var seeds []string
	for _, h := range strings.Split(cfg.Host, ",") {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(h); err != nil {
			h = net.JoinHostPort(h, strconv.Itoa(port))
		}
		seeds = append(seeds, h)
	}

	return seeds
}
