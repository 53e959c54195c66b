package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/broker"
	"github.com/x4b1/mqbackup/config"
	"github.com/x4b1/mqbackup/internal/awsconfig"
	"github.com/x4b1/mqbackup/log"
	"github.com/x4b1/mqbackup/metrics/prometheus"
	"github.com/x4b1/mqbackup/report"
	"github.com/x4b1/mqbackup/storage"
)

const (
	envPrefix      = "MQBACKUP_"
	defaultEnvFile = ".env"
)

func env(name string) []string {
	return []string{envPrefix + name}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.PathFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file", EnvVars: env("CONFIG")},
		&cli.PathFlag{Name: "env-file", Value: defaultEnvFile, Usage: "dotenv file loaded before reading the flags, when present"},
		&cli.StringFlag{Name: "log-level", Value: log.LevelInfo, EnvVars: env("LOG_LEVEL")},
		&cli.StringFlag{Name: "log-format", Value: log.FormatJSON, Usage: "json or console", EnvVars: env("LOG_FORMAT")},
		&cli.StringFlag{Name: "pushgateway", Usage: "prometheus pushgateway url", EnvVars: env("PUSHGATEWAY")},
		&cli.StringFlag{Name: "s3-region", EnvVars: env("S3_REGION")},
		&cli.StringFlag{Name: "s3-endpoint", EnvVars: env("S3_ENDPOINT")},
	}
}

func brokerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "driver", Usage: "sqs, sns, postgres, kafka, pubsub or memory", EnvVars: env("DRIVER")},
		&cli.StringFlag{Name: "host", EnvVars: env("HOST")},
		&cli.IntFlag{Name: "port", EnvVars: env("PORT")},
		&cli.StringFlag{Name: "user", EnvVars: env("USER")},
		&cli.StringFlag{Name: "password", EnvVars: env("PASSWORD")},
		&cli.StringFlag{
			Name:    "vhost",
			Usage:   "database for postgres, consumer group for kafka, project for pubsub, region for sqs and sns",
			EnvVars: env("VHOST"),
		},
		&cli.StringFlag{Name: "endpoint", EnvVars: env("ENDPOINT")},
		&cli.StringFlag{Name: "schema", EnvVars: env("SCHEMA")},
		&cli.BoolFlag{Name: "tls", EnvVars: env("TLS")},
		&cli.IntFlag{Name: "workers", Value: 1, Usage: "queues processed at the same time", EnvVars: env("WORKERS")},
	}
}

// runtime is the state shared by the commands.
type runtime struct {
	conf     *config.Config
	logger   *zap.Logger
	reporter mqbackup.Reporter
}

// setup loads the configuration and the logger. Flags take precedence
// over the configuration file.
func setup(c *cli.Context) (*runtime, error) {
	conf := &config.Config{}
	if path := c.Path("config"); path != "" {
		var err error
		if conf, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	level, format := conf.Log.Level, conf.Log.Format
	if level == "" || c.IsSet("log-level") {
		level = c.String("log-level")
	}
	if format == "" || c.IsSet("log-format") {
		format = c.String("log-format")
	}
	logger, err := log.New(level, format)
	if err != nil {
		return nil, &mqbackup.ConfigurationError{Err: err}
	}

	setString(c, "pushgateway", &conf.Pushgateway)
	setString(c, "s3-region", &conf.S3.Region)
	setString(c, "s3-endpoint", &conf.S3.Endpoint)

	reporters := report.Multi{report.NewSummary(c.App.Writer), report.NewLog(logger)}
	if conf.Pushgateway != "" {
		reporters = append(reporters, prometheus.NewReporter(
			prometheus.WithPushgateway(conf.Pushgateway),
			prometheus.WithLogger(logger),
		))
	}

	return &runtime{conf: conf, logger: logger, reporter: reporters}, nil
}

// brokerConfig returns the configuration broker overridden by the flags.
func (rt *runtime) brokerConfig(c *cli.Context) broker.Config {
	cfg := rt.conf.Broker
	setString(c, "driver", &cfg.Driver)
	setString(c, "host", &cfg.Host)
	setString(c, "user", &cfg.User)
	setString(c, "password", &cfg.Password)
	setString(c, "vhost", &cfg.VHost)
	setString(c, "endpoint", &cfg.Endpoint)
	setString(c, "schema", &cfg.Schema)
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("tls") {
		cfg.TLS = c.Bool("tls")
	}

	return cfg
}

// store returns the record file store, S3 is only configured for remote locations.
func (rt *runtime) store(ctx context.Context, loc storage.Location) (*storage.Store, error) {
	if !loc.IsRemote() {
		return storage.New(nil), nil
	}

	s, err := storage.Open(ctx, awsconfig.Params{Region: rt.conf.S3.Region, Endpoint: rt.conf.S3.Endpoint})
	if err != nil {
		return nil, &mqbackup.ConfigurationError{Err: err}
	}

	return s, nil
}

// finish publishes the run report, an empty one when the run stopped before starting,
// and returns the command error.
func (rt *runtime) finish(ctx context.Context, op string, rep *mqbackup.Report, err error) error {
	if rep == nil {
		rep = mqbackup.NewReport(op, "")
	}
	if err != nil {
		rep.Fail(err)
	}
	rt.reporter.Report(context.WithoutCancel(ctx), rep)

	return runError(rep, err)
}

func (rt *runtime) workers(c *cli.Context, configured int) int {
	if configured > 0 && !c.IsSet("workers") {
		return configured
	}

	return c.Int("workers")
}

func setString(c *cli.Context, flag string, dst *string) {
	if c.IsSet(flag) || *dst == "" {
		if v := c.String(flag); v != "" || c.IsSet(flag) {
			*dst = v
		}
	}
}

func tempDir() (string, func(), error) {
	dir, err := os.MkdirTemp("", "mqbackup-")
	if err != nil {
		return "", nil, err
	}

	return dir, func() { _ = os.RemoveAll(dir) }, nil
}
