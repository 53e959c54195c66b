package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/broker"
	"github.com/x4b1/mqbackup/log"
	"github.com/x4b1/mqbackup/recordfile"
	"github.com/x4b1/mqbackup/storage"
)

const defaultBackoff = 200 * time.Millisecond

func replayCommand(mux *broker.Mux) *cli.Command {
	return &cli.Command{
		Name:  "replay",
		Usage: "Publish the records of a record file",
		Flags: append(brokerFlags(),
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "record file path or s3://bucket/key", EnvVars: env("INPUT")},
			&cli.BoolFlag{Name: "fail-fast", Usage: "stop at the first record that cannot be published", EnvVars: env("FAIL_FAST")},
			&cli.IntFlag{Name: "retries", Value: 3, Usage: "publish retries", EnvVars: env("RETRIES")},
			&cli.DurationFlag{Name: "backoff", Value: defaultBackoff, Usage: "initial interval between retries", EnvVars: env("BACKOFF")},
			&cli.Float64Flag{Name: "rate", Usage: "published messages per second, 0 is unlimited", EnvVars: env("RATE")},
			&cli.StringSliceFlag{Name: "map", Usage: "rename a queue, src=dst, repeatable", EnvVars: env("MAP")},
			&cli.BoolFlag{Name: "durable", Value: true, Usage: "create missing queues durable", EnvVars: env("DURABLE")},
			&cli.BoolFlag{Name: "auto-delete", Usage: "create missing queues auto delete", EnvVars: env("AUTO_DELETE")},
		),
		Action: func(c *cli.Context) error {
			rt, err := setup(c)
			if err != nil {
				return err
			}
			defer func() { _ = rt.logger.Sync() }()

			rep, err := replay(c, mux, rt)

			return rt.finish(c.Context, mqbackup.OperationReplay, rep, err)
		},
	}
}

func replay(c *cli.Context, mux *broker.Mux, rt *runtime) (*mqbackup.Report, error) {
	ctx := c.Context
	rc := rt.conf.Replay

	input := rc.Input
	if c.IsSet("input") || input == "" {
		input = c.String("input")
	}
	loc, err := storage.Parse(input)
	if err != nil {
		return nil, &mqbackup.ConfigurationError{Err: fmt.Errorf("input: %w", err)}
	}

	mapping, err := parseMapping(rt.conf.Mapping, c.StringSlice("map"))
	if err != nil {
		return nil, err
	}

	store, err := rt.store(ctx, loc)
	if err != nil {
		return nil, err
	}
	dir, cleanup, err := tempDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	path, ok, err := store.Local(ctx, loc, dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &mqbackup.ConfigurationError{Err: fmt.Errorf("input %s does not exist", loc)}
	}

	rd, err := recordfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	b, err := mux.Open(ctx, rt.brokerConfig(c), rt.logger)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	r := mqbackup.NewReplayer(b, replayOptions(c, rt, mapping)...)

	rep, err := r.Replay(ctx, rd)
	if rep.Malformed > 0 {
		rt.logger.Warn("malformed lines skipped", zap.Int("lines", rep.Malformed))
	}

	rt.logger.Info("replay finished", zap.String("input", loc.String()), zap.String("run_id", rep.RunID))

	return rep, err
}

func replayOptions(c *cli.Context, rt *runtime, mapping map[string]string) []mqbackup.ReplayerOption {
	rc := rt.conf.Replay

	retries := c.Int("retries")
	if rc.Retries != nil && !c.IsSet("retries") {
		retries = *rc.Retries
	}
	backoff := c.Duration("backoff")
	if rc.Backoff > 0 && !c.IsSet("backoff") {
		backoff = rc.Backoff
	}
	rate := c.Float64("rate")
	if rc.Rate > 0 && !c.IsSet("rate") {
		rate = rc.Rate
	}

	defaults := mqbackup.QueueOptions{Durable: c.Bool("durable"), AutoDelete: c.Bool("auto-delete")}
	if !c.IsSet("durable") && rc.Durable != nil {
		defaults.Durable = *rc.Durable
	}
	if !c.IsSet("auto-delete") && rc.AutoDelete {
		defaults.AutoDelete = true
	}

	return []mqbackup.ReplayerOption{
		mqbackup.WithWorkers(rt.workers(c, rc.Workers)),
		mqbackup.WithRetries(retries),
		mqbackup.WithBackoff(backoff, 25*backoff),
		mqbackup.WithRateLimit(rate),
		mqbackup.WithFailFast(c.Bool("fail-fast") || rc.FailFast),
		mqbackup.WithQueueMapping(mapping),
		mqbackup.WithDeclarations(rt.conf.Declarations()...),
		mqbackup.WithDefaultQueueOptions(defaults),
		mqbackup.WithLogger(rt.logger),
		mqbackup.WithErrorHandler(log.NewErrorHandler(rt.logger)),
	}
}

// parseMapping merges the configured mapping with the src=dst flags, flags win.
func parseMapping(configured map[string]string, flags []string) (map[string]string, error) {
	mapping := make(map[string]string, len(configured)+len(flags))
	for k, v := range configured {
		mapping[k] = v
	}

	for _, f := range flags {
		src, dst, ok := strings.Cut(f, "=")
		if !ok || src == "" {
			return nil, &mqbackup.ConfigurationError{Err: fmt.Errorf("invalid queue mapping %q, expected src=dst", f)}
		}
		if err := mqbackup.ValidateQueueName(dst); err != nil {
			return nil, &mqbackup.ConfigurationError{Queue: src, Err: err}
		}
		mapping[src] = dst
	}

	return mapping, nil
}
