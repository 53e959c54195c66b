package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/broker"
	"github.com/x4b1/mqbackup/codec"
	"github.com/x4b1/mqbackup/log"
	"github.com/x4b1/mqbackup/recordfile"
	"github.com/x4b1/mqbackup/storage"
)

func drainCommand(mux *broker.Mux) *cli.Command {
	return &cli.Command{
		Name:  "drain",
		Usage: "Move the queue messages into a record file",
		Flags: append(brokerFlags(),
			&cli.StringSliceFlag{Name: "queue", Aliases: []string{"q"}, Usage: "queue to drain, repeatable", EnvVars: env("QUEUES")},
			&cli.BoolFlag{Name: "all-queues", Usage: "drain every queue of the broker"},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "record file path or s3://bucket/key, a .zst suffix compresses it",
				EnvVars: env("OUTPUT"),
			},
			&cli.IntFlag{Name: "max-per-queue", Usage: "stop each queue after n messages, 0 drains everything", EnvVars: env("MAX_PER_QUEUE")},
		),
		Action: func(c *cli.Context) error {
			rt, err := setup(c)
			if err != nil {
				return err
			}
			defer func() { _ = rt.logger.Sync() }()

			rep, err := drain(c, mux, rt)

			return rt.finish(c.Context, mqbackup.OperationDrain, rep, err)
		},
	}
}

func drain(c *cli.Context, mux *broker.Mux, rt *runtime) (*mqbackup.Report, error) {
	ctx := c.Context

	output := rt.conf.Drain.Output
	if c.IsSet("output") || output == "" {
		output = c.String("output")
	}
	loc, err := storage.Parse(output)
	if err != nil {
		return nil, &mqbackup.ConfigurationError{Err: fmt.Errorf("output: %w", err)}
	}
	store, err := rt.store(ctx, loc)
	if err != nil {
		return nil, err
	}

	bcfg := rt.brokerConfig(c)
	b, err := mux.Open(ctx, bcfg, rt.logger)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	queues := rt.conf.Queues
	if c.IsSet("queue") {
		queues = c.StringSlice("queue")
	}
	if c.Bool("all-queues") {
		lister, ok := b.(mqbackup.QueueLister)
		if !ok {
			return nil, &mqbackup.ConfigurationError{Err: fmt.Errorf("%s broker cannot list its queues", bcfg.Driver)}
		}
		if queues, err = lister.Queues(ctx); err != nil {
			return nil, &mqbackup.ConnectionError{Driver: bcfg.Driver, Addr: bcfg.Addr(), Err: err}
		}
		if len(queues) == 0 {
			rt.logger.Info("broker without queues, nothing to drain")
			return mqbackup.NewReport(mqbackup.OperationDrain, ""), nil
		}
	}
	if len(queues) == 0 {
		return nil, &mqbackup.ConfigurationError{Err: errors.New("no queues to drain, use --queue or --all-queues")}
	}

	dir, cleanup, err := tempDir()
	if err != nil {
		return nil, err
	}
	keep := func() { cleanup = func() {} }
	defer func() { cleanup() }()

	// existing backups are appended.
	path, _, err := store.Local(ctx, loc, dir)
	if err != nil {
		return nil, err
	}

	w, err := recordfile.Create(path)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	if err := w.WriteHeader(ctx, codec.NewHeader(runID, bcfg.Driver, queues)); err != nil {
		_ = w.Close()
		return nil, err
	}

	d := mqbackup.NewDrainer(b, w,
		mqbackup.WithRunID(runID),
		mqbackup.WithWorkers(rt.workers(c, rt.conf.Drain.Workers)),
		mqbackup.WithMaxPerQueue(maxPerQueue(c, rt.conf.Drain.MaxPerQueue)),
		mqbackup.WithLogger(rt.logger),
		mqbackup.WithErrorHandler(log.NewErrorHandler(rt.logger)),
	)

	rep, err := d.Drain(ctx, queues)

	if cerr := w.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing record file: %w", cerr)
	}
	// acknowledged records only live in the local file, it is uploaded even if the run failed.
	if uerr := store.Upload(context.WithoutCancel(ctx), path, loc); uerr != nil {
		keep()
		rt.logger.Error("uploading record file, local copy kept", zap.String("path", path), zap.Error(uerr))
		err = errors.Join(err, uerr)
	}

	rt.logger.Info("drain finished", zap.String("output", loc.String()), zap.String("run_id", rep.RunID))

	return rep, err
}

func maxPerQueue(c *cli.Context, configured int) int {
	if c.IsSet("max-per-queue") {
		return c.Int("max-per-queue")
	}

	return configured
}
