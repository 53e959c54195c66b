package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/inspect"
	"github.com/x4b1/mqbackup/recordfile"
	"github.com/x4b1/mqbackup/storage"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Summarise a record file without connecting to any broker",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "record file path or s3://bucket/key", EnvVars: env("INPUT")},
			&cli.BoolFlag{Name: "records", Usage: "dump the records"},
			&cli.IntFlag{Name: "limit", Usage: "max records dumped, 0 dumps all of them"},
		},
		Action: func(c *cli.Context) error {
			rt, err := setup(c)
			if err != nil {
				return err
			}

			input := rt.conf.Replay.Input
			if c.IsSet("input") || input == "" {
				input = c.String("input")
			}
			loc, err := storage.Parse(input)
			if err != nil {
				return &mqbackup.ConfigurationError{Err: fmt.Errorf("input: %w", err)}
			}

			store, err := rt.store(c.Context, loc)
			if err != nil {
				return err
			}
			dir, cleanup, err := tempDir()
			if err != nil {
				return err
			}
			defer cleanup()

			path, ok, err := store.Local(c.Context, loc, dir)
			if err != nil {
				return err
			}
			if !ok {
				return &mqbackup.ConfigurationError{Err: fmt.Errorf("input %s does not exist", loc)}
			}

			rd, err := recordfile.Open(path)
			if err != nil {
				return err
			}
			defer rd.Close()

			var opts []inspect.Option
			if c.Bool("records") {
				opts = append(opts, inspect.WithRecords(c.Int("limit")))
			}
			i := inspect.NewInspector(opts...)

			s, err := i.Inspect(loc.String(), rd)
			if err != nil {
				return err
			}

			return i.Render(c.App.Writer, s)
		},
	}
}
