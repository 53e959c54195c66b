package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/broker"
	"github.com/x4b1/mqbackup/config"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitIncomplete = 1
	ExitFatal      = 2
)

// incompleteError is returned when the run finished with skipped or failed records.
type incompleteError struct {
	skipped int
	failed  int
	aborted int
}

func (e *incompleteError) Error() string {
	msg := fmt.Sprintf("%d records skipped, %d failed", e.skipped, e.failed)
	if e.aborted > 0 {
		msg += fmt.Sprintf(", %d queues aborted", e.aborted)
	}

	return msg
}

func (e *incompleteError) ExitCode() int { return ExitIncomplete }

// ExitCode returns the process exit code of the Run error.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return ExitFatal
}

// Run executes the command line with the built in brokers.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	return run(ctx, broker.DefaultMux, args, stdin, stdout, stderr)
}

// run loads the env file before the flags read their MQBACKUP_* variables.
func run(ctx context.Context, mux *broker.Mux, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if err := config.LoadEnv(envFile(args)); err != nil {
		return err
	}

	return newApp(mux, stdin, stdout, stderr).RunContext(ctx, args)
}

// envFile returns the --env-file argument, the default one if not given.
func envFile(args []string) string {
	path := defaultEnvFile
	for i := 1; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		for _, prefix := range []string{"--env-file", "-env-file"} {
			switch {
			case arg == prefix && i+1 < len(args):
				path = args[i+1]
			case strings.HasPrefix(arg, prefix+"="):
				path = strings.TrimPrefix(arg, prefix+"=")
			}
		}
	}

	return path
}

func newApp(mux *broker.Mux, stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "mqbackup",
		Usage:     "Back up message broker queues into a record file and replay them",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			drainCommand(mux),
			replayCommand(mux),
			inspectCommand(),
		},
		// exit codes are resolved by main.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
	}
	os.Exit(ExitCode(err))
}

func runError(rep *mqbackup.Report, err error) error {
	if err != nil {
		return err
	}
	if !rep.Success() {
		aborted := 0
		for _, q := range rep.Queues() {
			if q.Err != nil {
				aborted++
			}
		}
		return &incompleteError{skipped: rep.Skipped(), failed: rep.Failed(), aborted: aborted}
	}

	return nil
}
