package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/broker/sqs"
	"github.com/x4b1/mqbackup/codec"
	"github.com/x4b1/mqbackup/internal/testhelpers"
	"github.com/x4b1/mqbackup/recordfile"
	"github.com/x4b1/mqbackup/report"
)

const (
	sourceQueue = "orders"
	targetQueue = "orders-restored"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsContainer, err := testhelpers.CreateLocalStackContainer(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = awsContainer.Terminate(context.Background()) }()

	b := sqs.New(awssqs.NewFromConfig(awsContainer.Config), sqs.WithMaxWaitSeconds(1))
	defer b.Close()

	if err := b.Declare(ctx, sourceQueue, mqbackup.DefaultQueueOptions()); err != nil {
		return err
	}
	for i := range 5 {
		body := fmt.Appendf(nil, `{"order":%d}`, i)
		if err := b.Publish(ctx, sourceQueue, body, mqbackup.Properties{"trace_id": fmt.Sprintf("trace-%d", i)}); err != nil {
			return fmt.Errorf("publishing: %w", err)
		}
	}

	dir, err := os.MkdirTemp("", "mqbackup-example-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "orders.jsonl.zst")

	logger, _ := zap.NewDevelopment()

	w, err := recordfile.Create(path)
	if err != nil {
		return err
	}
	if err := w.WriteHeader(ctx, codec.NewHeader("example", "sqs", []string{sourceQueue})); err != nil {
		return err
	}
	rep, err := mqbackup.NewDrainer(b, w, mqbackup.WithLogger(logger)).Drain(ctx, []string{sourceQueue})
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("draining: %w", err)
	}
	if err := report.Write(os.Stdout, rep); err != nil {
		return err
	}

	rd, err := recordfile.Open(path)
	if err != nil {
		return err
	}
	defer rd.Close()

	rep, err = mqbackup.NewReplayer(b,
		mqbackup.WithQueueMapping(map[string]string{sourceQueue: targetQueue}),
		mqbackup.WithLogger(logger),
	).Replay(ctx, rd)
	if err != nil {
		return fmt.Errorf("replaying: %w", err)
	}

	return report.Write(os.Stdout, rep)
}
