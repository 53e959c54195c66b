package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"cloud.google.com/go/pubsub/v2/pstest"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/x4b1/mqbackup"
	pubsubbroker "github.com/x4b1/mqbackup/broker/pubsub"
	"github.com/x4b1/mqbackup/recordfile"
	"github.com/x4b1/mqbackup/report"
)

const (
	project = "project"
	topic   = "orders"
)

// backup is a record file as written by the drain command.
const backup = `{"header":{"version":1,"run_id":"example","created_at":"2024-01-01T00:00:00Z","source":"sqs","queues":["orders"]}}
{"queue":"orders","body":"eyJvcmRlciI6MX0=","properties":{"trace_id":{"type":"string","value":"a"}}}
{"queue":"orders","body":"eyJvcmRlciI6Mn0=","properties":{"trace_id":{"type":"string","value":"b"}}}
not a record
{"queue":"orders","body":"eyJvcmRlciI6M30=","properties":{"trace_id":{"type":"string","value":"c"}}}
`

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	srv := pstest.NewServer()
	defer srv.Close()

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Could not connect to gRPC server: %s", err)
	}
	defer conn.Close()

	client, err := pubsub.NewClient(ctx, project, option.WithGRPCConn(conn))
	if err != nil {
		log.Fatalf("Could not create client: %s", err)
	}

	b := pubsubbroker.New(client, pubsubbroker.WithDefaultOrderingKey("orders"))
	defer b.Close()

	if err := b.Declare(ctx, topic, mqbackup.DefaultQueueOptions()); err != nil {
		log.Fatalf("Could not create topic: %s", err)
	}
	sub, err := client.SubscriptionAdminClient.CreateSubscription(ctx, &pubsubpb.Subscription{
		Name:                  fmt.Sprintf("projects/%s/subscriptions/%s", project, topic),
		Topic:                 fmt.Sprintf("projects/%s/topics/%s", project, topic),
		EnableMessageOrdering: true,
	})
	if err != nil {
		log.Fatalf("Could not create subscription: %s", err)
	}

	go func() {
		_ = client.Subscriber(sub.GetName()).Receive(ctx, func(_ context.Context, m *pubsub.Message) {
			fmt.Printf("message received %v, %s\n", m.Attributes, m.Data)
			m.Ack()
		})
	}()

	rd, err := recordfile.NewReader(strings.NewReader(backup))
	if err != nil {
		log.Fatal(err)
	}

	rep, err := mqbackup.NewReplayer(b).Replay(ctx, rd)
	if err != nil {
		log.Fatal(err)
	}
	if err := report.Write(os.Stdout, rep); err != nil {
		log.Fatal(err)
	}

	<-ctx.Done()
}
