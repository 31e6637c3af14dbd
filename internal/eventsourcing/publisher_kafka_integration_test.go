//go:build integration

package eventsourcing

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/impierce/ssi-agent-sub000/internal/platform/kafka"
	"github.com/impierce/ssi-agent-sub000/internal/platform/kafka/producer"
	"github.com/impierce/ssi-agent-sub000/pkg/testutil/containers"
)

func Test_EventPublisher_FansOutEnvelopes(t *testing.T) {
	ctx := context.Background()
	rp := containers.NewRedpandaContainer(t)

	const topic = "ssi-agent.events.test"
	require.NoError(t, kafka.EnsureTopic(ctx, rp.Brokers, topic, 1))

	prod, err := producer.New(producer.Config{Brokers: rp.Brokers}, slog.Default())
	require.NoError(t, err)
	defer prod.Close()

	publisher := NewEventPublisher(prod, topic)
	envelopes := []Envelope{
		testEnvelope(t, "agg-1", 1),
		testEnvelope(t, "agg-1", 2),
	}
	require.NoError(t, publisher.Project(ctx, "agg-1", envelopes))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Brokers),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	deadline, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var records []*kgo.Record
	for len(records) < 2 {
		fetches := consumer.PollFetches(deadline)
		require.NoError(t, fetches.Err())
		records = append(records, fetches.Records()...)
	}

	require.Len(t, records, 2)
	for i, record := range records {
		assert.Equal(t, []byte("agg-1"), record.Key)

		var env Envelope
		require.NoError(t, json.Unmarshal(record.Value, &env))
		assert.Equal(t, i+1, env.Sequence)
		assert.Equal(t, "counter", env.AggregateType)

		headers := map[string]string{}
		for _, h := range record.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "counter", headers["aggregate_type"])
		assert.Equal(t, "Incremented", headers["event_type"])
	}
}
