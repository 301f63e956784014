//go:build integration

package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"veritrust/internal/platform/config"
	"veritrust/internal/platform/kafka"
	"veritrust/pkg/testutil/containers"
)

type ProducerSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestProducerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerSuite))
}

func (s *ProducerSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
}

func (s *ProducerSuite) TestPublishRoundTrip() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.Kafka{Brokers: s.redpanda.Brokers, LedgerTopic: "ledger-roundtrip", ClientID: "veritrust-test"}
	producer, err := kafka.NewProducer(cfg)
	s.Require().NoError(err)
	defer producer.Close()

	s.Require().NoError(producer.EnsureTopic(ctx, 1, 1))
	s.Require().NoError(producer.EnsureTopic(ctx, 1, 1), "existing topic is not an error")
	s.Require().NoError(producer.Publish(ctx, []byte("u1"), []byte(`{"kind":"face"}`)))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(cfg.LedgerTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().NoError(fetches.Err())
	records := fetches.Records()
	s.Require().NotEmpty(records)
	s.Equal("u1", string(records[0].Key))
	s.JSONEq(`{"kind":"face"}`, string(records[0].Value))
}

func (s *ProducerSuite) TestNewProducerRequiresBrokers() {
	_, err := kafka.NewProducer(config.Kafka{})
	s.Error(err)
}
