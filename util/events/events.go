package events

import (
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// Publisher sends structured events to the report event topic.
// Implementations are safe for concurrent use.
type Publisher interface {
	Publish(key, value []byte) error
	Close() error
}

// Producer wraps a sarama sync producer bound to one topic.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.Timeout = 10 * time.Second
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		topic:    topic,
	}, nil
}

func (p *Producer) Publish(key, value []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.ByteEncoder(key),
		Value: sarama.ByteEncoder(value),
	}

	_, _, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func (p *Producer) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event. Used
// when no broker is configured so the service can still run locally.
func NewNoopPublisher() Publisher {
	return &noopPublisher{}
}

func (n *noopPublisher) Publish(key, value []byte) error { return nil }
func (n *noopPublisher) Close() error                    { return nil }
