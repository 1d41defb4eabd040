package kafka

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/IBM/sarama"

	"policyminer/types"
)

// Producer publishes extraction records to a Kafka topic for downstream
// consumers. Publishing is best-effort; a failed publish never fails a run.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers []string
	Topic   string
}

// NewProducer creates a new Kafka producer
func NewProducer(config ProducerConfig) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true

	client, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &Producer{producer: client, topic: config.Topic}, nil
}

// PublishRecord sends one extraction record, keyed by its message ID so all
// records of a message land on the same partition.
func (p *Producer) PublishRecord(rec types.ExtractionRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(rec.MessageID),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("failed to publish record: %w", err)
	}

	log.Printf("Published record for message %s (partition=%d, offset=%d)", rec.MessageID, partition, offset)
	return nil
}

// Close gracefully shuts down the producer
func (p *Producer) Close() error {
	return p.producer.Close()
}
