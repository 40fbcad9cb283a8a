package events

import "time"

// ProducerConfig configures the Kafka producer
type ProducerConfig struct {
	Brokers []string

	// Topic receives every listing lifecycle event.
	Topic string

	BatchSize    int
	BatchTimeout time.Duration

	// RequiredAcks: 0 = no acks, 1 = leader only, -1 = all replicas
	RequiredAcks int

	Async       bool
	MaxAttempts int

	WriteTimeout time.Duration

	// Compression is one of none, gzip, snappy, lz4, zstd.
	Compression string
}

func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		Brokers:      []string{"localhost:9092"},
		Topic:        "listing-events",
		BatchSize:    100,
		BatchTimeout: 100 * time.Millisecond,
		RequiredAcks: 1,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		Compression:  "snappy",
	}
}
