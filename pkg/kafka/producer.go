package kafka

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

type ProducerConfig struct {
	Brokers      []string
	RetryMax     int
	RequiredAcks int
	ClientID     string
	// DialTimeout bounds broker connection at startup; zero uses 5s.
	DialTimeout time.Duration
}

var ErrNoBrokers = errors.New("no kafka brokers configured")

// NewProducer returns a sync producer that partitions by message key, so
// events of one gate keep their order.
func NewProducer(cfg ProducerConfig) (sarama.SyncProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}

	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.RequiredAcks = sarama.RequiredAcks(cfg.RequiredAcks)
	saramaCfg.Producer.Retry.Max = cfg.RetryMax
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Partitioner = sarama.NewHashPartitioner
	if cfg.ClientID != "" {
		saramaCfg.ClientID = cfg.ClientID
	}

	saramaCfg.Net.DialTimeout = cfg.DialTimeout
	if saramaCfg.Net.DialTimeout <= 0 {
		saramaCfg.Net.DialTimeout = 5 * time.Second
	}

	prod, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Printf("Kafka producer connected to brokers: %v\n", cfg.Brokers)

	return prod, nil
}
