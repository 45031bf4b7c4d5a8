package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	kafka "github.com/vogiaan1904/ticketbottle-parkgate/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

type Producer interface {
	PublishCheckinCompleted(ctx context.Context, event kafka.CheckinCompletedEvent) error
	PublishCheckoutCompleted(ctx context.Context, event kafka.CheckoutCompletedEvent) error
	PublishRealtimeFailed(ctx context.Context, event kafka.RealtimeFailedEvent) error
	Close() error
}

type implProducer struct {
	l    logger.Logger
	prod sarama.SyncProducer
}

func NewProducer(prod sarama.SyncProducer, l logger.Logger) Producer {
	return &implProducer{
		l:    l,
		prod: prod,
	}
}

func (p *implProducer) PublishCheckinCompleted(ctx context.Context, event kafka.CheckinCompletedEvent) error {
	event.Timestamp = time.Now()
	if err := p.send(ctx, kafka.TopicCheckinCompleted, event.GateID, event); err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.PublishCheckinCompleted: %v", err)
		return err
	}
	return nil
}

func (p *implProducer) PublishCheckoutCompleted(ctx context.Context, event kafka.CheckoutCompletedEvent) error {
	event.Timestamp = time.Now()
	if err := p.send(ctx, kafka.TopicCheckoutCompleted, event.GateID, event); err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.PublishCheckoutCompleted: %v", err)
		return err
	}
	return nil
}

func (p *implProducer) PublishRealtimeFailed(ctx context.Context, event kafka.RealtimeFailedEvent) error {
	event.Timestamp = time.Now()
	if err := p.send(ctx, kafka.TopicRealtimeFailed, event.GateID, event); err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.PublishRealtimeFailed: %v", err)
		return err
	}
	return nil
}

// send partitions by gate id so one gate's events stay ordered.
func (p *implProducer) send(ctx context.Context, topic, key string, event any) error {
	val, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(val),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("timestamp"),
				Value: []byte(time.Now().Format(time.RFC3339)),
			},
		},
	}

	partition, offset, err := p.prod.SendMessage(msg)
	if err != nil {
		return err
	}
	p.l.Debugf(ctx, "delivery.kafka.producer.send: %s partition=%d offset=%d", topic, partition, offset)
	return nil
}

func (p *implProducer) Close() error {
	if err := p.prod.Close(); err != nil {
		return err
	}

	return nil
}

type nopProducer struct{}

// NewNopProducer is used when activity publishing is disabled.
func NewNopProducer() Producer {
	return nopProducer{}
}

func (nopProducer) PublishCheckinCompleted(context.Context, kafka.CheckinCompletedEvent) error {
	return nil
}

func (nopProducer) PublishCheckoutCompleted(context.Context, kafka.CheckoutCompletedEvent) error {
	return nil
}

func (nopProducer) PublishRealtimeFailed(context.Context, kafka.RealtimeFailedEvent) error {
	return nil
}

func (nopProducer) Close() error {
	return nil
}
