package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Producer publishes domain events, one writer per topic. Handlers treat
// publishing as fire-and-forget: failures are logged, never returned to the
// client.
type Producer struct {
	writers map[string]*kafka.Writer
}

func NewProducer(brokers []string, topics []string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	writers := make(map[string]*kafka.Writer, len(topics))
	for _, topic := range topics {
		writers[topic] = &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		}
	}
	return &Producer{writers: writers}, nil
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	w, ok := p.writers[topic]
	if !ok {
		return fmt.Errorf("kafka: unknown topic %q", topic)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}
	if err := w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %q failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	var errs []error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %q: %w", topic, err))
		}
	}
	return errors.Join(errs...)
}
