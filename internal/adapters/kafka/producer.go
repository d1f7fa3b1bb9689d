package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"marketlens/internal/metrics"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

// MessageWriter is the part of kafka.Writer the producer uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer handles Kafka message publishing
type Producer struct {
	mu        sync.Mutex
	writers   map[string]MessageWriter
	newWriter func(topic string) MessageWriter
	log       *logger.Logger
}

// ProducerConfig holds producer configuration
type ProducerConfig struct {
	Brokers      []string
	BatchTimeout time.Duration
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg ProducerConfig) *Producer {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 50 * time.Millisecond
	}

	return NewProducerWithWriters(func(topic string) MessageWriter {
		return &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{}, // same symbol, same partition
			BatchTimeout:           batchTimeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		}
	})
}

// NewProducerWithWriters creates a producer whose per-topic writers come from factory
func NewProducerWithWriters(factory func(topic string) MessageWriter) *Producer {
	return &Producer{
		writers:   make(map[string]MessageWriter),
		newWriter: factory,
		log:       logger.Get().With("component", "kafka_producer"),
	}
}

// getWriter returns or creates a writer for a topic
func (p *Producer) getWriter(topic string) MessageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := p.newWriter(topic)
	p.writers[topic] = w
	return w
}

// Message is one event to publish
type Message struct {
	Key     string
	Value   interface{}
	Headers map[string]string
}

// Publish sends a JSON-encoded event to a topic
func (p *Producer) Publish(ctx context.Context, topic string, key string, event interface{}) error {
	return p.PublishBatch(ctx, topic, []Message{{Key: key, Value: event}})
}

// PublishBatch sends several JSON-encoded events to a topic in one write
func (p *Producer) PublishBatch(ctx context.Context, topic string, messages []Message) error {
	if len(messages) == 0 {
		return nil
	}

	encoded := make([]kafka.Message, 0, len(messages))
	for _, m := range messages {
		data, err := json.Marshal(m.Value)
		if err != nil {
			return errors.Wrapf(err, "encode message %s", m.Key)
		}
		msg := kafka.Message{Key: []byte(m.Key), Value: data}
		for k, v := range m.Headers {
			msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
		}
		encoded = append(encoded, msg)
	}

	err := p.getWriter(topic).WriteMessages(ctx, encoded...)
	for range encoded {
		metrics.RecordKafkaMessage(topic, err)
	}
	if err != nil {
		p.log.Errorw("Failed to publish", "topic", topic, "messages", len(encoded), "error", err)
		return errors.Wrapf(err, "publish %d messages to %s", len(encoded), topic)
	}

	p.log.Debugw("Published", "topic", topic, "messages", len(encoded))
	return nil
}

// Close closes all writers
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs errors.MultiError
	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			p.log.Errorw("Failed to close writer", "topic", topic, "error", err)
			errs.Add(err)
		}
	}
	return errs.ToError()
}
