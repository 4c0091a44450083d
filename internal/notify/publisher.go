package notify

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/IBM/sarama"

	"poslito/internal/logx"
)

// Publisher emits delivery lifecycle events. Publishing is fire-and-forget:
// implementations log failures and never surface them to the caller.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// KafkaPublisher publishes events to a Kafka topic through an async
// producer. A nil *KafkaPublisher is a valid no-op publisher, which is what
// NewKafkaPublisher returns when Kafka is not configured.
type KafkaPublisher struct {
	producer sarama.AsyncProducer
	topic    string
	logger   logx.Logger
}

// NewKafkaPublisher creates a publisher, or (nil, nil) when brokers or topic
// are unset so deployments without Kafka keep working.
func NewKafkaPublisher(brokers []string, topic string, logger logx.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Return.Successes = false
	cfg.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	p := &KafkaPublisher{producer: producer, topic: topic, logger: logger}
	go p.drainErrors()
	return p, nil
}

func (p *KafkaPublisher) drainErrors() {
	for err := range p.producer.Errors() {
		p.logger.Warn("notification publish failed", logx.Err(err))
	}
}

// Publish enqueues the event. It never blocks the delivery flow on broker
// problems; the async producer buffers and its errors are drained to the log.
func (p *KafkaPublisher) Publish(_ context.Context, ev Event) {
	if p == nil {
		return
	}
	value, err := json.Marshal(ev)
	if err != nil {
		p.logger.Warn("encode notification event", logx.Err(err))
		return
	}
	p.producer.Input() <- &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.DeliverySafeID),
		Value: sarama.ByteEncoder(value),
	}
}

// Close shuts the producer down, flushing buffered messages.
func (p *KafkaPublisher) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}

// Nop is a Publisher that drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
