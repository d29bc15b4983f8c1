package notification

import "context"

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, key string, payload interface{}) error
}

// KafkaSink publishes events keyed by booking code so one booking's history stays ordered.
type KafkaSink struct {
	producer Publisher
}

func NewKafkaSink(p Publisher) *KafkaSink {
	return &KafkaSink{producer: p}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Send(ctx context.Context, ev Event) error {
	return s.producer.Publish(ctx, ev.BookingCode, ev)
}
