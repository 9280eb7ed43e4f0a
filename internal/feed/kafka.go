package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"metar_parser/internal/storage"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// KafkaSource consumes raw payloads from a topic as part of a consumer group.
type KafkaSource struct {
	reader *kafkago.Reader
	logger *zap.Logger
}

// NewKafkaSource creates a consumer for topic.
func NewKafkaSource(brokers []string, topic, groupID string, logger *zap.Logger) *KafkaSource {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	return &KafkaSource{reader: r, logger: logger}
}

// Run fetches, handles and commits messages until ctx is done. Fetch
// errors back off exponentially up to maxBackoff.
func (s *KafkaSource) Run(ctx context.Context, h *Handler) error {
	s.logger.Info("kafka source started", zap.String("topic", s.reader.Config().Topic))
	backoff := initialBackoff
	for {
		m, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Error("fetch message failed", zap.Error(err), zap.Duration("backoff", backoff))
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = initialBackoff

		h.Handle(ctx, "kafka", m.Value)

		if err := s.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Warn("commit offset failed",
				zap.Error(err),
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset))
		}
	}
}

// Close closes the reader.
func (s *KafkaSource) Close() error {
	return s.reader.Close()
}

// KafkaSink publishes decoded records as JSON keyed by station.
type KafkaSink struct {
	writer *kafkago.Writer
}

// NewKafkaSink creates a producer for topic.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &KafkaSink{writer: w}
}

// Publish writes recs in one batch.
func (s *KafkaSink) Publish(ctx context.Context, recs []storage.Record) error {
	if len(recs) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(recs))
	for i := range recs {
		msg, err := serializeToMessage(recs[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return s.writer.WriteMessages(ctx, msgs...)
}

// Close flushes and closes the writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func serializeToMessage(rec storage.Record) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.Station),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(rec.Source)},
			{Key: "received_at", Value: []byte(rec.ReceivedAt.Format(time.RFC3339))},
		},
	}, nil
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
