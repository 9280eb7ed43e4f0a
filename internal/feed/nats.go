package feed

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSSource subscribes to a subject and hands every message to a Handler.
type NATSSource struct {
	conn    *nats.Conn
	subject string
	logger  *zap.Logger
}

// NewNATSSource connects to the server at url.
func NewNATSSource(url, subject string, logger *zap.Logger) (*NATSSource, error) {
	conn, err := nats.Connect(url,
		nats.Name("metar-ingest"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSSource{conn: conn, subject: subject, logger: logger}, nil
}

// Run subscribes and blocks until ctx is done, then drains the
// subscription so in-flight messages finish. Messages delivered during the
// drain are still stored, so the handler context is not cancelled with ctx.
func (s *NATSSource) Run(ctx context.Context, h *Handler) error {
	hctx := context.WithoutCancel(ctx)
	sub, err := s.conn.Subscribe(s.subject, func(m *nats.Msg) {
		h.Handle(hctx, "nats", m.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", s.subject, err)
	}
	s.logger.Info("nats source started", zap.String("subject", s.subject))

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		s.logger.Warn("nats drain failed", zap.Error(err))
	}
	return nil
}

// Close drains and closes the connection.
func (s *NATSSource) Close() error {
	return s.conn.Drain()
}
