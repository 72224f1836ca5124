package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"review-insights/analyzer/core"
)

const (
	headerEventType = "Event-Type"
	headerEventTime = "Event-Time"
)

// NatsPublisher announces analysis events to dashboards subscribed on subj.
type NatsPublisher struct {
	subj string
	conn *nats.Conn
	log  *slog.Logger
}

func NewNatsPublisher(address, subj string, log *slog.Logger) (*NatsPublisher, error) {
	nc, err := nats.Connect(address,
		nats.Name("analyzer"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("disconnected from NATS", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("reconnected to NATS", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("connection to NATS closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker at %s: %w", address, err)
	}
	log.Debug("connected to broker as publisher", "address", address, "subject", subj)
	return &NatsPublisher{
		subj: subj,
		conn: nc,
		log:  log,
	}, nil
}

func (np *NatsPublisher) Close() {
	if err := np.conn.Drain(); err != nil {
		np.log.Warn("failed to drain NATS connection", "error", err)
		np.conn.Close()
	}
}

func (np *NatsPublisher) Ping(context.Context) error {
	if !np.conn.IsConnected() {
		return fmt.Errorf("%w: broker status %s", core.ErrServiceUnavailable, np.conn.Status())
	}
	return nil
}

func (np *NatsPublisher) Publish(event core.EventType) error {
	msg := nats.NewMsg(np.subj)
	msg.Data = []byte(event)
	msg.Header.Set(headerEventType, string(event))
	msg.Header.Set(headerEventTime, time.Now().UTC().Format(time.RFC3339Nano))

	if err := np.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event, err)
	}
	if err := np.conn.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	np.log.Debug("event published", "subject", np.subj, "event", event)
	return nil
}
