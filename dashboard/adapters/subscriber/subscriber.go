package subscriber

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"review-insights/dashboard/core"
)

const headerEventType = "Event-Type"

type NatsSubscriber struct {
	conn    *nats.Conn
	sub     *nats.Subscription
	log     *slog.Logger
	timeout time.Duration
}

// NewNatsSubscriber hands every analysis event on subj to handler, each with
// its own deadline.
func NewNatsSubscriber(address, subj string, timeout time.Duration, handler core.EventHandler, log *slog.Logger) (*NatsSubscriber, error) {
	nc, err := nats.Connect(address,
		nats.Name("dashboard"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
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

	ns := &NatsSubscriber{conn: nc, log: log, timeout: timeout}
	sub, err := nc.Subscribe(subj, func(msg *nats.Msg) {
		event := eventType(msg)
		ctx, cancel := context.WithTimeout(context.Background(), ns.timeout)
		defer cancel()
		if err := handler.HandleEvent(ctx, event); err != nil {
			log.Error("failed to handle event", "event", event, "error", err)
			return
		}
		log.Debug("event handled", "subject", subj, "event", event)
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to subscribe on subject %s: %w", subj, err)
	}
	ns.sub = sub
	log.Debug("connected to broker as subscriber", "address", address, "subject", subj)
	return ns, nil
}

func eventType(msg *nats.Msg) core.EventType {
	if msg.Header != nil {
		if v := msg.Header.Get(headerEventType); v != "" {
			return core.EventType(v)
		}
	}
	return core.EventType(msg.Data)
}

func (ns *NatsSubscriber) Ping(context.Context) error {
	if !ns.conn.IsConnected() {
		return fmt.Errorf("%w: broker status %s", core.ErrServiceUnavailable, ns.conn.Status())
	}
	return nil
}

func (ns *NatsSubscriber) Unsubscribe() {
	if err := ns.sub.Unsubscribe(); err != nil {
		ns.log.Warn("failed to unsubscribe", "subject", ns.sub.Subject, "error", err)
	}
	ns.conn.Close()
}
