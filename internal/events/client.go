// Package events connects the dashboard to NATS: it listens for reload
// requests and announces every dataset it loads.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type Client interface {
	Publish(subject string, data interface{}) error
	Subscribe(subject string, handler func(subject string, data []byte)) error
	Close()
}

// NATSClient publishes over core NATS, except for dataset announcements,
// which go through JetStream so the stream holds the recent load history.
type NATSClient struct {
	conn          *nats.Conn
	js            jetstream.JetStream
	loadedSubject string
	subs          []*nats.Subscription
	logger        *slog.Logger
}

func NewNATSClient(ctx context.Context, url, loadedSubject string, logger *slog.Logger) (*NATSClient, error) {
	if loadedSubject == "" {
		loadedSubject = DefaultLoadedSubject
	}
	nc, err := nats.Connect(url,
		nats.Name("facultydash"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	c := &NATSClient{conn: nc, js: js, loadedSubject: loadedSubject, logger: logger}
	if _, err := js.CreateOrUpdateStream(ctx, streamConfig(loadedSubject)); err != nil {
		logger.Warn("failed to ensure stream", "stream", StreamName, "subject", loadedSubject, "error", err)
	}
	return c, nil
}

// streamConfig captures only load announcements. Reload requests are
// commands for whoever is connected now and are never stored.
func streamConfig(loadedSubject string) jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:              StreamName,
		Subjects:          []string{loadedSubject},
		MaxAge:            StreamMaxAge,
		MaxMsgsPerSubject: StreamHistory,
		Discard:           jetstream.DiscardOld,
	}
}

func (c *NATSClient) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if subject != c.loadedSubject {
		return c.conn.Publish(subject, payload)
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if _, err := c.js.Publish(ctx, subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

func (c *NATSClient) Subscribe(subject string, handler func(string, []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return err
	}
	c.subs = append(c.subs, sub)
	return nil
}

func (c *NATSClient) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
