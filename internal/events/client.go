// Package events publishes analysis and session lifecycle events to
// NATS JetStream so external consumers can follow generation progress.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// Client wraps the NATS connection and JetStream context.
type Client struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	url    string
	mu     sync.RWMutex
	closed bool
}

// NewClient connects to NATS at the given URL.
func NewClient(url string) (*Client, error) {
	c := &Client{url: url}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) connect() error {
	opts := []nats.Option{
		nats.Name("testlens"),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("reconnected to NATS")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("disconnected from NATS")
			}
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(c.url, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	c.nc = nc
	c.js = js

	log.Info().Str("url", c.url).Msg("connected to NATS JetStream")
	return nil
}

// EnsureStream creates or updates the events stream.
func (c *Client) EnsureStream(ctx context.Context) error {
	c.mu.RLock()
	js := c.js
	c.mu.RUnlock()

	if js == nil {
		return fmt.Errorf("not connected to NATS")
	}

	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        StreamEvents,
		Subjects:    []string{SubjectEventsAll},
		Description: "testlens analysis and session events",
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.LimitsPolicy,
		Discard:     jetstream.DiscardOld,
		MaxMsgs:     100000,
		MaxBytes:    1024 * 1024 * 100, // 100MB
		MaxAge:      24 * time.Hour,
		Replicas:    1,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", StreamEvents, err)
	}

	log.Debug().Str("stream", StreamEvents).Msg("stream ready")
	return nil
}

// Publish publishes raw data to a subject.
func (c *Client) Publish(ctx context.Context, subject string, data []byte) (*jetstream.PubAck, error) {
	c.mu.RLock()
	js := c.js
	c.mu.RUnlock()

	if js == nil {
		return nil, fmt.Errorf("not connected to NATS")
	}

	ack, err := js.Publish(ctx, subject, data)
	if err != nil {
		return nil, fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	return ack, nil
}

// IsConnected returns true if connected to NATS.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.nc == nil {
		return false
	}
	return c.nc.IsConnected()
}

// HealthCheck verifies NATS connectivity.
func (c *Client) HealthCheck() error {
	c.mu.RLock()
	nc := c.nc
	c.mu.RUnlock()

	if nc == nil || !nc.IsConnected() {
		return fmt.Errorf("not connected to NATS")
	}
	return nil
}

// Close closes the NATS connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	if c.nc != nil {
		c.nc.Close()
		log.Info().Msg("NATS connection closed")
	}
}
