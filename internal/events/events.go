package events

import (
	"context"
	"encoding/json"
	"time"
	"xrayserver/config"
	"xrayserver/internal/database"
	"xrayserver/internal/logger"

	"github.com/valkey-io/valkey-go"
)

const BroadcastChannel = "broadcast"

type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// EventBus publishes and consumes events over valkey pub/sub so connected
// clients learn a collection changed and re-read it.
type EventBus struct {
	client database.CacheClient
	config config.Config
	log    logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func New(client database.CacheClient, config config.Config) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBus{
		client: client,
		config: config,
		log:    logger.New("events"),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (b *EventBus) Publish(channel string, event Event) error {
	log := b.log.Function("Publish")

	data, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to encode event", err, "event", event)
	}

	cmd := b.client.B().Publish().Channel(channel).Message(string(data)).Build()
	if err := b.client.Do(b.ctx, cmd).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel)
	}

	return nil
}

// Subscribe blocks, delivering events to handler until the bus is closed.
// Run it from a goroutine.
func (b *EventBus) Subscribe(channel string, handler func(Event)) error {
	log := b.log.Function("Subscribe")

	cmd := b.client.B().Subscribe().Channel(channel).Build()
	err := b.client.Receive(b.ctx, cmd, func(msg valkey.PubSubMessage) {
		var event Event
		if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
			log.Er("failed to decode event", err, "channel", channel)
			return
		}
		handler(event)
	})
	if err != nil && b.ctx.Err() == nil {
		return log.Err("subscription ended", err, "channel", channel)
	}

	return nil
}

func (b *EventBus) Close() error {
	b.cancel()
	return nil
}
