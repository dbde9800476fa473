package pump

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"aquasmart/confs"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// publisher is the part of mqtt.Client the commander uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTCommander publishes pump commands to <prefix>/fields/<id>/pump.
type MQTTCommander struct {
	client mqtt.Client
	pub    publisher
	prefix string
	broker string
	log    *zap.SugaredLogger
}

func NewMQTTCommander(cfg confs.MQTTConfig, log *zap.SugaredLogger) *MQTTCommander {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)

	if strings.HasPrefix(cfg.Broker, "ssl://") || strings.HasPrefix(cfg.Broker, "wss://") {
		log.Infof("configuring TLS for %s", cfg.Broker)
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Warnf("mqtt connection lost: %v", err)
	})
	opts.SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
		log.Infof("reconnecting to mqtt broker")
	})

	client := mqtt.NewClient(opts)
	return &MQTTCommander{
		client: client,
		pub:    client,
		prefix: strings.TrimSuffix(cfg.TopicPrefix, "/"),
		broker: cfg.Broker,
		log:    log,
	}
}

// Connect blocks until the broker accepts the connection or ctx ends.
func (c *MQTTCommander) Connect(ctx context.Context) error {
	if err := wait(ctx, c.client.Connect()); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}
	c.log.Infof("connected to MQTT broker %s", c.broker)
	return nil
}

func (c *MQTTCommander) Disconnect() {
	if c.client != nil {
		c.client.Disconnect(250)
		c.log.Infof("disconnected from MQTT broker")
	}
}

// Topic is where commands for a field are published.
func (c *MQTTCommander) Topic(fieldID int) string {
	return fmt.Sprintf("%s/fields/%d/pump", c.prefix, fieldID)
}

func (c *MQTTCommander) Open(ctx context.Context, fieldID int, duration time.Duration) error {
	return c.send(ctx, newCommand(fieldID, ActionOpen, duration))
}

func (c *MQTTCommander) Close(ctx context.Context, fieldID int) error {
	return c.send(ctx, newCommand(fieldID, ActionClose, 0))
}

func (c *MQTTCommander) send(ctx context.Context, cmd Command) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	topic := c.Topic(cmd.FieldID)
	if err := wait(ctx, c.pub.Publish(topic, 1, false, payload)); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	c.log.Debugf("published %s to %s", cmd.Action, topic)
	return nil
}

func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
