package mqtt

import (
	"context"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joaosgotti/web-backend-caixa-dagua/config"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/services"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/store"
)

// Client is the ingestion side of the system: it subscribes to the
// distance topic and persists every valid measurement, stamped with
// the arrival time in UTC. The API never writes; this is the only
// writer of the leituras table.
type Client struct {
	client      mqtt.Client
	parser      *services.DistanceParser
	store       store.ReadingStore
	topic       string
	onStored    func(id int64, distancia float64)
	isConnected bool
}

// NewClient creates a new MQTT ingestion client
func NewClient(cfg config.MQTTConfig, readingStore store.ReadingStore) *Client {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	opts.SetKeepAlive(cfg.KeepAlive)
	opts.SetPingTimeout(cfg.PingTimeout)
	opts.SetCleanSession(true)
	opts.SetConnectRetry(true)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := &Client{
		parser:      services.NewDistanceParser(),
		store:       readingStore,
		topic:       cfg.TopicDistance,
		isConnected: false,
	}

	opts.SetDefaultPublishHandler(client.defaultMessageHandler)
	opts.SetOnConnectHandler(client.onConnect)
	opts.SetConnectionLostHandler(client.onConnectionLost)

	client.client = mqtt.NewClient(opts)

	return client
}

// Connect establishes connection to MQTT broker
func (c *Client) Connect() error {
	log.Println("Connecting to MQTT broker...")

	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Println("Successfully connected to MQTT broker")
	c.isConnected = true
	return nil
}

// Disconnect closes the MQTT connection
func (c *Client) Disconnect() {
	if c.isConnected {
		c.client.Disconnect(250)
		c.isConnected = false
		log.Println("Disconnected from MQTT broker")
	}
}

// IsConnected returns the connection status
func (c *Client) IsConnected() bool {
	return c.isConnected && c.client.IsConnected()
}

// SubscribeToDistance subscribes to the sensor distance topic
func (c *Client) SubscribeToDistance() error {
	if token := c.client.Subscribe(c.topic, 1, c.distanceHandler); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", c.topic, token.Error())
	}
	log.Printf("Subscribed to topic: %s", c.topic)

	return nil
}

// SetStoredHandler sets an optional callback invoked after a reading
// is persisted
func (c *Client) SetStoredHandler(handler func(id int64, distancia float64)) {
	c.onStored = handler
}

// distanceHandler processes incoming distance measurements
func (c *Client) distanceHandler(client mqtt.Client, msg mqtt.Message) {
	log.Printf("Received distance on topic %s: %s", msg.Topic(), string(msg.Payload()))

	distancia, err := c.parser.Parse(msg.Payload())
	if err != nil {
		log.Printf("Failed to parse distance payload: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// created_on must carry an offset; stamp in UTC at arrival
	id, err := c.store.AddReading(ctx, distancia, time.Now().UTC())
	if err != nil {
		log.Printf("❌ Error storing reading: %v", err)
		return
	}

	log.Printf("Stored reading id=%d distancia=%.2f", id, distancia)

	if c.onStored != nil {
		c.onStored(id, distancia)
	}
}

// defaultMessageHandler handles messages on unsubscribed topics
func (c *Client) defaultMessageHandler(client mqtt.Client, msg mqtt.Message) {
	log.Printf("Received message on unhandled topic %s: %s", msg.Topic(), string(msg.Payload()))
}

// onConnect callback when connection is established
func (c *Client) onConnect(client mqtt.Client) {
	log.Println("MQTT client connected")
	c.isConnected = true
}

// onConnectionLost callback when connection is lost
func (c *Client) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("MQTT connection lost: %v", err)
	c.isConnected = false
}
