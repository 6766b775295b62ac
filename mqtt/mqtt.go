// mqtt.go - MQTT client used to announce post changes

package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"
)

const publishTimeout = 5 * time.Second

// Client publishes JSON payloads to a broker
type Client struct {
	conn paho.Client
}

// Connect dials broker and blocks until the connection is up
func Connect(broker, clientID string) (*Client, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	conn := paho.NewClient(opts)
	token := conn.Connect()
	if !token.WaitTimeout(15 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// Publish encodes payload as JSON and sends it with QoS 0
func (c *Client) Publish(topic string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", topic, err)
	}
	token := c.conn.Publish(topic, 0, false, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// Close disconnects, giving in-flight messages a moment to drain
func (c *Client) Close() {
	c.conn.Disconnect(250)
}
