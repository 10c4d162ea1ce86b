package pilight

// This module implements broker connections over MQTT, suitable for the
// command queue where no backlog management is needed

import (
	"context"
	"time"

	"github.com/go-stack/stack"
	"github.com/google/uuid"
	"github.com/karlmutch/errors"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type mqttConn struct {
	client mqtt.Client
	qos    byte
}

// DialMQTT returns a Dialer for the broker, e.g. tcp://localhost:1883
func DialMQTT(broker string, timeout time.Duration) Dialer {
	return func() (Conn, errors.Error) {
		opts := mqtt.NewClientOptions()
		opts.AddBroker(broker)
		opts.SetClientID("pilight-" + uuid.NewString())
		// Reconnection is owned by the Channel
		opts.SetAutoReconnect(false)
		opts.SetConnectTimeout(timeout)

		client := mqtt.NewClient(opts)
		token := client.Connect()
		if !token.WaitTimeout(timeout) {
			return nil, errors.New("mqtt connection timeout").With("broker", redact(broker)).With("stack", stack.Trace().TrimRuntime())
		}
		if errGo := token.Error(); errGo != nil {
			return nil, errors.Wrap(errGo).With("broker", redact(broker)).With("stack", stack.Trace().TrimRuntime())
		}
		return &mqttConn{client: client, qos: 1}, nil
	}
}

func (c *mqttConn) Publish(ctx context.Context, msg *Message) error {
	token := c.client.Publish(msg.Queue, c.qos, false, msg.Body)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *mqttConn) Close() error {
	c.client.Disconnect(250)
	return nil
}
