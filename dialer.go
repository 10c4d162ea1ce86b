package pilight

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
)

// NewDialer selects the broker transport from the scheme of the URL,
// amqp(s):// for RabbitMQ and mqtt://, tcp://, ssl:// or ws:// for MQTT
func NewDialer(brokerURL string, timeout time.Duration) (dial Dialer, err errors.Error) {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	u, errGo := url.Parse(brokerURL)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("url", redact(brokerURL)).With("stack", stack.Trace().TrimRuntime())
	}

	switch u.Scheme {
	case "amqp", "amqps":
		return DialAMQP(brokerURL, timeout), nil
	case "mqtt":
		u.Scheme = "tcp"
		return DialMQTT(u.String(), timeout), nil
	case "tcp", "ssl", "ws", "wss":
		return DialMQTT(brokerURL, timeout), nil
	default:
		errGo = fmt.Errorf("unknown scheme %s for the broker URL", u.Scheme)
		return nil, errors.Wrap(errGo).With("url", redact(brokerURL)).With("stack", stack.Trace().TrimRuntime())
	}
}

// redact hides any password in a URL before it is logged
func redact(raw string) string {
	u, errGo := url.Parse(raw)
	if errGo != nil {
		return "invalid-url"
	}
	return u.Redacted()
}
