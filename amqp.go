package pilight

// This module implements broker connections over AMQP 0-9-1 (RabbitMQ), the
// only transport able to report and purge the backlog of the color queue

import (
	"context"
	"time"

	"github.com/go-stack/stack"
	"github.com/google/uuid"
	"github.com/karlmutch/errors"

	amqp "github.com/rabbitmq/amqp091-go"
)

type amqpConn struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
}

// DialAMQP returns a Dialer for the broker at url, the connection and its
// handshake must complete within timeout
func DialAMQP(url string, timeout time.Duration) Dialer {
	return func() (Conn, errors.Error) {
		conn, errGo := amqp.DialConfig(url, amqp.Config{
			Heartbeat: 10 * time.Second,
			Locale:    "en_US",
			Dial:      amqp.DefaultDial(timeout),
		})
		if errGo != nil {
			return nil, errors.Wrap(errGo).With("url", redact(url)).With("stack", stack.Trace().TrimRuntime())
		}
		ch, errGo := conn.Channel()
		if errGo != nil {
			conn.Close()
			return nil, errors.Wrap(errGo).With("url", redact(url)).With("stack", stack.Trace().TrimRuntime())
		}
		return &amqpConn{
			conn:     conn,
			ch:       ch,
			declared: map[string]bool{},
		}, nil
	}
}

func (c *amqpConn) declare(queue string) error {
	if c.declared[queue] {
		return nil
	}
	if _, errGo := c.ch.QueueDeclare(queue, true, false, false, false, nil); errGo != nil {
		return errGo
	}
	c.declared[queue] = true
	return nil
}

func (c *amqpConn) Publish(ctx context.Context, msg *Message) error {
	if err := c.declare(msg.Queue); err != nil {
		return err
	}
	return c.ch.PublishWithContext(ctx, "", msg.Queue, false, false, amqp.Publishing{
		ContentType: msg.ContentType,
		MessageId:   uuid.NewString(),
		Timestamp:   time.Now(),
		Body:        msg.Body,
	})
}

func (c *amqpConn) Backlog(queue string) (pending int, err error) {
	q, err := c.ch.QueueDeclarePassive(queue, true, false, false, false, nil)
	if err != nil {
		return 0, err
	}
	return q.Messages, nil
}

func (c *amqpConn) Purge(queue string) (purged int, err error) {
	return c.ch.QueuePurge(queue, false)
}

func (c *amqpConn) Close() error {
	if c.ch != nil {
		c.ch.Close()
	}
	return c.conn.Close()
}
