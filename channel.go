package pilight

// This module implements the connection resilient publishing channel shared
// by the color streamer and the command sender.  The connection is opened on
// demand, discarded on any failure and a failed publish is retried exactly
// once, after which the message is dropped.  Nothing here ever returns an
// error to the render loop

import (
	"context"
	"sync"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/pilight/model"
)

// Message is a single payload destined for a named queue
type Message struct {
	Queue       string
	ContentType string
	Body        []byte
}

// Conn is an open connection to a broker
type Conn interface {
	Publish(ctx context.Context, msg *Message) error
	Close() error
}

// Inspector is implemented by connections able to report and drop the
// backlog of a queue
type Inspector interface {
	Backlog(queue string) (pending int, err error)
	Purge(queue string) (purged int, err error)
}

// Dialer opens a new connection
type Dialer func() (Conn, errors.Error)

type ChannelStats struct {
	Dials         uint64
	Published     uint64
	Dropped       uint64
	Invalidations uint64
}

// Channel owns at most one connection at a time, all use of the connection
// is serialized so successive publishes keep their order
type Channel struct {
	name    string
	dial    Dialer
	timeout time.Duration

	conn  Conn
	stats ChannelStats

	sync.Mutex
}

func NewChannel(name string, dial Dialer, timeout time.Duration) (ch *Channel) {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Channel{
		name:    name,
		dial:    dial,
		timeout: timeout,
	}
}

func (ch *Channel) getLocked() (conn Conn, err errors.Error) {
	if ch.conn != nil {
		return ch.conn, nil
	}
	ch.stats.Dials++
	conn, err = ch.dial()
	if err != nil {
		return nil, model.NewFault(model.ChannelUnavailable, err.With("channel", ch.name))
	}
	ch.conn = conn
	return conn, nil
}

func (ch *Channel) invalidateLocked() {
	if ch.conn == nil {
		return
	}
	ch.stats.Invalidations++
	_ = ch.conn.Close()
	ch.conn = nil
}

// Invalidate discards the current connection, the next use reconnects
func (ch *Channel) Invalidate() {
	ch.Lock()
	defer ch.Unlock()
	ch.invalidateLocked()
}

// Available reports whether a connection is open, or can be opened
func (ch *Channel) Available() bool {
	ch.Lock()
	defer ch.Unlock()
	_, err := ch.getLocked()
	return err == nil
}

func (ch *Channel) publishLocked(msg *Message) (err errors.Error) {
	conn, err := ch.getLocked()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), ch.timeout)
	defer cancel()

	if errGo := conn.Publish(ctx, msg); errGo != nil {
		return model.NewFault(model.PublishFailed, errors.Wrap(errGo).With("channel", ch.name).With("queue", msg.Queue).With("stack", stack.Trace().TrimRuntime()))
	}
	return nil
}

// Publish sends msg.  When the connection cannot be opened the message is
// dropped, when the publish fails the connection is discarded and the publish
// is retried once, if that also fails the message is dropped
func (ch *Channel) Publish(msg *Message) {
	ch.Lock()
	defer ch.Unlock()

	if _, err := ch.getLocked(); err != nil {
		ch.stats.Dropped++
		logger.Warn("channel unavailable, message dropped", "channel", ch.name, "queue", msg.Queue, "error", err.Error())
		return
	}

	attempts, err := RetryOnce(func() errors.Error { return ch.publishLocked(msg) }, ch.invalidateLocked)
	if err != nil {
		ch.stats.Dropped++
		logger.Warn("publish failed, message dropped", "channel", ch.name, "queue", msg.Queue, "attempts", attempts, "error", err.Error())
		return
	}
	if attempts > 1 {
		logger.Info("publish succeeded after reconnect", "channel", ch.name, "queue", msg.Queue)
	}
	ch.stats.Published++
}

// Backlog returns the number of messages waiting on queue
func (ch *Channel) Backlog(queue string) (pending int, err errors.Error) {
	ch.Lock()
	defer ch.Unlock()

	conn, err := ch.getLocked()
	if err != nil {
		return 0, err
	}
	inspector, isInspector := conn.(Inspector)
	if !isInspector {
		return 0, errors.New("connection cannot inspect queues").With("channel", ch.name).With("stack", stack.Trace().TrimRuntime())
	}
	pending, errGo := inspector.Backlog(queue)
	if errGo != nil {
		ch.invalidateLocked()
		return 0, errors.Wrap(errGo).With("channel", ch.name).With("queue", queue).With("stack", stack.Trace().TrimRuntime())
	}
	return pending, nil
}

// Purge drops every message waiting on queue
func (ch *Channel) Purge(queue string) (purged int, err errors.Error) {
	ch.Lock()
	defer ch.Unlock()

	conn, err := ch.getLocked()
	if err != nil {
		return 0, err
	}
	inspector, isInspector := conn.(Inspector)
	if !isInspector {
		return 0, errors.New("connection cannot purge queues").With("channel", ch.name).With("stack", stack.Trace().TrimRuntime())
	}
	purged, errGo := inspector.Purge(queue)
	if errGo != nil {
		ch.invalidateLocked()
		return 0, errors.Wrap(errGo).With("channel", ch.name).With("queue", queue).With("stack", stack.Trace().TrimRuntime())
	}
	return purged, nil
}

func (ch *Channel) Stats() ChannelStats {
	ch.Lock()
	defer ch.Unlock()
	return ch.stats
}

// Close discards the connection
func (ch *Channel) Close() {
	ch.Invalidate()
}
