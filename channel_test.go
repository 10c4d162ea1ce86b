package pilight

import (
	"testing"
	"time"

	"github.com/karlmutch/errors"
	"github.com/stretchr/testify/assert"

	"github.com/TeamNorCal/pilight/model"
)

func TestRetryOnce(t *testing.T) {
	calls, resets := 0, 0
	attempts, err := RetryOnce(func() errors.Error {
		calls++
		return nil
	}, func() { resets++ })
	assert.Nil(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 0, resets)

	calls, resets = 0, 0
	attempts, err = RetryOnce(func() errors.Error {
		calls++
		if calls == 1 {
			return errors.New("first")
		}
		return nil
	}, func() { resets++ })
	assert.Nil(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, resets)

	calls, resets = 0, 0
	attempts, err = RetryOnce(func() errors.Error {
		calls++
		return errors.New("always")
	}, func() { resets++ })
	assert.NotNil(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, resets)
}

func TestPublishFailsTwice(t *testing.T) {
	broker := &fakeBroker{failures: 2}
	ch := NewChannel("test", broker.dial, time.Second)

	assert.NotPanics(t, func() {
		ch.Publish(&Message{Queue: "q", Body: []byte("hello")})
	})

	assert.Equal(t, 2, broker.count("publish"))
	// the connection is thrown away between the two attempts
	assert.Equal(t, []string{"dial", "publish", "close", "dial", "publish", "close"}, broker.log())

	stats := ch.Stats()
	assert.Equal(t, uint64(1), stats.Dropped)
	assert.Equal(t, uint64(0), stats.Published)
	assert.Equal(t, uint64(2), stats.Invalidations)
}

func TestPublishRecoversOnRetry(t *testing.T) {
	broker := &fakeBroker{failures: 1}
	ch := NewChannel("test", broker.dial, time.Second)

	ch.Publish(&Message{Queue: "q", Body: []byte("one")})
	ch.Publish(&Message{Queue: "q", Body: []byte("two")})

	assert.Equal(t, []string{"dial", "publish", "close", "dial", "publish", "publish"}, broker.log())
	assert.Len(t, broker.published, 2)
	assert.Equal(t, "one", string(broker.published[0].Body))
	assert.Equal(t, "two", string(broker.published[1].Body))

	stats := ch.Stats()
	assert.Equal(t, uint64(2), stats.Published)
	assert.Equal(t, uint64(0), stats.Dropped)
	assert.Equal(t, uint64(2), stats.Dials)
}

func TestPublishWithoutBroker(t *testing.T) {
	broker := &fakeBroker{refuse: true}
	ch := NewChannel("test", broker.dial, time.Second)

	ch.Publish(&Message{Queue: "q"})

	// no retry is made when the channel cannot be obtained
	assert.Equal(t, []string{"dial"}, broker.log())
	assert.Equal(t, uint64(1), ch.Stats().Dropped)
	assert.False(t, ch.Available())

	_, err := ch.Backlog("q")
	assert.Equal(t, model.ChannelUnavailable, model.KindOf(err))

	broker.Lock()
	broker.refuse = false
	broker.Unlock()
	assert.True(t, ch.Available())
}

func TestChannelInspection(t *testing.T) {
	broker := &fakeBroker{pending: 12}
	ch := NewChannel("test", broker.dial, 0)

	pending, err := ch.Backlog("q")
	assert.Nil(t, err)
	assert.Equal(t, 12, pending)

	purged, err := ch.Purge("q")
	assert.Nil(t, err)
	assert.Equal(t, 12, purged)

	pending, err = ch.Backlog("q")
	assert.Nil(t, err)
	assert.Zero(t, pending)

	ch.Close()
	assert.Equal(t, []string{"dial", "backlog", "purge", "backlog", "close"}, broker.log())
}
