package pilight

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeamNorCal/pilight/model"
)

func newTestStreamer(broker *fakeBroker, useBase64 bool) *Streamer {
	return NewStreamer(NewChannel("colors", broker.dial, time.Second), "colors", 2, useBase64, DefaultBacklogPolicy())
}

func TestStreamerPurgesLargeBacklog(t *testing.T) {
	broker := &fakeBroker{pending: 4001}
	s := newTestStreamer(broker, false)
	frame := model.Frame{model.Black, model.Black}

	for i := 0; i < 4999; i++ {
		s.SetColors(frame)
	}
	assert.Equal(t, 0, broker.count("backlog"))

	s.SetColors(frame)
	assert.Equal(t, 1, broker.count("backlog"))
	assert.Equal(t, 1, broker.count("purge"))

	// the counter starts again after a check
	broker.Lock()
	broker.pending = 9000
	broker.Unlock()
	for i := 0; i < 4999; i++ {
		s.SetColors(frame)
	}
	assert.Equal(t, 1, broker.count("backlog"))

	s.SetColors(frame)
	assert.Equal(t, 2, broker.count("backlog"))
	assert.Equal(t, 2, broker.count("purge"))
	assert.Equal(t, 10000, broker.count("publish"))
}

func TestStreamerPurgeKeepsNewestFrame(t *testing.T) {
	broker := &fakeBroker{holdQueue: true}
	s := newTestStreamer(broker, false)

	for i := 0; i < 4999; i++ {
		s.SetColors(model.Frame{model.Black, model.Black})
	}
	broker.Lock()
	assert.Equal(t, 4999, broker.pending)
	broker.Unlock()

	newest := model.Frame{model.MustHex("ffffff"), model.MustHex("ff0000")}
	s.SetColors(newest)

	broker.Lock()
	defer broker.Unlock()
	assert.Equal(t, 1, broker.pending)
	assert.Equal(t, []string{"backlog", "purge", "publish"}, broker.events[len(broker.events)-3:])
	assert.Equal(t, s.Pack(newest), broker.published[len(broker.published)-1].Body)
}

func TestStreamerKeepsSmallBacklog(t *testing.T) {
	broker := &fakeBroker{pending: 4000}
	s := newTestStreamer(broker, false)

	for i := 0; i < 15000; i++ {
		s.SetColors(model.Frame{})
	}
	assert.Equal(t, 3, broker.count("backlog"))
	assert.Equal(t, 0, broker.count("purge"))
}

func TestStreamerDropsWithoutChannel(t *testing.T) {
	broker := &fakeBroker{refuse: true}
	s := newTestStreamer(broker, false)

	s.SetColors(model.Frame{model.Black, model.Black})

	assert.Equal(t, 0, broker.count("publish"))
	assert.Equal(t, uint64(0), s.ch.Stats().Dropped)
	assert.Zero(t, s.sent)
}

func TestStreamerPacking(t *testing.T) {
	broker := &fakeBroker{}
	s := newTestStreamer(broker, true)
	frame := model.Frame{model.MustHex("ff0000"), model.MustHex("808080"), model.MustHex("ffffff")}

	packed := s.Pack(frame)
	assert.Equal(t, []byte{255, 0, 0, model.Gamma(128), model.Gamma(128), model.Gamma(128)}, packed)
	assert.Equal(t, make([]byte, 6), s.Pack(nil))

	s.SetColors(frame)
	require.Len(t, broker.published, 1)
	msg := broker.published[0]
	assert.Equal(t, "colors", msg.Queue)
	assert.Equal(t, "text/plain", msg.ContentType)

	raw, errGo := base64.StdEncoding.DecodeString(string(msg.Body))
	require.NoError(t, errGo)
	assert.Equal(t, packed, raw)

	binary := newTestStreamer(broker, false)
	binary.SetColors(frame)
	require.Len(t, broker.published, 2)
	assert.Equal(t, "application/octet-stream", broker.published[1].ContentType)
	assert.Equal(t, packed, broker.published[1].Body)

	assert.Nil(t, s.Close())
}
