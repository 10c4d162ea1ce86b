package pilight

// This module implements the device that streams frames to a remote strip
// driver over the color queue.  Frames are never buffered locally, and the
// queue backlog is bounded by purging it when the consumer falls behind, so
// stale frames are discarded rather than delivered late

import (
	"encoding/base64"

	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/pilight/model"
)

// BacklogPolicy controls how often the color queue is checked and how many
// pending messages are tolerated
type BacklogPolicy struct {
	CheckEvery int `yaml:"check_every" json:"checkEvery"`
	PurgeAbove int `yaml:"purge_above" json:"purgeAbove"`
}

func DefaultBacklogPolicy() BacklogPolicy {
	return BacklogPolicy{CheckEvery: 5000, PurgeAbove: 4000}
}

type Streamer struct {
	ch      *Channel
	queue   string
	numLEDs int
	base64  bool
	policy  BacklogPolicy

	// sent counts messages since the last backlog check
	sent int
}

func NewStreamer(ch *Channel, queue string, numLEDs int, useBase64 bool, policy BacklogPolicy) (s *Streamer) {
	return &Streamer{
		ch:      ch,
		queue:   queue,
		numLEDs: numLEDs,
		base64:  useBase64,
		policy:  policy,
	}
}

func (s *Streamer) Init() (err errors.Error) {
	return nil
}

// Pack returns the gamma corrected R,G,B bytes of a frame, sized to the strip
func (s *Streamer) Pack(frame model.Frame) (data []byte) {
	data = make([]byte, s.numLEDs*3)
	for i, c := range frame {
		if i >= s.numLEDs {
			break
		}
		raw := c.RawCorrected()
		copy(data[3*i:], raw[:])
	}
	return data
}

// SetColors publishes the frame as a single message, the frame is dropped
// when the channel cannot be obtained.  Every CheckEvery frames the backlog
// of the queue is checked first and purged when it is above PurgeAbove
func (s *Streamer) SetColors(frame model.Frame) {
	if !s.ch.Available() {
		logger.Debug("color channel unavailable, frame dropped", "queue", s.queue)
		return
	}

	msg := &Message{
		Queue:       s.queue,
		ContentType: "application/octet-stream",
		Body:        s.Pack(frame),
	}
	if s.base64 {
		msg.ContentType = "text/plain"
		msg.Body = []byte(base64.StdEncoding.EncodeToString(msg.Body))
	}

	// The backlog is trimmed before publishing so the newest frame survives
	// a purge
	s.sent++
	if s.policy.CheckEvery > 0 && s.sent >= s.policy.CheckEvery {
		s.sent = 0
		s.checkBacklog()
	}

	s.ch.Publish(msg)
}

func (s *Streamer) checkBacklog() {
	pending, err := s.ch.Backlog(s.queue)
	if err != nil {
		logger.Warn("color queue backlog unknown", "queue", s.queue, "error", err.Error())
		return
	}
	if pending <= s.policy.PurgeAbove {
		return
	}
	purged, err := s.ch.Purge(s.queue)
	if err != nil {
		logger.Warn("color queue purge failed", "queue", s.queue, "error", err.Error())
		return
	}
	logger.Info("color queue purged", "queue", s.queue, "pending", pending, "purged", purged)
}

func (s *Streamer) Finish() (err errors.Error) {
	return nil
}

func (s *Streamer) Close() (err errors.Error) {
	s.ch.Close()
	return nil
}
