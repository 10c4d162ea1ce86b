package pilight

// This module implements the helpers that control a remote light driver by
// sending it command messages over the control channel

import (
	"encoding/json"

	"github.com/TeamNorCal/pilight/model"
)

// maxChannelName bounds the size of channel names sent to the driver
const maxChannelName = 30

// Command is the record published on the control queue
type Command struct {
	Command    string `json:"command"`
	PlaylistID *int   `json:"playlistId,omitempty"`
	Channel    string `json:"channel,omitempty"`
	Color      string `json:"color,omitempty"`
}

// Commander sends commands, delivery failures are logged and dropped
type Commander struct {
	ch    *Channel
	queue string
}

func NewCommander(ch *Channel, queue string) (cmdr *Commander) {
	return &Commander{ch: ch, queue: queue}
}

func (cmdr *Commander) send(cmd *Command) {
	body, errGo := json.Marshal(cmd)
	if errGo != nil {
		logger.Warn("command could not be encoded", "command", cmd.Command, "error", errGo.Error())
		return
	}
	cmdr.ch.Publish(&Message{
		Queue:       cmdr.queue,
		ContentType: "application/json",
		Body:        body,
	})
}

func (cmdr *Commander) SendStart() {
	cmdr.send(&Command{Command: "start"})
}

func (cmdr *Commander) SendStartPlaylist(playlistID int) {
	cmdr.send(&Command{Command: "start", PlaylistID: &playlistID})
}

func (cmdr *Commander) SendStop() {
	cmdr.send(&Command{Command: "stop"})
}

func (cmdr *Commander) SendRestart() {
	cmdr.send(&Command{Command: "restart"})
}

// SendChannelColor overrides the color of a single named channel, the name
// is truncated to 30 characters
func (cmdr *Commander) SendChannelColor(channel string, c model.Color) {
	if runes := []rune(channel); len(runes) > maxChannelName {
		channel = string(runes[:maxChannelName])
	}
	cmdr.send(&Command{
		Command: "color",
		Channel: channel,
		Color:   c.ToHex(),
	})
}

// Stats reports on the delivery of the commands sent so far
func (cmdr *Commander) Stats() ChannelStats {
	return cmdr.ch.Stats()
}

// Close releases the connection to the broker
func (cmdr *Commander) Close() {
	cmdr.ch.Close()
}
