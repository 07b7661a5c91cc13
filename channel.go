package main

import "context"

// TrackedMessage identifies a previously published status message.
type TrackedMessage struct {
	ChannelID string
	MessageID string
}

// ChannelResolver looks up a chat channel that status messages can be sent to.
type ChannelResolver interface {
	ResolveChannel(ctx context.Context, channelID string) (MessageTarget, error)
}

// MessageTarget abstracts a chat channel (Discord, Slack, Telegram, etc.).
type MessageTarget interface {
	Send(ctx context.Context, payload Payload) (TrackedMessage, error)
	Edit(ctx context.Context, msg TrackedMessage, payload Payload) error
}
