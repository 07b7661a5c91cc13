package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommands(checker StatusChecker, listers map[string]PlayerLister) *CommandHandler {
	servers := []ServerConfig{testServer("survival"), testServer("creative")}
	return NewCommandHandler(servers, testEmbedConfig(), checker, func(server string) PlayerLister {
		if l, ok := listers[server]; ok {
			return l
		}
		return nil
	})
}

func TestCommandHandler_Definitions(t *testing.T) {
	h := newTestCommands(&fakeChecker{}, nil)

	defs := h.Definitions()
	require.Len(t, defs, 4)

	var names []string
	for _, d := range defs {
		names = append(names, d.Name)
		require.Len(t, d.Options, 1)
		opt := d.Options[0]
		assert.Equal(t, "server", opt.Name)
		assert.True(t, opt.Required)
		require.Len(t, opt.Choices, 2)
		assert.Equal(t, "survival", opt.Choices[0].Value)
		assert.Equal(t, "creative", opt.Choices[1].Value)
	}
	assert.Equal(t, []string{"status", "ip", "players", "version"}, names)
}

func TestCommandHandler_IP(t *testing.T) {
	checker := &fakeChecker{}
	h := newTestCommands(checker, nil)

	reply := h.Reply(context.Background(), "ip", "survival")

	assert.Equal(t, "📡 **survival**: `play.example.com:25565`", reply.Content)
	assert.Zero(t, checker.calls, "ip does not need a live check")
}

func TestCommandHandler_Status(t *testing.T) {
	h := newTestCommands(&fakeChecker{result: onlineStatus(4)}, nil)

	reply := h.Reply(context.Background(), "status", "survival")

	require.NotNil(t, reply.Embed)
	fields := fieldValues(reply.Embed)
	assert.Equal(t, "4/20", fields["👥 Players"])
	assert.NotContains(t, fields, "⏱️ Next Update")
}

func TestCommandHandler_StatusOffline(t *testing.T) {
	h := newTestCommands(&fakeChecker{result: offlineResult("API returned 503")}, nil)

	reply := h.Reply(context.Background(), "status", "creative")

	require.NotNil(t, reply.Embed)
	assert.Equal(t, "API returned 503", fieldValues(reply.Embed)["❌ Error"])
}

func TestCommandHandler_Players(t *testing.T) {
	tests := []struct {
		name   string
		status StatusResult
		lister PlayerLister
		want   string
	}{
		{
			name:   "sample list",
			status: func() StatusResult { s := onlineStatus(2); s.PlayerSample = []string{"Steve", "Alex"}; return s }(),
			want:   "👥 **survival**: 2/20 players online\nSteve, Alex",
		},
		{
			name:   "partial sample",
			status: func() StatusResult { s := onlineStatus(5); s.PlayerSample = []string{"Steve"}; return s }(),
			want:   "👥 **survival**: 5/20 players online\nSteve and 4 more",
		},
		{
			name:   "nobody online",
			status: onlineStatus(0),
			want:   "👥 **survival**: 0/20 players online\nNo players online",
		},
		{
			name:   "rcon names win",
			status: func() StatusResult { s := onlineStatus(3); s.PlayerSample = []string{"Steve"}; return s }(),
			lister: &fakeLister{names: []string{"Steve", "Alex", "Notch"}},
			want:   "👥 **survival**: 3/20 players online\nSteve, Alex, Notch",
		},
		{
			name:   "rcon failure falls back to sample",
			status: func() StatusResult { s := onlineStatus(1); s.PlayerSample = []string{"Steve"}; return s }(),
			lister: &fakeLister{err: errors.New("connection refused")},
			want:   "👥 **survival**: 1/20 players online\nSteve",
		},
		{
			name:   "offline",
			status: offlineResult("Server is offline"),
			want:   "❌ **survival** is offline: Server is offline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listers := map[string]PlayerLister{}
			if tt.lister != nil {
				listers["survival"] = tt.lister
			}
			h := newTestCommands(&fakeChecker{result: tt.status}, listers)

			reply := h.Reply(context.Background(), "players", "survival")
			assert.Equal(t, tt.want, reply.Content)
		})
	}
}

func TestCommandHandler_Version(t *testing.T) {
	checker := &fakeChecker{result: onlineStatus(1)}
	h := newTestCommands(checker, nil)

	reply := h.Reply(context.Background(), "version", "creative")
	assert.Equal(t, "🏷️ **creative** is running `1.20.1`", reply.Content)

	checker.set(offlineResult("Server is offline"))
	reply = h.Reply(context.Background(), "version", "creative")
	assert.Equal(t, "❌ **creative** is offline: Server is offline", reply.Content)
}

func TestCommandHandler_UnknownInputs(t *testing.T) {
	h := newTestCommands(&fakeChecker{}, nil)

	reply := h.Reply(context.Background(), "status", "hardcore")
	assert.Equal(t, "❓ Unknown server `hardcore`", reply.Content)

	reply = h.Reply(context.Background(), "whitelist", "survival")
	assert.Equal(t, "❓ Unknown command `/whitelist`", reply.Content)
}
