package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	lognoop "go.opentelemetry.io/otel/log/noop"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
)

type fakeChecker struct {
	mu     sync.Mutex
	result StatusResult
	calls  int
}

func (f *fakeChecker) Check(ctx context.Context, host string, port int) StatusResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.result
}

func (f *fakeChecker) set(result StatusResult) {
	f.mu.Lock()
	f.result = result
	f.mu.Unlock()
}

// fakeTarget records sends and edits made through the Publisher.
type fakeTarget struct {
	mu      sync.Mutex
	sent    []Payload
	edited  []TrackedMessage
	editErr error
	sendErr error
	nextID  int
	channel string
}

func (t *fakeTarget) Send(ctx context.Context, payload Payload) (TrackedMessage, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sendErr != nil {
		return TrackedMessage{}, t.sendErr
	}
	t.nextID++
	t.sent = append(t.sent, payload)
	return TrackedMessage{ChannelID: t.channel, MessageID: fmt.Sprintf("msg-%d", t.nextID)}, nil
}

func (t *fakeTarget) Edit(ctx context.Context, msg TrackedMessage, payload Payload) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.edited = append(t.edited, msg)
	return t.editErr
}

func (t *fakeTarget) counts() (sent, edited int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sent), len(t.edited)
}

type fakeResolver struct {
	targets map[string]*fakeTarget
}

func newFakeResolver(channelIDs ...string) *fakeResolver {
	r := &fakeResolver{targets: make(map[string]*fakeTarget)}
	for _, id := range channelIDs {
		r.targets[id] = &fakeTarget{channel: id}
	}
	return r
}

func (r *fakeResolver) ResolveChannel(ctx context.Context, channelID string) (MessageTarget, error) {
	t, ok := r.targets[channelID]
	if !ok {
		return nil, errors.New("unknown channel")
	}
	return t, nil
}

type fakeLister struct {
	names []string
	err   error
}

func (l *fakeLister) ListPlayers(ctx context.Context) ([]string, error) {
	return l.names, l.err
}

func testEmbedConfig() EmbedConfig {
	return defaultConfig().Embed
}

func testServer(name string) ServerConfig {
	return ServerConfig{
		Name:           name,
		Address:        "play.example.com",
		Port:           25565,
		ChannelID:      "chan-" + name,
		UpdateInterval: time.Minute,
		Display: DisplayConfig{
			Type:  "embed",
			Chart: ChartConfig{Color: defaultChartColor, HistoryHours: defaultHistoryHours},
		},
	}
}

func onlineStatus(players int) StatusResult {
	return StatusResult{
		Online:      true,
		Players:     players,
		MaxPlayers:  20,
		Version:     "1.20.1",
		Description: "welcome",
		PingMs:      42,
		CheckedAt:   time.Now(),
	}
}

func testMetrics() *Metrics {
	m, err := NewMetrics(metricnoop.NewMeterProvider(), NewStatusStore())
	if err != nil {
		panic(err)
	}
	return m
}

func testLogger() otellog.Logger {
	return lognoop.NewLoggerProvider().Logger("test")
}
