package main

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/driftking08882-eng/minecraftstatusbot"

// Metrics records refresh outcomes and exposes the latest server status as gauges.
type Metrics struct {
	refreshes     metric.Int64Counter
	checkDuration metric.Float64Histogram
}

func NewMetrics(mp metric.MeterProvider, store *StatusStore) (*Metrics, error) {
	meter := mp.Meter(meterName)

	refreshes, err := meter.Int64Counter("minecraft.status.refreshes",
		metric.WithDescription("Status refresh cycles by publish outcome"),
		metric.WithUnit("{refresh}"))
	if err != nil {
		return nil, fmt.Errorf("refreshes counter: %w", err)
	}
	checkDuration, err := meter.Float64Histogram("minecraft.status.check.duration",
		metric.WithDescription("Duration of status API checks"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("check duration histogram: %w", err)
	}

	up, err := meter.Int64ObservableGauge("minecraft.server.up",
		metric.WithDescription("1 when the server was online at the last check"))
	if err != nil {
		return nil, fmt.Errorf("up gauge: %w", err)
	}
	players, err := meter.Int64ObservableGauge("minecraft.players.online",
		metric.WithDescription("Players online at the last check"),
		metric.WithUnit("{player}"))
	if err != nil {
		return nil, fmt.Errorf("players gauge: %w", err)
	}
	maxPlayers, err := meter.Int64ObservableGauge("minecraft.players.max",
		metric.WithDescription("Player slots reported at the last check"),
		metric.WithUnit("{player}"))
	if err != nil {
		return nil, fmt.Errorf("max players gauge: %w", err)
	}
	ping, err := meter.Int64ObservableGauge("minecraft.server.ping",
		metric.WithDescription("Status API latency to the server"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("ping gauge: %w", err)
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for _, s := range store.All() {
			attrs := metric.WithAttributes(attribute.String("server", s.Server))
			if !s.Status.Online {
				o.ObserveInt64(up, 0, attrs)
				continue
			}
			o.ObserveInt64(up, 1, attrs)
			o.ObserveInt64(players, int64(s.Status.Players), attrs)
			o.ObserveInt64(maxPlayers, int64(s.Status.MaxPlayers), attrs)
			o.ObserveInt64(ping, s.Status.PingMs, attrs)
		}
		return nil
	}, up, players, maxPlayers, ping)
	if err != nil {
		return nil, fmt.Errorf("register gauges: %w", err)
	}

	return &Metrics{refreshes: refreshes, checkDuration: checkDuration}, nil
}

func (m *Metrics) RecordCheck(ctx context.Context, server string, d time.Duration, online bool) {
	m.checkDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("server", server),
		attribute.Bool("online", online),
	))
}

func (m *Metrics) RecordRefresh(ctx context.Context, server string, outcome PublishOutcome) {
	m.refreshes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("server", server),
		attribute.String("outcome", outcome.String()),
	))
}
