package main

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth    = 800
	chartHeight   = 400
	chartFileName = "player-chart.png"
	chartYTicks   = 5
)

var (
	chartBackground = drawing.Color{R: 0x2f, G: 0x31, B: 0x36, A: 0xff}
	chartGrid       = drawing.Color{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	chartText       = drawing.ColorWhite
)

// renderPlayerChart draws the history as a PNG line chart. It returns nil when there
// are fewer than two samples to plot.
func renderPlayerChart(samples []HistorySample, color string) ([]byte, error) {
	if len(samples) < 2 {
		return nil, nil
	}

	rgb, err := parseHexColor(color)
	if err != nil {
		return nil, err
	}
	line := drawing.Color{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}

	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	xTicks := make([]chart.Tick, len(samples))
	peak := 0
	for i, s := range samples {
		xs[i] = float64(i)
		ys[i] = float64(s.Count)
		xTicks[i] = chart.Tick{Value: float64(i), Label: s.Timestamp.Local().Format("15:04")}
		peak = max(peak, s.Count)
	}
	yTicks, yMax := countTicks(peak)

	axisStyle := chart.Style{FontColor: chartText, StrokeColor: chartGrid, StrokeWidth: 1}
	gridStyle := chart.Style{StrokeColor: chartGrid, StrokeWidth: 1}

	graph := chart.Chart{
		Title:      "Player Count History",
		TitleStyle: chart.Style{FontColor: chartText, FontSize: 14},
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{
			FillColor: chartBackground,
			Padding:   chart.Box{Top: 50, Left: 20, Right: 30, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: chartBackground},
		XAxis: chart.XAxis{
			Style:          axisStyle,
			Ticks:          xTicks,
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Style:          axisStyle,
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax},
			Ticks:          yTicks,
			GridMajorStyle: gridStyle,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Player Count",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: line,
					StrokeWidth: 2,
					FillColor:   line.WithAlpha(0x33),
					DotColor:    line,
					DotWidth:    4,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{FillColor: chartBackground, FontColor: chartText, StrokeColor: chartGrid}),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// countTicks spreads whole-number y ticks from zero to just above peak.
func countTicks(peak int) ([]chart.Tick, float64) {
	step := int(math.Ceil(float64(peak+1) / chartYTicks))
	if step < 1 {
		step = 1
	}
	var ticks []chart.Tick
	top := 0
	for v := 0; ; v += step {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: strconv.Itoa(v)})
		top = v
		if v > peak {
			break
		}
	}
	return ticks, float64(top)
}
