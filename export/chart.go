package export

import (
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Dosada05/artsfest/scoring"
)

const defaultBarColor = "#3b82f6"

// StandingsChart renders adjusted team totals as a PNG bar chart.
func StandingsChart(w io.Writer, teams []scoring.TeamStanding) error {
	maxTotal := 0
	for _, t := range teams {
		if t.Adjusted > maxTotal {
			maxTotal = t.Adjusted
		}
	}
	// go-chart не умеет нулевой диапазон.
	if len(teams) == 0 || maxTotal == 0 {
		return renderPlaceholder(w, "No results declared yet")
	}

	bars := make([]chart.Value, 0, len(teams))
	for _, t := range teams {
		color := t.Color
		if color == "" {
			color = defaultBarColor
		}
		bars = append(bars, chart.Value{
			Label: t.TeamName,
			Value: float64(t.Adjusted),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(trimHash(color)),
				StrokeColor: drawing.ColorFromHex(trimHash(color)),
			},
		})
	}

	graph := chart.BarChart{
		Title:    "Team standings",
		Width:    900,
		Height:   450,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxTotal)},
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}

func trimHash(hex string) string {
	if len(hex) > 0 && hex[0] == '#' {
		return hex[1:]
	}
	return hex
}

// renderPlaceholder draws an empty axis under a title; the chart library
// refuses to render without data.
func renderPlaceholder(w io.Writer, msg string) error {
	graph := chart.BarChart{
		Title:    msg,
		Width:    400,
		Height:   200,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars: []chart.Value{{Label: "-", Value: 0}},
	}
	return graph.Render(chart.PNG, w)
}
