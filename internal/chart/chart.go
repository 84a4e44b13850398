// Package chart summarises template compliance and renders it as a bar chart.
package chart

import (
	"bytes"
	"fmt"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Kavirubc/tplcheck/pkg/models"
)

// Title of the rendered chart.
const Title = "Bar Graph of Categorical Feature Counts"

var (
	yesColor = drawing.ColorFromHex("87CEEB") // skyblue
	noColor  = drawing.ColorFromHex("FFA07A") // lightsalmon
)

// Summary counts rows by their is_template_structure value.
type Summary struct {
	Yes int `json:"yes"`
	No  int `json:"no"`
}

// Total returns the number of counted rows.
func (s Summary) Total() int {
	return s.Yes + s.No
}

// Summarize counts "yes" and "no" flags; any other value is not counted.
func Summarize(rows []models.ProcessedRow) Summary {
	var s Summary
	for _, row := range rows {
		switch strings.ToLower(strings.TrimSpace(row.TemplateStructure)) {
		case models.Compliant:
			s.Yes++
		case models.NonCompliant:
			s.No++
		}
	}
	return s
}

// Render draws the summary as a two-bar PNG.
func Render(s Summary) ([]byte, error) {
	top := float64(max(s.Yes, s.No, 1))

	graph := gochart.BarChart{
		Title:    Title,
		Width:    640,
		Height:   480,
		BarWidth: 120,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		YAxis: gochart.YAxis{
			Name:  "Counts",
			Range: &gochart.ContinuousRange{Min: 0, Max: top},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: []gochart.Value{
			{Label: models.Compliant, Value: float64(s.Yes), Style: gochart.Style{FillColor: yesColor, StrokeColor: yesColor}},
			{Label: models.NonCompliant, Value: float64(s.No), Style: gochart.Style{FillColor: noColor, StrokeColor: noColor}},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}
