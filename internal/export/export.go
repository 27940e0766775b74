// Package export renders stored runs as JSON, CSV, SVG and terminal plots.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/climsim/internal/storage"
)

// Document is the JSON form of a stored run.
type Document struct {
	Run     storage.RunMetadata `json:"run"`
	Samples []storage.Record    `json:"samples"`
}

func Load(st *storage.Store, runID string) (*Document, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}
	records, err := st.LoadSamples(runID)
	if err != nil {
		return nil, err
	}
	return &Document{Run: *meta, Samples: records}, nil
}

func WriteJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode run %s: %w", doc.Run.ID, err)
	}
	return nil
}

func WriteCSV(w io.Writer, doc *Document) error {
	if err := storage.WriteCSV(w, doc.Samples); err != nil {
		return fmt.Errorf("write run %s: %w", doc.Run.ID, err)
	}
	return nil
}

// SeriesColors maps sample columns to SVG stroke colors.
var SeriesColors = map[string]string{
	"temperature": "#e63946",
	"net":         "#2eb872",
	"absorbed":    "#ffd166",
	"reflected":   "#f1faee",
	"outgoing":    "#4ea8de",
	"incoming":    "#ff9f1c",
}

// SVG draws one column of the run.
func SVG(doc *Document, column string, width, height int) (string, error) {
	values, err := storage.Column(doc.Samples, column)
	if err != nil {
		return "", err
	}
	times, _ := storage.Column(doc.Samples, "time")
	color, ok := SeriesColors[column]
	if !ok {
		color = "#00ff00"
	}
	out := SeriesToSVG(times, values, width, height, color, fmt.Sprintf("%s: %s", doc.Run.ID, column))
	if out == "" {
		return "", fmt.Errorf("run %s has too few finite %s samples to draw", doc.Run.ID, column)
	}
	return out, nil
}

// Plot renders columns of the run as a terminal line chart.
func Plot(doc *Document, columns []string, width, height int) (string, error) {
	data := make([][]float64, 0, len(columns))
	for _, c := range columns {
		values, err := storage.Column(doc.Samples, c)
		if err != nil {
			return "", err
		}
		if len(values) == 0 {
			return "", fmt.Errorf("run %s has no samples", doc.Run.ID)
		}
		data = append(data, values)
	}
	palette := []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Blue, asciigraph.Green, asciigraph.Yellow}
	colors := make([]asciigraph.AnsiColor, len(data))
	for i := range colors {
		colors[i] = palette[i%len(palette)]
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("%s %v", doc.Run.ID, columns)),
		asciigraph.SeriesColors(colors...),
	), nil
}
