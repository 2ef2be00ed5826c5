// File: internal/domain/model/structured.go
package model

// StructuredItem is one chart, table or card extracted heuristically
// from generated text. Items have no identity beyond their position in
// the emission sequence and are never persisted.
type StructuredItem struct {
	// Type is "chart", "table" or "card".
	Type string `json:"type"`
	// Data holds []ChartPoint for charts, []map[string]string for
	// tables and map[string]string for cards.
	Data any `json:"data"`
	// Config is only set for charts.
	Config *ChartConfig `json:"config,omitempty"`
}

// ChartPoint is one labelled value in a chart series.
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ChartConfig tells the renderer how to draw a chart item.
type ChartConfig struct {
	Type  string `json:"type"`
	XKey  string `json:"xKey"`
	YKey  string `json:"yKey"`
	Title string `json:"title"`
}
