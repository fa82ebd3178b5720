// Package presentation shapes metric rows for the charting frontend: wire rows with upper-case keys,
// optional legacy percentage strings, and label/series pairs ready for a line chart.
package presentation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DanNano/FFQueryAnalyzer/internal/model"
)

// Style selects how percentage metrics are written.
type Style string

const (
	// StyleNumber writes the metric as a JSON number.
	StyleNumber Style = "number"
	// StylePercent writes percentage metrics as "NN.NN%" strings, as the first frontend expected.
	StylePercent Style = "percent"
)

// FormatPercent renders v with two decimals and a trailing percent sign.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

// ParsePercent reverses FormatPercent; the trailing sign is optional.
func ParsePercent(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse percent %q: %w", s, err)
	}
	return v, nil
}

// Rows builds one JSON object per metric row.
func Rows(metric model.Metric, rows []model.PlayerSeasonMetric, style Style) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, map[string]any{
			"NAME":        r.Name,
			"PLAYERID":    r.PlayerID,
			"POSITION":    r.Position,
			"YEAR":        r.Year,
			"TEAM":        r.Team,
			metric.Column: value(metric, r.Value, style),
		})
	}
	return out
}

func value(metric model.Metric, v *float64, style Style) any {
	if v == nil {
		return nil
	}
	if metric.Percent && style == StylePercent {
		return FormatPercent(*v)
	}
	return *v
}

// PlayerInfo is the header the chart views show above a single player's series.
type PlayerInfo struct {
	Name     string `json:"name"`
	PlayerID string `json:"playerid"`
	Position string `json:"position"`
}

type Dataset struct {
	Label string     `json:"label"`
	Data  []*float64 `json:"data"`
}

// ChartData mirrors the data object a line chart consumes.
type ChartData struct {
	Player   *PlayerInfo `json:"player,omitempty"`
	Labels   []string    `json:"labels"`
	Datasets []Dataset   `json:"datasets"`
}

// Chart turns rows into labels and one series. Player is set from the first row when every row
// belongs to the same player.
func Chart(metric model.Metric, rows []model.PlayerSeasonMetric) ChartData {
	chart := ChartData{
		Labels:   make([]string, 0, len(rows)),
		Datasets: []Dataset{{Label: metric.Title, Data: make([]*float64, 0, len(rows))}},
	}
	single := len(rows) > 0
	for _, r := range rows {
		chart.Labels = append(chart.Labels, Label(metric, r))
		chart.Datasets[0].Data = append(chart.Datasets[0].Data, r.Value)
		if r.PlayerID != rows[0].PlayerID {
			single = false
		}
	}
	if single {
		chart.Player = &PlayerInfo{Name: rows[0].Name, PlayerID: rows[0].PlayerID, Position: rows[0].Position}
	}
	return chart
}

// Label is the x-axis label for one row: the year, or "year, team" for per-team metrics.
func Label(metric model.Metric, r model.PlayerSeasonMetric) string {
	if metric.TeamLabel {
		return fmt.Sprintf("%d, %s", r.Year, r.Team)
	}
	return strconv.Itoa(r.Year)
}
