package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/springlab/internal/sim"
)

type ExportData struct {
	Screen   string             `json:"screen"`
	Preset   string             `json:"preset"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Columns  []string           `json:"columns"`
	Times    []float64          `json:"times"`
	States   [][]float64        `json:"states"`
	Metrics  map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, run Run, result *sim.Result) error {
	data := ExportData{
		Screen:   run.Screen,
		Preset:   run.Preset,
		Dt:       run.Dt,
		Duration: run.Duration,
		Steps:    len(result.Times),
		Columns:  result.Columns,
		Times:    result.Times,
		States:   make([][]float64, len(result.States)),
		Metrics:  result.Metrics,
	}

	for i, s := range result.States {
		data.States[i] = s
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
