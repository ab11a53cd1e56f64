package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/nbody/internal/sim"
)

type ExportData struct {
	ID          string             `json:"id"`
	Source      string             `json:"source"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	Tags        []string           `json:"tags"`
	Times       []float64          `json:"times"`
	Positions   [][][2]float64     `json:"positions"`
	Velocities  [][][2]float64     `json:"velocities"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

func NewExportData(meta *RunMetadata, samples []sim.Sample) ExportData {
	data := ExportData{
		ID:          meta.ID,
		Source:      meta.Source,
		Dt:          meta.Dt,
		Duration:    meta.Duration,
		Steps:       meta.Steps,
		Tags:        meta.Tags,
		Times:       make([]float64, len(samples)),
		Positions:   make([][][2]float64, len(samples)),
		Velocities:  make([][][2]float64, len(samples)),
		EnergyDrift: meta.EnergyDrift,
		Metrics:     meta.Metrics,
	}

	for i, s := range samples {
		data.Times[i] = s.Time
		data.Positions[i] = make([][2]float64, len(s.Bodies))
		data.Velocities[i] = make([][2]float64, len(s.Bodies))
		for j, b := range s.Bodies {
			data.Positions[i][j] = [2]float64{b.Position.X, b.Position.Y}
			data.Velocities[i][j] = [2]float64{b.Velocity.X, b.Velocity.Y}
		}
	}
	return data
}

func ExportJSON(w io.Writer, meta *RunMetadata, samples []sim.Sample) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, samples))
}

func ExportJSONFile(path string, meta *RunMetadata, samples []sim.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := ExportJSON(file, meta, samples); err != nil {
		return err
	}
	return file.Close()
}
