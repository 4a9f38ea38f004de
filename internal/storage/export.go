package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/EvanCarter/ElectroSimulations/internal/generator"
)

type ExportData struct {
	Rig      string               `json:"rig"`
	Kernel   string               `json:"kernel"`
	Dt       float64              `json:"dt"`
	Duration float64              `json:"duration"`
	Steps    int                  `json:"steps"`
	Times    []float64            `json:"times"`
	Flux     map[string][]float64 `json:"flux"`
	Voltage  map[string][]float64 `json:"voltage"`
	Metrics  map[string]float64   `json:"metrics"`
}

func buildExportData(rig, kernel string, result *generator.Result) ExportData {
	data := ExportData{
		Rig:      rig,
		Kernel:   kernel,
		Dt:       result.Dt,
		Duration: result.Duration,
		Steps:    result.StepsTaken,
		Flux:     make(map[string][]float64, len(result.Traces)),
		Voltage:  make(map[string][]float64, len(result.Traces)),
		Metrics:  result.Metrics,
	}
	if len(result.Traces) > 0 {
		data.Times = result.Traces[0].Flux.Times
	}
	for _, tr := range result.Traces {
		data.Flux[tr.Coil.Name] = tr.Flux.Values
		data.Voltage[tr.Coil.Name] = tr.Voltage.Values
	}
	return data
}

func ExportJSON(path string, rig, kernel string, result *generator.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return writeExportJSON(file, rig, kernel, result)
}

func ExportJSONStdout(rig, kernel string, result *generator.Result) error {
	return writeExportJSON(os.Stdout, rig, kernel, result)
}

func writeExportJSON(w io.Writer, rig, kernel string, result *generator.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExportData(rig, kernel, result))
}
