package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/EvanCarter/ElectroSimulations/internal/generator"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Rig       string             `json:"rig"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Kernel    string             `json:"kernel"`
	Coils     []string           `json:"coils"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(rig string, kernel string, seed int64, result *generator.Result) (string, error) {
	return s.SaveNamed(rig, rig, kernel, seed, result)
}

// SaveNamed is Save with a caller-chosen run ID prefix instead of the rig
// type.
func (s *Store) SaveNamed(name, rig, kernel string, seed int64, result *generator.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	coils := make([]string, 0, len(result.Traces))
	for _, tr := range result.Traces {
		coils = append(coils, tr.Coil.Name)
	}

	meta := RunMetadata{
		ID:        runID,
		Rig:       rig,
		Timestamp: time.Now(),
		Seed:      seed,
		Dt:        result.Dt,
		Duration:  result.Duration,
		Kernel:    kernel,
		Coils:     coils,
		Metrics:   result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "traces.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteTracesCSV(csvFile, result); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteTracesCSV writes the run as one row per time step, with a flux and a
// voltage column for every coil.
func WriteTracesCSV(w io.Writer, result *generator.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if len(result.Traces) == 0 || result.Traces[0].Flux.Len() == 0 {
		return nil
	}

	header := []string{"time"}
	for _, tr := range result.Traces {
		header = append(header, tr.Coil.Name+"_flux", tr.Coil.Name+"_voltage")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	times := result.Traces[0].Flux.Times
	for i := range times {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, tr := range result.Traces {
			row = append(row, strconv.FormatFloat(tr.Flux.Values[i], 'f', 6, 64))
			if i < len(tr.Voltage.Values) {
				row = append(row, strconv.FormatFloat(tr.Voltage.Values[i], 'f', 6, 64))
			} else {
				row = append(row, "0")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// TraceData is a parsed traces.csv: one named column per coil signal.
type TraceData struct {
	Names  []string
	Times  []float64
	Values [][]float64
}

// Column returns the values stored under name, or nil if absent.
func (d *TraceData) Column(name string) []float64 {
	for i, n := range d.Names {
		if n == name {
			return d.Values[i]
		}
	}
	return nil
}

func (s *Store) LoadTraces(runID string) (*TraceData, error) {
	csvPath := filepath.Join(s.baseDir, runID, "traces.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	data := &TraceData{}
	if len(records) < 2 {
		return data, nil
	}

	data.Names = records[0][1:]
	data.Values = make([][]float64, len(data.Names))

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		data.Times = append(data.Times, t)

		for j := 1; j < len(record) && j-1 < len(data.Values); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			data.Values[j-1] = append(data.Values[j-1], val)
		}
	}

	return data, nil
}
