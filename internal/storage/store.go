// Package storage keeps trajectory runs on disk. Each run is a directory
// holding metadata.json and samples.csv.
package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/ballistics/internal/physics"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var (
	ErrRunNotFound = errors.New("storage: run not found")
	ErrNoRuns      = errors.New("storage: no saved runs")
	ErrInvalidID   = errors.New("storage: invalid run id")
)

var csvHeader = []string{"time", "x", "y", "vx", "vy", "speed"}

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
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Label      string             `json:"label,omitempty"`
	Preset     string             `json:"preset,omitempty"`
	Integrator string             `json:"integrator"`
	Surface    string             `json:"surface"`
	Dt         float64            `json:"dt"`
	Launch     physics.Params     `json:"launch"`
	Steps      int                `json:"steps"`
	MaxHeight  float64            `json:"max_height"`
	Range      float64            `json:"range"`
	FlightTime float64            `json:"flight_time"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run and returns its id. ID, Timestamp and the summary
// fields of meta are filled in from the samples.
func (s *Store) Save(meta RunMetadata, samples []physics.Sample) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Launch.Material, now.UnixNano())
	meta.Timestamp = now

	sum := physics.Summarize(samples)
	meta.Steps = sum.Steps
	meta.MaxHeight = sum.MaxHeight
	meta.Range = sum.Range
	meta.FlightTime = sum.FlightTime

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, samples); err != nil {
		return "", err
	}
	return meta.ID, csvFile.Sync()
}

// List returns all readable runs, oldest first. A missing base directory
// is an empty store.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}
	return &runs[len(runs)-1], nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := s.read(runID, metadataFile)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]physics.Sample, error) {
	data, err := s.read(runID, samplesFile)
	if err != nil {
		return nil, err
	}

	samples, err := ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return samples, nil
}

func (s *Store) read(runID, name string) ([]byte, error) {
	if runID == "" || runID != filepath.Base(runID) || runID == "." || runID == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, runID)
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return data, err
}

// WriteCSV writes samples with a header row.
func WriteCSV(w io.Writer, samples []physics.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	row := make([]string, len(csvHeader))
	for _, sm := range samples {
		for i, v := range []float64{sm.Time, sm.X, sm.Y, sm.VX, sm.VY, sm.Speed} {
			row[i] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what WriteCSV produced.
func ReadCSV(r io.Reader) ([]physics.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []physics.Sample{}, nil
	}

	samples := make([]physics.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [6]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, csvHeader[j], err)
			}
			vals[j] = v
		}
		samples = append(samples, physics.Sample{
			Time:  vals[0],
			X:     vals[1],
			Y:     vals[2],
			VX:    vals[3],
			VY:    vals[4],
			Speed: vals[5],
		})
	}
	return samples, nil
}
