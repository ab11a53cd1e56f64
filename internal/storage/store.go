package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/nbody/internal/sim"
	"github.com/san-kum/nbody/internal/universe"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	snapshotFile   = "final.txt"

	colsPerBody = 4
)

// ErrNotFound is returned when a run directory has no metadata.
var ErrNotFound = errors.New("storage: run not found")

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
	ID          string             `json:"id"`
	Source      string             `json:"source"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	Workers     int                `json:"workers"`
	Tags        []string           `json:"tags"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes the run metadata, the sampled trajectory and the final
// snapshot under a new run directory and returns its id. Fields of meta
// derived from result are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result, final *universe.Universe) (string, error) {
	now := time.Now()
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", runName(meta.Source), now.UnixNano())
	}
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.Tags = result.Tags
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), result); err != nil {
		return "", err
	}
	if final != nil {
		text, err := final.MarshalText()
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(filepath.Join(runDir, snapshotFile), text, 0644); err != nil {
			return "", err
		}
	}

	return meta.ID, nil
}

func runName(source string) string {
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	switch name {
	case "", ".", string(filepath.Separator):
		return "run"
	case "-":
		return "stdin"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, name)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeTrajectory(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"step", "time"}
	for i := range result.Tags {
		header = append(header,
			fmt.Sprintf("b%d_x", i), fmt.Sprintf("b%d_y", i),
			fmt.Sprintf("b%d_vx", i), fmt.Sprintf("b%d_vy", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, smp := range result.Samples {
		row := []string{strconv.Itoa(smp.Step), formatFloat(smp.Time)}
		for _, b := range smp.Bodies {
			row = append(row,
				formatFloat(b.Position.X), formatFloat(b.Position.Y),
				formatFloat(b.Velocity.X), formatFloat(b.Velocity.Y))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// List returns every readable run, oldest first.
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory reads the sampled states of a run.
func (s *Store) LoadTrajectory(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		smp, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("storage: %s row %d: %w", trajectoryFile, i+2, err)
		}
		samples = append(samples, smp)
	}

	return samples, nil
}

func parseSample(record []string) (sim.Sample, error) {
	if len(record) < 2 || (len(record)-2)%colsPerBody != 0 {
		return sim.Sample{}, fmt.Errorf("unexpected column count %d", len(record))
	}

	step, err := strconv.Atoi(record[0])
	if err != nil {
		return sim.Sample{}, err
	}
	vals := make([]float64, len(record)-1)
	for j, field := range record[1:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return sim.Sample{}, err
		}
		vals[j] = v
	}

	smp := sim.Sample{Step: step, Time: vals[0], Bodies: make([]sim.BodyState, (len(vals)-1)/colsPerBody)}
	for b := range smp.Bodies {
		v := vals[1+b*colsPerBody:]
		smp.Bodies[b] = sim.BodyState{
			Position: r2.Vec{X: v[0], Y: v[1]},
			Velocity: r2.Vec{X: v[2], Y: v[3]},
		}
	}
	return smp, nil
}

// LoadSnapshot decodes the final state of a run.
func (s *Store) LoadSnapshot(runID string) (*universe.Universe, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, snapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	return universe.Load(f)
}
