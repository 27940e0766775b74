package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/sim"
)

// ErrNotFound is returned when a run ID has no stored metadata.
var ErrNotFound = errors.New("storage: run not found")

// SampleColumns is the header of samples.csv.
var SampleColumns = []string{"time", "temperature", "net", "absorbed", "reflected", "outgoing", "incoming"}

type Store struct {
	baseDir string
	clock   clockwork.Clock
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, clock: clockwork.NewRealClock()}
}

// WithClock replaces the clock used for run IDs and timestamps.
func (s *Store) WithClock(c clockwork.Clock) *Store {
	s.clock = c
	return s
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) Init() error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}

type RunMetadata struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Timestamp          time.Time          `json:"timestamp"`
	Params             climate.Params     `json:"params"`
	FinalParams        climate.Params     `json:"final_params"`
	Dt                 float64            `json:"dt"`
	Steps              int                `json:"steps"`
	Integrator         string             `json:"integrator"`
	InitialTemperature float64            `json:"initial_temperature"`
	FinalTemperature   float64            `json:"final_temperature"`
	Metrics            map[string]float64 `json:"metrics"`
	Errors             int                `json:"errors,omitempty"`
}

// Record is one row of samples.csv.
type Record struct {
	Time        float64 `json:"time"`
	Temperature float64 `json:"temperature"`
	Net         float64 `json:"net"`
	Absorbed    float64 `json:"absorbed"`
	Reflected   float64 `json:"reflected"`
	Outgoing    float64 `json:"outgoing"`
	Incoming    float64 `json:"incoming"`
}

func RecordOf(s sim.Sample) Record {
	return Record{
		Time:        s.Time,
		Temperature: s.Snapshot.Temperature,
		Net:         s.Snapshot.Net,
		Absorbed:    s.Snapshot.Absorbed,
		Reflected:   s.Snapshot.Reflected,
		Outgoing:    s.Snapshot.Outgoing,
		Incoming:    s.Snapshot.Incoming,
	}
}

func (r Record) fields() []float64 {
	return []float64{r.Time, r.Temperature, r.Net, r.Absorbed, r.Reflected, r.Outgoing, r.Incoming}
}

// Save writes the run under a new ID derived from name and the current
// time. meta supplies Name, Params, Dt and Integrator; the rest is filled
// from result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := s.clock.Now()
	meta.Name = safeName(meta.Name)
	runID := fmt.Sprintf("%s_%d", meta.Name, now.Unix())
	for i := 2; ; i++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, runID)); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d_%d", meta.Name, now.Unix(), i)
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.InitialTemperature = result.InitialTemperature
	meta.FinalTemperature = result.InitialTemperature
	meta.FinalParams = meta.Params
	if last, ok := result.Final(); ok {
		meta.FinalTemperature = last.Snapshot.Temperature
		meta.FinalParams = last.Params
	}
	meta.Metrics = result.Metrics
	meta.Errors = len(result.Errors)

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	records := make([]Record, len(result.Samples))
	for i, sample := range result.Samples {
		records[i] = RecordOf(sample)
	}
	if err := writeCSV(filepath.Join(runDir, "samples.csv"), records); err != nil {
		return "", err
	}

	return runID, nil
}

var nameReplacer = strings.NewReplacer("/", "_", "\\", "_", string(filepath.Separator), "_")

// safeName turns a run name into a single path component.
func safeName(name string) string {
	name = nameReplacer.Replace(strings.TrimSpace(name))
	if strings.Trim(name, "._") == "" {
		return "run"
	}
	return name
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeCSV(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := WriteCSV(f, records); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteCSV writes records with the samples.csv header.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SampleColumns); err != nil {
		return err
	}
	row := make([]string, len(SampleColumns))
	for _, r := range records {
		for i, v := range r.fields() {
			row[i] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns stored runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, fmt.Errorf("list runs: %w", err)
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSamples reads samples.csv. Rows that fail to parse are skipped.
func (s *Store) LoadSamples(runID string) ([]Record, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, fmt.Errorf("open samples: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read samples %s: %w", runID, err)
	}
	if len(rows) < 2 {
		return []Record{}, nil
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(SampleColumns) {
			continue
		}
		var v [7]float64
		ok := true
		for i, field := range row {
			if v[i], err = strconv.ParseFloat(field, 64); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		records = append(records, Record{
			Time: v[0], Temperature: v[1], Net: v[2], Absorbed: v[3],
			Reflected: v[4], Outgoing: v[5], Incoming: v[6],
		})
	}
	return records, nil
}

// Column returns one named column of records.
func Column(records []Record, name string) ([]float64, error) {
	idx := -1
	for i, c := range SampleColumns {
		if c == name {
			idx = i
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q, want one of %v", name, SampleColumns)
	}
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.fields()[idx]
	}
	return out, nil
}
