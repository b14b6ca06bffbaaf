// Package datalog records named simulation variables to per-run
// directories: one states.csv with a row per macro-update plus a
// metadata.json, so runs can be listed and plotted after the fact.
package datalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type group struct {
	names []string
	vals  []float64
}

// Logger registers live-updated backing slices before logging begins,
// then copies their current values into one row per AppendRow call.
// Callers keep writing into the registered slices; the logger never
// copies them until a row is appended.
type Logger struct {
	dt      float64
	baseDir string

	groups []group
	seen   map[string]bool

	runDir string
	file   *os.File
	w      *csv.Writer
	rows   int
}

// RunMetadata is written next to each run's CSV.
type RunMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Dt        float64   `json:"dt"`
	Rows      int       `json:"rows"`
	Variables []string  `json:"variables"`
}

// New creates a logger writing runs under baseDir; dt is the time step
// between rows.
func New(dt float64, baseDir string) *Logger {
	return &Logger{dt: dt, baseDir: baseDir, seen: make(map[string]bool)}
}

// AddVariables registers a set of named variables backed by vals. The
// slice must stay alive and be assigned into (not replaced) by the
// caller. Mismatched lengths, duplicate names, and registration while
// a log is active are programming errors.
func (l *Logger) AddVariables(names []string, vals []float64) {
	if len(names) != len(vals) {
		panic(fmt.Sprintf("datalog: %d names for %d values", len(names), len(vals)))
	}
	if l.IsLogging() {
		panic("datalog: AddVariables called while logging active")
	}
	for _, n := range names {
		if l.seen[n] {
			panic("datalog: duplicate variable " + n)
		}
		l.seen[n] = true
	}
	l.groups = append(l.groups, group{names: names, vals: vals})
}

func (l *Logger) IsLogging() bool { return l.file != nil }

// BeginLog starts a new run directory and returns its path.
func (l *Logger) BeginLog() (string, error) {
	if l.IsLogging() {
		return "", fmt.Errorf("datalog: log already active")
	}

	runID := fmt.Sprintf("run_%s", time.Now().Format("20060102_150405"))
	runDir := filepath.Join(l.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("datalog: %w", err)
	}

	f, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", fmt.Errorf("datalog: %w", err)
	}

	w := csv.NewWriter(f)
	header := []string{"time"}
	for _, g := range l.groups {
		header = append(header, g.names...)
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return "", fmt.Errorf("datalog: %w", err)
	}

	l.runDir = runDir
	l.file = f
	l.w = w
	l.rows = 0
	return runDir, nil
}

// AppendRow copies every registered variable into one log row.
func (l *Logger) AppendRow() error {
	if !l.IsLogging() {
		return fmt.Errorf("datalog: no active log")
	}

	row := make([]string, 0, 1+len(l.seen))
	row = append(row, strconv.FormatFloat(float64(l.rows)*l.dt, 'f', 6, 64))
	for _, g := range l.groups {
		for _, v := range g.vals {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
	}
	if err := l.w.Write(row); err != nil {
		return fmt.Errorf("datalog: %w", err)
	}
	l.rows++
	return nil
}

// Finish flushes and closes the active run, writes its metadata, and
// returns the run directory. Returns "" if no log was active.
func (l *Logger) Finish() (string, error) {
	if !l.IsLogging() {
		return "", nil
	}

	l.w.Flush()
	flushErr := l.w.Error()
	closeErr := l.file.Close()

	runDir := l.runDir
	rows := l.rows
	l.file = nil
	l.w = nil
	l.runDir = ""

	if flushErr != nil {
		return "", fmt.Errorf("datalog: %w", flushErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("datalog: %w", closeErr)
	}

	var names []string
	for _, g := range l.groups {
		names = append(names, g.names...)
	}

	meta := RunMetadata{
		ID:        filepath.Base(runDir),
		Timestamp: time.Now(),
		Dt:        l.dt,
		Rows:      rows,
		Variables: names,
	}

	f, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", fmt.Errorf("datalog: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("datalog: %w", err)
	}

	return runDir, nil
}

// LoadRun reads one recorded run back as metadata plus per-variable
// columns keyed by name, including "time".
func LoadRun(baseDir, runID string) (RunMetadata, map[string][]float64, error) {
	var meta RunMetadata

	data, err := os.ReadFile(filepath.Join(baseDir, runID, "metadata.json"))
	if err != nil {
		return meta, nil, fmt.Errorf("datalog: %w", err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, nil, fmt.Errorf("datalog: %w", err)
	}

	f, err := os.Open(filepath.Join(baseDir, runID, "states.csv"))
	if err != nil {
		return meta, nil, fmt.Errorf("datalog: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return meta, nil, fmt.Errorf("datalog: %w", err)
	}
	if len(records) == 0 {
		return meta, nil, fmt.Errorf("datalog: empty states file for %s", runID)
	}

	header := records[0]
	cols := make(map[string][]float64, len(header))
	for _, name := range header {
		cols[name] = make([]float64, 0, len(records)-1)
	}
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			return meta, nil, fmt.Errorf("datalog: ragged row in %s", runID)
		}
		for i, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return meta, nil, fmt.Errorf("datalog: %w", err)
			}
			cols[header[i]] = append(cols[header[i]], v)
		}
	}
	return meta, cols, nil
}

// List returns metadata for every recorded run under baseDir.
func List(baseDir string) ([]RunMetadata, error) {
	entries, err := os.ReadDir(baseDir)
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
		data, err := os.ReadFile(filepath.Join(baseDir, entry.Name(), "metadata.json"))
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
