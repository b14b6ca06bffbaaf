package datalog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestLogRoundTrip(t *testing.T) {
	dir := t.TempDir()

	l := New(0.04, dir)

	vals := []float64{0, 0, 0}
	l.AddVariables([]string{"a", "b", "c"}, vals)

	if l.IsLogging() {
		t.Fatal("expected logging inactive before BeginLog")
	}

	runDir, err := l.BeginLog()
	if err != nil {
		t.Fatalf("BeginLog failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		vals[0] = float64(i)
		vals[1] = float64(i) * 2
		vals[2] = -1
		if err := l.AppendRow(); err != nil {
			t.Fatalf("AppendRow failed: %v", err)
		}
	}

	finished, err := l.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if finished != runDir {
		t.Errorf("expected run dir %s, got %s", runDir, finished)
	}

	f, err := os.Open(filepath.Join(runDir, "states.csv"))
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}
	wantHeader := []string{"time", "a", "b", "c"}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Errorf("header[%d]: expected %s, got %s", i, h, rows[0][i])
		}
	}
	if rows[2][1] != "1.000000" || rows[2][2] != "2.000000" {
		t.Errorf("unexpected second row: %v", rows[2])
	}
	if rows[3][0] != "0.080000" {
		t.Errorf("expected time column to advance by dt, got %s", rows[3][0])
	}
}

func TestListRuns(t *testing.T) {
	dir := t.TempDir()

	l := New(0.04, dir)
	l.AddVariables([]string{"x"}, []float64{0})

	if _, err := l.BeginLog(); err != nil {
		t.Fatal(err)
	}
	l.AppendRow()
	if _, err := l.Finish(); err != nil {
		t.Fatal(err)
	}

	runs, err := List(dir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Rows != 1 {
		t.Errorf("expected 1 row, got %d", runs[0].Rows)
	}
	if len(runs[0].Variables) != 1 || runs[0].Variables[0] != "x" {
		t.Errorf("unexpected variables: %v", runs[0].Variables)
	}
}

func TestLoadRun(t *testing.T) {
	dir := t.TempDir()

	l := New(0.04, dir)
	vals := []float64{0, 0}
	l.AddVariables([]string{"x", "y"}, vals)

	runDir, err := l.BeginLog()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		vals[0] = float64(i)
		vals[1] = float64(i) * 10
		if err := l.AppendRow(); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := l.Finish(); err != nil {
		t.Fatal(err)
	}

	meta, cols, err := LoadRun(dir, filepath.Base(runDir))
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if meta.Rows != 5 {
		t.Errorf("expected 5 rows, got %d", meta.Rows)
	}
	if len(cols) != 3 {
		t.Errorf("expected time plus 2 columns, got %d", len(cols))
	}
	if cols["x"][3] != 3 || cols["y"][3] != 30 {
		t.Errorf("unexpected row 3: x=%f y=%f", cols["x"][3], cols["y"][3])
	}
	if cols["time"][4] != 0.16 {
		t.Errorf("expected time 0.16 at row 4, got %f", cols["time"][4])
	}
}

func TestLoadRunMissing(t *testing.T) {
	if _, _, err := LoadRun(t.TempDir(), "run_nope"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestFinishWithoutBegin(t *testing.T) {
	l := New(0.04, t.TempDir())
	dir, err := l.Finish()
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if dir != "" {
		t.Errorf("expected empty dir, got %s", dir)
	}
}

func TestAddVariablesMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on mismatched lengths")
		}
	}()
	l := New(0.04, t.TempDir())
	l.AddVariables([]string{"a", "b"}, []float64{0})
}

func TestDuplicateNamePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate name")
		}
	}()
	l := New(0.04, t.TempDir())
	l.AddVariables([]string{"a"}, []float64{0})
	l.AddVariables([]string{"a"}, []float64{0})
}
