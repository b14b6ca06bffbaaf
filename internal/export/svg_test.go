package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTrajectorySVG(t *testing.T) {
	trueX := []float64{0.5, 1.0, 1.5}
	trueY := []float64{0.5, 0.5, 1.0}
	odomX := []float64{0.5, 1.0, 1.4}
	odomY := []float64{0.5, 0.5, 0.9}

	svg := TrajectorySVG(trueX, trueY, odomX, odomY, 4, 3)

	if !strings.HasPrefix(svg, `<?xml`) {
		t.Error("expected xml prolog")
	}
	if !strings.Contains(svg, `width="400" height="300"`) {
		t.Errorf("expected 400x300 canvas for a 4x3 room:\n%s", svg)
	}
	if got := strings.Count(svg, "<polyline"); got != 2 {
		t.Errorf("expected 2 polylines, got %d", got)
	}
	// World y points up while svg y points down: the first point of
	// the true track is at (50, 250).
	if !strings.Contains(svg, `points="50.0,250.0`) {
		t.Errorf("expected flipped y coordinates:\n%s", svg)
	}
	if !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Error("expected closing svg tag")
	}
}

func TestTrajectorySVGSkipsDegenerate(t *testing.T) {
	svg := TrajectorySVG(nil, nil, []float64{1}, []float64{1}, 2, 2)
	if strings.Contains(svg, "<polyline") {
		t.Error("expected no polylines for degenerate tracks")
	}
}

func TestWriteTrajectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.svg")
	trueX := []float64{0, 1}
	trueY := []float64{0, 1}

	if err := WriteTrajectory(path, trueX, trueY, nil, nil, 2, 2); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("expected svg content on disk")
	}
}
