package analysis

import (
	"math"
	"testing"
)

func sine(freq, dt float64, n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * freq * float64(i) * dt)
	}
	return data
}

func TestPowerSpectrumPeak(t *testing.T) {
	dt := 0.04
	data := sine(2.0, dt, 500)

	ps := PowerSpectrum(data)
	if len(ps) != 257 {
		t.Fatalf("expected 257 bins for 512-point transform, got %d", len(ps))
	}

	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}
	// 2 hz at 25 hz sampling over a 512-point transform lands near
	// bin 41.
	wantBin := 2.0 * dt * 512
	if math.Abs(float64(maxIdx)-wantBin) > 2 {
		t.Errorf("expected spectral peak near bin %.0f, got %d", wantBin, maxIdx)
	}
}

func TestDominantFrequency(t *testing.T) {
	dt := 0.04
	data := sine(2.0, dt, 500)

	got := DominantFrequency(data, dt)
	if math.Abs(got-2.0) > 0.1 {
		t.Errorf("expected dominant frequency near 2.0 hz, got %f", got)
	}
}

func TestDominantFrequencyConstantSignal(t *testing.T) {
	data := make([]float64, 60)
	for i := range data {
		data[i] = 3.0
	}
	// All energy at DC; the strongest non-DC bin is spectral leakage
	// from the zero padding, well below 1 hz for this length.
	got := DominantFrequency(data, 0.04)
	if got > 1.0 {
		t.Errorf("expected near-DC result for constant signal, got %f", got)
	}
}

func TestDominantFrequencyDegenerateInputs(t *testing.T) {
	if got := DominantFrequency(nil, 0.04); got != 0 {
		t.Errorf("expected 0 for empty input, got %f", got)
	}
	if got := DominantFrequency([]float64{1, 2, 3, 4}, 0); got != 0 {
		t.Errorf("expected 0 for zero dt, got %f", got)
	}
}
