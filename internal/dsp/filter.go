// Package dsp provides the small discrete-time signal primitives used
// by the actuation pipeline: a direct-form recursive (IIR) filter with
// a bypass mode.
package dsp

// Filter is a single-input single-output recursive filter. The output
// is a linear combination of the last len(b) inputs (including the
// newest sample) and the last len(a) outputs:
//
//	y[k] = b[0]*x[k] + b[1]*x[k-1] + ... - a[0]*y[k-1] - a[1]*y[k-2] - ...
//
// Histories are ring buffers with a moving head. Bypass mode returns
// the sample unfiltered but still shifts both histories, so internal
// state stays continuous when filtering is re-enabled.
type Filter struct {
	b []float64
	a []float64

	in      []float64
	out     []float64
	inHead  int
	outHead int

	bypass bool
}

// NewFilter constructs a filter with feedforward coefficients b and
// feedback coefficients a. Both must be non-empty; histories start at
// zero.
func NewFilter(b, a []float64) *Filter {
	f := &Filter{
		b:   append([]float64(nil), b...),
		a:   append([]float64(nil), a...),
		in:  make([]float64, len(b)),
		out: make([]float64, len(a)),
	}
	return f
}

func (f *Filter) SetBypass(bypass bool) { f.bypass = bypass }

func (f *Filter) Bypassed() bool { return f.bypass }

// Step pushes one sample through the filter and returns the new output.
func (f *Filter) Step(sample float64) float64 {
	f.inHead = (f.inHead + len(f.in) - 1) % len(f.in)
	f.in[f.inHead] = sample

	var y float64
	if f.bypass {
		y = sample
	} else {
		for i, bi := range f.b {
			y += bi * f.in[(f.inHead+i)%len(f.in)]
		}
		for i, ai := range f.a {
			y -= ai * f.out[(f.outHead+i)%len(f.out)]
		}
	}

	f.outHead = (f.outHead + len(f.out) - 1) % len(f.out)
	f.out[f.outHead] = y

	return y
}

// Output returns the most recent filter output without stepping.
func (f *Filter) Output() float64 {
	return f.out[f.outHead]
}

// Reset zeroes both histories.
func (f *Filter) Reset() {
	for i := range f.in {
		f.in[i] = 0
	}
	for i := range f.out {
		f.out[i] = 0
	}
	f.inHead = 0
	f.outHead = 0
}
