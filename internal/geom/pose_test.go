package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestComposeInverse(t *testing.T) {
	poses := []Pose{
		{0, 0, 0},
		{1, 2, 0.5},
		{-3, 0.25, -2.5},
		{0.1, -0.1, 7.0},
	}

	for _, p := range poses {
		id := p.Compose(p.Inverse())
		if !almostEqual(id.X, 0, 1e-9) || !almostEqual(id.Y, 0, 1e-9) {
			t.Errorf("expected identity translation, got (%f, %f)", id.X, id.Y)
		}
		if !almostEqual(id.Angle, 0, 1e-9) {
			t.Errorf("expected zero angle, got %f", id.Angle)
		}

		id = p.Inverse().Compose(p)
		if !almostEqual(id.X, 0, 1e-9) || !almostEqual(id.Y, 0, 1e-9) {
			t.Errorf("expected identity translation, got (%f, %f)", id.X, id.Y)
		}
	}
}

func TestComposeAssociative(t *testing.T) {
	a := Pose{1, 0, 0.3}
	b := Pose{-0.5, 2, -1.1}
	c := Pose{0.25, 0.25, 2.0}

	ab_c := a.Compose(b).Compose(c)
	a_bc := a.Compose(b.Compose(c))

	if !almostEqual(ab_c.X, a_bc.X, 1e-12) ||
		!almostEqual(ab_c.Y, a_bc.Y, 1e-12) ||
		!almostEqual(ab_c.Angle, a_bc.Angle, 1e-12) {
		t.Errorf("composition not associative: %+v vs %+v", ab_c, a_bc)
	}
}

func TestApplyKnownPoints(t *testing.T) {
	p := Pose{2, 1, math.Pi / 2}

	tests := []struct {
		in   Point
		want Point
	}{
		{Point{0, 0}, Point{2, 1}},
		{Point{1, 0}, Point{2, 2}},
		{Point{0, 1}, Point{1, 1}},
	}

	for _, tc := range tests {
		got := p.Apply(tc.in)
		if !almostEqual(got.X, tc.want.X, 1e-9) || !almostEqual(got.Y, tc.want.Y, 1e-9) {
			t.Errorf("Apply(%+v): expected %+v, got %+v", tc.in, tc.want, got)
		}

		back := p.ApplyInverse(got)
		if !almostEqual(back.X, tc.in.X, 1e-9) || !almostEqual(back.Y, tc.in.Y, 1e-9) {
			t.Errorf("ApplyInverse round trip failed for %+v: got %+v", tc.in, back)
		}
	}
}

func TestAngleUnnormalized(t *testing.T) {
	p := Pose{0, 0, 3.0}
	q := p.Compose(Pose{0, 0, 3.0})
	if !almostEqual(q.Angle, 6.0, 1e-12) {
		t.Errorf("expected angle 6.0 (no wrapping), got %f", q.Angle)
	}
}
