// Package metrics computes summary statistics over recorded run
// columns: path length, odometry drift, and control effort.
package metrics

import "math"

// PathLength sums the point-to-point distance along an x/y track.
// Mismatched or empty inputs yield 0.
func PathLength(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(xs); i++ {
		total += math.Hypot(xs[i]-xs[i-1], ys[i]-ys[i-1])
	}
	return total
}

// FinalDrift is the distance between the true and odometry tracks at
// the last sample.
func FinalDrift(trueX, trueY, odomX, odomY []float64) float64 {
	n := len(trueX)
	if n == 0 || len(trueY) != n || len(odomX) != n || len(odomY) != n {
		return 0
	}
	i := n - 1
	return math.Hypot(odomX[i]-trueX[i], odomY[i]-trueY[i])
}

// RMSDrift is the root-mean-square distance between the true and
// odometry tracks over the whole run.
func RMSDrift(trueX, trueY, odomX, odomY []float64) float64 {
	n := len(trueX)
	if n == 0 || len(trueY) != n || len(odomX) != n || len(odomY) != n {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		dx := odomX[i] - trueX[i]
		dy := odomY[i] - trueY[i]
		sum += dx*dx + dy*dy
	}
	return math.Sqrt(sum / float64(n))
}

// ControlEffort is the mean absolute motor voltage across both wheels.
func ControlEffort(voltL, voltR []float64) float64 {
	n := len(voltL)
	if n == 0 || len(voltR) != n {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += math.Abs(voltL[i]) + math.Abs(voltR[i])
	}
	return sum / float64(2*n)
}

// MaxAbs returns the largest magnitude in the series.
func MaxAbs(data []float64) float64 {
	max := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	return max
}
