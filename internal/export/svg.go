// Package export renders recorded robot trajectories to SVG: the room
// outline, the ground-truth track, and the odometry track overlaid.
package export

import (
	"fmt"
	"os"
	"strings"
)

// PixelsPerMeter scales world coordinates to SVG user units.
const PixelsPerMeter = 100.0

// TrajectorySVG renders the true and odometry x/y tracks inside a
// roomW x roomH arena. Either track may be nil. The SVG y axis points
// down, so world y is flipped.
func TrajectorySVG(trueX, trueY, odomX, odomY []float64, roomW, roomH float64) string {
	w := roomW * PixelsPerMeter
	h := roomH * PixelsPerMeter

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#fafafa" stroke="#333" stroke-width="4"/>
`, w, h, w, h))

	writeTrack(&sb, trueX, trueY, h, `fill="none" stroke="#2a9d2a" stroke-width="3"`)
	writeTrack(&sb, odomX, odomY, h, `fill="none" stroke="#e07020" stroke-width="2" stroke-dasharray="8,6"`)

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writeTrack(sb *strings.Builder, xs, ys []float64, height float64, style string) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return
	}
	sb.WriteString(`<polyline ` + style + ` points="`)
	for i := range xs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(sb, "%.1f,%.1f",
			xs[i]*PixelsPerMeter, height-ys[i]*PixelsPerMeter)
	}
	sb.WriteString("\"/>\n")
}

// WriteTrajectory renders the tracks and writes the SVG to path.
func WriteTrajectory(path string, trueX, trueY, odomX, odomY []float64, roomW, roomH float64) error {
	svg := TrajectorySVG(trueX, trueY, odomX, odomY, roomW, roomH)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
