package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/ballistics/internal/physics"
)

type SVGOptions struct {
	Width       int
	Height      int
	StrokeColor string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 800, Height: 400, StrokeColor: "#00ff88"}
}

// TrajectorySVG draws the flight path in the x/y plane with the ground
// line at y=0. Axes share one scale so launch angles look right.
func TrajectorySVG(samples []physics.Sample, opts SVGOptions) string {
	if len(samples) < 2 {
		return ""
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultSVGOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.StrokeColor == "" {
		opts.StrokeColor = DefaultSVGOptions().StrokeColor
	}

	// Find bounds, always including the ground line
	minX, maxX := samples[0].X, samples[0].X
	minY, maxY := 0.0, 0.0
	for _, p := range samples {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	pad := 0.05 * max(rangeX, rangeY)
	minX -= pad
	minY -= pad
	rangeX += 2 * pad
	rangeY += 2 * pad

	w, h := float64(opts.Width), float64(opts.Height)
	scale := min(w/rangeX, h/rangeY)
	toX := func(x float64) float64 { return (x - minX) * scale }
	toY := func(y float64) float64 { return h - (y-minY)*scale }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444466" stroke-width="1"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		opts.Width, opts.Height, opts.Width, opts.Height,
		toY(0), opts.Width, toY(0),
		opts.StrokeColor))

	for i, p := range samples {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", toX(p.X), toY(p.Y)))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", toX(p.X), toY(p.Y)))
		}
	}

	last := samples[len(samples)-1]
	sb.WriteString(fmt.Sprintf(`"/>
<circle cx="%.1f" cy="%.1f" r="3" fill="#ff4444"/>
</svg>`, toX(last.X), toY(last.Y)))
	return sb.String()
}
