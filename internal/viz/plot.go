package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ballistics/internal/physics"
)

// HeightProfile plots height over the flight, resampled to at most width
// points.
func HeightProfile(samples []physics.Sample, width, height int, caption string) string {
	if len(samples) < 2 {
		return ""
	}
	return asciigraph.Plot(resample(samples, width, func(s physics.Sample) float64 { return s.Y }),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// SpeedProfile plots speed over the flight.
func SpeedProfile(samples []physics.Sample, width, height int) string {
	if len(samples) < 2 {
		return ""
	}
	return asciigraph.Plot(resample(samples, width, func(s physics.Sample) float64 { return s.Speed }),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("speed (m/s)"),
	)
}

func resample(samples []physics.Sample, n int, field func(physics.Sample) float64) []float64 {
	if n < 2 || len(samples) <= n {
		out := make([]float64, len(samples))
		for i, s := range samples {
			out[i] = field(s)
		}
		return out
	}

	out := make([]float64, n)
	last := len(samples) - 1
	for i := range out {
		out[i] = field(samples[i*last/(n-1)])
	}
	return out
}
