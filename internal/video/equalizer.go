package video

import (
	"fmt"
	"math"
)

const (
	equalizerBars    = 12
	barSpacing       = 10
	barBaselineInset = 100 // gap between the bar baseline and the frame bottom
	barCycleRate     = 0.5 // full sweeps per second across the bar row
)

// BarHeightFraction returns the normalized height (0..1) of bar index at
// time t: a sinusoid phase-shifted by the bar's position so the row ripples
// left to right, cycling at barCycleRate.
func BarHeightFraction(t float64, index, numBars int) float64 {
	phase := barCycleRate*t + float64(index)/float64(numBars)
	return (math.Sin(2*math.Pi*phase) + 1) / 2
}

// equalizerFilters builds one drawbox filter per bar. Each box's y and
// height are time expressions mirroring BarHeightFraction, evaluated by
// ffmpeg per frame.
func equalizerFilters(width, height int) []string {
	barWidth := width / equalizerBars
	maxHeight := height / 3

	filters := make([]string, 0, equalizerBars)
	for i := 0; i < equalizerBars; i++ {
		xStart := i*barWidth + barSpacing
		boxWidth := barWidth - 2*barSpacing
		// (sin(2π(rate·t + i/bars)) + 1)/2 · maxHeight
		heightExpr := fmt.Sprintf("((sin(2*PI*(%s*t+%d/%d))+1)/2*%d)",
			formatRate(barCycleRate), i, equalizerBars, maxHeight)
		filters = append(filters, fmt.Sprintf(
			"drawbox=x=%d:y=ih-%d-%s:w=%d:h=%s:color=%s:t=fill",
			xStart, barBaselineInset, heightExpr, boxWidth, heightExpr,
			barPalette[i%len(barPalette)],
		))
	}
	return filters
}

func formatRate(rate float64) string {
	return fmt.Sprintf("%g", rate)
}
