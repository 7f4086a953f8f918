package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// subBlocks are the fractional fill characters used by sparkline.
var subBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sparkline renders data on a single row of width cells, scaled between
// minVal and maxVal. colorFn picks the style of each cell from its value.
//
//	▂▂▃▃▄▅▆▆▇█▇▆▅
func sparkline(data []float64, width int, minVal, maxVal float64, colorFn func(float64) lipgloss.Style) string {
	if width < 1 || len(data) == 0 {
		return ""
	}
	if maxVal <= minVal {
		maxVal = minVal + 1
	}

	var sb strings.Builder
	for _, val := range resampleData(data, width) {
		normalized := (val - minVal) / (maxVal - minVal)
		idx := int(normalized*float64(len(subBlocks)-1) + 0.5)
		if idx < 1 {
			idx = 1 // keep the baseline visible
		}
		if idx >= len(subBlocks) {
			idx = len(subBlocks) - 1
		}
		sb.WriteString(colorFn(val).Render(string(subBlocks[idx])))
	}
	return sb.String()
}

// resampleData reduces data to targetWidth columns by averaging buckets.
// Shorter data is returned as is.
func resampleData(data []float64, targetWidth int) []float64 {
	if len(data) <= targetWidth {
		return data
	}
	result := make([]float64, targetWidth)
	for i := 0; i < targetWidth; i++ {
		srcStart := i * len(data) / targetWidth
		srcEnd := (i + 1) * len(data) / targetWidth
		if srcStart >= srcEnd {
			srcStart = srcEnd - 1
		}
		sum := float64(0)
		for j := srcStart; j < srcEnd; j++ {
			sum += data[j]
		}
		result[i] = sum / float64(srcEnd-srcStart)
	}
	return result
}

// tempRange returns chart bounds covering data and the warning threshold.
func tempRange(data []float64, threshold float64) (float64, float64) {
	lo, hi := threshold-20, threshold+10
	for _, v := range data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
