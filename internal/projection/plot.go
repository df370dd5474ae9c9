package projection

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

type curve struct {
	name   string
	values []float64
	style  lineStyle
	color  string
}

type lineStyle struct {
	name   string
	period int
	on     int
}

var (
	solidLine  = lineStyle{name: "solid", period: 1, on: 1}
	dashedLine = lineStyle{name: "dashed", period: 6, on: 3}
)

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	colorCyan           = "\x1b[36m"
	colorYellow         = "\x1b[33m"
	terminalWidthBackup = 80
)

// PlotWeight renders the projected weight against the target as a braille
// line plot. Nothing is written for an empty plan.
func PlotWeight(w io.Writer, p Plan, width, height int, forceColor bool) error {
	if p.ExpectedDays <= 0 || p.DailyBurn <= 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	axisLabels := makeAxisLabels(p, height)
	axisWidth := 0
	for _, label := range axisLabels {
		axisWidth = max(axisWidth, runewidth.StringWidth(label))
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth(), axisWidth)
	}
	width = max(width, minPlotWidth)

	curves := []curve{
		{name: "projected weight", values: sampleWeights(p, width), style: solidLine, color: colorCyan},
		{name: "target", values: constant(p.TargetWeightKg, width), style: dashedLine, color: colorYellow},
	}
	lo, hi := p.TargetWeightKg, p.StartWeightKg
	if math.Abs(hi-lo) < 1e-9 {
		lo--
		hi++
	}

	cells := make([][][]uint8, len(curves))
	for ci, c := range curves {
		cells[ci] = makeCells(height, width)
		prevX, prevY := -1, -1
		for x, v := range c.values {
			px := x * 2
			py := valueToRow(v, lo, hi, height*4)
			if prevX >= 0 {
				drawLine(prevX, prevY, px, py, func(dx, dy int) {
					if c.style.shouldPlot(dx) {
						setBrailleDot(cells[ci], dx, dy)
					}
				})
			} else if c.style.shouldPlot(px) {
				setBrailleDot(cells[ci], px, py)
			}
			prevX, prevY = px, py
		}
	}

	useColor := shouldUseColor(w, forceColor)
	if _, err := fmt.Fprintf(w, "Projected weight over %d days (kg)\n", p.ExpectedDays); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(runewidth.FillLeft(axisLabels[y], axisWidth))
		row.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, idx := composeCell(cells, x, y)
			ch := brailleFromMask(mask)
			if useColor && idx >= 0 {
				row.WriteString(curves[idx].color)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, renderLegend(curves, useColor)); err != nil {
		return err
	}
	return nil
}

// PlotWidthFor computes a plot width that fits next to the axis labels.
func PlotWidthFor(totalWidth, axisWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisWidth-utf8.RuneCountInString(axisSeparator), minPlotWidth)
}

func sampleWeights(p Plan, width int) []float64 {
	out := make([]float64, width)
	if width == 1 {
		out[0] = p.StartWeightKg
		return out
	}
	for i := range out {
		day := float64(i) * float64(p.ExpectedDays) / float64(width-1)
		out[i] = p.WeightAt(day)
	}
	return out
}

func constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeAxisLabels(p Plan, height int) []string {
	labels := make([]string, height)
	labels[0] = fmt.Sprintf("%.1f", p.StartWeightKg)
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.1f", (p.StartWeightKg+p.TargetWeightKg)/2)
	}
	if height > 1 {
		labels[height-1] = fmt.Sprintf("%.1f", p.TargetWeightKg)
	}
	return labels
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

// composeCell merges the dots of every curve; the first curve owns the color.
func composeCell(cells [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	idx := -1
	for i, c := range cells {
		m := c[y][x]
		if m == 0 {
			continue
		}
		if idx == -1 {
			idx = i
		}
		mask |= m
	}
	return mask, idx
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

func valueToRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func renderLegend(curves []curve, useColor bool) string {
	parts := make([]string, 0, len(curves))
	marker := brailleFromMask(0x01)
	for _, c := range curves {
		label := fmt.Sprintf("%c %s (%s)", marker, c.name, c.style.name)
		if useColor {
			label = c.color + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// drawLine walks a Bresenham line between two dot coordinates.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func setBrailleDot(cells [][]uint8, x, y int) {
	cellY, cellX := y/4, x/2
	if y < 0 || x < 0 || cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

// brailleDotMask maps a dot inside a 2x4 cell to its Unicode bit.
func brailleDotMask(x, y int) uint8 {
	left := [4]uint8{0x01, 0x02, 0x04, 0x40}
	right := [4]uint8{0x08, 0x10, 0x20, 0x80}
	if x == 0 {
		return left[y]
	}
	return right[y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
