// Package histogram draws the response time history as a vertical ASCII bar
// chart, one column per reading.
package histogram

import (
	"fmt"
	"io"
	"strings"
)

const (
	MaxRows = 12

	Fill  = '#'
	Blank = ' '
)

// Chart is the bucketing of one history. Readings are truncated to whole
// milliseconds before anything is computed.
type Chart struct {
	Readings []int
	Min      int
	Max      int
	Rows     int
	Unit     int
}

func New(readings []float64) Chart {
	truncated := make([]int, len(readings))
	for i, r := range readings {
		truncated[i] = int(r)
	}

	c := Chart{Readings: truncated}
	if len(truncated) > 0 {
		c.Min, c.Max = truncated[0], truncated[0]
		for _, r := range truncated[1:] {
			c.Min = min(c.Min, r)
			c.Max = max(c.Max, r)
		}
	}

	barLength := max(c.Max-c.Min, 1)
	c.Rows = min(MaxRows, barLength)
	// Rows never exceeds barLength, so Unit is at least 1 here; the integer
	// division still floors wide ranges onto the row cap.
	c.Unit = barLength / c.Rows

	return c
}

// Thresholds lists the row thresholds from the top row down.
func (c Chart) Thresholds() []int {
	thresholds := make([]int, 0, c.Rows)
	for row := c.Rows; row >= 1; row-- {
		thresholds = append(thresholds, c.Min+row*c.Unit)
	}
	return thresholds
}

// Lines renders the bars followed by the axis and the unit label.
func (c Chart) Lines() []string {
	lines := make([]string, 0, c.Rows+2)

	for _, threshold := range c.Thresholds() {
		var b strings.Builder
		fmt.Fprintf(&b, "%4d|", threshold)
		for _, r := range c.Readings {
			if r >= threshold {
				b.WriteByte(Fill)
			} else {
				b.WriteByte(Blank)
			}
		}
		lines = append(lines, b.String())
	}

	lines = append(lines, fmt.Sprintf("%4d+%s", c.Min, strings.Repeat("-", c.Rows)))
	lines = append(lines, "    ms")

	return lines
}

// Render prints the iteration header and the chart for readings.
func Render(w io.Writer, iteration int, readings []float64) error {
	if _, err := fmt.Fprintf(w, "Iteration: %d\nChart:\n", iteration); err != nil {
		return err
	}

	for _, line := range New(readings).Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
