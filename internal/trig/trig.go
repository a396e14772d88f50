// Package trig prints sample sin/cos/tan values and plots the three curves.
package trig

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// DefaultAngles are the sample angles in degrees.
var DefaultAngles = []float64{0, 30, 45, 60, 90, 120, 180, 270}

const cosZeroTolerance = 1e-12

// Sample holds the values at one angle. Tan is nil where cos is zero.
type Sample struct {
	Degrees float64
	Radians float64
	Sin     float64
	Cos     float64
	Tan     *float64
}

// SampleValues evaluates the functions at deg degrees.
func SampleValues(deg float64) Sample {
	theta := deg * math.Pi / 180
	s := Sample{
		Degrees: deg,
		Radians: theta,
		Sin:     math.Sin(theta),
		Cos:     math.Cos(theta),
	}
	if math.Abs(s.Cos) > cosZeroTolerance {
		t := math.Tan(theta)
		s.Tan = &t
	}
	return s
}

// WriteTable prints one row per angle.
func WriteTable(w io.Writer, angles []float64) error {
	var b strings.Builder
	header := fmt.Sprintf("%4s  %7s  %9s  %9s  %9s", "deg", "rad", "sin", "cos", "tan")
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("-", len(header)) + "\n")
	for _, a := range angles {
		v := SampleValues(a)
		tan := "inf"
		if v.Tan != nil {
			tan = fmt.Sprintf("%.6f", *v.Tan)
		}
		fmt.Fprintf(&b, "%4.0f  %7.4f  %9.6f  %9.6f  %9s\n", v.Degrees, v.Radians, v.Sin, v.Cos, tan)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
