package trig

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	plotWidth  = 1000
	plotHeight = 500
	plotMargin = 40
	plotPoints = 1000
	tanClip    = 10.0
	yRange     = 10.5
)

var (
	sinColor  = color.RGBA{0x1f, 0x77, 0xb4, 0xff}
	cosColor  = color.RGBA{0xff, 0x7f, 0x0e, 0xff}
	tanColor  = color.RGBA{0x2c, 0xa0, 0x2c, 0xff}
	axisColor = color.RGBA{0x00, 0x00, 0x00, 0xff}
	gridColor = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
)

type curve struct {
	label string
	color color.RGBA
	fn    func(float64) float64
}

var curves = []curve{
	{"sin(x)", sinColor, math.Sin},
	{"cos(x)", cosColor, math.Cos},
	{"tan(x) (clipped)", tanColor, clippedTan},
}

// clippedTan returns NaN where |tan x| exceeds the clip so the plot breaks
// at the asymptotes.
func clippedTan(x float64) float64 {
	t := math.Tan(x)
	if math.Abs(t) > tanClip {
		return math.NaN()
	}
	return t
}

type canvas struct {
	img    *image.RGBA
	bounds image.Rectangle
}

func (c *canvas) toPixel(x, y float64) (int, int) {
	px := c.bounds.Min.X + int(math.Round((x+2*math.Pi)/(4*math.Pi)*float64(c.bounds.Dx()-1)))
	py := c.bounds.Max.Y - 1 - int(math.Round((y+yRange)/(2*yRange)*float64(c.bounds.Dy()-1)))
	return px, py
}

// line draws a straight segment with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1 int, col color.Color) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		if (image.Point{x0, y0}).In(c.bounds) {
			c.img.Set(x0, y0, col)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) text(x, y int, s string, col color.Color) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// Plot renders sin, cos and clipped tan over [-2π, 2π] as a PNG.
func Plot(w io.Writer) error {
	img := image.NewRGBA(image.Rect(0, 0, plotWidth, plotHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	c := &canvas{img: img, bounds: image.Rect(plotMargin, plotMargin, plotWidth-plotMargin, plotHeight-plotMargin)}

	for _, y := range []float64{-10, -5, 5, 10} {
		x0, py := c.toPixel(-2*math.Pi, y)
		x1, _ := c.toPixel(2*math.Pi, y)
		c.line(x0, py, x1, py, gridColor)
	}
	ax0, ay := c.toPixel(-2*math.Pi, 0)
	ax1, _ := c.toPixel(2*math.Pi, 0)
	c.line(ax0, ay, ax1, ay, axisColor)
	vx, vy0 := c.toPixel(0, -yRange)
	_, vy1 := c.toPixel(0, yRange)
	c.line(vx, vy0, vx, vy1, axisColor)

	for _, cv := range curves {
		prevOK := false
		var px, py int
		for i := range plotPoints {
			x := -2*math.Pi + 4*math.Pi*float64(i)/float64(plotPoints-1)
			y := cv.fn(x)
			if math.IsNaN(y) {
				prevOK = false
				continue
			}
			nx, ny := c.toPixel(x, y)
			if prevOK {
				c.line(px, py, nx, ny, cv.color)
			}
			px, py, prevOK = nx, ny, true
		}
	}

	c.text(plotWidth/2-110, 25, "Sine, Cosine and Tangent", axisColor)
	c.text(plotWidth/2-40, plotHeight-12, "x (radians)", axisColor)
	for i, cv := range curves {
		c.text(plotWidth-plotMargin-150, plotMargin+20+i*16, cv.label, cv.color)
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode plot: %w", err)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
