package card

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif" // photo formats
	_ "image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

const (
	headerHeight = 70
	photoSize    = 90
	photoX       = 20
	photoY       = 90
	infoX        = 130
	infoY        = 95
	lineStep     = 30
	borderWidth  = 2

	// maxPhotoSide bounds the decoded photo on each axis.
	maxPhotoSide = 4096
)

var (
	white      = color.RGBA{0xff, 0xff, 0xff, 0xff}
	black      = color.RGBA{0x00, 0x00, 0x00, 0xff}
	photoGrey  = color.RGBA{0x99, 0x99, 0x99, 0xff}
	footerGrey = color.RGBA{0x66, 0x66, 0x66, 0xff}
	textFace   = basicfont.Face7x13
	textAscent = textFace.Ascent
)

// layout is the drawable description of a card.
type layout struct {
	width, height int
	header        color.RGBA
	title         string
	subtitle      string
	lines         []string
	footer        string
}

// render draws l with an optional photo and encodes it as PNG.
func render(l layout, photo []byte) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)

	fillRect(img, image.Rect(0, 0, l.width, headerHeight), l.header)
	drawText(img, 20, 25, l.title, white)
	drawText(img, 20, 50, l.subtitle, white)

	drawPhoto(img, photo)

	for i, line := range l.lines {
		drawText(img, infoX, infoY+i*lineStep, line, black)
	}
	if l.footer != "" {
		drawText(img, 20, 250, l.footer, footerGrey)
	}

	strokeRect(img, img.Bounds(), borderWidth, black)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}
	return buf.Bytes(), nil
}

// drawPhoto pastes the centre square of photo, scaled to photoSize, or a
// placeholder when photo is missing or undecodable.
func drawPhoto(dst *image.RGBA, photo []byte) {
	box := image.Rect(photoX, photoY, photoX+photoSize, photoY+photoSize)
	if photoFits(photo) {
		src, _, err := image.Decode(bytes.NewReader(photo))
		if err == nil {
			xdraw.CatmullRom.Scale(dst, box, src, centerSquare(src.Bounds()), xdraw.Src, nil)
			return
		}
	}
	strokeRect(dst, image.Rect(box.Min.X, box.Min.Y, box.Max.X+1, box.Max.Y+1), borderWidth, photoGrey)
	drawText(dst, photoX+25, photoY+35, "Photo", photoGrey)
}

// photoFits reports whether photo has a decodable header within maxPhotoSide.
func photoFits(photo []byte) bool {
	if len(photo) == 0 {
		return false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(photo))
	if err != nil {
		return false
	}
	return cfg.Width > 0 && cfg.Height > 0 && cfg.Width <= maxPhotoSide && cfg.Height <= maxPhotoSide
}

// centerSquare is the largest square centred in r.
func centerSquare(r image.Rectangle) image.Rectangle {
	size := min(r.Dx(), r.Dy())
	left := r.Min.X + (r.Dx()-size)/2
	top := r.Min.Y + (r.Dy()-size)/2
	return image.Rect(left, top, left+size, top+size)
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// strokeRect outlines r with a border of the given width drawn inward.
func strokeRect(dst *image.RGBA, r image.Rectangle, width int, c color.Color) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// drawText writes s with its top-left corner at (x, y).
func drawText(dst *image.RGBA, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: textFace,
		Dot:  fixed.P(x, y+textAscent),
	}
	d.DrawString(s)
}
