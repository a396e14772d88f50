package card

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/shsh-demos/internal/domain"
)

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func rgba(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderStudent_Layout(t *testing.T) {
	out, err := RenderStudent(Student{Name: "John Smith", Number: "2024001", School: "High School", Class: "3A"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024001_student_card.png", out.FileName)

	img := decode(t, out.PNG)
	assert.Equal(t, image.Rect(0, 0, 450, 280), img.Bounds())
	assert.Equal(t, black, rgba(img.At(0, 0)), "border")
	assert.Equal(t, black, rgba(img.At(449, 279)), "border")
	assert.Equal(t, studentBlue, rgba(img.At(5, 5)), "header")
	assert.Equal(t, studentBlue, rgba(img.At(440, 69)), "header")
	assert.Equal(t, white, rgba(img.At(440, 75)), "body")

	assert.Equal(t, photoGrey, rgba(img.At(photoX, photoY)), "placeholder outline")
	assert.Equal(t, white, rgba(img.At(photoX+5, photoY+80)), "placeholder interior")
}

func TestRenderStudent_Photo(t *testing.T) {
	red := color.RGBA{0xff, 0, 0, 0xff}
	photo := solidPNG(t, 200, 120, red)

	out, err := RenderStudent(Student{Name: "A", Number: "1", School: "S", Class: "C"}, photo)
	require.NoError(t, err)

	img := decode(t, out.PNG)
	assert.Equal(t, red, rgba(img.At(photoX+45, photoY+45)))
	assert.Equal(t, red, rgba(img.At(photoX+1, photoY+1)))
	assert.Equal(t, white, rgba(img.At(photoX+photoSize+2, photoY+photoSize+2)), "photo stays inside its box")
}

func TestRenderStudent_BadPhotoFallsBack(t *testing.T) {
	out, err := RenderStudent(Student{Name: "A", Number: "1", School: "S", Class: "C"}, []byte("not an image"))
	require.NoError(t, err)

	img := decode(t, out.PNG)
	assert.Equal(t, photoGrey, rgba(img.At(photoX, photoY)))
}

func TestRenderStudent_OversizedPhotoFallsBack(t *testing.T) {
	red := color.RGBA{0xff, 0, 0, 0xff}
	photo := solidPNG(t, maxPhotoSide+1, 1, red)

	out, err := RenderStudent(Student{Name: "A", Number: "1", School: "S", Class: "C"}, photo)
	require.NoError(t, err)

	img := decode(t, out.PNG)
	assert.Equal(t, photoGrey, rgba(img.At(photoX, photoY)))
	assert.NotEqual(t, red, rgba(img.At(photoX+45, photoY+45)))
	assert.True(t, photoFits(solidPNG(t, maxPhotoSide, 1, red)))
	assert.False(t, photoFits(solidPNG(t, 1, maxPhotoSide+1, red)))
}

func TestRenderStudent_RequiresAllFields(t *testing.T) {
	_, err := RenderStudent(Student{Name: "A", Number: "1", School: "  ", Class: "C"}, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRenderPet(t *testing.T) {
	out, err := RenderPet(Pet{Name: "Buddy", Species: "pomeranian", Birthday: "1st January", Hobbies: "running"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Buddy_pet_information.png", out.FileName)

	img := decode(t, out.PNG)
	assert.Equal(t, image.Rect(0, 0, 400, 250), img.Bounds())
	assert.Equal(t, petOrange, rgba(img.At(200, 10)))

	_, err = RenderPet(Pet{Name: "Buddy"}, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "2024001_student_card.png", FileName("2024001", "student_card"))
	assert.Equal(t, "Mr_Whiskers_pet_information.png", FileName("Mr Whiskers", "pet_information"))
	assert.Equal(t, "etc_passwd_x.png", FileName("../etc/passwd", "x"))
	assert.Equal(t, "card_x.png", FileName("小貓", "x"))
}

func TestCenterSquare(t *testing.T) {
	assert.Equal(t, image.Rect(40, 0, 160, 120), centerSquare(image.Rect(0, 0, 200, 120)))
	assert.Equal(t, image.Rect(0, 10, 50, 60), centerSquare(image.Rect(0, 0, 50, 70)))
}
