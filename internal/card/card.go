// Package card renders the student and pet ID cards as PNG images.
package card

import (
	"fmt"
	"image/color"
	"regexp"
	"strings"

	"github.com/ashureev/shsh-demos/internal/domain"
)

var (
	studentBlue = color.RGBA{0x25, 0x63, 0xeb, 0xff}
	petOrange   = color.RGBA{0xff, 0xa5, 0x00, 0xff}
)

// Student is the student card form.
type Student struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	School string `json:"school"`
	Class  string `json:"class"`
}

// Pet is the pet information form.
type Pet struct {
	Name     string `json:"name"`
	Species  string `json:"species"`
	Birthday string `json:"birthday"`
	Hobbies  string `json:"hobbies"`
}

// Image is a rendered card ready for download.
type Image struct {
	FileName string
	PNG      []byte
}

var errMissingFields = fmt.Errorf("%w: please fill in all required fields", domain.ErrInvalidInput)

func allSet(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// RenderStudent draws a 450x280 student card.
func RenderStudent(s Student, photo []byte) (Image, error) {
	if !allSet(s.Name, s.Number, s.School, s.Class) {
		return Image{}, errMissingFields
	}
	png, err := render(layout{
		width:    450,
		height:   280,
		header:   studentBlue,
		title:    "STUDENT CARD",
		subtitle: s.School,
		lines: []string{
			"Name: " + s.Name,
			"Student No.: " + s.Number,
			"Class: " + s.Class,
		},
		footer: "School: " + s.School,
	}, photo)
	if err != nil {
		return Image{}, err
	}
	return Image{FileName: FileName(s.Number, "student_card"), PNG: png}, nil
}

// RenderPet draws a 400x250 pet information card.
func RenderPet(p Pet, photo []byte) (Image, error) {
	if !allSet(p.Name, p.Species, p.Birthday, p.Hobbies) {
		return Image{}, errMissingFields
	}
	png, err := render(layout{
		width:    400,
		height:   250,
		header:   petOrange,
		title:    "PET INFORMATION",
		subtitle: p.Name,
		lines: []string{
			"Name: " + p.Name,
			"Species: " + p.Species,
			"Birthday: " + p.Birthday,
			"Hobbies: " + p.Hobbies,
		},
	}, photo)
	if err != nil {
		return Image{}, err
	}
	return Image{FileName: FileName(p.Name, "pet_information"), PNG: png}, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName builds "<prefix>_<suffix>.png" with prefix reduced to
// filename-safe characters.
func FileName(prefix, suffix string) string {
	prefix = strings.Trim(unsafeFileChars.ReplaceAllString(strings.TrimSpace(prefix), "_"), "_.")
	if prefix == "" {
		prefix = "card"
	}
	return prefix + "_" + suffix + ".png"
}
