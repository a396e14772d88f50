package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ashureev/shsh-demos/internal/card"
	"github.com/ashureev/shsh-demos/internal/domain"
)

const (
	maxUploadBytes = 10 << 20
	maxPhotoBytes  = 8 << 20
)

// StudentCard renders a student card PNG from a multipart form.
func (h *Handler) StudentCard(w http.ResponseWriter, r *http.Request) {
	photo, err := parseCardForm(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	img, err := card.RenderStudent(card.Student{
		Name:   r.FormValue("name"),
		Number: r.FormValue("number"),
		School: r.FormValue("school"),
		Class:  r.FormValue("class"),
	}, photo)
	writeCard(w, r, img, err)
}

// PetCard renders a pet information card PNG from a multipart form.
func (h *Handler) PetCard(w http.ResponseWriter, r *http.Request) {
	photo, err := parseCardForm(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	img, err := card.RenderPet(card.Pet{
		Name:     r.FormValue("name"),
		Species:  r.FormValue("species"),
		Birthday: r.FormValue("birthday"),
		Hobbies:  r.FormValue("hobbies"),
	}, photo)
	writeCard(w, r, img, err)
}

// parseCardForm parses the form and returns the optional "photo" upload.
func parseCardForm(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("%w: invalid form: %v", domain.ErrInvalidInput, err)
	}

	f, _, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid photo: %v", domain.ErrInvalidInput, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Debug("Failed to close uploaded photo", "error", closeErr)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("%w: photo is larger than %d bytes", domain.ErrInvalidInput, maxPhotoBytes)
	}
	return data, nil
}

func writeCard(w http.ResponseWriter, r *http.Request, img card.Image, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", img.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.PNG); err != nil {
		slog.Debug("Failed to write card", "error", err)
	}
}
