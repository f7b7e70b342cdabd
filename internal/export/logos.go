package export

import (
	"bytes"
	"fmt"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/mamamath/mothermath-backend/internal/logger"
	"golang.org/x/image/draw"
)

// Logo is a partner logo rasterized to a uniform pixel height, ready to be
// embedded into a PDF page.
type Logo struct {
	Name   string
	PNG    []byte
	Width  int
	Height int
}

// logo strip height in pixels; embedded at displayHeightMM on the page
const logoPixelHeight = 96

// maxLogos caps the centered logo row; more would not fit one line at
// displayHeightMM.
const maxLogos = 4

// LoadLogos rasterizes every branding logo to logoPixelHeight. A logo that
// cannot be read or decoded is skipped with a warning so a single missing
// asset never blocks an export.
func LoadLogos(branding Branding, log *logger.Logger) []Logo {
	logos := make([]Logo, 0, len(branding.Logos))
	for _, ref := range branding.Logos {
		if len(logos) == maxLogos {
			log.Warn("Ignoring extra export logos", "max", maxLogos)
			break
		}
		l, err := loadLogo(ref.Path)
		if err != nil {
			log.Warn("Skipping export logo", "path", ref.Path, "error", err)
			continue
		}
		logos = append(logos, l)
	}
	return logos
}

func loadLogo(path string) (Logo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Logo{}, fmt.Errorf("read logo: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Logo{}, fmt.Errorf("decode logo: %w", err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return Logo{}, fmt.Errorf("logo %s has an empty bounding box", path)
	}

	// Scale to a uniform height, preserving aspect ratio.
	w := b.Dx() * logoPixelHeight / b.Dy()
	if w < 1 {
		w = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, logoPixelHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	dc := gg.NewContext(w, logoPixelHeight)
	dc.DrawImage(dst, 0, 0)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return Logo{}, fmt.Errorf("encode logo png: %w", err)
	}
	return Logo{Name: path, PNG: buf.Bytes(), Width: w, Height: logoPixelHeight}, nil
}
