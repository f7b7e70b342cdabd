package export

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// slideFaces holds the typefaces used by the slide rasterizer, all derived
// from the single TTF named by EXPORT_FONT.
type slideFaces struct {
	Title    font.Face
	Heading  font.Face
	Body     font.Face
	Footer   font.Face
	Subtitle font.Face
}

func loadSlideFaces(fontPath string) (*slideFaces, error) {
	raw, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := func(size float64) font.Face {
		return truetype.NewFace(parsed, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	}
	return &slideFaces{
		Title:    face(56),
		Heading:  face(34),
		Body:     face(22),
		Footer:   face(14),
		Subtitle: face(28),
	}, nil
}
