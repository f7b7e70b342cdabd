package export

import (
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"
)

// RGB is a parsed branding colour usable by both the PDF writer and the
// raster pipeline.
type RGB struct {
	R, G, B int
}

func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
}

// LogoRef points at a partner logo on disk. Each logo is optional: a ref
// that cannot be loaded is skipped at render time.
type LogoRef struct {
	Path string `yaml:"path"`
}

// Branding carries the visual identity applied to every exported document.
// It is loaded once at startup from EXPORT_BRANDING_PATH; when the manifest
// is absent the built-in defaults are used.
type Branding struct {
	HeaderTitle   string    `yaml:"header_title"`
	BrandLabel    string    `yaml:"brand_label"`
	SlideSubtitle string    `yaml:"slide_subtitle"`
	Primary       RGB       `yaml:"-"`
	Secondary     RGB       `yaml:"-"`
	SlidePrimary  RGB       `yaml:"-"`
	SlideAccent   RGB       `yaml:"-"`
	SlideBack     RGB       `yaml:"-"`
	Logos         []LogoRef `yaml:"logos"`

	PrimaryHex      string `yaml:"primary_color"`
	SecondaryHex    string `yaml:"secondary_color"`
	SlidePrimaryHex string `yaml:"slide_primary_color"`
	SlideAccentHex  string `yaml:"slide_accent_color"`
	SlideBackHex    string `yaml:"slide_background_color"`
}

// DefaultBranding returns the stock Mother of Math identity.
func DefaultBranding() Branding {
	return Branding{
		HeaderTitle:   "Mother of Math | Lesson Plan",
		BrandLabel:    "MOTHER OF MATH",
		SlideSubtitle: "Lesson Plan",
		Primary:       RGB{R: 0x00, G: 0x9e, B: 0x60},
		Secondary:     RGB{R: 0x4b, G: 0x37, B: 0x1c},
		SlidePrimary:  RGB{R: 0x9b, G: 0x87, B: 0xf5},
		SlideAccent:   RGB{R: 0x6a, G: 0x4d, B: 0xe7},
		SlideBack:     RGB{R: 0xf9, G: 0xf8, B: 0xff},
	}
}

// LoadBranding reads a YAML manifest and overlays it on the defaults.
// An empty path yields the defaults unchanged.
func LoadBranding(path string) (Branding, error) {
	b := DefaultBranding()
	if path == "" {
		return b, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return b, fmt.Errorf("read branding manifest: %w", err)
	}
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return b, fmt.Errorf("parse branding manifest: %w", err)
	}
	for _, e := range []struct {
		hex string
		dst *RGB
	}{
		{b.PrimaryHex, &b.Primary},
		{b.SecondaryHex, &b.Secondary},
		{b.SlidePrimaryHex, &b.SlidePrimary},
		{b.SlideAccentHex, &b.SlideAccent},
		{b.SlideBackHex, &b.SlideBack},
	} {
		if e.hex == "" {
			continue
		}
		c, err := parseHexColor(e.hex)
		if err != nil {
			return b, err
		}
		*e.dst = c
	}
	return b, nil
}

func parseHexColor(s string) (RGB, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("branding colour %q: want 6 hex digits", s)
	}
	var r, g, b int
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGB{}, fmt.Errorf("branding colour %q: %w", s, err)
	}
	return RGB{R: r, G: g, B: b}, nil
}
