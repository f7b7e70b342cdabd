package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBrandingDefaults(t *testing.T) {
	b, err := LoadBranding("")
	if err != nil {
		t.Fatalf("LoadBranding: %v", err)
	}
	if b.HeaderTitle != "Mother of Math | Lesson Plan" {
		t.Fatalf("default header title = %q", b.HeaderTitle)
	}
	if b.Primary != (RGB{R: 0x00, G: 0x9e, B: 0x60}) {
		t.Fatalf("default primary = %+v", b.Primary)
	}
	if b.Secondary != (RGB{R: 0x4b, G: 0x37, B: 0x1c}) {
		t.Fatalf("default secondary = %+v", b.Secondary)
	}
}

func TestLoadBrandingManifest(t *testing.T) {
	manifest := `
header_title: "Acme Academy | Lesson Plan"
primary_color: "#112233"
logos:
  - path: /assets/one.png
  - path: /assets/two.png
`
	path := filepath.Join(t.TempDir(), "branding.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}

	b, err := LoadBranding(path)
	if err != nil {
		t.Fatalf("LoadBranding: %v", err)
	}
	if b.HeaderTitle != "Acme Academy | Lesson Plan" {
		t.Fatalf("header title = %q", b.HeaderTitle)
	}
	if b.Primary != (RGB{R: 0x11, G: 0x22, B: 0x33}) {
		t.Fatalf("primary = %+v", b.Primary)
	}
	// Untouched fields keep their defaults.
	if b.Secondary != (RGB{R: 0x4b, G: 0x37, B: 0x1c}) {
		t.Fatalf("secondary = %+v", b.Secondary)
	}
	if len(b.Logos) != 2 || b.Logos[1].Path != "/assets/two.png" {
		t.Fatalf("logos = %+v", b.Logos)
	}
}

func TestLoadBrandingBadColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "branding.yaml")
	if err := os.WriteFile(path, []byte("primary_color: nope\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBranding(path); err == nil {
		t.Fatal("expected an error for a malformed colour")
	}
}
