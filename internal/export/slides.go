package export

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/go-pdf/fpdf"
	"github.com/mamamath/mothermath-backend/internal/logger"
)

// Slide geometry. Slides are rasterized at 1280x720 and embedded one per
// page into a 16:9 landscape document.
const (
	slideW = 1280
	slideH = 720

	slideBarH     = 70.0
	slideAccentH  = 6.0
	slideMargin   = 80.0
	slideBodyTop  = 210.0
	slideBodyEnd  = 650.0
	slideLineGap  = 1.35
	slidePageWmm  = 338.67
	slidePageHmm  = 190.5
)

type itemKind int

const (
	itemBullet itemKind = iota
	itemNumbered
	itemPara
)

type slideItem struct {
	Kind itemKind
	Text string
}

type slideSection struct {
	Title string
	Items []slideItem
}

// SlideExporter turns generated lesson content into a branded 16:9 deck.
// Unlike the PDF exporter it has no plain-text fallback: a deck that cannot
// be produced reports the error instead of shipping a broken file.
type SlideExporter struct {
	branding Branding
	faces    *slideFaces
	log      *logger.Logger
}

func NewSlideExporter(branding Branding, fontPath string, log *logger.Logger) (*SlideExporter, error) {
	faces, err := loadSlideFaces(fontPath)
	if err != nil {
		return nil, fmt.Errorf("slide exporter font: %w", err)
	}
	return &SlideExporter{
		branding: branding,
		faces:    faces,
		log:      log.With("component", "SlideExporter"),
	}, nil
}

// Deck renders the full deck: a title slide followed by one or more slides
// per content section, splitting long sections across continuation slides.
func (e *SlideExporter) Deck(content, topic string, createdAt time.Time) ([]byte, error) {
	sections := splitSections(content)
	pages := paginate(sections)
	total := len(pages) + 1

	images := make([][]byte, 0, total)
	title, err := e.renderTitleSlide(topic, createdAt, total)
	if err != nil {
		return nil, err
	}
	images = append(images, title)
	for i, page := range pages {
		img, err := e.renderContentSlide(page, i+2, total)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	// fpdf swaps Wd/Ht for landscape, so the size is given portrait-style.
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: slidePageHmm, Ht: slidePageWmm},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	for i, img := range images {
		pdf.AddPage()
		name := fmt.Sprintf("slide-%d", i)
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img))
		pdf.ImageOptions(name, 0, 0, slidePageWmm, slidePageHmm, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write slide deck: %w", err)
	}
	return buf.Bytes(), nil
}

var numberedRe = regexp.MustCompile(`^\d+[.)]\s+`)

// splitSections breaks content into sections on blank-line paragraphs.
// A markdown heading or a short ALL-CAPS line opens a new section; bullet
// and numbered lines become list items, everything else joins into
// paragraph items.
func splitSections(content string) []slideSection {
	paragraphs := regexp.MustCompile(`\n\s*\n`).Split(strings.ReplaceAll(content, "\r\n", "\n"), -1)

	sections := []slideSection{}
	current := &slideSection{Title: "Overview"}
	flush := func() {
		if current.Title != "" || len(current.Items) > 0 {
			sections = append(sections, *current)
		}
	}

	for _, para := range paragraphs {
		var plain []string
		endPlain := func() {
			if len(plain) > 0 {
				current.Items = append(current.Items, slideItem{Kind: itemPara, Text: strings.Join(plain, " ")})
				plain = nil
			}
		}
		for _, line := range strings.Split(para, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			switch {
			case isHeadingLine(line):
				endPlain()
				if len(current.Items) > 0 || len(sections) > 0 {
					flush()
					current = &slideSection{}
				}
				current.Title = headingText(line)
			case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "• "):
				endPlain()
				current.Items = append(current.Items, slideItem{Kind: itemBullet, Text: strings.TrimSpace(line[2:])})
			case numberedRe.MatchString(line):
				endPlain()
				current.Items = append(current.Items, slideItem{Kind: itemNumbered, Text: numberedRe.ReplaceAllString(line, "")})
			default:
				plain = append(plain, line)
			}
		}
		endPlain()
	}
	flush()

	// Drop the implicit lead section when the content opened with a heading.
	out := sections[:0]
	for _, s := range sections {
		if s.Title == "Overview" && len(s.Items) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func isHeadingLine(line string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	// Short shouty lines act as section boundaries in plain-text plans.
	if len(line) > 60 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func headingText(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "# "))
}

// estimateHeight approximates the vertical share a rendered item needs:
// one unit per 60 characters of wrapped text, clamped so tiny items still
// reserve space and huge ones never exceed a slide.
func estimateHeight(text string) float64 {
	h := math.Ceil(float64(len(text))/60.0) * 0.16
	if h < 0.3 {
		h = 0.3
	}
	if h > 1.5 {
		h = 1.5
	}
	return h
}

// slideCapacity is the estimated-height budget of one content slide.
const slideCapacity = 2.6

// paginate splits sections into per-slide pages; continuation slides carry
// the section title with a (cont.) suffix.
func paginate(sections []slideSection) []slideSection {
	var pages []slideSection
	for _, sec := range sections {
		page := slideSection{Title: sec.Title}
		used := 0.0
		for _, item := range sec.Items {
			h := estimateHeight(item.Text)
			if used+h > slideCapacity && len(page.Items) > 0 {
				pages = append(pages, page)
				page = slideSection{Title: sec.Title + " (cont.)"}
				used = 0
			}
			page.Items = append(page.Items, item)
			used += h
		}
		pages = append(pages, page)
	}
	return pages
}

func (e *SlideExporter) newCanvas() *gg.Context {
	dc := gg.NewContext(slideW, slideH)
	dc.SetColor(e.branding.SlideBack.NRGBA())
	dc.Clear()

	dc.SetColor(e.branding.SlidePrimary.NRGBA())
	dc.DrawRectangle(0, 0, slideW, slideBarH)
	dc.Fill()
	dc.SetColor(e.branding.SlideAccent.NRGBA())
	dc.DrawRectangle(0, slideBarH, slideW, slideAccentH)
	dc.Fill()

	dc.SetFontFace(e.faces.Footer)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(e.branding.BrandLabel, slideW-slideMargin, slideBarH/2, 1, 0.35)
	return dc
}

func (e *SlideExporter) footer(dc *gg.Context, page, total int) {
	dc.SetFontFace(e.faces.Footer)
	dc.SetColor(e.branding.SlideAccent.NRGBA())
	dc.DrawStringAnchored(e.branding.BrandLabel, slideMargin, slideH-30, 0, 0.35)
	dc.DrawStringAnchored(fmt.Sprintf("%d / %d", page, total), slideW-slideMargin, slideH-30, 1, 0.35)
}

func (e *SlideExporter) renderTitleSlide(topic string, createdAt time.Time, total int) ([]byte, error) {
	dc := e.newCanvas()

	dc.SetFontFace(e.faces.Title)
	dc.SetColor(e.branding.SlideAccent.NRGBA())
	dc.DrawStringWrapped(topic, slideW/2, 280, 0.5, 0.5, slideW-2*slideMargin, slideLineGap, gg.AlignCenter)

	dc.SetFontFace(e.faces.Subtitle)
	dc.SetColor(e.branding.SlidePrimary.NRGBA())
	dc.DrawStringAnchored(e.branding.SlideSubtitle, slideW/2, 400, 0.5, 0.5)

	dc.SetFontFace(e.faces.Body)
	dc.SetRGB(0.35, 0.35, 0.4)
	dc.DrawStringAnchored("Created on: "+creationDate(createdAt), slideW/2, 460, 0.5, 0.5)

	e.footer(dc, 1, total)
	return encodeSlide(dc)
}

func (e *SlideExporter) renderContentSlide(page slideSection, number, total int) ([]byte, error) {
	dc := e.newCanvas()

	dc.SetFontFace(e.faces.Heading)
	dc.SetColor(e.branding.SlideAccent.NRGBA())
	dc.DrawString(page.Title, slideMargin, 150)
	dc.SetLineWidth(3)
	dc.SetColor(e.branding.SlidePrimary.NRGBA())
	dc.DrawLine(slideMargin, 168, slideW-slideMargin, 168)
	dc.Stroke()

	dc.SetFontFace(e.faces.Body)
	dc.SetRGB(0.15, 0.15, 0.2)
	y := slideBodyTop
	width := float64(slideW - 2*slideMargin)
	num := 0
	for _, item := range page.Items {
		text := item.Text
		indent := 0.0
		switch item.Kind {
		case itemBullet:
			text = "•  " + text
			indent = 20
		case itemNumbered:
			num++
			text = fmt.Sprintf("%d.  %s", num, text)
			indent = 20
		}
		lines := dc.WordWrap(text, width-indent)
		h := float64(len(lines)) * 22 * slideLineGap
		if y+h > slideBodyEnd {
			break
		}
		dc.DrawStringWrapped(text, slideMargin+indent, y, 0, 0, width-indent, slideLineGap, gg.AlignLeft)
		y += h + 10
	}

	e.footer(dc, number, total)
	return encodeSlide(dc)
}

func encodeSlide(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode slide png: %w", err)
	}
	return buf.Bytes(), nil
}
