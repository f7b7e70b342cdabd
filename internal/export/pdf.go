package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/normalize"
	"github.com/mamamath/mothermath-backend/internal/types"
)

const (
	pageWidth     = 210.0
	pageHeight    = 297.0
	marginSide    = 12.0
	marginTop     = 30.0
	marginBottom  = 18.0
	headerBandH   = 22.0
	lineH         = 5.0
	cellPad       = 2.0
	logoRowH      = 10.0
	logoRowGap    = 5.0
	bottomLimit   = pageHeight - marginBottom
	contentWidth  = pageWidth - 2*marginSide
	activityColW  = contentWidth / 2
)

// PDFExporter renders lesson plans and story lesson plans as branded A4
// documents. All documents share the same header band, logo row and table
// treatment; only the body layout differs per document kind.
type PDFExporter struct {
	branding Branding
	logos    []Logo
	log      *logger.Logger
}

func NewPDFExporter(branding Branding, logos []Logo, log *logger.Logger) *PDFExporter {
	return &PDFExporter{
		branding: branding,
		logos:    logos,
		log:      log.With("component", "PDFExporter"),
	}
}

// Lesson renders a standard lesson plan. JSON content is laid out as titled
// tables; content that does not parse falls back to a heading-based text walk
// so exports never fail on malformed model output.
func (e *PDFExporter) Lesson(content, topic, level string) ([]byte, error) {
	res := normalize.Normalize(content)
	body := func(doc *pdfDoc) {
		if res.Kind == normalize.KindJSON {
			e.lessonBody(doc, types.CanonicalFromMap(res.Object), topic, level)
		} else {
			e.textBody(doc, res.Text, topic, level)
		}
	}
	return e.render(body)
}

// Story renders a story-based lesson plan.
func (e *PDFExporter) Story(content, topic, level string) ([]byte, error) {
	res := normalize.Normalize(content)
	body := func(doc *pdfDoc) {
		if res.Kind == normalize.KindJSON {
			e.storyBody(doc, types.StoryFromMap(res.Object), topic, level)
		} else {
			e.textBody(doc, res.Text, topic, level)
		}
	}
	return e.render(body)
}

// pdfDoc bundles the fpdf handle with the cp1252 translator so table helpers
// stay short.
type pdfDoc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// render builds the document twice when needed: page numbers appear in the
// footer only once the document is known to span more than one page.
func (e *PDFExporter) render(body func(*pdfDoc)) ([]byte, error) {
	doc := e.build(body, false)
	if doc.pdf.PageCount() > 1 {
		doc = e.build(body, true)
	}
	var buf bytes.Buffer
	if err := doc.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) build(body func(*pdfDoc), numbered bool) *pdfDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	doc := &pdfDoc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetMargins(marginSide, marginTop, marginSide)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFillColor(e.branding.Primary.R, e.branding.Primary.G, e.branding.Primary.B)
		pdf.Rect(0, 0, pageWidth, headerBandH, "F")
		pdf.SetFont("Helvetica", "B", 15)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetXY(0, 6)
		pdf.CellFormat(pageWidth, 10, doc.tr(e.branding.HeaderTitle), "", 0, "C", false, 0, "")
		pdf.SetXY(marginSide, marginTop)
	})
	pdf.SetFooterFunc(func() {
		if !numbered {
			return
		}
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	e.logoRow(doc)
	body(doc)
	return doc
}

// logoRow centers the partner logos under the header band of the first page.
func (e *PDFExporter) logoRow(doc *pdfDoc) {
	if len(e.logos) == 0 {
		return
	}
	pdf := doc.pdf

	total := 0.0
	widths := make([]float64, len(e.logos))
	for i, l := range e.logos {
		widths[i] = logoRowH * float64(l.Width) / float64(l.Height)
		total += widths[i]
	}
	total += logoRowGap * float64(len(e.logos)-1)

	x := (pageWidth - total) / 2
	y := marginTop + 2
	for i, l := range e.logos {
		name := fmt.Sprintf("logo-%d", i)
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(l.PNG))
		pdf.ImageOptions(name, x, y, widths[i], logoRowH, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		x += widths[i] + logoRowGap
	}
	pdf.SetY(y + logoRowH + 6)
}

func (e *PDFExporter) titleBlock(doc *pdfDoc, title, level string) {
	pdf := doc.pdf
	pdf.SetFont("Helvetica", "B", 19)
	pdf.SetTextColor(e.branding.Secondary.R, e.branding.Secondary.G, e.branding.Secondary.B)
	pdf.MultiCell(contentWidth, 9, doc.tr(title), "", "C", false)
	if level != "" {
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(contentWidth, 7, doc.tr("Class Level: "+level), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)
}

func (e *PDFExporter) lessonBody(doc *pdfDoc, plan *types.CanonicalLessonPlan, topic, level string) {
	title := plan.Title
	if title == "" {
		title = topic
	}
	e.titleBlock(doc, title, firstNonEmpty(plan.GradeLevel, level))

	if len(plan.LessonObjectives) > 0 {
		e.labelRow(doc, "Learning Objectives")
		e.textRow(doc, bulleted(plan.LessonObjectives))
	}
	if len(plan.Materials) > 0 {
		e.labelRow(doc, "Instructional Materials")
		e.textRow(doc, bulleted(plan.Materials))
	}
	doc.pdf.Ln(3)

	for _, sec := range plan.Sections {
		e.sectionHeading(doc, sec.Title)
		rows := types.PairActivities(sec.TeacherActivities, sec.LearnerActivities)
		if len(rows) > 0 {
			e.activityTable(doc, rows)
		}
		doc.pdf.Ln(3)
	}

	if plan.Evaluation != nil {
		e.labelRow(doc, "Evaluation")
		e.textRow(doc, []string{plan.Evaluation.Description})
	}
	if plan.Assignment != nil {
		e.labelRow(doc, "Assignment")
		e.textRow(doc, []string{plan.Assignment.Description})
	}
}

func (e *PDFExporter) storyBody(doc *pdfDoc, plan *types.StoryLessonPlan, topic, level string) {
	title := plan.Title
	if title == "" {
		title = topic
	}
	e.titleBlock(doc, title, firstNonEmpty(plan.GradeLevel, level))

	if plan.StoryOverview != "" {
		e.labelRow(doc, "Story Overview")
		e.textRow(doc, []string{plan.StoryOverview})
	}
	if len(plan.Characters) > 0 {
		lines := make([]string, 0, len(plan.Characters))
		for _, c := range plan.Characters {
			line := "- " + c.Name
			if c.Description != "" {
				line += ": " + c.Description
			}
			lines = append(lines, line)
		}
		e.labelRow(doc, "Characters")
		e.textRow(doc, lines)
	}
	if len(plan.LessonObjectives) > 0 {
		e.labelRow(doc, "Learning Objectives")
		e.textRow(doc, bulleted(plan.LessonObjectives))
	}
	if len(plan.Materials) > 0 {
		e.labelRow(doc, "Instructional Materials")
		e.textRow(doc, bulleted(plan.Materials))
	}
	doc.pdf.Ln(3)

	for i, sec := range plan.StorySections {
		name := sec.Title
		if name == "" {
			name = fmt.Sprintf("Part %d", i+1)
		}
		e.sectionHeading(doc, name)
		if sec.StoryContent != "" {
			e.textRow(doc, []string{sec.StoryContent})
		}
		if sec.MathConcept != "" {
			e.labelRow(doc, "Math Concept")
			e.textRow(doc, []string{sec.MathConcept})
		}
		rows := types.PairActivities(sec.TeacherGuidance, sec.StudentActivities)
		if len(rows) > 0 {
			e.guidanceTable(doc, rows)
		}
		doc.pdf.Ln(3)
	}

	if len(plan.PracticeActivities) > 0 {
		e.labelRow(doc, "Practice Activities")
		e.textRow(doc, bulleted(plan.PracticeActivities))
	}
	if plan.Assessment != nil {
		e.labelRow(doc, "Assessment")
		e.textRow(doc, []string{plan.Assessment.Description})
	}
	if len(plan.ExtensionActivities) > 0 {
		e.labelRow(doc, "Extension Activities")
		e.textRow(doc, bulleted(plan.ExtensionActivities))
	}
	if plan.CulturalConnections != "" {
		e.labelRow(doc, "Cultural Connections")
		e.textRow(doc, []string{plan.CulturalConnections})
	}
}

// textBody is the fallback for content the normalizer could not parse: a
// plain walk over the raw text, promoting markdown-style headings.
func (e *PDFExporter) textBody(doc *pdfDoc, content, topic, level string) {
	e.titleBlock(doc, topic, level)
	pdf := doc.pdf
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \t")
		switch {
		case line == "":
			pdf.Ln(3)
		case strings.HasPrefix(line, "# "):
			pdf.SetFont("Helvetica", "B", 15)
			pdf.SetTextColor(e.branding.Secondary.R, e.branding.Secondary.G, e.branding.Secondary.B)
			pdf.MultiCell(contentWidth, 7, doc.tr(strings.TrimPrefix(line, "# ")), "", "L", false)
		case strings.HasPrefix(line, "## "):
			pdf.SetFont("Helvetica", "B", 13)
			pdf.SetTextColor(e.branding.Primary.R, e.branding.Primary.G, e.branding.Primary.B)
			pdf.MultiCell(contentWidth, 6, doc.tr(strings.TrimPrefix(line, "## ")), "", "L", false)
		case strings.HasPrefix(line, "### "):
			pdf.SetFont("Helvetica", "B", 12)
			pdf.SetTextColor(40, 40, 40)
			pdf.MultiCell(contentWidth, 6, doc.tr(strings.TrimPrefix(line, "### ")), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetTextColor(30, 30, 30)
			pdf.MultiCell(contentWidth, lineH, doc.tr(line), "", "L", false)
		}
	}
}

func (e *PDFExporter) sectionHeading(doc *pdfDoc, title string) {
	if title == "" {
		return
	}
	pdf := doc.pdf
	e.ensureRoom(doc, 20)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(e.branding.Primary.R, e.branding.Primary.G, e.branding.Primary.B)
	pdf.MultiCell(contentWidth, 7, doc.tr(title), "", "L", false)
	pdf.Ln(1)
}

// labelRow draws a full-width filled header cell.
func (e *PDFExporter) labelRow(doc *pdfDoc, label string) {
	pdf := doc.pdf
	e.ensureRoom(doc, 16)
	pdf.SetFillColor(e.branding.Primary.R, e.branding.Primary.G, e.branding.Primary.B)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentWidth, 7, doc.tr(label), "1", 1, "L", true, 0, "")
}

// textRow draws a bordered body cell under a label row.
func (e *PDFExporter) textRow(doc *pdfDoc, lines []string) {
	pdf := doc.pdf
	pdf.SetTextColor(30, 30, 30)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(contentWidth, lineH, doc.tr(strings.Join(lines, "\n")), "1", "L", false)
}

func (e *PDFExporter) activityTable(doc *pdfDoc, rows [][2]string) {
	e.pairTable(doc, "Teacher Activities", "Learner Activities", rows)
}

func (e *PDFExporter) guidanceTable(doc *pdfDoc, rows [][2]string) {
	e.pairTable(doc, "Teacher Guidance", "Student Activities", rows)
}

// pairTable renders a two-column table with equal-height rows. Rows may run
// past the page break; the header row is repeated on each new page.
func (e *PDFExporter) pairTable(doc *pdfDoc, leftHead, rightHead string, rows [][2]string) {
	pdf := doc.pdf

	head := func() {
		pdf.SetFillColor(e.branding.Primary.R, e.branding.Primary.G, e.branding.Primary.B)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(activityColW, 7, doc.tr(leftHead), "1", 0, "C", true, 0, "")
		pdf.CellFormat(activityColW, 7, doc.tr(rightHead), "1", 1, "C", true, 0, "")
	}
	e.ensureRoom(doc, 20)
	head()

	pdf.SetTextColor(30, 30, 30)
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		left := pdf.SplitText(doc.tr(row[0]), activityColW-2*cellPad)
		right := pdf.SplitText(doc.tr(row[1]), activityColW-2*cellPad)
		n := len(left)
		if len(right) > n {
			n = len(right)
		}
		if n == 0 {
			n = 1
		}
		rowH := float64(n)*lineH + 2*cellPad

		if pdf.GetY()+rowH > bottomLimit {
			pdf.AddPage()
			head()
			pdf.SetTextColor(30, 30, 30)
			pdf.SetFont("Helvetica", "", 10)
		}
		x, y := marginSide, pdf.GetY()
		pdf.Rect(x, y, activityColW, rowH, "D")
		pdf.Rect(x+activityColW, y, activityColW, rowH, "D")
		pdf.SetXY(x+cellPad, y+cellPad)
		pdf.MultiCell(activityColW-2*cellPad, lineH, doc.tr(row[0]), "", "L", false)
		pdf.SetXY(x+activityColW+cellPad, y+cellPad)
		pdf.MultiCell(activityColW-2*cellPad, lineH, doc.tr(row[1]), "", "L", false)
		pdf.SetXY(x, y+rowH)
	}
}

// ensureRoom starts a new page when fewer than need millimeters remain, so a
// heading never sits alone above the page break.
func (e *PDFExporter) ensureRoom(doc *pdfDoc, need float64) {
	if doc.pdf.GetY()+need > bottomLimit {
		doc.pdf.AddPage()
	}
}

func bulleted(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, "- "+it)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// creationDate is the footer/title date shown on exported decks.
func creationDate(now time.Time) string {
	return now.Format("January 2, 2006")
}
