package brochure

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/franchisehub/brochure-service/internal/asset"
)

// RGB is a plain color triple for fills and text.
type RGB struct {
	R, G, B int
}

// Palette used across the template.
var (
	colorPrimary   = RGB{R: 30, G: 58, B: 95}    // deep navy, headers and headings
	colorAccent    = RGB{R: 230, G: 126, B: 34}  // orange, badge and highlights
	colorBody      = RGB{R: 60, G: 60, B: 60}    // body text
	colorMuted     = RGB{R: 120, G: 120, B: 120} // captions, footers
	colorWhite     = RGB{R: 255, G: 255, B: 255}
	colorLightBlue = RGB{R: 229, G: 239, B: 250} // callout fill
	colorLightGray = RGB{R: 240, G: 240, B: 240} // placeholder fill, table stripes
	colorHighlight = RGB{R: 255, G: 243, B: 224} // total-row fill
)

// TextStyle configures one text primitive call. LineHeight is the vertical
// advance per drawn line, in mm.
type TextStyle struct {
	Size       float64
	Bold       bool
	Color      RGB
	LineHeight float64
}

// Common styles. Composers tweak Color per slot where needed.
var (
	styleTitle      = TextStyle{Size: 28, Bold: true, Color: colorWhite, LineHeight: 14}
	styleHeading    = TextStyle{Size: 18, Bold: true, Color: colorPrimary, LineHeight: 11}
	styleSubheading = TextStyle{Size: 13, Bold: true, Color: colorPrimary, LineHeight: 8}
	styleBody       = TextStyle{Size: 10.5, Bold: false, Color: colorBody, LineHeight: 6}
	styleCaption    = TextStyle{Size: 8.5, Bold: false, Color: colorMuted, LineHeight: 5}
)

// TableRow is one label/value pair of the investment breakdown.
type TableRow struct {
	Label string
	Value string
}

// Renderer draws primitive content blocks onto a gofpdf document. Every
// block consumes a Layout and returns the advanced one; the renderer itself
// holds no cursor state.
type Renderer struct {
	doc *gofpdf.Fpdf
	tr  func(string) string
}

// NewRenderer wraps a document. Auto page breaks are disabled — paging is
// the explicit job of PageBreakIfNeeded. The translator maps UTF-8 input to
// the cp1252 encoding the core fonts use; runes outside it degrade to their
// closest representable form rather than erroring.
func NewRenderer(doc *gofpdf.Fpdf) *Renderer {
	doc.SetAutoPageBreak(false, 0)
	return &Renderer{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
}

// text draws one translated line at an absolute baseline.
func (r *Renderer) text(x, y float64, s string) {
	r.doc.Text(x, y, r.tr(s))
}

// width measures a string in the current font, post-translation.
func (r *Renderer) width(s string) float64 {
	return r.doc.GetStringWidth(r.tr(s))
}

// NewPage starts a fresh page and returns the cursor at the post-header
// offset.
func (r *Renderer) NewPage() Layout {
	r.doc.AddPage()
	return Layout{Page: r.doc.PageNo(), Y: HeaderOffset}
}

func (r *Renderer) setFont(st TextStyle) {
	style := ""
	if st.Bold {
		style = "B"
	}
	r.doc.SetFont("Helvetica", style, st.Size)
	r.doc.SetTextColor(st.Color.R, st.Color.G, st.Color.B)
}

// Heading draws one styled line at the margin and advances by its line
// height.
func (r *Renderer) Heading(l Layout, text string, st TextStyle) Layout {
	r.setFont(st)
	r.text(Margin, l.Y, text)
	return l.Advance(st.LineHeight)
}

// TextAt draws a single styled line at an absolute position without moving
// the cursor. Used for header bands and footers that sit outside the flow.
func (r *Renderer) TextAt(x, y float64, text string, st TextStyle) {
	r.setFont(st)
	r.text(x, y, text)
}

// TextCentered draws one line horizontally centered on the page.
func (r *Renderer) TextCentered(y float64, text string, st TextStyle) {
	r.setFont(st)
	w := r.width(text)
	r.text((PageWidth-w)/2, y, text)
}

// Wrap splits text into lines no wider than maxWidth using greedy word
// wrapping. Words are never split: a single word wider than maxWidth gets a
// line of its own and overflows. Measurement uses the current font, so
// callers set the font first.
func (r *Renderer) Wrap(text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if r.width(candidate) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = word
	}
	return append(lines, line)
}

// Paragraph wraps text against maxWidth and draws it line by line.
// A paragraph taller than the remaining page is not split mid-block; callers
// guard with PageBreakIfNeeded before the paragraph.
func (r *Renderer) Paragraph(l Layout, text string, maxWidth float64) Layout {
	r.setFont(styleBody)
	for _, line := range r.Wrap(text, maxWidth) {
		r.text(Margin, l.Y, line)
		l = l.Advance(styleBody.LineHeight)
	}
	return l
}

// bulletIndent is the x offset of wrapped continuation lines under a bullet.
const bulletIndent = 6.0

// BulletList draws one bullet per item, wrapping each item against the
// content width minus the bullet indent.
func (r *Renderer) BulletList(l Layout, items []string) Layout {
	r.setFont(styleBody)
	maxWidth := ContentWidth() - bulletIndent
	for _, item := range items {
		lines := r.Wrap(item, maxWidth)
		for i, line := range lines {
			if i == 0 {
				r.setFont(TextStyle{Size: styleBody.Size, Bold: true, Color: colorAccent})
				r.text(Margin, l.Y, "\u2022")
				r.setFont(styleBody)
			}
			r.text(Margin+bulletIndent, l.Y, line)
			l = l.Advance(styleBody.LineHeight)
		}
	}
	return l
}

// Callout box metrics.
const (
	calloutPad    = 7.0
	calloutRadius = 3.0
)

// CalloutBox draws a rounded rectangle sized to its content, with a bold
// title line and body lines inside.
func (r *Renderer) CalloutBox(l Layout, title string, lines []string, fill RGB) Layout {
	innerWidth := ContentWidth() - 2*calloutPad

	// Wrap everything first so the box height is known before drawing.
	r.setFont(styleBody)
	var wrapped []string
	for _, line := range lines {
		wrapped = append(wrapped, r.Wrap(line, innerWidth)...)
	}

	height := 2 * calloutPad
	if title != "" {
		height += styleSubheading.LineHeight
	}
	height += float64(len(wrapped)) * styleBody.LineHeight

	r.doc.SetFillColor(fill.R, fill.G, fill.B)
	r.doc.RoundedRect(Margin, l.Y, ContentWidth(), height, calloutRadius, "1234", "F")

	y := l.Y + calloutPad + 4
	if title != "" {
		r.setFont(styleSubheading)
		r.text(Margin+calloutPad, y, title)
		y += styleSubheading.LineHeight
	}
	r.setFont(styleBody)
	for _, line := range wrapped {
		r.text(Margin+calloutPad, y, line)
		y += styleBody.LineHeight
	}

	return l.Advance(height + 6)
}

// Table metrics: fixed two-column layout, value column at a fixed offset.
const (
	tableRowHeight   = 10.0
	tableValueOffset = 115.0
	tableCellPad     = 3.0
)

// Table draws label/value rows. Every other row gets a light stripe; the
// last row gets the highlight fill and bold text when highlightLast is set
// (the "Total Investment" row).
func (r *Renderer) Table(l Layout, rows []TableRow, highlightLast bool) Layout {
	for i, row := range rows {
		last := i == len(rows)-1
		switch {
		case last && highlightLast:
			r.doc.SetFillColor(colorHighlight.R, colorHighlight.G, colorHighlight.B)
			r.doc.Rect(Margin, l.Y, ContentWidth(), tableRowHeight, "F")
		case i%2 == 1:
			r.doc.SetFillColor(colorLightGray.R, colorLightGray.G, colorLightGray.B)
			r.doc.Rect(Margin, l.Y, ContentWidth(), tableRowHeight, "F")
		}

		st := styleBody
		if last && highlightLast {
			st.Bold = true
			st.Color = colorPrimary
		}
		baseline := l.Y + tableRowHeight/2 + 1.5
		r.setFont(st)
		r.text(Margin+tableCellPad, baseline, row.Label)
		r.text(Margin+tableValueOffset, baseline, row.Value)

		l = l.Advance(tableRowHeight)
	}
	return l
}

// PageBreakIfNeeded starts a new page when the next block of requiredHeight
// would pass the bottom margin. On the continued page the section header is
// re-emitted so a category never appears without its heading.
func (r *Renderer) PageBreakIfNeeded(l Layout, requiredHeight float64, sectionHeader string) Layout {
	if l.Fits(requiredHeight) {
		return l
	}
	l = r.NewPage()
	if sectionHeader != "" {
		r.TextAt(Margin, Margin+4, sectionHeader, styleHeading)
	}
	return l
}

// Band fills a full-width horizontal band, used for the cover header and the
// closing call-to-action.
func (r *Renderer) Band(y, height float64, fill RGB) {
	r.doc.SetFillColor(fill.R, fill.G, fill.B)
	r.doc.Rect(0, y, PageWidth, height, "F")
}

// ImageAt embeds a re-encoded raster at an absolute slot. The name keys the
// image in the document's resource table and must be unique per raster.
func (r *Renderer) ImageAt(name string, img *asset.Image, x, y, w, h float64) {
	opts := gofpdf.ImageOptions{ImageType: img.Format}
	r.doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	r.doc.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

// PlaceholderAt draws the stand-in for an asset that failed to load: a light
// box with a centered label. Composition continues around it.
func (r *Renderer) PlaceholderAt(label string, x, y, w, h float64) {
	r.doc.SetFillColor(colorLightGray.R, colorLightGray.G, colorLightGray.B)
	r.doc.SetDrawColor(colorMuted.R, colorMuted.G, colorMuted.B)
	r.doc.Rect(x, y, w, h, "FD")

	r.setFont(styleCaption)
	tw := r.width(label)
	r.text(x+(w-tw)/2, y+h/2, label)
}

// Output finalizes the document and returns its bytes, surfacing any error
// the document accumulated while drawing.
func (r *Renderer) Output() ([]byte, error) {
	if err := r.doc.Error(); err != nil {
		return nil, fmt.Errorf("document error: %w", err)
	}
	var buf bytes.Buffer
	if err := r.doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing document: %w", err)
	}
	return buf.Bytes(), nil
}
