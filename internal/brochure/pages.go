package brochure

import (
	"github.com/franchisehub/brochure-service/internal/asset"
	"github.com/franchisehub/brochure-service/internal/model"
)

// Asset slot geometry in mm.
const (
	logoSlotSize = 40.0
	heroSlotH    = 70.0
)

// composer binds one profile and its prefetched rasters to the renderer.
// Each page method produces exactly one page of content; they run in fixed
// order and never reorder blocks within a page.
type composer struct {
	r    *Renderer
	p    *model.BrandProfile
	logo *asset.Image // nil when the URL was absent or the fetch failed
	hero *asset.Image
}

// orDefault substitutes fallback copy for a missing field. Cells are never
// blank.
func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// cover draws page 1: header band, logo, badge, hero image, highlights.
// The cover works in absolute slots rather than a flowing cursor — every
// element has a fixed home.
func (c *composer) cover() {
	c.r.NewPage()

	c.r.Band(0, 42, colorPrimary)
	c.r.TextCentered(14, "FranchiseHub", TextStyle{Size: 10, Bold: true, Color: colorAccent})
	c.r.TextCentered(30, c.p.BrandName, styleTitle)

	c.r.TextCentered(52, c.p.Category, TextStyle{Size: 12, Bold: false, Color: colorMuted})

	// Logo slot is optional: skipped entirely when no URL is on the profile,
	// a placeholder when the URL was set but the fetch failed.
	logoX := (PageWidth - logoSlotSize) / 2
	switch {
	case c.logo != nil:
		c.r.ImageAt("brand-logo", c.logo, logoX, 58, logoSlotSize, logoSlotSize)
	case c.p.BrandLogo != "":
		c.r.PlaceholderAt("Logo", logoX, 58, logoSlotSize, logoSlotSize)
	}

	c.badge(106)

	// Hero slot always renders: image or placeholder.
	if c.hero != nil {
		c.r.ImageAt("brand-hero", c.hero, Margin, 118, ContentWidth(), heroSlotH)
	} else {
		c.r.PlaceholderAt("Brand Image", Margin, 118, ContentWidth(), heroSlotH)
	}

	l := Layout{Page: 1, Y: 198}
	c.r.CalloutBox(l, highlightsHdr, coverHighlights, colorLightBlue)

	c.r.TextCentered(272, coverTagline, styleCaption)
}

// badge draws the fixed opportunity badge centered at the given y.
func (c *composer) badge(y float64) {
	st := TextStyle{Size: 11, Bold: true, Color: colorWhite}
	c.r.setFont(st)
	textW := c.r.width(coverBadge)
	w := textW + 16
	x := (PageWidth - w) / 2
	c.r.doc.SetFillColor(colorAccent.R, colorAccent.G, colorAccent.B)
	c.r.doc.RoundedRect(x, y-7, w, 11, 5.5, "1234", "F")
	c.r.TextAt(x+8, y, coverBadge, st)
}

// overview draws page 2: brand story, company facts, differentiators.
func (c *composer) overview() {
	l := c.r.NewPage()
	l = c.r.Heading(l, "About "+c.p.BrandName, styleHeading)
	l = l.Advance(2)

	// The story block is omitted outright when absent; the facts callout
	// covers the basics either way. A story longer than the page draws past
	// the bottom margin unbroken (no mid-paragraph page break).
	if c.p.BrandStory != "" {
		l = c.r.Paragraph(l, c.p.BrandStory, ContentWidth())
		l = l.Advance(4)
	}

	facts := []string{
		factLine("Founded", c.p.FoundedYear, fallbackFounded),
		factLine("Headquarters", c.p.Headquarters, fallbackHeadquarters),
		factLine("Category", c.p.Category, fallbackCategory),
	}
	l = c.r.CalloutBox(l, "Company Facts", facts, colorLightBlue)
	l = l.Advance(2)

	l = c.r.Heading(l, "What Makes Us Different", styleSubheading)
	c.r.BulletList(l, differentiators)
}

// factLine renders "Label: value", or the generic fallback phrase alone
// when the field is missing.
func factLine(label, value, fallback string) string {
	if value == "" {
		return fallback
	}
	return label + ": " + value
}

// investment draws page 3: investment callout, business models, revenue
// model, ROI, and the breakdown table.
func (c *composer) investment() {
	l := c.r.NewPage()
	l = c.r.Heading(l, "Investment & Returns", styleHeading)
	l = l.Advance(2)

	l = c.r.CalloutBox(l, "Total Investment Range",
		[]string{orDefault(c.p.InvestmentRange, fallbackInvestment)}, colorLightBlue)

	// The optional blocks below flow without page-break guards; profile
	// fields long enough to overflow page 3 draw past the bottom margin.
	if len(c.p.BusinessModels) > 0 {
		l = c.r.Heading(l, "Business Models", styleSubheading)
		l = c.r.BulletList(l, c.p.BusinessModels)
		l = l.Advance(3)
	}

	if c.p.RevenueModel != "" {
		l = c.r.Heading(l, "Revenue Model", styleSubheading)
		l = c.r.Paragraph(l, c.p.RevenueModel, ContentWidth())
		l = l.Advance(3)
	}

	if c.p.ExpectedROI != "" {
		l = c.r.CalloutBox(l, "Expected Return on Investment",
			[]string{c.p.ExpectedROI}, colorHighlight)
	}

	l = c.r.Heading(l, "Investment Breakdown", styleSubheading)
	c.r.Table(l, c.investmentRows(), true)
}

// investmentRows builds the fixed breakdown table. Every cell falls back to
// readable copy; the total row is always present and highlighted.
func (c *composer) investmentRows() []TableRow {
	return []TableRow{
		{Label: labelFranchiseFee, Value: orDefault(c.p.FranchiseFee, fallbackAmount)},
		{Label: labelEquipment, Value: orDefault(c.p.EquipmentCost, fallbackAmount)},
		{Label: labelMarketing, Value: orDefault(c.p.MarketingCost, fallbackAmount)},
		{Label: labelWorkingCapital, Value: orDefault(c.p.WorkingCapital, fallbackAmount)},
		{Label: labelTotal, Value: c.totalInvestment()},
	}
}

// totalInvestment is the value of the highlighted total row: the stated
// investment range when the component costs are all on file, otherwise
// "Contact for details". Cost fields are free-form strings, so there is
// no arithmetic to do here.
func (c *composer) totalInvestment() string {
	complete := c.p.FranchiseFee != "" && c.p.EquipmentCost != "" &&
		c.p.MarketingCost != "" && c.p.WorkingCapital != ""
	if !complete || c.p.InvestmentRange == "" {
		return fallbackAmount
	}
	return c.p.InvestmentRange
}

const supportHeading = "Support & Training"

// support draws page 4: the four fixed support categories. The category
// count is what can push content past the bottom margin, so each category
// checks for a page break before drawing.
func (c *composer) support() {
	l := c.r.NewPage()
	l = c.r.Heading(l, supportHeading, styleHeading)
	l = l.Advance(1)
	l = c.r.Paragraph(l, "Every franchise partner is backed by the full support system below, from day one through ongoing operations.", ContentWidth())
	l = l.Advance(4)

	for _, cat := range supportCategories {
		required := styleSubheading.LineHeight + float64(len(cat.Items))*styleBody.LineHeight + 4
		l = c.r.PageBreakIfNeeded(l, required, supportHeading)

		l = c.r.Heading(l, cat.Name, styleSubheading)
		l = c.r.BulletList(l, cat.Items)
		l = l.Advance(4)
	}
}

// contact draws page 5: next steps, contact details, closing band, footer.
func (c *composer) contact() {
	l := c.r.NewPage()
	l = c.r.Heading(l, "Take the Next Step", styleHeading)
	l = l.Advance(2)

	l = c.r.CalloutBox(l, nextStepsHdr, nextSteps, colorLightBlue)
	l = l.Advance(2)

	contactLines := []string{
		"Email: " + orDefault(c.p.OwnerEmail, fallbackEmail),
		"Phone: " + orDefault(c.p.OwnerPhone, fallbackPhone),
		"Brand: " + c.p.BrandName,
	}
	c.r.CalloutBox(l, contactHdr, contactLines, colorLightGray)

	c.r.Band(248, 26, colorPrimary)
	c.r.TextCentered(262, closingLine, TextStyle{Size: 14, Bold: true, Color: colorWhite})

	c.r.TextCentered(286, footerLine, styleCaption)
}
