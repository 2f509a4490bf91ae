// Package brochure composes the fixed 5-page franchise brochure PDF from a
// BrandProfile. The pipeline is: Generator prefetches rasters, then runs the
// five page composers in order against one document, threading an explicit
// Layout cursor through every renderer call.
package brochure

// Page geometry in millimeters. A4 portrait.
const (
	PageWidth  = 210.0
	PageHeight = 297.0
	Margin     = 20.0

	// HeaderOffset is where the cursor lands after a page break: below the
	// band a section header occupies on a continued page.
	HeaderOffset = 30.0
)

// Layout is the drawing cursor for one generation pass: current page index
// (1-based) and the Y position on it. Renderer primitives take a Layout and
// return the advanced one; nothing mutates cursor state in place, which
// keeps the page composers independently testable.
type Layout struct {
	Page int
	Y    float64
}

// ContentWidth is the usable width between the side margins.
func ContentWidth() float64 {
	return PageWidth - 2*Margin
}

// BottomLimit is the Y the cursor must not pass without a page break.
func BottomLimit() float64 {
	return PageHeight - Margin
}

// Fits reports whether a block of the given height fits on the current page.
func (l Layout) Fits(height float64) bool {
	return l.Y+height <= BottomLimit()
}

// Advance returns the layout moved down by h.
func (l Layout) Advance(h float64) Layout {
	l.Y += h
	return l
}
