package brochure

// Static template copy for the brochure. Everything in this file is fixed
// marketing text, deliberately separated from the data-binding in pages.go:
// wording changes here never touch layout logic.
//
// The differentiator and support lists are intentionally not derived from
// profile data — they are a generic pitch every brand gets.

const (
	coverBadge    = "FRANCHISE OPPORTUNITY"
	coverTagline  = "Partner with a brand that grows with you"
	footerLine    = "Generated by FranchiseHub — India's Franchise Marketplace"
	closingLine   = "Ready to own your future? Let's talk."
	highlightsHdr = "Why Franchise With Us"
	nextStepsHdr  = "Your Next Steps"
	contactHdr    = "Get In Touch"
)

// coverHighlights is the fixed 4-item callout on the cover page.
var coverHighlights = []string{
	"Proven, profitable business model",
	"Complete training and launch support",
	"Established brand with growing demand",
	"Dedicated franchise success team",
}

// differentiators is the fixed 5-item "what makes us different" list on the
// overview page.
var differentiators = []string{
	"A business model refined across real outlets, not theory",
	"Site selection and launch assistance from day one",
	"Marketing campaigns planned and funded centrally",
	"Transparent economics with no hidden charges",
	"A partner network that shares what works",
}

// supportCategory is one fixed support section with its item list.
type supportCategory struct {
	Name  string
	Items []string
}

// supportCategories are the four fixed support sections on page 4.
var supportCategories = []supportCategory{
	{
		Name: "Training",
		Items: []string{
			"Comprehensive onboarding program covering daily operations",
			"Staff hiring and training playbooks",
			"Refresher sessions when new products or processes launch",
		},
	},
	{
		Name: "Marketing",
		Items: []string{
			"National brand campaigns you benefit from automatically",
			"Launch marketing kit for your outlet opening",
			"Social media templates and local promotion guides",
		},
	},
	{
		Name: "Operations",
		Items: []string{
			"Standard operating procedures for every role",
			"Supply chain and vendor tie-ups at negotiated rates",
			"Regular audits and improvement visits",
		},
	},
	{
		Name: "Financial",
		Items: []string{
			"Unit economics model and break-even planning",
			"Assistance with franchise financing options",
			"Monthly performance review against network benchmarks",
		},
	},
}

// nextSteps is the fixed 5-step list on the contact page.
var nextSteps = []string{
	"1. Submit your enquiry through FranchiseHub",
	"2. Speak with the brand's franchise team",
	"3. Review the agreement and financials",
	"4. Finalize your location and sign",
	"5. Train, set up, and launch your outlet",
}

// Fallback strings: a missing profile field renders one of these, never a
// blank cell.
const (
	fallbackAmount       = "Contact for details"
	fallbackInvestment   = "Contact for Details"
	fallbackFounded      = "An established and growing brand"
	fallbackHeadquarters = "Operating across India"
	fallbackCategory     = "Franchise business"
	fallbackEmail        = "Available on request"
	fallbackPhone        = "Available on request"
)

// Investment table labels, in render order. The total row is always last
// and always highlighted.
const (
	labelFranchiseFee   = "Franchise Fee"
	labelEquipment      = "Equipment & Setup"
	labelMarketing      = "Initial Marketing"
	labelWorkingCapital = "Working Capital"
	labelTotal          = "Total Investment"
)
