package brochure

import (
	"bytes"
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/franchisehub/brochure-service/internal/asset"
	"github.com/franchisehub/brochure-service/internal/model"
)

func newTestGenerator() *Generator {
	loader := asset.NewLoader(2*time.Second, zap.NewNop())
	return NewGenerator(loader, zap.NewNop())
}

// pdfPageCount counts page objects in the raw PDF bytes: "/Type /Page"
// occurrences minus the one "/Type /Pages" tree node.
func pdfPageCount(data []byte) int {
	return bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
}

func minimalProfile() *model.BrandProfile {
	return &model.BrandProfile{
		ID:        "brand-1",
		BrandName: "QuickBite",
		Category:  "Food & Beverage",
	}
}

func TestGenerate_FivePages(t *testing.T) {
	g := newTestGenerator()

	data, err := g.Generate(context.Background(), minimalProfile())
	if err != nil {
		t.Fatalf("generating: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected PDF output")
	}
	if got := pdfPageCount(data); got != PageCount {
		t.Errorf("expected %d pages, got %d", PageCount, got)
	}
}

func TestGenerate_FivePagesWithFullProfile(t *testing.T) {
	g := newTestGenerator()
	p := &model.BrandProfile{
		ID:              "brand-2",
		BrandName:       "QuickBite",
		Category:        "Food & Beverage",
		BrandStory:      "Started from a single street-side stall, QuickBite now serves thousands of customers daily across three states.",
		FoundedYear:     "2012",
		Headquarters:    "Pune, Maharashtra",
		InvestmentRange: "₹10L-₹50L",
		BusinessModels:  model.StringList{"FOFO", "FICO"},
		RevenueModel:    "Royalty of 6% on monthly gross sales after the first quarter.",
		ExpectedROI:     "18-24 months to break even",
		FranchiseFee:    "₹5L",
		EquipmentCost:   "₹12L",
		MarketingCost:   "₹2L",
		WorkingCapital:  "₹4L",
		OwnerEmail:      "franchise@quickbite.example",
		OwnerPhone:      "+91 98765 43210",
	}

	data, err := g.Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("generating: %v", err)
	}
	if got := pdfPageCount(data); got != PageCount {
		t.Errorf("expected %d pages, got %d", PageCount, got)
	}
}

func TestGenerate_UnreachableAssetsStillFivePages(t *testing.T) {
	g := newTestGenerator()
	p := minimalProfile()
	// Reserved TEST-NET-1 address: connection fails fast, loader degrades to
	// the placeholder path.
	p.BrandLogo = "http://192.0.2.1/logo.png"
	p.BrandImage = "http://192.0.2.1/hero.jpg"

	data, err := g.Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("expected generation to survive asset failures, got %v", err)
	}
	if got := pdfPageCount(data); got != PageCount {
		t.Errorf("expected %d pages, got %d", PageCount, got)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g := newTestGenerator()
	p := minimalProfile()

	a, err := g.Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("first generation: %v", err)
	}
	b, err := g.Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("second generation: %v", err)
	}

	// gofpdf embeds a creation timestamp; page counts and sizes must match
	// even if the byte streams differ by that field.
	if pdfPageCount(a) != pdfPageCount(b) {
		t.Error("page count differs between identical runs")
	}
	if len(a) != len(b) {
		t.Errorf("output size differs between identical runs: %d vs %d", len(a), len(b))
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	g := newTestGenerator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Generate(ctx, minimalProfile()); err == nil {
		t.Error("expected error on cancelled context")
	}
}

func TestTotalInvestment(t *testing.T) {
	tests := []struct {
		name    string
		profile model.BrandProfile
		want    string
	}{
		{
			name: "all components present",
			profile: model.BrandProfile{
				InvestmentRange: "₹10L-₹50L",
				FranchiseFee:    "₹5L", EquipmentCost: "₹12L",
				MarketingCost: "₹2L", WorkingCapital: "₹4L",
			},
			want: "₹10L-₹50L",
		},
		{
			name: "franchise fee absent",
			profile: model.BrandProfile{
				InvestmentRange: "₹10L-₹50L",
				EquipmentCost:   "₹12L", MarketingCost: "₹2L", WorkingCapital: "₹4L",
			},
			want: "Contact for details",
		},
		{
			name:    "nothing on file",
			profile: model.BrandProfile{},
			want:    "Contact for details",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &composer{p: &tt.profile}
			if got := c.totalInvestment(); got != tt.want {
				t.Errorf("totalInvestment() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvestmentRows_TotalAlwaysLastAndNeverBlank(t *testing.T) {
	c := &composer{p: &model.BrandProfile{BrandName: "QuickBite", Category: "Food & Beverage"}}

	rows := c.investmentRows()
	last := rows[len(rows)-1]
	if last.Label != "Total Investment" {
		t.Errorf("expected final row 'Total Investment', got %q", last.Label)
	}
	for _, row := range rows {
		if row.Value == "" {
			t.Errorf("row %q rendered blank; expected fallback copy", row.Label)
		}
	}
}
