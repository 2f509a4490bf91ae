package brochure

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/franchisehub/brochure-service/internal/asset"
	"github.com/franchisehub/brochure-service/internal/model"
)

// ErrGeneration wraps any unexpected failure inside layout or rendering.
// Asset failures are not generation failures — they degrade to placeholders.
var ErrGeneration = errors.New("brochure generation failed")

// PageCount is the fixed page count of the template.
const PageCount = 5

// Generator turns a BrandProfile into the finished PDF bytes. Given the same
// profile and the same remote asset bytes, the output is deterministic.
type Generator struct {
	assets *asset.Loader
	logger *zap.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(assets *asset.Loader, logger *zap.Logger) *Generator {
	return &Generator{assets: assets, logger: logger}
}

// Generate composes the full 5-page brochure. It either returns the complete
// document or an error — never partial output. The context is consulted
// before asset fetches; composition itself does not block.
func (g *Generator) Generate(ctx context.Context, profile *model.BrandProfile) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logo, hero := g.fetchAssets(ctx, profile)

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(profile.BrandName+" Franchise Brochure", true)
	doc.SetAuthor("FranchiseHub", true)

	r := NewRenderer(doc)
	c := &composer{r: r, p: profile, logo: logo, hero: hero}

	// Fixed page order; each composer owns exactly one page (plus page-break
	// continuations inside Support, which the fixed copy never triggers).
	c.cover()
	c.overview()
	c.investment()
	c.support()
	c.contact()

	out, err := r.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	g.logger.Info("brochure generated",
		zap.String("brand_id", profile.ID),
		zap.Int("pages", doc.PageCount()),
		zap.Int("bytes", len(out)),
		zap.Bool("logo", logo != nil),
		zap.Bool("hero", hero != nil),
	)
	return out, nil
}

// fetchAssets loads the logo and hero rasters concurrently — they occupy
// independent slots, so neither affects the other's layout. A nil result
// means the slot renders as a placeholder (or is skipped, for the optional
// logo).
func (g *Generator) fetchAssets(ctx context.Context, profile *model.BrandProfile) (logo, hero *asset.Image) {
	var wg sync.WaitGroup

	if profile.BrandLogo != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := g.assets.Fetch(ctx, profile.BrandLogo, logoSlotSize, logoSlotSize)
			if err == nil {
				logo = img
			}
		}()
	}

	if profile.BrandImage != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := g.assets.Fetch(ctx, profile.BrandImage, ContentWidth(), heroSlotH)
			if err == nil {
				hero = img
			}
		}()
	}

	wg.Wait()
	return logo, hero
}
